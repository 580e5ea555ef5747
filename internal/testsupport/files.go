package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteFile writes data to path, creating parent directories.
func WriteFile(t testing.TB, path string, data []byte) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// ImageBytes returns size bytes that start with a JPEG signature followed by a
// repeating pattern. A size below the signature length still gets the signature.
func ImageBytes(size int) []byte {
	signature := []byte{0xFF, 0xD8, 0xFF, 0xE0}
	if size < len(signature) {
		size = len(signature)
	}
	buf := make([]byte, size)
	copy(buf, signature)
	for i := len(signature); i < size; i++ {
		buf[i] = byte(i % 251)
	}
	return buf
}

// ListDir returns the names of entries in dir, failing the test on error.
func ListDir(t testing.TB, dir string) []string {
	t.Helper()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir %s: %v", dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	return names
}
