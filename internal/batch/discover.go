package batch

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

var inputExtensions = map[string]struct{}{
	".kmz": {},
	".zip": {},
}

// Discover returns the regular .kmz and .zip files directly inside dir,
// sorted by name. Extensions match case-insensitively.
func Discover(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read work directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		if _, ok := inputExtensions[strings.ToLower(filepath.Ext(entry.Name()))]; !ok {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// OutputPath maps an input archive to its converted location in outputDir.
func OutputPath(outputDir, source string) string {
	base := filepath.Base(source)
	return filepath.Join(outputDir, strings.TrimSuffix(base, filepath.Ext(base))+".kmz")
}

// NestedOutputPath names the output for one of several .kmz members inside a
// wrapper archive: "<archive stem>_<member stem>.kmz".
func NestedOutputPath(outputDir, source, member string) string {
	outer := filepath.Base(source)
	inner := path.Base(member)
	return filepath.Join(outputDir,
		strings.TrimSuffix(outer, filepath.Ext(outer))+"_"+strings.TrimSuffix(inner, path.Ext(inner))+".kmz")
}
