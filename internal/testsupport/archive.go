package testsupport

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"testing"
)

// Entry is one member of a fixture archive.
type Entry struct {
	Name string
	Data []byte
}

// ZipBytes builds an in-memory zip containing entries in order.
func ZipBytes(t testing.TB, entries ...Entry) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, entry := range entries {
		w, err := zw.Create(entry.Name)
		if err != nil {
			t.Fatalf("zip create %s: %v", entry.Name, err)
		}
		if _, err := w.Write(entry.Data); err != nil {
			t.Fatalf("zip write %s: %v", entry.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	return buf.Bytes()
}

// WriteArchive writes a zip fixture to path.
func WriteArchive(t testing.TB, path string, entries ...Entry) {
	t.Helper()
	WriteFile(t, path, ZipBytes(t, entries...))
}

// ReadArchive returns the members of the zip at path in archive order.
func ReadArchive(t testing.TB, path string) []Entry {
	t.Helper()

	zr, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("open zip %s: %v", path, err)
	}
	defer zr.Close()

	entries := make([]Entry, 0, len(zr.File))
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open member %s: %v", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("read member %s: %v", f.Name, err)
		}
		entries = append(entries, Entry{Name: f.Name, Data: data})
	}
	return entries
}

// SampleKML returns a desktop-style document that nests its GroundOverlay under
// Document/Folder/NetworkLink with a Region, the shape mobile viewers reject.
func SampleKML(name, href string, north, south, east, west float64) []byte {
	return []byte(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<kml xmlns="http://www.opengis.net/kml/2.2">
<Document>
  <name>%s</name>
  <Folder>
    <NetworkLink>
      <Region>
        <LatLonAltBox><north>%g</north><south>%g</south><east>%g</east><west>%g</west></LatLonAltBox>
        <Lod><minLodPixels>128</minLodPixels><maxLodPixels>-1</maxLodPixels></Lod>
      </Region>
      <GroundOverlay>
        <Icon><href>%s</href></Icon>
        <LatLonBox><north>%g</north><south>%g</south><east>%g</east><west>%g</west></LatLonBox>
      </GroundOverlay>
    </NetworkLink>
  </Folder>
</Document>
</kml>
`, name, north, south, east, west, href, north, south, east, west))
}
