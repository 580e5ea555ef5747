package kmz

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"kmzclean/internal/faults"
)

// DocName is the conventional name of the root KML document in a KMZ.
const DocName = "doc.kml"

// MaxMemberSize caps how much of a single member is read into memory.
const MaxMemberSize = 64 << 20

var rasterExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
}

// Member is a named archive member held in memory.
type Member struct {
	Name string
	Data []byte
}

// Source is the readable content of one KML document and its rasters.
type Source struct {
	Path string
	KML  Member
	// Images lists raster members in archive order; never empty.
	Images []Member
	// Nested names the inner .kmz member this source was read from, if any.
	Nested string
}

// Part is one convertible document found in an input archive. Exactly one of
// Source and Err is set.
type Part struct {
	// Member is the nested .kmz member name; empty for a top-level document.
	Member string
	Source *Source
	Err    error
}

// Extracted records where Extract placed the members.
type Extracted struct {
	KMLPath string
	// ImagePaths maps raster member names to their extracted location.
	ImagePaths map[string]string
}

// OpenAll reads the archive at path. An archive with a KML document of its
// own yields a single part. A wrapper with no KML yields one part per nested
// .kmz member in archive order, and a nested member that cannot be read
// carries its error so the rest still convert.
func OpenAll(path string) ([]Part, error) {
	// Member names are sanitized below, so insecure paths are not fatal.
	zr, err := zip.OpenReader(path)
	if err != nil && !errors.Is(err, zip.ErrInsecurePath) {
		return nil, faults.Wrap(faults.ErrArchive, "extract", "open zip", filepath.Base(path), err)
	}
	defer zr.Close()

	c := scan(&zr.Reader)
	if c.kml != nil || len(c.nested) == 0 {
		src, err := c.source()
		if err != nil {
			return nil, err
		}
		src.Path = path
		return []Part{{Source: src}}, nil
	}

	parts := make([]Part, 0, len(c.nested))
	for _, f := range c.nested {
		part := Part{Member: safeMemberName(f.Name)}
		part.Source, part.Err = openNested(f)
		if part.Source != nil {
			part.Source.Path = path
		}
		parts = append(parts, part)
	}
	return parts, nil
}

// IsRaster reports whether name carries a supported raster extension.
func IsRaster(name string) bool {
	_, ok := rasterExtensions[strings.ToLower(path.Ext(name))]
	return ok
}

type container struct {
	kml    *zip.File
	images []*zip.File
	nested []*zip.File
}

// scan picks the KML document: doc.kml at the archive root, then a doc.kml in
// any folder, then the first .kml member.
func scan(zr *zip.Reader) container {
	var c container
	var rootDoc, anyDoc, firstKML *zip.File
	for _, f := range zr.File {
		name := safeMemberName(f.Name)
		if name == "" || f.FileInfo().IsDir() || strings.HasPrefix(name, "__MACOSX/") {
			continue
		}
		base := strings.ToLower(path.Base(name))
		switch ext := path.Ext(base); {
		case strings.EqualFold(name, DocName):
			if rootDoc == nil {
				rootDoc = f
			}
		case base == DocName:
			if anyDoc == nil {
				anyDoc = f
			}
		case ext == ".kml":
			if firstKML == nil {
				firstKML = f
			}
		case ext == ".kmz":
			c.nested = append(c.nested, f)
		case IsRaster(base):
			c.images = append(c.images, f)
		}
	}
	for _, f := range []*zip.File{rootDoc, anyDoc, firstKML} {
		if f != nil {
			c.kml = f
			break
		}
	}
	return c
}

func (c container) source() (*Source, error) {
	if c.kml == nil {
		return nil, faults.Wrap(faults.ErrNoKML, "extract", "locate kml", "archive has no .kml member", nil)
	}
	if len(c.images) == 0 {
		return nil, faults.Wrap(faults.ErrNoImage, "extract", "locate image", "archive has no .jpg, .jpeg, or .png member", nil)
	}

	doc, err := readMember(c.kml)
	if err != nil {
		return nil, err
	}
	src := &Source{KML: doc, Images: make([]Member, 0, len(c.images))}
	for _, f := range c.images {
		m, err := readMember(f)
		if err != nil {
			return nil, err
		}
		src.Images = append(src.Images, m)
	}
	return src, nil
}

// openNested reads one inner .kmz. Its own nested members are not followed.
func openNested(f *zip.File) (*Source, error) {
	inner, err := readMember(f)
	if err != nil {
		return nil, err
	}
	zr, err := zip.NewReader(bytes.NewReader(inner.Data), int64(len(inner.Data)))
	if err != nil && !errors.Is(err, zip.ErrInsecurePath) {
		return nil, faults.Wrap(faults.ErrArchive, "extract", "open nested kmz", inner.Name, err)
	}
	src, err := scan(zr).source()
	if err != nil {
		return nil, err
	}
	src.Nested = inner.Name
	return src, nil
}

func readMember(f *zip.File) (Member, error) {
	name := safeMemberName(f.Name)
	if f.UncompressedSize64 > MaxMemberSize {
		return Member{}, faults.Wrap(faults.ErrArchive, "extract", "read member",
			fmt.Sprintf("%s exceeds %d bytes", name, MaxMemberSize), nil)
	}
	rc, err := f.Open()
	if err != nil {
		return Member{}, faults.Wrap(faults.ErrArchive, "extract", "open member", name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, MaxMemberSize+1))
	if err != nil {
		return Member{}, faults.Wrap(faults.ErrArchive, "extract", "read member", name, err)
	}
	if len(data) > MaxMemberSize {
		return Member{}, faults.Wrap(faults.ErrArchive, "extract", "read member",
			fmt.Sprintf("%s exceeds %d bytes", name, MaxMemberSize), nil)
	}
	return Member{Name: name, Data: data}, nil
}

// Image picks the raster member an overlay refers to. An href naming a member
// exactly (after cleaning) wins, then a member with the same base name, then
// the first raster member in archive order.
func (s *Source) Image(href string) Member {
	candidates := hrefCandidates(href)
	for _, want := range candidates {
		for _, m := range s.Images {
			if m.Name == want {
				return m
			}
		}
	}
	for _, want := range candidates {
		for _, m := range s.Images {
			if path.Base(m.Name) == path.Base(want) {
				return m
			}
		}
	}
	return s.Images[0]
}

func hrefCandidates(href string) []string {
	cleaned := safeMemberName(strings.TrimSpace(href))
	if cleaned == "" {
		return nil
	}
	out := []string{cleaned}
	if unescaped, err := url.PathUnescape(cleaned); err == nil && unescaped != cleaned {
		out = append(out, safeMemberName(unescaped))
	}
	return out
}

// Extract writes the KML document and every raster member into dir, which
// must exist. Members keep their sanitized relative paths, so nothing lands
// outside dir.
func (s *Source) Extract(dir string) (Extracted, error) {
	kmlPath, err := writeMember(dir, s.KML)
	if err != nil {
		return Extracted{}, err
	}
	out := Extracted{KMLPath: kmlPath, ImagePaths: make(map[string]string, len(s.Images))}
	for _, m := range s.Images {
		p, err := writeMember(dir, m)
		if err != nil {
			return Extracted{}, err
		}
		out.ImagePaths[m.Name] = p
	}
	return out, nil
}

func writeMember(dir string, m Member) (string, error) {
	name := safeMemberName(m.Name)
	if name == "" {
		return "", faults.Wrap(faults.ErrArchive, "extract", "write member", "empty member name", nil)
	}
	dest := filepath.Join(dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(dest), 0o700); err != nil {
		return "", faults.Wrap(faults.ErrArchive, "extract", "write member", name, err)
	}
	if err := os.WriteFile(dest, m.Data, 0o600); err != nil {
		return "", faults.Wrap(faults.ErrArchive, "extract", "write member", name, err)
	}
	return dest, nil
}

// safeMemberName normalizes separators and resolves dot segments against the
// archive root, so "../../x.jpg" becomes "x.jpg". Returns "" for the root.
func safeMemberName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	cleaned := path.Clean("/" + name)
	return strings.TrimPrefix(cleaned, "/")
}
