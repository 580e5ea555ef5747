package kmz

import (
	"archive/zip"
	"os"
	"path/filepath"
	"time"

	"kmzclean/internal/faults"
)

// memberModified is stamped on every written member so identical inputs yield
// byte-identical archives.
var memberModified = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// Write creates the archive at dest holding kmlDoc as doc.kml followed by image.
// The archive is assembled in a temp file beside dest and renamed into place,
// replacing any existing file.
func Write(dest string, kmlDoc []byte, image Member) (err error) {
	name := safeMemberName(image.Name)
	if name == "" || !IsRaster(name) {
		return faults.Wrap(faults.ErrArchiveWrite, "write", "add image", "invalid image member name "+image.Name, nil)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), ".kmzclean-*.tmp")
	if err != nil {
		return faults.Wrap(faults.ErrArchiveWrite, "write", "create temp file", filepath.Dir(dest), err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	zw := zip.NewWriter(tmp)
	if err = addMember(zw, DocName, zip.Deflate, kmlDoc); err != nil {
		return err
	}
	// Rasters are already compressed.
	if err = addMember(zw, name, zip.Store, image.Data); err != nil {
		return err
	}
	if err = zw.Close(); err != nil {
		return faults.Wrap(faults.ErrArchiveWrite, "write", "finalize zip", filepath.Base(dest), err)
	}
	if err = tmp.Sync(); err != nil {
		return faults.Wrap(faults.ErrArchiveWrite, "write", "sync", filepath.Base(dest), err)
	}
	if err = tmp.Close(); err != nil {
		return faults.Wrap(faults.ErrArchiveWrite, "write", "close", filepath.Base(dest), err)
	}
	if err = os.Chmod(tmpPath, 0o644); err != nil {
		return faults.Wrap(faults.ErrArchiveWrite, "write", "chmod", filepath.Base(dest), err)
	}
	if err = os.Rename(tmpPath, dest); err != nil {
		return faults.Wrap(faults.ErrArchiveWrite, "write", "rename into place", dest, err)
	}
	return nil
}

func addMember(zw *zip.Writer, name string, method uint16, data []byte) error {
	w, err := zw.CreateHeader(&zip.FileHeader{
		Name:     name,
		Method:   method,
		Modified: memberModified,
	})
	if err != nil {
		return faults.Wrap(faults.ErrArchiveWrite, "write", "add member", name, err)
	}
	if _, err := w.Write(data); err != nil {
		return faults.Wrap(faults.ErrArchiveWrite, "write", "add member", name, err)
	}
	return nil
}
