package faults

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrArchive            = errors.New("archive error")
	ErrNoKML              = errors.New("no kml found")
	ErrNoImage            = errors.New("no image found")
	ErrMalformedKML       = errors.New("malformed kml")
	ErrMissingBoundingBox = errors.New("missing bounding box")
	ErrMissingImageRef    = errors.New("missing image reference")
	ErrInvalidCoordinate  = errors.New("invalid coordinate")
	ErrArchiveWrite       = errors.New("archive write error")
)

var kinds = []struct {
	marker error
	kind   string
}{
	{ErrArchive, "archive"},
	{ErrNoKML, "no_kml"},
	{ErrNoImage, "no_image"},
	{ErrMalformedKML, "malformed_kml"},
	{ErrMissingBoundingBox, "missing_bounding_box"},
	{ErrMissingImageRef, "missing_image_ref"},
	{ErrInvalidCoordinate, "invalid_coordinate"},
	{ErrArchiveWrite, "archive_write"},
}

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker. The marker should be one of the exported sentinel errors
// above; a nil marker falls back to ErrArchive.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrArchive
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Kind returns a stable snake_case classification for err. Errors carrying no
// known marker report "unknown"; a nil error reports "".
func Kind(err error) string {
	if err == nil {
		return ""
	}
	for _, k := range kinds {
		if errors.Is(err, k.marker) {
			return k.kind
		}
	}
	return "unknown"
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "overlay failure"
	}
	return strings.Join(parts, ": ")
}
