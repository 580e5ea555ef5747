package kml

import (
	"bytes"
	"strings"

	gokml "github.com/twpayne/go-kml"

	"kmzclean/internal/faults"
)

// Fixed level-of-detail bounds: visible from the first pixel with no upper
// limit. Mobile viewers cull overlays with tighter Lod ranges.
const (
	minLodPixels = 0
	maxLodPixels = -1
)

// RenderOptions carries the values that do not come from the source document.
type RenderOptions struct {
	// OverlayName names the GroundOverlay element.
	OverlayName string
	// DrawOrder is written verbatim into <drawOrder>.
	DrawOrder int
	// FallbackName names the Folder when the source document has no <name>.
	FallbackName string
}

// Render builds the canonical document for o.
func Render(o Overlay, opts RenderOptions) ([]byte, error) {
	folderName := strings.TrimSpace(o.Name)
	if folderName == "" {
		folderName = strings.TrimSpace(opts.FallbackName)
	}
	overlayName := strings.TrimSpace(opts.OverlayName)
	if overlayName == "" {
		overlayName = folderName
	}

	doc := gokml.KML(
		gokml.Folder(
			gokml.Name(folderName),
			gokml.GroundOverlay(
				gokml.Name(overlayName),
				gokml.DrawOrder(opts.DrawOrder),
				gokml.Icon(
					gokml.Href(o.Href),
				),
				gokml.LatLonBox(
					gokml.North(o.Box.North),
					gokml.South(o.Box.South),
					gokml.East(o.Box.East),
					gokml.West(o.Box.West),
				),
				gokml.LOD(
					gokml.MinLODPixels(minLodPixels),
					gokml.MaxLODPixels(maxLodPixels),
				),
			),
		),
	)

	var buf bytes.Buffer
	if err := doc.WriteIndent(&buf, "", "  "); err != nil {
		return nil, faults.Wrap(faults.ErrMalformedKML, "synthesize", "encode kml", folderName, err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
