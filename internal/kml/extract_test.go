package kml_test

import (
	"errors"
	"strings"
	"testing"

	"kmzclean/internal/faults"
	"kmzclean/internal/kml"
)

const flatDoc = `<?xml version="1.0" encoding="UTF-8"?>
<kml xmlns="http://www.opengis.net/kml/2.2">
<Document>
  <name>Moose River</name>
  <GroundOverlay>
    <Icon><href>overlay.jpg</href></Icon>
    <LatLonBox><north>45.0</north><south>44.0</south><east>-70.0</east><west>-71.0</west></LatLonBox>
  </GroundOverlay>
</Document>
</kml>`

func TestExtractFlatDocument(t *testing.T) {
	overlay, err := kml.Extract([]byte(flatDoc))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	want := kml.Overlay{
		Name: "Moose River",
		Href: "overlay.jpg",
		Box:  kml.BoundingBox{North: 45, South: 44, East: -70, West: -71},
	}
	if overlay != want {
		t.Fatalf("unexpected overlay: got %+v want %+v", overlay, want)
	}
}

func TestExtractNestedThreeLevelsDeep(t *testing.T) {
	doc := `<kml xmlns="http://www.opengis.net/kml/2.2"><Document><Folder><NetworkLink>
  <Region><Lod><minLodPixels>128</minLodPixels></Lod></Region>
  <GroundOverlay>
    <Icon><href>files/tile.png</href></Icon>
    <LatLonBox>
      <north> 39.25 </north><south>39.125</south><east>-105.5</east><west>-105.625</west>
    </LatLonBox>
  </GroundOverlay>
</NetworkLink></Folder></Document></kml>`

	overlay, err := kml.Extract([]byte(doc))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if overlay.Box != (kml.BoundingBox{North: 39.25, South: 39.125, East: -105.5, West: -105.625}) {
		t.Fatalf("unexpected box: %+v", overlay.Box)
	}
	if overlay.Href != "files/tile.png" {
		t.Fatalf("unexpected href %q", overlay.Href)
	}
	if overlay.Name != "" {
		t.Fatalf("expected empty name, got %q", overlay.Name)
	}
}

func TestExtractPrefixedNamespace(t *testing.T) {
	doc := `<kml:kml xmlns:kml="http://www.opengis.net/kml/2.2"><kml:GroundOverlay>
  <kml:name>Prefixed</kml:name>
  <kml:Icon><kml:href>a.jpeg</kml:href></kml:Icon>
  <kml:LatLonBox><kml:north>1</kml:north><kml:south>0</kml:south><kml:east>1</kml:east><kml:west>0</kml:west></kml:LatLonBox>
</kml:GroundOverlay></kml:kml>`

	overlay, err := kml.Extract([]byte(doc))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if overlay.Name != "Prefixed" || overlay.Href != "a.jpeg" || overlay.Box.North != 1 {
		t.Fatalf("unexpected overlay: %+v", overlay)
	}
}

func TestExtractFallsBackToLatLonAltBox(t *testing.T) {
	doc := `<kml><Document><Region><LatLonAltBox>
  <north>10</north><south>5</south><east>20</east><west>15</west>
</LatLonAltBox></Region><GroundOverlay><Icon><href>x.png</href></Icon></GroundOverlay></Document></kml>`

	overlay, err := kml.Extract([]byte(doc))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if overlay.Box != (kml.BoundingBox{North: 10, South: 5, East: 20, West: 15}) {
		t.Fatalf("unexpected box: %+v", overlay.Box)
	}
}

func TestExtractPrefersLatLonBoxOverEarlierLatLonAltBox(t *testing.T) {
	doc := `<kml><Document>
  <Region><LatLonAltBox><north>80</north><south>-80</south><east>170</east><west>-170</west></LatLonAltBox></Region>
  <GroundOverlay><Icon><href>x.png</href></Icon>
    <LatLonBox><north>2</north><south>1</south><east>4</east><west>3</west></LatLonBox>
  </GroundOverlay>
</Document></kml>`

	overlay, err := kml.Extract([]byte(doc))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if overlay.Box.North != 2 {
		t.Fatalf("expected LatLonBox to win, got %+v", overlay.Box)
	}
}

// Multi-overlay documents keep only the first overlay in document order.
// Later overlays are silently dropped, which is wrong for inputs that really
// carry several images.
func TestExtractMultipleOverlaysTakesFirstInDocumentOrder(t *testing.T) {
	doc := `<kml><Document>
  <GroundOverlay><Icon><href>first.jpg</href></Icon>
    <LatLonBox><north>2</north><south>1</south><east>2</east><west>1</west></LatLonBox></GroundOverlay>
  <GroundOverlay><Icon><href>second.jpg</href></Icon>
    <LatLonBox><north>4</north><south>3</south><east>4</east><west>3</west></LatLonBox></GroundOverlay>
</Document></kml>`

	overlay, err := kml.Extract([]byte(doc))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if overlay.Href != "first.jpg" || overlay.Box.North != 2 {
		t.Fatalf("expected first overlay, got %+v", overlay)
	}
}

func TestExtractIgnoresStyleIconsWhenGroundOverlayExists(t *testing.T) {
	doc := `<kml><Document>
  <Style><IconStyle><Icon><href>pin.png</href></Icon></IconStyle></Style>
  <GroundOverlay><Icon><href>map.jpg</href></Icon>
    <LatLonBox><north>2</north><south>1</south><east>2</east><west>1</west></LatLonBox></GroundOverlay>
</Document></kml>`

	overlay, err := kml.Extract([]byte(doc))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if overlay.Href != "map.jpg" {
		t.Fatalf("expected GroundOverlay href, got %q", overlay.Href)
	}
}

func TestExtractSkipsOverlayWithoutIcon(t *testing.T) {
	doc := `<kml><Document>
  <GroundOverlay><color>7f00ff00</color>
    <LatLonBox><north>2</north><south>1</south><east>2</east><west>1</west></LatLonBox></GroundOverlay>
  <GroundOverlay><Icon><href>overlay.jpg</href></Icon>
    <LatLonBox><north>4</north><south>3</south><east>4</east><west>3</west></LatLonBox></GroundOverlay>
</Document></kml>`

	overlay, err := kml.Extract([]byte(doc))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if overlay.Href != "overlay.jpg" {
		t.Fatalf("expected later Icon/href, got %q", overlay.Href)
	}
}

func TestExtractErrors(t *testing.T) {
	cases := []struct {
		name   string
		doc    string
		marker error
		detail string
	}{
		{"not xml", "this is not xml", faults.ErrMalformedKML, ""},
		{"unclosed", "<kml><Document>", faults.ErrMalformedKML, ""},
		{"empty", "", faults.ErrMalformedKML, "no root"},
		{"no box", `<kml><GroundOverlay><Icon><href>a.jpg</href></Icon></GroundOverlay></kml>`, faults.ErrMissingBoundingBox, ""},
		{"no href", `<kml><LatLonBox><north>2</north><south>1</south><east>2</east><west>1</west></LatLonBox></kml>`, faults.ErrMissingImageRef, ""},
		{"empty href", `<kml><Icon><href> </href></Icon><LatLonBox><north>2</north><south>1</south><east>2</east><west>1</west></LatLonBox></kml>`, faults.ErrMissingImageRef, ""},
		{"missing west", `<kml><Icon><href>a.jpg</href></Icon><LatLonBox><north>2</north><south>1</south><east>2</east></LatLonBox></kml>`, faults.ErrInvalidCoordinate, "missing west"},
		{"garbage north", `<kml><Icon><href>a.jpg</href></Icon><LatLonBox><north>forty</north><south>1</south><east>2</east><west>1</west></LatLonBox></kml>`, faults.ErrInvalidCoordinate, `north "forty"`},
		{"nan", `<kml><Icon><href>a.jpg</href></Icon><LatLonBox><north>NaN</north><south>1</south><east>2</east><west>1</west></LatLonBox></kml>`, faults.ErrInvalidCoordinate, "out of range"},
		{"latitude range", `<kml><Icon><href>a.jpg</href></Icon><LatLonBox><north>91</north><south>1</south><east>2</east><west>1</west></LatLonBox></kml>`, faults.ErrInvalidCoordinate, "out of range"},
		{"inverted", `<kml><Icon><href>a.jpg</href></Icon><LatLonBox><north>1</north><south>2</south><east>2</east><west>1</west></LatLonBox></kml>`, faults.ErrInvalidCoordinate, "greater than south"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := kml.Extract([]byte(tc.doc))
			if !errors.Is(err, tc.marker) {
				t.Fatalf("expected %v, got %v", tc.marker, err)
			}
			if tc.detail != "" && !strings.Contains(err.Error(), tc.detail) {
				t.Fatalf("expected %q in %q", tc.detail, err.Error())
			}
		})
	}
}

func TestExtractAcceptsAntimeridianCrossing(t *testing.T) {
	doc := `<kml><Icon><href>a.jpg</href></Icon><LatLonBox><north>2</north><south>1</south><east>-179</east><west>179</west></LatLonBox></kml>`
	overlay, err := kml.Extract([]byte(doc))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if overlay.Box.East != -179 || overlay.Box.West != 179 {
		t.Fatalf("unexpected box %+v", overlay.Box)
	}
}
