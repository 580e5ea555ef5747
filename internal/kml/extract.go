package kml

import (
	"fmt"
	"math"
	"strconv"

	"kmzclean/internal/faults"
)

// BoundingBox is an overlay's geographic extent in degrees.
type BoundingBox struct {
	North float64
	South float64
	East  float64
	West  float64
}

// Overlay holds everything the canonical document needs from a source document.
type Overlay struct {
	// Name is the first <name> in document order; empty when the document has none.
	Name string
	Box  BoundingBox
	Href string
}

// Extract reads the overlay's bounding box, image reference, and name from a
// KML document.
func Extract(data []byte) (Overlay, error) {
	root, err := Parse(data)
	if err != nil {
		return Overlay{}, err
	}
	return ExtractTree(root)
}

// ExtractTree is Extract for an already parsed document.
func ExtractTree(root *Node) (Overlay, error) {
	box, err := findBoundingBox(root)
	if err != nil {
		return Overlay{}, err
	}
	href, err := findImageRef(root)
	if err != nil {
		return Overlay{}, err
	}
	var name string
	if n := Find(root, Named("name"), MaxDepth); n != nil {
		name = n.Text
	}
	return Overlay{Name: name, Box: box, Href: href}, nil
}

// findBoundingBox prefers the first LatLonBox anywhere in the document and
// falls back to the first LatLonAltBox (a Region extent) only when no
// LatLonBox exists.
func findBoundingBox(root *Node) (BoundingBox, error) {
	node := Find(root, Named("LatLonBox"), MaxDepth)
	if node == nil {
		node = Find(root, Named("LatLonAltBox"), MaxDepth)
	}
	if node == nil {
		return BoundingBox{}, faults.Wrap(faults.ErrMissingBoundingBox, "parse", "find LatLonBox", "no LatLonBox or LatLonAltBox element", nil)
	}

	var box BoundingBox
	fields := []struct {
		name   string
		target *float64
		limit  float64
	}{
		{"north", &box.North, 90},
		{"south", &box.South, 90},
		{"east", &box.East, 180},
		{"west", &box.West, 180},
	}
	for _, f := range fields {
		value, err := coordinate(node, f.name, f.limit)
		if err != nil {
			return BoundingBox{}, err
		}
		*f.target = value
	}
	if box.North <= box.South {
		return BoundingBox{}, faults.Wrap(faults.ErrInvalidCoordinate, "parse", node.Name,
			fmt.Sprintf("north %s must be greater than south %s", FormatDegrees(box.North), FormatDegrees(box.South)), nil)
	}
	return box, nil
}

func coordinate(box *Node, name string, limit float64) (float64, error) {
	child := box.Child(name)
	if child == nil || child.Text == "" {
		return 0, faults.Wrap(faults.ErrInvalidCoordinate, "parse", box.Name, "missing "+name, nil)
	}
	value, err := strconv.ParseFloat(child.Text, 64)
	if err != nil {
		return 0, faults.Wrap(faults.ErrInvalidCoordinate, "parse", box.Name, fmt.Sprintf("%s %q", name, child.Text), err)
	}
	if math.IsNaN(value) || math.IsInf(value, 0) || math.Abs(value) > limit {
		return 0, faults.Wrap(faults.ErrInvalidCoordinate, "parse", box.Name, fmt.Sprintf("%s %q out of range", name, child.Text), nil)
	}
	return value, nil
}

// findImageRef returns the Icon/href of the first GroundOverlay. When that
// overlay has none, or there is no GroundOverlay, the first Icon/href anywhere
// in the document is used.
func findImageRef(root *Node) (string, error) {
	iconHref := func(n *Node) bool {
		if n.Name != "Icon" {
			return false
		}
		href := n.Child("href")
		return href != nil && href.Text != ""
	}
	if scope := Find(root, Named("GroundOverlay"), MaxDepth); scope != nil {
		if icon := Find(scope, iconHref, MaxDepth); icon != nil {
			return icon.Child("href").Text, nil
		}
	}
	if icon := Find(root, iconHref, MaxDepth); icon != nil {
		return icon.Child("href").Text, nil
	}
	return "", faults.Wrap(faults.ErrMissingImageRef, "parse", "find Icon/href", "no image reference", nil)
}

// FormatDegrees renders a coordinate with the shortest decimal form that
// round-trips, never in exponent notation.
func FormatDegrees(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
