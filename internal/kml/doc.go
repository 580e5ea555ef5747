// Package kml extracts overlay geometry from arbitrarily structured KML
// documents and renders the canonical mobile-friendly replacement.
//
// Extraction works on an explicit element tree (Parse) searched with a
// depth-bounded, pre-order, first-match walk (Find). Element names are
// compared by local name only, so prefixed and default-namespace documents
// behave identically. When a document carries several overlays, the first in
// document order wins and the rest are ignored.
//
// Render emits exactly one Folder holding one GroundOverlay with a LatLonBox
// and a fixed Lod. The output depends only on its inputs, so repeated runs
// produce byte-identical documents.
package kml
