// Package kmz reads overlay archives and writes their normalized replacements.
//
// Open accepts any zip container (.kmz or .zip), locates the KML document and
// the raster images, and unwraps one level of nested .kmz when the outer
// container only carries a KMZ. Member names are cleaned on read so they can
// never escape an extraction directory or an output archive.
//
// Write produces an archive holding exactly doc.kml followed by one image.
// Outputs are replaced atomically; an existing file at the destination is
// overwritten on purpose, since re-running a batch must refresh stale outputs.
package kmz
