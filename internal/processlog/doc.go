// Package processlog writes the per-file processing log that sits beside the
// converted archives.
//
// Each processed input produces exactly one line, either "<file> - success" or
// "<file> - failed: <message>". The log is opened in append mode so earlier
// runs stay visible, and a lock file in the same directory keeps a second
// concurrent run from interleaving lines or clobbering outputs.
package processlog
