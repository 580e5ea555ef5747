// Package faults defines the error taxonomy shared by the archive, KML, and
// batch packages.
//
// Each stage tags its failures with one of the exported sentinel markers via
// Wrap so the batch driver can classify a failure (Kind) and still surface the
// underlying cause in the processing log. Match markers with errors.Is.
package faults
