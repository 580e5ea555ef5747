// Package preflight provides filesystem readiness checks that run before a
// batch touches any input.
//
// The batch driver calls RunAll once per run after creating the output
// directory. If any check fails the batch stops before the processing log is
// opened, so an unwritable destination never produces a half-written log.
package preflight
