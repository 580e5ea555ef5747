// Package batch drives a conversion run over every archive in the work
// directory.
//
// Each input moves through discovered, extracted, parsed, synthesized,
// written, and logged in order. Any stage error moves the file to the
// absorbing failed state; the failure is written to the processing log and
// the batch continues with the next file. Run itself only returns an error
// for conditions that make the whole batch impossible, such as an unwritable
// output directory or another run holding the lock.
package batch
