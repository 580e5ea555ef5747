// Package logging assembles structured slog loggers and formatting helpers used
// across kmzclean.
//
// It owns the configurable console/JSON handlers and exposes component and
// field helpers so batch code tags diagnostic lines with the run ID and the
// archive being processed. The package also provides a no-op logger for tests
// and wiring code that cannot fail.
//
// Diagnostic logging is separate from the processing log kept by package
// processlog: nothing here is part of the batch's user-visible record.
package logging
