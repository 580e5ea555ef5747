package preflight

import (
	"errors"
	"fmt"

	"kmzclean/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// ErrFailed marks the error returned by Err when a check did not pass.
var ErrFailed = errors.New("preflight failed")

// RunAll executes the directory checks for cfg. Directories are expected to
// exist already; see config.EnsureDirectories.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryReadable("Work directory", cfg.Paths.WorkDir),
		CheckDirectoryAccess("Output directory", cfg.Paths.OutputDir),
	}
	if cfg.Paths.TempDir != "" {
		results = append(results, CheckDirectoryAccess("Temp directory", cfg.Paths.TempDir))
	}
	return results
}

// Err folds failed results into a single error, or returns nil when all passed.
func Err(results []Result) error {
	var errs []error
	for _, r := range results {
		if !r.Passed {
			errs = append(errs, fmt.Errorf("%w: %s: %s", ErrFailed, r.Name, r.Detail))
		}
	}
	return errors.Join(errs...)
}
