package batch

import (
	"path/filepath"
	"time"

	"kmzclean/internal/kml"
)

// State is a file's position in the conversion pipeline.
type State string

const (
	StateDiscovered  State = "discovered"
	StateExtracted   State = "extracted"
	StateParsed      State = "parsed"
	StateSynthesized State = "synthesized"
	StateWritten     State = "written"
	StateLogged      State = "logged"
	StateFailed      State = "failed"
)

// Result describes how one input fared.
type Result struct {
	Source string
	// Member names the nested .kmz inside Source, when the input was a wrapper.
	Member string
	// Output is set only once the archive has been written.
	Output string
	State  State
	// FailedAt is the last state reached before the failure.
	FailedAt State
	Err      error
	Overlay  *kml.Overlay
	Duration time.Duration
}

// Succeeded reports whether the file was converted.
func (r Result) Succeeded() bool {
	return r.State != StateFailed && r.Err == nil
}

// Label names the input for display. Documents read from a wrapper archive
// carry the nested member after the archive's base name.
func (r Result) Label() string {
	name := filepath.Base(r.Source)
	if r.Member != "" {
		name += "/" + r.Member
	}
	return name
}

// Summary aggregates one run.
type Summary struct {
	RunID     string
	Results   []Result
	Succeeded int
	Failed    int
}

func (s *Summary) add(r Result) {
	s.Results = append(s.Results, r)
	if r.Succeeded() {
		s.Succeeded++
	} else {
		s.Failed++
	}
}
