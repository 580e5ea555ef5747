package history

import "time"

// Outcome is the final disposition of one processed file.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailed  Outcome = "failed"
)

// Record is one row of the ledger.
type Record struct {
	ID      int64
	RunID   string
	Source  string
	Output  string
	Outcome Outcome
	// Kind is the faults classification of a failure; empty on success.
	Kind    string
	Message string
	// HasBox reports whether North..West hold an extracted bounding box.
	HasBox      bool
	North       float64
	South       float64
	East        float64
	West        float64
	ProcessedAt time.Time
}
