package audit

import (
	"context"
	"time"
)

// Run is one invocation of the migration pipeline.
type Run struct {
	// ID is a UUID assigned when the run begins.
	ID string `json:"id"`

	// StartedAt and FinishedAt bound the run. FinishedAt is zero while
	// the run is in flight.
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at,omitzero"`

	// SourcePath, FragmentDir, and Prefix echo the run's configuration.
	SourcePath  string `json:"source_path"`
	FragmentDir string `json:"fragment_dir"`
	Prefix      string `json:"prefix"`

	// TestMode and RemoveAfterMove echo the run's flags.
	TestMode        bool `json:"test_mode"`
	RemoveAfterMove bool `json:"remove_after_move"`

	// Decisions is the number of decision records for the run, set when
	// the run finishes.
	Decisions int `json:"decisions"`
}

// Decision is one persisted per-line decision.
type Decision struct {
	// ID is a UUID assigned at recording time.
	ID string `json:"id"`

	// RunID links the decision to its run.
	RunID string `json:"run_id"`

	// Line is the 1-based line number in the source file.
	Line int `json:"line"`

	// Principal and IsGroup identify the rule's subject.
	Principal string `json:"principal"`
	IsGroup   bool   `json:"is_group"`

	// Outcome is the terminal state the line reached (pipeline outcome
	// string, e.g. "created", "skipped-duplicate").
	Outcome string `json:"outcome"`

	// Fragment is the derived fragment path, when one was derived.
	Fragment string `json:"fragment,omitempty"`

	// Reason carries supporting detail for skips and failures.
	Reason string `json:"reason,omitempty"`

	// RecordedAt is when the decision was persisted.
	RecordedAt time.Time `json:"recorded_at"`
}

// Query filters decision records.
type Query struct {
	// RunID restricts results to one run. Empty matches all runs.
	RunID string

	// Principal restricts results to one principal (exact, marker
	// included). Empty matches all principals.
	Principal string

	// Outcome restricts results to one outcome. Empty matches all.
	Outcome string

	// Limit caps the number of results. Zero means no cap.
	Limit int
}

// Storage persists migration runs and decisions. Implementations must be
// safe for use from a single goroutine; Ganymede never writes concurrently.
type Storage interface {
	// StoreRun persists a new run record.
	StoreRun(ctx context.Context, run *Run) error

	// FinishRun marks a run finished and records its decision count.
	FinishRun(ctx context.Context, id string, finishedAt time.Time, decisions int) error

	// StoreDecision persists one decision record.
	StoreDecision(ctx context.Context, d *Decision) error

	// Runs returns runs in reverse start order, capped at limit
	// (zero means no cap).
	Runs(ctx context.Context, limit int) ([]*Run, error)

	// Decisions returns decision records matching the query, in run and
	// line order.
	Decisions(ctx context.Context, q *Query) ([]*Decision, error)

	// DeleteRunsBefore deletes runs started before cutoff, along with
	// their decisions, returning the number of runs deleted.
	DeleteRunsBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// Close releases storage resources.
	Close() error
}
