package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"mercator-hq/ganymede/pkg/pipeline"
)

// Recorder persists pipeline decisions to audit storage as they are
// reported. It implements pipeline.Reporter.
//
// Recording is best-effort: storage failures are logged and counted but
// never propagated, so a broken audit database cannot abort a migration.
type Recorder struct {
	storage Storage
	logger  *slog.Logger

	run      *Run
	ctx      context.Context
	recorded int
	failed   int
}

// NewRecorder creates a recorder over the given storage backend.
func NewRecorder(storage Storage, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{
		storage: storage,
		logger:  logger.With("component", "audit.recorder"),
	}
}

// Begin opens a run record for a pipeline invocation. The context is
// retained for the per-decision writes that follow.
func (r *Recorder) Begin(ctx context.Context, cfg pipeline.Config) error {
	run := &Run{
		ID:              uuid.NewString(),
		StartedAt:       time.Now().UTC(),
		SourcePath:      cfg.SourcePath,
		FragmentDir:     cfg.FragmentDir,
		Prefix:          cfg.Prefix,
		TestMode:        cfg.TestMode,
		RemoveAfterMove: cfg.RemoveAfterMove,
	}
	if err := r.storage.StoreRun(ctx, run); err != nil {
		return err
	}
	r.run = run
	r.ctx = ctx
	return nil
}

// RunID returns the current run's ID, or "" before Begin.
func (r *Recorder) RunID() string {
	if r.run == nil {
		return ""
	}
	return r.run.ID
}

// Report implements pipeline.Reporter.
func (r *Recorder) Report(d pipeline.Decision) {
	if r.run == nil {
		return
	}
	record := &Decision{
		ID:         uuid.NewString(),
		RunID:      r.run.ID,
		Line:       d.Line,
		Principal:  d.Principal,
		IsGroup:    d.IsGroup,
		Outcome:    string(d.Outcome),
		Fragment:   d.Fragment,
		Reason:     d.Reason,
		RecordedAt: time.Now().UTC(),
	}
	if err := r.storage.StoreDecision(r.ctx, record); err != nil {
		r.failed++
		r.logger.Warn("failed to record decision",
			"run_id", r.run.ID,
			"line", d.Line,
			"error", err,
		)
		return
	}
	r.recorded++
}

// Close finishes the run record. It is a no-op before Begin.
func (r *Recorder) Close(ctx context.Context) error {
	if r.run == nil {
		return nil
	}
	if r.failed > 0 {
		r.logger.Warn("audit trail incomplete",
			"run_id", r.run.ID,
			"recorded", r.recorded,
			"failed", r.failed,
		)
	}
	return r.storage.FinishRun(ctx, r.run.ID, time.Now().UTC(), r.recorded)
}
