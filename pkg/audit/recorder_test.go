package audit

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"mercator-hq/ganymede/pkg/pipeline"
)

// stubStorage implements Storage with controllable failures.
type stubStorage struct {
	mu          sync.Mutex
	runs        []*Run
	decisions   []*Decision
	finished    map[string]int
	decisionErr error
}

func newStubStorage() *stubStorage {
	return &stubStorage{finished: make(map[string]int)}
}

func (s *stubStorage) StoreRun(ctx context.Context, run *Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs = append(s.runs, run)
	return nil
}

func (s *stubStorage) FinishRun(ctx context.Context, id string, finishedAt time.Time, decisions int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.finished[id] = decisions
	return nil
}

func (s *stubStorage) StoreDecision(ctx context.Context, d *Decision) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.decisionErr != nil {
		return s.decisionErr
	}
	s.decisions = append(s.decisions, d)
	return nil
}

func (s *stubStorage) Runs(ctx context.Context, limit int) ([]*Run, error) { return s.runs, nil }

func (s *stubStorage) Decisions(ctx context.Context, q *Query) ([]*Decision, error) {
	return s.decisions, nil
}

func (s *stubStorage) DeleteRunsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}

func (s *stubStorage) Close() error { return nil }

func TestRecorderLifecycle(t *testing.T) {
	storage := newStubStorage()
	r := NewRecorder(storage, slog.Default())
	ctx := context.Background()

	cfg := pipeline.Config{
		SourcePath:      "/etc/sudoers",
		FragmentDir:     "/etc/sudoers.d",
		Prefix:          "10",
		RemoveAfterMove: true,
	}
	if err := r.Begin(ctx, cfg); err != nil {
		t.Fatalf("Begin() error: %v", err)
	}
	if r.RunID() == "" {
		t.Fatal("RunID() empty after Begin()")
	}

	r.Report(pipeline.Decision{Line: 2, Principal: "alice", Outcome: pipeline.OutcomeCreated, Fragment: "/etc/sudoers.d/10_alice"})
	r.Report(pipeline.Decision{Line: 5, Principal: "%admins", IsGroup: true, Outcome: pipeline.OutcomeSkippedDuplicate, Reason: "00_site"})

	if err := r.Close(ctx); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	if len(storage.runs) != 1 {
		t.Fatalf("stored %d runs, want 1", len(storage.runs))
	}
	run := storage.runs[0]
	if run.SourcePath != "/etc/sudoers" || !run.RemoveAfterMove {
		t.Errorf("run = %+v, want pipeline config echoed", run)
	}

	if len(storage.decisions) != 2 {
		t.Fatalf("stored %d decisions, want 2", len(storage.decisions))
	}
	d := storage.decisions[1]
	if d.RunID != run.ID || d.Principal != "%admins" || !d.IsGroup || d.Outcome != "skipped-duplicate" || d.Reason != "00_site" {
		t.Errorf("decision = %+v", d)
	}
	if d.ID == storage.decisions[0].ID {
		t.Error("decision IDs are not unique")
	}

	if storage.finished[run.ID] != 2 {
		t.Errorf("finished decision count = %d, want 2", storage.finished[run.ID])
	}
}

func TestRecorderStorageFailureIsContained(t *testing.T) {
	storage := newStubStorage()
	storage.decisionErr = errors.New("disk full")
	r := NewRecorder(storage, slog.Default())
	ctx := context.Background()

	if err := r.Begin(ctx, pipeline.Config{}); err != nil {
		t.Fatal(err)
	}

	// Must not panic or propagate.
	r.Report(pipeline.Decision{Line: 1, Principal: "alice", Outcome: pipeline.OutcomeCreated})

	if err := r.Close(ctx); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
	if storage.finished[r.RunID()] != 0 {
		t.Errorf("recorded count = %d, want 0 after storage failure", storage.finished[r.RunID()])
	}
}

func TestRecorderReportBeforeBegin(t *testing.T) {
	r := NewRecorder(newStubStorage(), slog.Default())
	// No run open: reporting is a no-op, closing succeeds.
	r.Report(pipeline.Decision{Line: 1, Principal: "alice", Outcome: pipeline.OutcomeCreated})
	if err := r.Close(context.Background()); err != nil {
		t.Errorf("Close() before Begin() error: %v", err)
	}
}
