package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"mercator-hq/ganymede/pkg/audit"
)

// MemoryStorage implements audit.Storage with in-memory maps. It is
// intended for tests.
type MemoryStorage struct {
	mu        sync.RWMutex
	runs      map[string]*audit.Run
	decisions []*audit.Decision
}

// NewMemoryStorage creates an in-memory audit storage backend.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{runs: make(map[string]*audit.Run)}
}

// StoreRun persists a new run record.
func (s *MemoryStorage) StoreRun(ctx context.Context, run *audit.Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	runCopy := *run
	s.runs[run.ID] = &runCopy
	return nil
}

// FinishRun marks a run finished and records its decision count.
func (s *MemoryStorage) FinishRun(ctx context.Context, id string, finishedAt time.Time, decisions int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	run, ok := s.runs[id]
	if !ok {
		return audit.NewStorageError("memory", "finish_run", fmt.Errorf("run %s not found", id))
	}
	run.FinishedAt = finishedAt
	run.Decisions = decisions
	return nil
}

// StoreDecision persists one decision record.
func (s *MemoryStorage) StoreDecision(ctx context.Context, d *audit.Decision) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	decisionCopy := *d
	s.decisions = append(s.decisions, &decisionCopy)
	return nil
}

// Runs returns runs in reverse start order.
func (s *MemoryStorage) Runs(ctx context.Context, limit int) ([]*audit.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	runs := make([]*audit.Run, 0, len(s.runs))
	for _, run := range s.runs {
		runCopy := *run
		runs = append(runs, &runCopy)
	}
	sort.Slice(runs, func(i, j int) bool {
		return runs[i].StartedAt.After(runs[j].StartedAt)
	})
	if limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}

// Decisions returns decision records matching the query.
func (s *MemoryStorage) Decisions(ctx context.Context, q *audit.Query) ([]*audit.Decision, error) {
	if q == nil {
		q = &audit.Query{}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var results []*audit.Decision
	for _, d := range s.decisions {
		if q.RunID != "" && d.RunID != q.RunID {
			continue
		}
		if q.Principal != "" && d.Principal != q.Principal {
			continue
		}
		if q.Outcome != "" && d.Outcome != q.Outcome {
			continue
		}
		decisionCopy := *d
		results = append(results, &decisionCopy)
		if q.Limit > 0 && len(results) == q.Limit {
			break
		}
	}
	return results, nil
}

// DeleteRunsBefore deletes runs started before cutoff and their decisions.
func (s *MemoryStorage) DeleteRunsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted int64
	for id, run := range s.runs {
		if run.StartedAt.Before(cutoff) {
			delete(s.runs, id)
			deleted++
			kept := s.decisions[:0]
			for _, d := range s.decisions {
				if d.RunID != id {
					kept = append(kept, d)
				}
			}
			s.decisions = kept
		}
	}
	return deleted, nil
}

// Close is a no-op for the in-memory backend.
func (s *MemoryStorage) Close() error {
	return nil
}
