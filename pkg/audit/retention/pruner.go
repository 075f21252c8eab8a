// Package retention enforces the audit trail's retention policy.
//
// Unlike a server that can prune on an internal schedule, Ganymede is a
// one-shot tool, so pruning is an explicit operator action (the
// `ganymede audit prune` command, typically run from an OS-level timer).
package retention

import (
	"context"
	"log/slog"
	"time"

	"mercator-hq/ganymede/pkg/audit"
)

// Config contains configuration for the retention pruner.
type Config struct {
	// RetentionDays is the number of days to retain audit runs.
	// 0 means keep everything (no pruning).
	RetentionDays int
}

// DefaultConfig returns the default retention configuration.
func DefaultConfig() *Config {
	return &Config{RetentionDays: 90}
}

// Pruner deletes audit runs older than the retention window.
type Pruner struct {
	storage audit.Storage
	config  *Config
	logger  *slog.Logger
}

// NewPruner creates a retention pruner.
func NewPruner(storage audit.Storage, config *Config) *Pruner {
	if config == nil {
		config = DefaultConfig()
	}
	return &Pruner{
		storage: storage,
		config:  config,
		logger:  slog.Default().With("component", "audit.retention"),
	}
}

// Prune deletes runs (and their decisions) started more than
// RetentionDays ago, returning the number of runs deleted.
func (p *Pruner) Prune(ctx context.Context) (int64, error) {
	if p.config.RetentionDays <= 0 {
		p.logger.Debug("retention disabled, nothing to prune")
		return 0, nil
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -p.config.RetentionDays)
	deleted, err := p.storage.DeleteRunsBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	p.logger.Info("pruned audit runs",
		"deleted", deleted,
		"retention_days", p.config.RetentionDays,
		"cutoff", cutoff,
	)
	return deleted, nil
}
