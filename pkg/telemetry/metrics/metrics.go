// Package metrics tracks Prometheus metrics for migration runs.
//
// Ganymede is one-shot, so instead of serving an HTTP endpoint the
// gathered registry can be exported in text exposition format to a file
// the node_exporter textfile collector picks up.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"mercator-hq/ganymede/pkg/pipeline"
)

// MigrationMetrics tracks metrics for the migration pipeline.
//
// Metrics:
//   - ganymede_migration_decisions_total: decisions by outcome
//   - ganymede_migration_rules_matched_total: lines matching the rule grammar
type MigrationMetrics struct {
	decisionsTotal *prometheus.CounterVec
	matchedTotal   prometheus.Counter
}

// NewMigrationMetrics creates and registers migration metrics with the
// provided registry.
func NewMigrationMetrics(registry *prometheus.Registry) *MigrationMetrics {
	m := &MigrationMetrics{
		decisionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "ganymede",
				Subsystem: "migration",
				Name:      "decisions_total",
				Help:      "Total per-line decisions by outcome",
			},
			[]string{"outcome"},
		),
		matchedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "ganymede",
				Subsystem: "migration",
				Name:      "rules_matched_total",
				Help:      "Total source lines matching the rule grammar",
			},
		),
	}
	registry.MustRegister(m.decisionsTotal, m.matchedTotal)
	return m
}

// Report implements pipeline.Reporter, counting each decision.
func (m *MigrationMetrics) Report(d pipeline.Decision) {
	m.matchedTotal.Inc()
	m.decisionsTotal.WithLabelValues(string(d.Outcome)).Inc()
}
