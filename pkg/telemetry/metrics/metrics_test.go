package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"mercator-hq/ganymede/pkg/pipeline"
)

func TestMigrationMetricsReport(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewMigrationMetrics(registry)

	m.Report(pipeline.Decision{Principal: "alice", Outcome: pipeline.OutcomeCreated})
	m.Report(pipeline.Decision{Principal: "bob", Outcome: pipeline.OutcomeCreated})
	m.Report(pipeline.Decision{Principal: "root", Outcome: pipeline.OutcomeSkippedPrivileged})

	if got := testutil.ToFloat64(m.matchedTotal); got != 3 {
		t.Errorf("rules_matched_total = %v, want 3", got)
	}
	if got := testutil.ToFloat64(m.decisionsTotal.WithLabelValues("created")); got != 2 {
		t.Errorf("decisions_total{outcome=created} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.decisionsTotal.WithLabelValues("skipped-privileged")); got != 1 {
		t.Errorf("decisions_total{outcome=skipped-privileged} = %v, want 1", got)
	}
}

func TestWriteTextfile(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewMigrationMetrics(registry)
	m.Report(pipeline.Decision{Principal: "alice", Outcome: pipeline.OutcomeCreated})

	path := filepath.Join(t.TempDir(), "ganymede.prom")
	if err := WriteTextfile(registry, path); err != nil {
		t.Fatalf("WriteTextfile() error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	if !strings.Contains(out, "ganymede_migration_decisions_total") {
		t.Errorf("metrics file missing decisions counter: %q", out)
	}
	if !strings.Contains(out, `outcome="created"`) {
		t.Errorf("metrics file missing outcome label: %q", out)
	}

	// No stray temp files next to the output.
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("unexpected files in metrics directory: %v", entries)
	}
}

func TestWriteTextfileMissingDirectory(t *testing.T) {
	registry := prometheus.NewRegistry()
	NewMigrationMetrics(registry)

	err := WriteTextfile(registry, filepath.Join(t.TempDir(), "absent", "ganymede.prom"))
	if err == nil {
		t.Error("WriteTextfile() into a missing directory should return an error")
	}
}
