package pipeline

import "log/slog"

// Reporter receives one Decision per matched source line. Implementations
// must not mutate the decision; the pipeline may report the same value to
// several reporters.
type Reporter interface {
	Report(d Decision)
}

// Fanout dispatches each decision to every reporter in order.
type Fanout []Reporter

// Report implements Reporter.
func (f Fanout) Report(d Decision) {
	for _, r := range f {
		r.Report(d)
	}
}

// LogReporter emits decisions as structured log records.
type LogReporter struct {
	logger *slog.Logger
}

// NewLogReporter creates a reporter that logs through the given logger.
func NewLogReporter(logger *slog.Logger) *LogReporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogReporter{logger: logger.With("component", "pipeline")}
}

// Report implements Reporter. Contained failures log at warn level,
// everything else at info.
func (r *LogReporter) Report(d Decision) {
	attrs := []any{
		"line", d.Line,
		"principal", d.Principal,
		"is_group", d.IsGroup,
		"outcome", string(d.Outcome),
	}
	if d.Fragment != "" {
		attrs = append(attrs, "fragment", d.Fragment)
	}
	if d.Reason != "" {
		attrs = append(attrs, "reason", d.Reason)
	}

	switch d.Outcome {
	case OutcomeScanFailed, OutcomeConflict, OutcomeWriteFailed,
		OutcomeValidationFailed, OutcomeRemoveFailed:
		r.logger.Warn("rule not migrated", attrs...)
	default:
		r.logger.Info("rule processed", attrs...)
	}
}
