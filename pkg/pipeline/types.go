package pipeline

// Outcome is the terminal state reached for one matched source line.
type Outcome string

const (
	// OutcomeCreated: fragment written, validated, and retained.
	OutcomeCreated Outcome = "created"

	// OutcomeTestWouldCreate: test mode; the fragment would have been
	// created. Processing for the line stops before any filesystem effect.
	OutcomeTestWouldCreate Outcome = "test-mode-would-create"

	// OutcomeSkippedPrivileged: the principal is root or %wheel and is
	// never migrated.
	OutcomeSkippedPrivileged Outcome = "skipped-privileged"

	// OutcomeSkippedDuplicate: an existing fragment already covers the rule.
	OutcomeSkippedDuplicate Outcome = "skipped-duplicate"

	// OutcomeScanFailed: the fragment directory could not be scanned for
	// duplicates; nothing was written for this line.
	OutcomeScanFailed Outcome = "duplicate-scan-failed"

	// OutcomeConflict: the derived fragment path is already occupied by a
	// file that does not cover the rule. Nothing was overwritten.
	OutcomeConflict Outcome = "conflict"

	// OutcomeWriteFailed: the fragment could not be created.
	OutcomeWriteFailed Outcome = "write-failed"

	// OutcomeValidationFailed: the external checker rejected the fragment,
	// which was deleted.
	OutcomeValidationFailed Outcome = "validation-failed-deleted"

	// OutcomeRemoved: fragment created and validated, and the originating
	// line removed from the source file.
	OutcomeRemoved Outcome = "removed-from-source"

	// OutcomeRemoveFailed: fragment created and validated, but removing
	// the line from the source file failed. The fragment is retained.
	OutcomeRemoveFailed Outcome = "remove-failed"
)

// Decision is the structured record of how one matched source line was
// handled. One Decision is emitted per matched line; lines that do not fit
// the rule grammar produce nothing.
type Decision struct {
	// Line is the 1-based line number in the source file.
	Line int `json:"line"`

	// Principal is the rule's principal, group marker included.
	Principal string `json:"principal"`

	// IsGroup reports whether the principal is a group.
	IsGroup bool `json:"is_group"`

	// Outcome is the terminal state the line reached.
	Outcome Outcome `json:"outcome"`

	// Fragment is the derived fragment path, when one was derived.
	Fragment string `json:"fragment,omitempty"`

	// Reason carries supporting detail: the covering fragment's name for
	// a duplicate skip, checker output for a validation failure, or the
	// error text for a contained I/O failure.
	Reason string `json:"reason,omitempty"`
}

// Summary aggregates a whole run.
type Summary struct {
	// LinesRead is the number of source lines read.
	LinesRead int `json:"lines_read"`

	// Matched is the number of lines that fit the rule grammar.
	Matched int `json:"matched"`

	// Outcomes counts terminal states by outcome.
	Outcomes map[Outcome]int `json:"outcomes"`
}

func newSummary() *Summary {
	return &Summary{Outcomes: make(map[Outcome]int)}
}

func (s *Summary) record(d Decision) {
	s.Matched++
	s.Outcomes[d.Outcome]++
}
