package pipeline

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"mercator-hq/ganymede/pkg/sudoers"
	"mercator-hq/ganymede/pkg/sudoers/fragments"
	"mercator-hq/ganymede/pkg/sudoers/source"
	"mercator-hq/ganymede/pkg/validator"
)

// Config contains the configuration for one migration run. It is immutable
// once the pipeline is constructed.
type Config struct {
	// SourcePath is the sudoers file to migrate from.
	SourcePath string

	// FragmentDir is the managed drop-in directory.
	FragmentDir string

	// Prefix names fragments {Prefix}_{principal}.
	Prefix string

	// TestMode reports would-be fragment creations without touching the
	// filesystem. Validation and removal never run in test mode.
	TestMode bool

	// RemoveAfterMove removes a rule's line from the source file once its
	// fragment has passed validation.
	RemoveAfterMove bool
}

// Pipeline processes one sudoers file, line by line, strictly sequentially.
// Each line reaches a terminal Decision before the next is considered.
type Pipeline struct {
	cfg       Config
	scanner   *fragments.Scanner
	writer    *fragments.Writer
	mutator   *source.Mutator
	validator validator.Validator
	reporter  Reporter
	logger    *slog.Logger
}

// New creates a pipeline. The validator is required; a nil reporter
// discards decisions.
func New(cfg Config, v validator.Validator, r Reporter, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	if r == nil {
		r = Fanout(nil)
	}
	return &Pipeline{
		cfg:       cfg,
		scanner:   fragments.NewScanner(cfg.FragmentDir, logger),
		writer:    fragments.NewWriter(cfg.FragmentDir, cfg.Prefix),
		mutator:   source.NewMutator(cfg.SourcePath, logger),
		validator: v,
		reporter:  r,
		logger:    logger.With("component", "pipeline"),
	}
}

// Run processes the source file to completion and returns a summary.
// Failure to open or read the source file is the only fatal error; every
// per-line failure is contained, reported as a Decision, and processing
// continues with the next line.
func (p *Pipeline) Run(ctx context.Context) (*Summary, error) {
	f, err := os.Open(p.cfg.SourcePath)
	if err != nil {
		return nil, fmt.Errorf("open source file %q: %w", p.cfg.SourcePath, err)
	}
	// The descriptor keeps the pre-rewrite file when RemoveAfterMove
	// replaces the path mid-run, so the line stream stays consistent.
	defer f.Close()

	summary := newSummary()
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		summary.LinesRead++
		decision, matched := p.processLine(ctx, summary.LinesRead, sc.Text())
		if !matched {
			continue
		}
		summary.record(decision)
		p.reporter.Report(decision)
	}
	if err := sc.Err(); err != nil {
		return summary, fmt.Errorf("read source file %q: %w", p.cfg.SourcePath, err)
	}

	p.logger.Info("run complete",
		"lines_read", summary.LinesRead,
		"matched", summary.Matched,
	)
	return summary, nil
}

// processLine carries one line through the state machine to a terminal
// decision. The second return value is false when the line does not fit
// the rule grammar; such lines produce no decision and no side effects.
func (p *Pipeline) processLine(ctx context.Context, lineNo int, line string) (Decision, bool) {
	rule, ok := sudoers.Classify(line)
	if !ok {
		return Decision{}, false
	}

	d := Decision{
		Line:      lineNo,
		Principal: rule.Principal,
		IsGroup:   rule.IsGroup,
	}

	if sudoers.IsPrivileged(rule.Principal) {
		d.Outcome = OutcomeSkippedPrivileged
		return d, true
	}

	coveredBy, found, err := p.scanner.Contains(rule)
	if err != nil {
		d.Outcome = OutcomeScanFailed
		d.Reason = err.Error()
		return d, true
	}
	if found {
		d.Outcome = OutcomeSkippedDuplicate
		d.Reason = coveredBy
		return d, true
	}

	d.Fragment = p.writer.Path(rule)
	if p.cfg.TestMode {
		d.Outcome = OutcomeTestWouldCreate
		return d, true
	}

	path, err := p.writer.Write(rule)
	if err != nil {
		if errors.Is(err, fragments.ErrExists) {
			d.Outcome = OutcomeConflict
		} else {
			d.Outcome = OutcomeWriteFailed
		}
		d.Reason = err.Error()
		return d, true
	}

	if err := p.validator.Check(ctx, path); err != nil {
		// A fragment must never persist in a failed-validation state. A
		// checker that could not run at all counts as a failure too; an
		// unvalidated fragment is an untrusted fragment.
		if rmErr := p.writer.Remove(path); rmErr != nil {
			p.logger.Error("failed to delete rejected fragment",
				"path", path,
				"error", rmErr,
			)
		}
		d.Outcome = OutcomeValidationFailed
		d.Reason = err.Error()
		return d, true
	}

	if !p.cfg.RemoveAfterMove {
		d.Outcome = OutcomeCreated
		return d, true
	}

	if err := p.mutator.RemoveLine(rule.Raw); err != nil {
		d.Outcome = OutcomeRemoveFailed
		d.Reason = err.Error()
		return d, true
	}
	d.Outcome = OutcomeRemoved
	return d, true
}
