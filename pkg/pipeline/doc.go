// Package pipeline drives the per-line migration of sudoers rules into
// fragment files.
//
// Each source line is carried through a fixed sequence of stages:
// classification, privilege check, duplicate detection, fragment creation,
// external validation, and optional removal from the source. A line reaches
// a terminal Decision before the next line is read. Per-line failures are
// contained and reported; only a failure to open the source file aborts
// the run.
//
// Decisions flow through the Reporter interface, keeping console output,
// metrics, and the audit trail out of the decision logic itself.
package pipeline
