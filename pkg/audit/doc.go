// Package audit records what Ganymede did to a host's sudo configuration.
//
// Every invocation of the migration pipeline is stored as a run, and every
// per-line decision within it as a decision record, so an operator can
// answer "what moved, when, and why" long after the console output is
// gone. Records are written through the Storage interface; the SQLite
// backend is the production one, the in-memory backend exists for tests.
//
// Auditing is deliberately best-effort: a failure to persist a record is
// logged and never aborts the migration that produced it.
package audit
