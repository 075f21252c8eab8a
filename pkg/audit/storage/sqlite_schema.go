package storage

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

// Schema contains the SQL statements creating the audit database schema.
const Schema = `
CREATE TABLE IF NOT EXISTS runs (
    id TEXT PRIMARY KEY,
    started_at TIMESTAMP NOT NULL,
    finished_at TIMESTAMP,
    source_path TEXT NOT NULL,
    fragment_dir TEXT NOT NULL,
    prefix TEXT NOT NULL,
    test_mode BOOLEAN NOT NULL,
    remove_after_move BOOLEAN NOT NULL,
    decisions INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS decisions (
    id TEXT PRIMARY KEY,
    run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    line INTEGER NOT NULL,
    principal TEXT NOT NULL,
    is_group BOOLEAN NOT NULL,
    outcome TEXT NOT NULL,
    fragment TEXT,
    reason TEXT,
    recorded_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
CREATE INDEX IF NOT EXISTS idx_decisions_run_id ON decisions(run_id);
CREATE INDEX IF NOT EXISTS idx_decisions_principal ON decisions(principal);
CREATE INDEX IF NOT EXISTS idx_decisions_outcome ON decisions(outcome);
`
