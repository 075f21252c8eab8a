package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"mercator-hq/ganymede/pkg/audit"
)

// SQLiteConfig contains configuration for the SQLite storage backend.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5 seconds.
	BusyTimeout time.Duration
}

// DefaultSQLiteConfig returns the default SQLite configuration.
func DefaultSQLiteConfig() *SQLiteConfig {
	return &SQLiteConfig{
		Path:        "/var/lib/ganymede/audit.db",
		BusyTimeout: 5 * time.Second,
	}
}

// SQLiteStorage implements audit.Storage using SQLite.
type SQLiteStorage struct {
	db     *sql.DB
	config *SQLiteConfig
	logger *slog.Logger
}

// NewSQLiteStorage opens (creating if necessary) the audit database at the
// configured path and initializes the schema.
func NewSQLiteStorage(config *SQLiteConfig) (*SQLiteStorage, error) {
	if config == nil {
		config = DefaultSQLiteConfig()
	}

	db, err := sql.Open("sqlite3", config.Path)
	if err != nil {
		return nil, audit.NewStorageError("sqlite", "open", err)
	}

	s := &SQLiteStorage{
		db:     db,
		config: config,
		logger: slog.Default().With("component", "audit.storage.sqlite"),
	}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	s.logger.Debug("audit storage initialized", "path", config.Path)
	return s, nil
}

// initialize applies pragmas and creates the schema.
func (s *SQLiteStorage) initialize() error {
	if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return audit.NewStorageError("sqlite", "enable_wal", err)
	}
	if _, err := s.db.Exec("PRAGMA foreign_keys=ON;"); err != nil {
		return audit.NewStorageError("sqlite", "enable_foreign_keys", err)
	}
	if s.config.BusyTimeout > 0 {
		stmt := fmt.Sprintf("PRAGMA busy_timeout=%d;", s.config.BusyTimeout.Milliseconds())
		if _, err := s.db.Exec(stmt); err != nil {
			return audit.NewStorageError("sqlite", "set_busy_timeout", err)
		}
	}
	if _, err := s.db.Exec(Schema); err != nil {
		return audit.NewStorageError("sqlite", "create_schema", err)
	}
	return nil
}

// StoreRun persists a new run record.
func (s *SQLiteStorage) StoreRun(ctx context.Context, run *audit.Run) error {
	const query = `
		INSERT INTO runs (id, started_at, source_path, fragment_dir, prefix,
			test_mode, remove_after_move, decisions)
		VALUES (?, ?, ?, ?, ?, ?, ?, 0)`
	_, err := s.db.ExecContext(ctx, query,
		run.ID, run.StartedAt, run.SourcePath, run.FragmentDir, run.Prefix,
		run.TestMode, run.RemoveAfterMove,
	)
	if err != nil {
		return audit.NewStorageError("sqlite", "store_run", err)
	}
	return nil
}

// FinishRun marks a run finished and records its decision count.
func (s *SQLiteStorage) FinishRun(ctx context.Context, id string, finishedAt time.Time, decisions int) error {
	const query = `UPDATE runs SET finished_at = ?, decisions = ? WHERE id = ?`
	res, err := s.db.ExecContext(ctx, query, finishedAt, decisions, id)
	if err != nil {
		return audit.NewStorageError("sqlite", "finish_run", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return audit.NewStorageError("sqlite", "finish_run", fmt.Errorf("run %s not found", id))
	}
	return nil
}

// StoreDecision persists one decision record.
func (s *SQLiteStorage) StoreDecision(ctx context.Context, d *audit.Decision) error {
	const query = `
		INSERT INTO decisions (id, run_id, line, principal, is_group,
			outcome, fragment, reason, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query,
		d.ID, d.RunID, d.Line, d.Principal, d.IsGroup,
		d.Outcome, d.Fragment, d.Reason, d.RecordedAt,
	)
	if err != nil {
		return audit.NewStorageError("sqlite", "store_decision", err)
	}
	return nil
}

// Runs returns runs in reverse start order.
func (s *SQLiteStorage) Runs(ctx context.Context, limit int) ([]*audit.Run, error) {
	query := `
		SELECT id, started_at, finished_at, source_path, fragment_dir,
			prefix, test_mode, remove_after_move, decisions
		FROM runs ORDER BY started_at DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, audit.NewStorageError("sqlite", "query_runs", err)
	}
	defer rows.Close()

	var runs []*audit.Run
	for rows.Next() {
		var run audit.Run
		var finished sql.NullTime
		if err := rows.Scan(&run.ID, &run.StartedAt, &finished, &run.SourcePath,
			&run.FragmentDir, &run.Prefix, &run.TestMode, &run.RemoveAfterMove,
			&run.Decisions); err != nil {
			return nil, audit.NewStorageError("sqlite", "scan_run", err)
		}
		if finished.Valid {
			run.FinishedAt = finished.Time
		}
		runs = append(runs, &run)
	}
	if err := rows.Err(); err != nil {
		return nil, audit.NewStorageError("sqlite", "query_runs", err)
	}
	return runs, nil
}

// Decisions returns decision records matching the query.
func (s *SQLiteStorage) Decisions(ctx context.Context, q *audit.Query) ([]*audit.Decision, error) {
	if q == nil {
		q = &audit.Query{}
	}

	var conditions []string
	var args []any
	if q.RunID != "" {
		conditions = append(conditions, "run_id = ?")
		args = append(args, q.RunID)
	}
	if q.Principal != "" {
		conditions = append(conditions, "principal = ?")
		args = append(args, q.Principal)
	}
	if q.Outcome != "" {
		conditions = append(conditions, "outcome = ?")
		args = append(args, q.Outcome)
	}

	query := `
		SELECT id, run_id, line, principal, is_group, outcome,
			fragment, reason, recorded_at
		FROM decisions`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY recorded_at, line"
	if q.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, q.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, audit.NewStorageError("sqlite", "query_decisions", err)
	}
	defer rows.Close()

	var decisions []*audit.Decision
	for rows.Next() {
		var d audit.Decision
		if err := rows.Scan(&d.ID, &d.RunID, &d.Line, &d.Principal, &d.IsGroup,
			&d.Outcome, &d.Fragment, &d.Reason, &d.RecordedAt); err != nil {
			return nil, audit.NewStorageError("sqlite", "scan_decision", err)
		}
		decisions = append(decisions, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, audit.NewStorageError("sqlite", "query_decisions", err)
	}
	return decisions, nil
}

// DeleteRunsBefore deletes runs started before cutoff and, via the
// foreign-key cascade, their decisions.
func (s *SQLiteStorage) DeleteRunsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE started_at < ?`, cutoff)
	if err != nil {
		return 0, audit.NewStorageError("sqlite", "delete_runs", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, audit.NewStorageError("sqlite", "delete_runs", err)
	}
	return deleted, nil
}

// Close closes the database.
func (s *SQLiteStorage) Close() error {
	if err := s.db.Close(); err != nil {
		return audit.NewStorageError("sqlite", "close", err)
	}
	return nil
}
