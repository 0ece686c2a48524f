// Package history persists rename runs in a per-repository SQLite
// database so past applies can be inspected and audited.
package history

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Run records one check or apply pass over a repository.
type Run struct {
	ID                string     `json:"id"`
	Root              string     `json:"root"`
	Mode              string     `json:"mode"` // "check" or "apply"
	PolicyFingerprint string     `json:"policyFingerprint"`
	StartedAt         time.Time  `json:"startedAt"`
	FinishedAt        *time.Time `json:"finishedAt,omitempty"`
	FilesScanned      int        `json:"filesScanned"`
	FilesChanged      int        `json:"filesChanged"`
	Renames           int        `json:"renames"`
	Collisions        int        `json:"collisions"`
	Unresolved        int        `json:"unresolved"`
	Failures          int        `json:"failures"`
}

// Rename records one applied rename within a run.
type Rename struct {
	RunID       string `json:"runId"`
	File        string `json:"file"`
	Role        string `json:"role"`
	Original    string `json:"original"`
	Target      string `json:"target"`
	Occurrences int    `json:"occurrences"`
}

// Store provides persistence for runs in a SQLite database.
type Store struct {
	conn   *sql.DB
	logger *slog.Logger
	dbPath string
}

// Open opens or creates the history database at <dir>/history.db.
func Open(dir string, logger *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	dbPath := filepath.Join(dir, "history.db")
	dbExists := fileExists(dbPath)

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}

	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	store := &Store{
		conn:   conn,
		logger: logger,
		dbPath: dbPath,
	}

	if !dbExists {
		logger.Info("creating history database", "path", dbPath)
	}
	if err := store.initializeSchema(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to initialize history schema: %w", err)
	}

	return store, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (s *Store) initializeSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			root TEXT NOT NULL,
			mode TEXT NOT NULL,
			policy_fingerprint TEXT NOT NULL,
			started_at TEXT NOT NULL,
			finished_at TEXT,
			files_scanned INTEGER DEFAULT 0,
			files_changed INTEGER DEFAULT 0,
			renames INTEGER DEFAULT 0,
			collisions INTEGER DEFAULT 0,
			unresolved INTEGER DEFAULT 0,
			failures INTEGER DEFAULT 0
		);
		CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at DESC);

		CREATE TABLE IF NOT EXISTS renames (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			file TEXT NOT NULL,
			role TEXT NOT NULL,
			original TEXT NOT NULL,
			target TEXT NOT NULL,
			occurrences INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_renames_run ON renames(run_id);
		CREATE INDEX IF NOT EXISTS idx_renames_file ON renames(file);

		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		);
		INSERT OR REPLACE INTO schema_version (version) VALUES (1);
	`

	_, err := s.conn.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}

// BeginRun inserts a new run and returns its id.
func (s *Store) BeginRun(root, mode, policyFingerprint string) (*Run, error) {
	run := &Run{
		ID:                uuid.New().String(),
		Root:              root,
		Mode:              mode,
		PolicyFingerprint: policyFingerprint,
		StartedAt:         time.Now().UTC(),
	}

	_, err := s.conn.Exec(`
		INSERT INTO runs (id, root, mode, policy_fingerprint, started_at)
		VALUES (?, ?, ?, ?, ?)
	`, run.ID, run.Root, run.Mode, run.PolicyFingerprint, run.StartedAt.Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("failed to create run: %w", err)
	}

	s.logger.Debug("created run", "runId", run.ID, "mode", run.Mode)

	return run, nil
}

// FinishRun records the run's final counters and finish time.
func (s *Store) FinishRun(run *Run) error {
	now := time.Now().UTC()
	run.FinishedAt = &now

	result, err := s.conn.Exec(`
		UPDATE runs SET
			finished_at = ?,
			files_scanned = ?,
			files_changed = ?,
			renames = ?,
			collisions = ?,
			unresolved = ?,
			failures = ?
		WHERE id = ?
	`, nullTime(run.FinishedAt),
		run.FilesScanned,
		run.FilesChanged,
		run.Renames,
		run.Collisions,
		run.Unresolved,
		run.Failures,
		run.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("run not found: %s", run.ID)
	}

	return nil
}

// RecordRenames appends the renames applied to one file, in a single
// transaction.
func (s *Store) RecordRenames(renames []Rename) error {
	if len(renames) == 0 {
		return nil
	}

	tx, err := s.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`
		INSERT INTO renames (run_id, file, role, original, target, occurrences)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, r := range renames {
		if _, err := stmt.Exec(r.RunID, r.File, r.Role, r.Original, r.Target, r.Occurrences); err != nil {
			return fmt.Errorf("failed to record rename: %w", err)
		}
	}

	return tx.Commit()
}

// GetRun retrieves a run by id, or nil when absent.
func (s *Store) GetRun(id string) (*Run, error) {
	row := s.conn.QueryRow(`
		SELECT id, root, mode, policy_fingerprint, started_at, finished_at,
		       files_scanned, files_changed, renames, collisions, unresolved, failures
		FROM runs WHERE id = ?
	`, id)

	run, err := scanRun(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return run, err
}

// ListRuns retrieves the most recent runs, newest first.
func (s *Store) ListRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	rows, err := s.conn.Query(`
		SELECT id, root, mode, policy_fingerprint, started_at, finished_at,
		       files_scanned, files_changed, renames, collisions, unresolved, failures
		FROM runs
		ORDER BY started_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows.Scan)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}

	return runs, rows.Err()
}

// ListRenames retrieves every rename recorded for a run.
func (s *Store) ListRenames(runID string) ([]Rename, error) {
	rows, err := s.conn.Query(`
		SELECT run_id, file, role, original, target, occurrences
		FROM renames WHERE run_id = ?
		ORDER BY file, original
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to list renames: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var renames []Rename
	for rows.Next() {
		var r Rename
		if err := rows.Scan(&r.RunID, &r.File, &r.Role, &r.Original, &r.Target, &r.Occurrences); err != nil {
			return nil, fmt.Errorf("failed to scan rename row: %w", err)
		}
		renames = append(renames, r)
	}

	return renames, rows.Err()
}

// CleanupOldRuns removes finished runs older than the given retention.
func (s *Store) CleanupOldRuns(retention time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-retention).Format(time.RFC3339)

	result, err := s.conn.Exec(`
		DELETE FROM runs
		WHERE finished_at IS NOT NULL AND finished_at < ?
	`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup old runs: %w", err)
	}

	return result.RowsAffected()
}

func scanRun(scan func(dest ...any) error) (*Run, error) {
	var run Run
	var startedAt string
	var finishedAt sql.NullString

	err := scan(
		&run.ID,
		&run.Root,
		&run.Mode,
		&run.PolicyFingerprint,
		&startedAt,
		&finishedAt,
		&run.FilesScanned,
		&run.FilesChanged,
		&run.Renames,
		&run.Collisions,
		&run.Unresolved,
		&run.Failures,
	)
	if err != nil {
		return nil, err
	}

	if t, err := time.Parse(time.RFC3339, startedAt); err == nil {
		run.StartedAt = t
	}
	if finishedAt.Valid {
		if t, err := time.Parse(time.RFC3339, finishedAt.String); err == nil {
			run.FinishedAt = &t
		}
	}

	return &run, nil
}

func nullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.Format(time.RFC3339), Valid: true}
}
