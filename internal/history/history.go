// Package history records script runs in a local SQLite database so past
// sessions can be listed and inspected after the fact.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Run statuses.
const (
	StatusOK         = "ok"
	StatusParseError = "parse_error"
	StatusRunError   = "run_error"
	StatusTimeout    = "timeout"
)

const timeLayout = "2006-01-02 15:04:05"

// Run is one recorded script execution.
type Run struct {
	ID        string
	Script    string
	Program   string
	StartedAt time.Time
	Duration  time.Duration
	Status    string
	Error     string
}

// Stats aggregates the recorded runs.
type Stats struct {
	TotalRuns int
	Succeeded int
	Failed    int
	LastRun   time.Time
}

// Store is the run log backed by SQLite.
type Store struct {
	path string
	conn *sql.DB
}

// Open opens the store at the default path.
func Open() (*Store, error) {
	return OpenAt(DefaultPath())
}

// OpenAt opens or creates the store at path. A corrupt database file is
// preserved under a timestamped name and recreated rather than failing the
// run.
func OpenAt(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("path is required")
	}

	clean := filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(clean), 0700); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}

	conn, err := openAndInit(clean)
	if err == nil {
		return &Store{path: clean, conn: conn}, nil
	}

	if !isCorruptSQLiteError(err) {
		return nil, err
	}

	if _, statErr := os.Stat(clean); statErr == nil {
		backupPath := clean + ".corrupt." + time.Now().UTC().Format("20060102T150405Z")
		if renameErr := os.Rename(clean, backupPath); renameErr != nil {
			return nil, fmt.Errorf("history db appears corrupt (%v), and rename failed: %w", err, renameErr)
		}
	}

	conn, err = openAndInit(clean)
	if err != nil {
		return nil, err
	}
	return &Store{path: clean, conn: conn}, nil
}

// DefaultPath returns the run log location, honoring SCRIPTTY_HOME.
func DefaultPath() string {
	if home := os.Getenv("SCRIPTTY_HOME"); home != "" {
		return filepath.Join(home, "history.db")
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".scriptty", "history.db")
	}
	return filepath.Join(homeDir, ".scriptty", "history.db")
}

// Close releases the database connection.
func (s *Store) Close() error {
	if s == nil || s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// Record inserts one run. A missing ID or start time is filled in.
func (s *Store) Record(run Run) (string, error) {
	if s == nil || s.conn == nil {
		return "", fmt.Errorf("history store is not open")
	}
	if strings.TrimSpace(run.Script) == "" {
		return "", fmt.Errorf("script is required")
	}
	if strings.TrimSpace(run.Status) == "" {
		return "", fmt.Errorf("status is required")
	}

	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}

	_, err := s.conn.Exec(`
INSERT INTO runs (id, script, program, started_at, duration_ms, status, error)
VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.Script,
		run.Program,
		run.StartedAt.UTC().Format(timeLayout),
		run.Duration.Milliseconds(),
		run.Status,
		nullable(run.Error),
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}
	return run.ID, nil
}

// Recent returns the most recent runs, newest first.
func (s *Store) Recent(limit int) ([]Run, error) {
	if s == nil || s.conn == nil {
		return nil, fmt.Errorf("history store is not open")
	}
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.conn.Query(`
SELECT id, script, program, started_at, duration_ms, status, COALESCE(error, '')
FROM runs
ORDER BY started_at DESC, rowid DESC
LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run        Run
			startedAt  string
			durationMS int64
		)
		if err := rows.Scan(&run.ID, &run.Script, &run.Program, &startedAt, &durationMS, &run.Status, &run.Error); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if ts, err := time.ParseInLocation(timeLayout, startedAt, time.UTC); err == nil {
			run.StartedAt = ts
		}
		run.Duration = time.Duration(durationMS) * time.Millisecond
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// GetStats aggregates the whole run log.
func (s *Store) GetStats() (*Stats, error) {
	if s == nil || s.conn == nil {
		return nil, fmt.Errorf("history store is not open")
	}

	stats := &Stats{}
	var lastRun sql.NullString
	err := s.conn.QueryRow(`
SELECT COUNT(*),
       COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0),
       COALESCE(SUM(CASE WHEN status != ? THEN 1 ELSE 0 END), 0),
       MAX(started_at)
FROM runs`, StatusOK, StatusOK).Scan(&stats.TotalRuns, &stats.Succeeded, &stats.Failed, &lastRun)
	if err != nil {
		return nil, fmt.Errorf("query stats: %w", err)
	}
	if lastRun.Valid {
		if ts, err := time.ParseInLocation(timeLayout, lastRun.String, time.UTC); err == nil {
			stats.LastRun = ts
		}
	}
	return stats, nil
}

func openAndInit(path string) (*sql.DB, error) {
	conn, err := sql.Open("sqlite", "file:"+filepath.ToSlash(path)+"?mode=rwc")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// SQLite PRAGMAs are per-connection; keep a single shared connection.
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)

	initErr := func() error {
		if err := conn.Ping(); err != nil {
			return fmt.Errorf("ping: %w", err)
		}
		if _, err := conn.Exec(`PRAGMA journal_mode=WAL;`); err != nil {
			return fmt.Errorf("set journal_mode=WAL: %w", err)
		}
		if _, err := conn.Exec(schema); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
		return nil
	}()
	if initErr != nil {
		_ = conn.Close()
		return nil, initErr
	}
	return conn, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	script      TEXT NOT NULL,
	program     TEXT NOT NULL DEFAULT '',
	started_at  TEXT NOT NULL,
	duration_ms INTEGER NOT NULL DEFAULT 0,
	status      TEXT NOT NULL,
	error       TEXT
);
CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
`

func isCorruptSQLiteError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "file is not a database") ||
		strings.Contains(msg, "malformed")
}

func nullable(s string) sql.NullString {
	if strings.TrimSpace(s) == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
