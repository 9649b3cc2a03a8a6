package recorder

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists run history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS fetch_runs (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			started_at  INTEGER NOT NULL,
			finished_at INTEGER NOT NULL,
			range_start INTEGER NOT NULL,
			range_end   INTEGER NOT NULL,
			saved       INTEGER NOT NULL,
			empty       INTEGER NOT NULL,
			failed      INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started ON fetch_runs(started_at)`,

		`CREATE TABLE IF NOT EXISTS fetch_outcomes (
			id      INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id  INTEGER NOT NULL REFERENCES fetch_runs(id),
			target  TEXT NOT NULL,
			status  TEXT NOT NULL,
			row_count INTEGER,
			file    TEXT,
			error   TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_outcomes_run ON fetch_outcomes(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_outcomes_target ON fetch_outcomes(target)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordRun stores the run and all of its outcomes in one transaction.
func (r *SQLiteRecorder) RecordRun(run *RunRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var saved, empty, failed int
	for _, o := range run.Outcomes {
		switch o.Status {
		case StatusSaved:
			saved++
		case StatusEmpty:
			empty++
		case StatusFailed:
			failed++
		}
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`INSERT INTO fetch_runs
		(started_at, finished_at, range_start, range_end, saved, empty, failed)
		VALUES (?,?,?,?,?,?,?)`,
		run.StartedAt.Unix(), run.FinishedAt.Unix(),
		run.Range.Start.Unix(), run.Range.End.Unix(),
		saved, empty, failed,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("run id: %w", err)
	}

	for _, o := range run.Outcomes {
		if _, err := tx.Exec(`INSERT INTO fetch_outcomes
			(run_id, target, status, row_count, file, error)
			VALUES (?,?,?,?,?,?)`,
			runID, o.Target, o.Status, o.Rows, o.File, o.Error,
		); err != nil {
			return fmt.Errorf("insert outcome %s: %w", o.Target, err)
		}
	}
	return tx.Commit()
}

func (r *SQLiteRecorder) Close() error {
	return r.db.Close()
}
