// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ledger keeps a SQLite record of filter runs and the vector image
// conversions they launched, so failures of unawaited conversions can be
// looked up after the fact.
package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/pandoc-docx-utils/pkg/types"
)

// defaultLimit caps List when no limit is given.
const defaultLimit = 50

// timeLayout has a fixed width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Ledger manages the ledger database.
type Ledger struct {
	db *sql.DB
}

// Open opens or creates the ledger database at cfg.Path, creating the parent
// directory and the schema if needed.
func Open(cfg types.LedgerConfig) (*Ledger, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("ledger path is empty")
	}
	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating ledger directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	l := &Ledger{db: db}
	if err := l.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return l, nil
}

// Close releases the database connection.
func (l *Ledger) Close() error {
	return l.db.Close()
}

func (l *Ledger) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			format TEXT NOT NULL,
			rewrites INTEGER NOT NULL,
			started_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS rasters (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL REFERENCES runs(id),
			source TEXT NOT NULL,
			output TEXT NOT NULL,
			format TEXT NOT NULL,
			status TEXT NOT NULL,
			error TEXT,
			launched_at TEXT NOT NULL,
			completed_at TEXT,
			UNIQUE(run_id, output)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_rasters_status ON rasters(status)`,
	}
	for _, stmt := range statements {
		if _, err := l.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record stores a run and the conversions it launched in one transaction.
func (l *Ledger) Record(ctx context.Context, run types.RunRecord, rasters []types.RasterRecord) error {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, format, rewrites, started_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET format=excluded.format, rewrites=excluded.rewrites`,
		run.ID, run.Format, run.Rewrites, run.StartedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("inserting run %s: %w", run.ID, err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO rasters (run_id, source, output, format, status, error, launched_at, completed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range rasters {
		status := r.Status
		if status == "" {
			status = types.RasterPending
		}
		_, err := stmt.ExecContext(ctx,
			run.ID, r.Source, r.Output, r.Format, string(status),
			nullString(r.Error), r.LaunchedAt.UTC().Format(timeLayout), formatTime(r.CompletedAt),
		)
		if err != nil {
			return fmt.Errorf("inserting raster %s: %w", r.Source, err)
		}
	}

	return tx.Commit()
}

// Complete sets the outcome of the conversion of run runID that writes output.
// A nil convErr marks it succeeded.
func (l *Ledger) Complete(ctx context.Context, runID, output string, convErr error) error {
	status, msg := types.RasterSucceeded, ""
	if convErr != nil {
		status, msg = types.RasterFailed, convErr.Error()
	}
	res, err := l.db.ExecContext(ctx,
		`UPDATE rasters SET status = ?, error = ?, completed_at = ? WHERE run_id = ? AND output = ?`,
		string(status), nullString(msg), time.Now().UTC().Format(timeLayout), runID, output,
	)
	if err != nil {
		return fmt.Errorf("updating raster %s: %w", output, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("no raster %s recorded for run %s", output, runID)
	}
	return nil
}

// ListOptions filters List.
type ListOptions struct {
	// Limit caps the number of rows; 0 means the default of 50.
	Limit int

	// FailedOnly keeps only failed conversions.
	FailedOnly bool

	// RunID keeps only conversions of one run.
	RunID string
}

// List returns recorded conversions, most recent first.
func (l *Ledger) List(ctx context.Context, opts ListOptions) ([]types.RasterRecord, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	query := `SELECT run_id, source, output, format, status, error, launched_at, completed_at FROM rasters WHERE 1=1`
	var args []any
	if opts.FailedOnly {
		query += ` AND status = ?`
		args = append(args, string(types.RasterFailed))
	}
	if opts.RunID != "" {
		query += ` AND run_id = ?`
		args = append(args, opts.RunID)
	}
	query += ` ORDER BY launched_at DESC, rowid DESC LIMIT ?`
	args = append(args, limit)

	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying rasters: %w", err)
	}
	defer rows.Close()

	var out []types.RasterRecord
	for rows.Next() {
		var (
			r                   types.RasterRecord
			status              string
			errMsg, completedAt sql.NullString
			launchedAt          string
		)
		if err := rows.Scan(&r.RunID, &r.Source, &r.Output, &r.Format, &status, &errMsg, &launchedAt, &completedAt); err != nil {
			return nil, fmt.Errorf("scanning raster row: %w", err)
		}
		r.Status = types.RasterStatus(status)
		r.Error = errMsg.String
		if t, err := time.Parse(timeLayout, launchedAt); err == nil {
			r.LaunchedAt = t
		}
		if completedAt.Valid {
			if t, err := time.Parse(timeLayout, completedAt.String); err == nil {
				r.CompletedAt = &t
			}
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func formatTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.UTC().Format(timeLayout), Valid: true}
}
