// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists fetched pages and run results in SQLite. It owns
// two concerns: the page cache (bodies keyed by exact URL, no expiry) and
// the run ledger (run lifecycle plus persisted criterion scores).
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/vendorscore/pkg/types"
)

// Store wraps the SQLite database. Construct with New and inject it into
// the collector and the pipeline; lifecycle is process lifetime.
type Store struct {
	db *sql.DB
}

// New opens or creates the database at dbPath, creating parent directories
// and the schema as needed.
func New(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS pages (
			url TEXT PRIMARY KEY,
			content TEXT NOT NULL,
			fetched_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			company_name TEXT NOT NULL,
			website TEXT,
			started_at TEXT NOT NULL,
			finished_at TEXT,
			overall_score REAL,
			coverage REAL,
			confidence REAL,
			flags_json TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS features (
			run_id TEXT NOT NULL,
			name TEXT NOT NULL,
			value_json TEXT NOT NULL,
			confidence REAL NOT NULL,
			evidence_json TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS criteria (
			run_id TEXT NOT NULL,
			criterion_id TEXT NOT NULL,
			name TEXT NOT NULL,
			category TEXT NOT NULL,
			score REAL NOT NULL,
			max_score REAL NOT NULL,
			weight REAL NOT NULL,
			rationale TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_criteria_run_id ON criteria(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_features_run_id ON features(run_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// --- page cache ---

// GetPage returns the cached body for url, with ok reporting a hit. The
// key is the exact URL string; no normalization.
func (s *Store) GetPage(ctx context.Context, url string) (string, bool, error) {
	var content string
	err := s.db.QueryRowContext(ctx,
		`SELECT content FROM pages WHERE url = ?`, url,
	).Scan(&content)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading page %s: %w", url, err)
	}
	return content, true, nil
}

// SavePage stores the body for url, overwriting any previous entry.
// Last write wins; cached pages never expire.
func (s *Store) SavePage(ctx context.Context, url, content string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO pages (url, content, fetched_at) VALUES (?, ?, ?)`,
		url, content, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("saving page %s: %w", url, err)
	}
	return nil
}

// --- run ledger ---

// StartRun records the start of a scoring attempt. Idempotent by id:
// repeating an id replaces the row rather than appending.
func (s *Store) StartRun(ctx context.Context, runID, companyName, website string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO runs (id, company_name, website, started_at) VALUES (?, ?, ?, ?)`,
		runID, companyName, website, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("starting run %s: %w", runID, err)
	}
	return nil
}

// FinishRun stamps the run's completion time and copies the scorecard
// summary fields. Returns an error when the run id does not exist.
func (s *Store) FinishRun(ctx context.Context, runID string, sc *types.Scorecard) error {
	flagsJSON, err := json.Marshal(sc.Flags)
	if err != nil {
		return fmt.Errorf("serializing flags: %w", err)
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE runs
		 SET finished_at = ?, overall_score = ?, coverage = ?, confidence = ?, flags_json = ?
		 WHERE id = ?`,
		time.Now().UTC().Format(time.RFC3339),
		sc.OverallScore, sc.Coverage, sc.Confidence, string(flagsJSON), runID,
	)
	if err != nil {
		return fmt.Errorf("finishing run %s: %w", runID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("finishing run %s: %w", runID, err)
	}
	if n == 0 {
		return fmt.Errorf("finishing run %s: no such run", runID)
	}
	return nil
}

// SaveCriteria persists the scored criteria for a run, replacing any rows
// previously saved under the same run id.
func (s *Store) SaveCriteria(ctx context.Context, runID string, criteria []types.CriterionScore) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM criteria WHERE run_id = ?`, runID); err != nil {
		return fmt.Errorf("deleting old criteria: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO criteria (run_id, criterion_id, name, category, score, max_score, weight, rationale)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, c := range criteria {
		_, err := stmt.ExecContext(ctx,
			runID, c.CriterionID, c.Name, c.Category,
			c.Score, c.MaxScore, c.Weight, c.Rationale,
		)
		if err != nil {
			return fmt.Errorf("inserting criterion %s: %w", c.CriterionID, err)
		}
	}

	return tx.Commit()
}

// SaveFeatures persists extracted features for a run. The scoring path
// does not read these back; they exist for later analysis.
func (s *Store) SaveFeatures(ctx context.Context, runID string, features []types.Feature) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO features (run_id, name, value_json, confidence, evidence_json)
		 VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, f := range features {
		valueJSON, err := json.Marshal(f.Value)
		if err != nil {
			return fmt.Errorf("serializing feature %s: %w", f.Name, err)
		}
		evidenceJSON, err := json.Marshal(f.Evidence)
		if err != nil {
			return fmt.Errorf("serializing evidence for %s: %w", f.Name, err)
		}
		if _, err := stmt.ExecContext(ctx, runID, f.Name, string(valueJSON), f.Confidence, string(evidenceJSON)); err != nil {
			return fmt.Errorf("inserting feature %s: %w", f.Name, err)
		}
	}

	return tx.Commit()
}

// GetRun returns the ledger row for runID.
func (s *Store) GetRun(ctx context.Context, runID string) (*types.Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, company_name, website, started_at, finished_at,
			overall_score, coverage, confidence, flags_json
		 FROM runs WHERE id = ?`, runID)
	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("no such run %s", runID)
	}
	if err != nil {
		return nil, fmt.Errorf("reading run %s: %w", runID, err)
	}
	return run, nil
}

// ListRuns returns all ledger rows, most recently started first.
func (s *Store) ListRuns(ctx context.Context) ([]types.Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, company_name, website, started_at, finished_at,
			overall_score, coverage, confidence, flags_json
		 FROM runs ORDER BY started_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []types.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

// RunCriteria returns the criterion rows saved for runID, in insert order.
func (s *Store) RunCriteria(ctx context.Context, runID string) ([]types.CriterionScore, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT criterion_id, name, category, score, max_score, weight, rationale
		 FROM criteria WHERE run_id = ? ORDER BY rowid`, runID)
	if err != nil {
		return nil, fmt.Errorf("reading criteria for run %s: %w", runID, err)
	}
	defer rows.Close()

	var out []types.CriterionScore
	for rows.Next() {
		var c types.CriterionScore
		if err := rows.Scan(&c.CriterionID, &c.Name, &c.Category, &c.Score, &c.MaxScore, &c.Weight, &c.Rationale); err != nil {
			return nil, fmt.Errorf("scanning criterion: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*types.Run, error) {
	var (
		run          types.Run
		website      sql.NullString
		startedAt    string
		finishedAt   sql.NullString
		overallScore sql.NullFloat64
		coverage     sql.NullFloat64
		confidence   sql.NullFloat64
		flagsJSON    sql.NullString
	)
	if err := row.Scan(&run.ID, &run.CompanyName, &website, &startedAt, &finishedAt,
		&overallScore, &coverage, &confidence, &flagsJSON); err != nil {
		return nil, err
	}

	run.Website = website.String
	if t, err := time.Parse(time.RFC3339, startedAt); err == nil {
		run.StartedAt = t
	}
	if finishedAt.Valid {
		if t, err := time.Parse(time.RFC3339, finishedAt.String); err == nil {
			run.FinishedAt = &t
		}
	}
	run.OverallScore = overallScore.Float64
	run.Coverage = coverage.Float64
	run.Confidence = confidence.Float64
	if flagsJSON.Valid && flagsJSON.String != "" {
		// Unparseable flags degrade to none rather than failing the read.
		json.Unmarshal([]byte(flagsJSON.String), &run.Flags)
	}
	return &run, nil
}
