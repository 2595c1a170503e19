// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists snapshots, benchmark scores, recommendations,
// the competitor registry, and run history in SQLite.
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

	"github.com/carmarket/seobench/pkg/types"
)

const defaultDBFile = "bench/bench.db"

// Store manages the benchmark SQLite database.
type Store struct {
	db *sql.DB
}

// New opens or creates the benchmark database and its schema.
func New(cfg types.StoreConfig) (*Store, error) {
	path := cfg.Path
	if path == "" {
		path = defaultDBFile
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
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
		`CREATE TABLE IF NOT EXISTS snapshots (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			domain TEXT NOT NULL,
			date TEXT NOT NULL,
			kpis TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_snapshots_domain_date ON snapshots(domain, date DESC)`,
		`CREATE TABLE IF NOT EXISTS scores (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			domain TEXT NOT NULL,
			pillar TEXT NOT NULL,
			date TEXT NOT NULL,
			score REAL NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_scores_domain_date ON scores(domain, date DESC)`,
		`CREATE TABLE IF NOT EXISTS recommendations (
			id TEXT PRIMARY KEY,
			date TEXT NOT NULL,
			pillar TEXT NOT NULL,
			severity TEXT NOT NULL,
			title TEXT NOT NULL,
			action_do TEXT,
			action_dont TEXT,
			evidence TEXT,
			expected_uplift REAL NOT NULL,
			effort TEXT,
			confidence REAL NOT NULL,
			status TEXT NOT NULL DEFAULT 'pending'
		)`,
		`CREATE TABLE IF NOT EXISTS competitors (
			domain TEXT PRIMARY KEY,
			label TEXT,
			is_active INTEGER NOT NULL DEFAULT 1
		)`,
		`CREATE TABLE IF NOT EXISTS runs (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			started TEXT NOT NULL,
			finished TEXT NOT NULL,
			success INTEGER NOT NULL,
			error TEXT,
			summary TEXT NOT NULL
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// --- snapshots ---

// InsertSnapshot appends one immutable snapshot. Existing snapshots are
// never updated; a newer date supersedes older rows in "latest" queries.
func (s *Store) InsertSnapshot(ctx context.Context, snap types.Snapshot) error {
	kpis, err := json.Marshal(snap.KPIs)
	if err != nil {
		return fmt.Errorf("marshaling KPIs: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO snapshots (domain, date, kpis) VALUES (?, ?, ?)`,
		snap.Domain, snap.Date.UTC().Format(time.RFC3339Nano), string(kpis),
	)
	if err != nil {
		return fmt.Errorf("inserting snapshot for %s: %w", snap.Domain, err)
	}
	return nil
}

// LatestSnapshot returns the newest snapshot for domain, or nil when the
// domain has never been crawled.
func (s *Store) LatestSnapshot(ctx context.Context, domain string) (*types.Snapshot, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT domain, date, kpis FROM snapshots WHERE domain = ? ORDER BY date DESC LIMIT 1`,
		domain,
	)
	snap, err := scanSnapshot(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading latest snapshot for %s: %w", domain, err)
	}
	return snap, nil
}

// AllLatestSnapshots returns the newest snapshot per domain, for leader
// computation across competitors.
func (s *Store) AllLatestSnapshots(ctx context.Context) ([]types.Snapshot, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT domain, date, kpis FROM snapshots
		 WHERE rowid IN (SELECT MAX(rowid) FROM snapshots GROUP BY domain)
		 ORDER BY domain`,
	)
	if err != nil {
		return nil, fmt.Errorf("reading latest snapshots: %w", err)
	}
	defer rows.Close()

	var out []types.Snapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning snapshot: %w", err)
		}
		out = append(out, *snap)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(r rowScanner) (*types.Snapshot, error) {
	var snap types.Snapshot
	var date, kpis string
	if err := r.Scan(&snap.Domain, &date, &kpis); err != nil {
		return nil, err
	}
	t, err := time.Parse(time.RFC3339Nano, date)
	if err != nil {
		return nil, fmt.Errorf("parsing snapshot date: %w", err)
	}
	snap.Date = t
	if err := json.Unmarshal([]byte(kpis), &snap.KPIs); err != nil {
		return nil, fmt.Errorf("parsing snapshot KPIs: %w", err)
	}
	return &snap, nil
}

// --- scores ---

// InsertScore appends one benchmark score row.
func (s *Store) InsertScore(ctx context.Context, score types.BenchmarkScore) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO scores (domain, pillar, date, score) VALUES (?, ?, ?, ?)`,
		score.Domain, string(score.Pillar), score.Date.UTC().Format(time.RFC3339Nano), score.Score,
	)
	if err != nil {
		return fmt.Errorf("inserting score for %s/%s: %w", score.Domain, score.Pillar, err)
	}
	return nil
}

// LatestScores returns the n most recent score rows for domain, newest
// first. n <= 0 means one full pillar set.
func (s *Store) LatestScores(ctx context.Context, domain string, n int) ([]types.BenchmarkScore, error) {
	if n <= 0 {
		n = len(types.Pillars)
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT domain, pillar, date, score FROM scores
		 WHERE domain = ? ORDER BY date DESC, rowid DESC LIMIT ?`,
		domain, n,
	)
	if err != nil {
		return nil, fmt.Errorf("reading scores for %s: %w", domain, err)
	}
	defer rows.Close()

	var out []types.BenchmarkScore
	for rows.Next() {
		var sc types.BenchmarkScore
		var pillar, date string
		if err := rows.Scan(&sc.Domain, &pillar, &date, &sc.Score); err != nil {
			return nil, fmt.Errorf("scanning score: %w", err)
		}
		sc.Pillar = types.Pillar(pillar)
		if sc.Date, err = time.Parse(time.RFC3339Nano, date); err != nil {
			return nil, fmt.Errorf("parsing score date: %w", err)
		}
		out = append(out, sc)
	}
	return out, rows.Err()
}

// --- recommendations ---

// InsertRecommendation persists one generated recommendation.
func (s *Store) InsertRecommendation(ctx context.Context, rec types.Recommendation) error {
	evidence, err := json.Marshal(rec.Evidence)
	if err != nil {
		return fmt.Errorf("marshaling evidence: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO recommendations
		 (id, date, pillar, severity, title, action_do, action_dont, evidence,
		  expected_uplift, effort, confidence, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Date.UTC().Format(time.RFC3339Nano), string(rec.Pillar),
		string(rec.Severity), rec.Title, rec.Do, rec.Dont, string(evidence),
		rec.ExpectedUplift, rec.Effort, rec.Confidence, string(rec.Status),
	)
	if err != nil {
		return fmt.Errorf("inserting recommendation %q: %w", rec.Title, err)
	}
	return nil
}

// RecommendationFilter narrows ListRecommendations.
type RecommendationFilter struct {
	Pillar types.Pillar
	Status types.RecommendationStatus
	Limit  int
}

// ListRecommendations returns recommendations newest first, optionally
// filtered by pillar and status.
func (s *Store) ListRecommendations(ctx context.Context, f RecommendationFilter) ([]types.Recommendation, error) {
	query := `SELECT id, date, pillar, severity, title, action_do, action_dont,
	                 evidence, expected_uplift, effort, confidence, status
	          FROM recommendations WHERE 1=1`
	var args []any
	if f.Pillar != "" {
		query += ` AND pillar = ?`
		args = append(args, string(f.Pillar))
	}
	if f.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(f.Status))
	}
	query += ` ORDER BY date DESC, expected_uplift DESC`
	if f.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing recommendations: %w", err)
	}
	defer rows.Close()

	var out []types.Recommendation
	for rows.Next() {
		var rec types.Recommendation
		var date, pillar, severity, evidence, status string
		if err := rows.Scan(&rec.ID, &date, &pillar, &severity, &rec.Title,
			&rec.Do, &rec.Dont, &evidence, &rec.ExpectedUplift,
			&rec.Effort, &rec.Confidence, &status); err != nil {
			return nil, fmt.Errorf("scanning recommendation: %w", err)
		}
		rec.Pillar = types.Pillar(pillar)
		rec.Severity = types.Severity(severity)
		rec.Status = types.RecommendationStatus(status)
		if rec.Date, err = time.Parse(time.RFC3339Nano, date); err != nil {
			return nil, fmt.Errorf("parsing recommendation date: %w", err)
		}
		if err := json.Unmarshal([]byte(evidence), &rec.Evidence); err != nil {
			return nil, fmt.Errorf("parsing recommendation evidence: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// UpdateRecommendationStatus is the single post-creation mutation,
// driven by an external review workflow.
func (s *Store) UpdateRecommendationStatus(ctx context.Context, id string, status types.RecommendationStatus) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE recommendations SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return fmt.Errorf("updating recommendation %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("recommendation %s not found", id)
	}
	return nil
}

// --- competitors ---

// UpsertCompetitor registers or refreshes one tracked domain.
func (s *Store) UpsertCompetitor(ctx context.Context, c types.Competitor) error {
	active := 0
	if c.IsActive {
		active = 1
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO competitors (domain, label, is_active) VALUES (?, ?, ?)
		 ON CONFLICT(domain) DO UPDATE SET label=excluded.label, is_active=excluded.is_active`,
		c.Domain, c.Label, active,
	)
	if err != nil {
		return fmt.Errorf("upserting competitor %s: %w", c.Domain, err)
	}
	return nil
}

// ListActiveCompetitors returns the tracked domains the engine iterates.
func (s *Store) ListActiveCompetitors(ctx context.Context) ([]types.Competitor, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT domain, label, is_active FROM competitors WHERE is_active = 1 ORDER BY domain`)
	if err != nil {
		return nil, fmt.Errorf("listing competitors: %w", err)
	}
	defer rows.Close()

	var out []types.Competitor
	for rows.Next() {
		var c types.Competitor
		var active int
		if err := rows.Scan(&c.Domain, &c.Label, &active); err != nil {
			return nil, fmt.Errorf("scanning competitor: %w", err)
		}
		c.IsActive = active == 1
		out = append(out, c)
	}
	return out, rows.Err()
}

// --- runs ---

// InsertRun records one run summary for later status queries.
func (s *Store) InsertRun(ctx context.Context, status types.RunStatus) error {
	summary, err := json.Marshal(status)
	if err != nil {
		return fmt.Errorf("marshaling run summary: %w", err)
	}
	success := 0
	if status.Success {
		success = 1
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO runs (started, finished, success, error, summary) VALUES (?, ?, ?, ?, ?)`,
		status.StartedAt.UTC().Format(time.RFC3339Nano),
		status.FinishedAt.UTC().Format(time.RFC3339Nano),
		success, status.Error, string(summary),
	)
	if err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}
	return nil
}

// LastRun returns the most recent run summary, or nil when no run has
// ever completed.
func (s *Store) LastRun(ctx context.Context) (*types.RunStatus, error) {
	var summary string
	err := s.db.QueryRowContext(ctx,
		`SELECT summary FROM runs ORDER BY rowid DESC LIMIT 1`).Scan(&summary)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading last run: %w", err)
	}
	var status types.RunStatus
	if err := json.Unmarshal([]byte(summary), &status); err != nil {
		return nil, fmt.Errorf("parsing run summary: %w", err)
	}
	return &status, nil
}
