// Package store provides SQLite persistence for curated runs. The run
// history backs feedback resolution and the stats command.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/abelbrown/curator/internal/curation"
	"github.com/abelbrown/curator/internal/feeds"
	_ "modernc.org/sqlite"
)

// Store handles SQLite persistence. NOT an interface - concrete type.
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// RunSummary is one row of run history for reporting
type RunSummary struct {
	RunID          string
	Method         string
	CreatedAt      time.Time
	TotalProcessed int
	Selected       int
	MeanScore      float64
	ElapsedMs      int64
}

// Open creates a new Store with the given database path.
// Creates tables if they don't exist.
// Uses WAL mode for better concurrent read performance (file-based DBs only).
func Open(dbPath string) (*Store, error) {
	connStr := dbPath
	if dbPath == ":memory:" {
		// Shared cache so all pooled connections see the same database
		connStr = "file::memory:?cache=shared"
	}

	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if dbPath != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable WAL mode: %w", err)
		}
	}

	s := &Store{db: db}

	if err := s.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return s, nil
}

func (s *Store) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		run_id TEXT PRIMARY KEY,
		method TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		total_processed INTEGER NOT NULL,
		selected INTEGER NOT NULL,
		mean_score REAL NOT NULL,
		distinct_sources INTEGER NOT NULL,
		elapsed_ms INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS curated_articles (
		run_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		id TEXT NOT NULL,
		title TEXT NOT NULL,
		url TEXT NOT NULL,
		excerpt TEXT,
		author TEXT,
		published_at DATETIME NOT NULL,
		source_id TEXT,
		source_name TEXT,
		category TEXT,
		tags TEXT,
		read_minutes INTEGER,
		score REAL NOT NULL,
		reason TEXT,
		section TEXT,
		confidence REAL,
		ai_summary TEXT,
		PRIMARY KEY (run_id, position)
	);

	CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_curated_id ON curated_articles(id);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// SaveRun persists a curation result and its articles in one transaction.
func (s *Store) SaveRun(res *curation.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO runs (run_id, method, created_at, total_processed, selected, mean_score, distinct_sources, elapsed_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		res.RunID, res.Method, time.Now().UTC(), res.TotalProcessed, len(res.Articles),
		res.Metrics.MeanScore, res.Metrics.DistinctSources, res.Elapsed.Milliseconds())
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for i, a := range res.Articles {
		tags, _ := json.Marshal(a.Tags)
		_, err = tx.Exec(
			`INSERT INTO curated_articles
			 (run_id, position, id, title, url, excerpt, author, published_at, source_id, source_name,
			  category, tags, read_minutes, score, reason, section, confidence, ai_summary)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			res.RunID, i, a.ID, a.Title, a.URL, a.Excerpt, a.Author, a.Published.UTC(),
			a.Source.ID, a.Source.Name, a.Category, string(tags), a.ReadMinutes,
			a.Score, a.Reason, a.Section, a.Confidence, a.AISummary)
		if err != nil {
			return fmt.Errorf("insert article %s: %w", a.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run: %w", err)
	}
	return nil
}

// LatestArticles returns the articles of the most recent run in rank
// order, or nil if no run has been saved yet.
func (s *Store) LatestArticles() ([]curation.ScoredCandidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var runID string
	err := s.db.QueryRow(`SELECT run_id FROM runs ORDER BY created_at DESC LIMIT 1`).Scan(&runID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query latest run: %w", err)
	}

	rows, err := s.db.Query(
		`SELECT id, title, url, excerpt, author, published_at, source_id, source_name,
		        category, tags, read_minutes, score, reason, section, confidence, ai_summary
		 FROM curated_articles WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("query articles: %w", err)
	}
	defer rows.Close()

	var articles []curation.ScoredCandidate
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

// FindCurated resolves an article id against previously curated runs,
// preferring the most recent occurrence.
func (s *Store) FindCurated(articleID string) (feeds.Candidate, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(
		`SELECT ca.id, ca.title, ca.url, ca.excerpt, ca.author, ca.published_at,
		        ca.source_id, ca.source_name, ca.category, ca.tags, ca.read_minutes,
		        ca.score, ca.reason, ca.section, ca.confidence, ca.ai_summary
		 FROM curated_articles ca
		 JOIN runs r ON r.run_id = ca.run_id
		 WHERE ca.id = ?
		 ORDER BY r.created_at DESC LIMIT 1`, articleID)

	a, err := scanArticle(row)
	if err == sql.ErrNoRows {
		return feeds.Candidate{}, false, nil
	}
	if err != nil {
		return feeds.Candidate{}, false, err
	}
	return a.Candidate, true, nil
}

// RunHistory returns the most recent runs, newest first.
func (s *Store) RunHistory(limit int) ([]RunSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT run_id, method, created_at, total_processed, selected, mean_score, elapsed_ms
		 FROM runs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var r RunSummary
		if err := rows.Scan(&r.RunID, &r.Method, &r.CreatedAt, &r.TotalProcessed,
			&r.Selected, &r.MeanScore, &r.ElapsedMs); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// scanner covers both *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...any) error
}

func scanArticle(row scanner) (curation.ScoredCandidate, error) {
	var a curation.ScoredCandidate
	var tags string
	err := row.Scan(&a.ID, &a.Title, &a.URL, &a.Excerpt, &a.Author, &a.Published,
		&a.Source.ID, &a.Source.Name, &a.Category, &tags, &a.ReadMinutes,
		&a.Score, &a.Reason, &a.Section, &a.Confidence, &a.AISummary)
	if err != nil {
		return curation.ScoredCandidate{}, err
	}
	if tags != "" {
		if err := json.Unmarshal([]byte(tags), &a.Tags); err != nil {
			a.Tags = nil
		}
	}
	return a, nil
}
