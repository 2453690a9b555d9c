// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists papers and screening decisions in a SQLite
// database with full-text search over titles and abstracts.
// Implements: prd004-paper-store (R1-R7); docs/ARCHITECTURE § Storage.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/drift-slr/pkg/types"
)

const defaultDBPath = "data/review.db"

// Store manages the screening database.
type Store struct {
	db         *sql.DB
	exportDir  string
	maxResults int
}

// Run records one screening batch written to the store.
type Run struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Total      int
	Included   int
	Excluded   int
	Skipped    int
}

// NewRun returns a Run with a fresh UUID and the clock started.
func NewRun() Run {
	return Run{ID: uuid.New().String(), StartedAt: time.Now().UTC()}
}

// NewStore opens or creates the screening database at cfg.DBPath,
// creating the schema if it does not exist (R1.1, R1.2).
func NewStore(cfg types.StoreConfig) (*Store, error) {
	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = defaultDBPath
	}
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 50
	}

	s := &Store{
		db:         db,
		exportDir:  cfg.ExportDir,
		maxResults: maxResults,
	}

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
		`CREATE TABLE IF NOT EXISTS papers (
			id TEXT PRIMARY KEY,
			number INTEGER,
			title TEXT NOT NULL,
			abstract TEXT,
			year INTEGER,
			authors TEXT,
			doi TEXT,
			url TEXT,
			pdf_path TEXT,
			source TEXT,
			language TEXT,
			venue TEXT,
			citations INTEGER,
			score REAL,
			included INTEGER,
			reason TEXT,
			categories TEXT,
			status TEXT,
			quality_score REAL,
			verified_by TEXT,
			verified_at TEXT,
			run_id TEXT,
			created_at TEXT,
			updated_at TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_papers_status ON papers(status)`,
		`CREATE INDEX IF NOT EXISTS idx_papers_score ON papers(score)`,
		`CREATE INDEX IF NOT EXISTS idx_papers_source ON papers(source)`,
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			started_at TEXT,
			finished_at TEXT,
			total INTEGER,
			included INTEGER,
			excluded INTEGER,
			skipped INTEGER
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='papers_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE papers_fts USING fts5(title, abstract, content=papers, content_rowid=rowid)`,
			`CREATE TRIGGER papers_ai AFTER INSERT ON papers BEGIN
				INSERT INTO papers_fts(rowid, title, abstract) VALUES (new.rowid, new.title, new.abstract);
			END`,
			`CREATE TRIGGER papers_ad AFTER DELETE ON papers BEGIN
				INSERT INTO papers_fts(papers_fts, rowid, title, abstract) VALUES('delete', old.rowid, old.title, old.abstract);
			END`,
			`CREATE TRIGGER papers_au AFTER UPDATE ON papers BEGIN
				INSERT INTO papers_fts(papers_fts, rowid, title, abstract) VALUES('delete', old.rowid, old.title, old.abstract);
				INSERT INTO papers_fts(rowid, title, abstract) VALUES (new.rowid, new.title, new.abstract);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}

	return nil
}

// SaveBatch upserts screening results and records the run row in a single
// transaction (R2.1, R2.2). Re-screening an already stored paper updates
// its automated fields; a reviewer's verified status and reason survive
// the upsert, as do the manual quality score and verification metadata
// (R2.3).
func (s *Store) SaveBatch(ctx context.Context, run Run, screened []types.ScreenedPaper) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO papers (
			id, number, title, abstract, year, authors, doi, url, pdf_path,
			source, language, venue, citations,
			score, included, reason, categories, status,
			run_id, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			number=excluded.number, title=excluded.title, abstract=excluded.abstract,
			year=excluded.year, authors=excluded.authors, doi=excluded.doi,
			url=excluded.url, source=excluded.source, language=excluded.language,
			venue=excluded.venue, citations=excluded.citations,
			score=excluded.score, categories=excluded.categories,
			included=CASE WHEN papers.status LIKE 'verified_%' THEN papers.included ELSE excluded.included END,
			reason=CASE WHEN papers.status LIKE 'verified_%' THEN papers.reason ELSE excluded.reason END,
			status=CASE WHEN papers.status LIKE 'verified_%' THEN papers.status ELSE excluded.status END,
			run_id=excluded.run_id, updated_at=excluded.updated_at`)
	if err != nil {
		return fmt.Errorf("preparing upsert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, sp := range screened {
		authorsJSON, _ := json.Marshal(sp.Paper.Authors)
		categoriesJSON, _ := json.Marshal(sp.Decision.Categories)
		_, err := stmt.ExecContext(ctx,
			sp.Paper.ID, sp.Paper.Number, sp.Paper.Title, sp.Paper.Abstract,
			sp.Paper.Year, string(authorsJSON), sp.Paper.DOI, sp.Paper.URL,
			sp.Paper.PDFPath, sp.Paper.Source, sp.Paper.Language, sp.Paper.Venue,
			sp.Paper.Citations,
			sp.Decision.Score, boolInt(sp.Decision.Included), sp.Decision.Reason,
			string(categoriesJSON), string(sp.Decision.Status),
			run.ID, now, now,
		)
		if err != nil {
			return fmt.Errorf("upserting paper %s: %w", sp.Paper.ID, err)
		}
	}

	finished := run.FinishedAt
	if finished.IsZero() {
		finished = time.Now().UTC()
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, finished_at, total, included, excluded, skipped)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.StartedAt.Format(time.RFC3339), finished.Format(time.RFC3339),
		run.Total, run.Included, run.Excluded, run.Skipped,
	)
	if err != nil {
		return fmt.Errorf("recording run: %w", err)
	}

	return tx.Commit()
}

// SetPDFPath records the downloaded full-text location for a paper (R7.4).
func (s *Store) SetPDFPath(ctx context.Context, paperID, pdfPath string) error {
	return s.updateOne(ctx,
		`UPDATE papers SET pdf_path = ?, updated_at = ? WHERE id = ?`,
		pdfPath, time.Now().UTC().Format(time.RFC3339), paperID)
}

// updateOne executes an UPDATE that must touch exactly one paper row.
func (s *Store) updateOne(ctx context.Context, query string, args ...any) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("updating paper: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("paper %v not found", args[len(args)-1])
	}
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
