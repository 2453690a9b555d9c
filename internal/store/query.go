// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/pdiddy/drift-slr/pkg/types"
)

// Record is a stored paper with its decision and manual-review fields.
// QualityScore is the reviewer-assigned 0-10 quality assessment from the
// full-text stage; it is a different measurement than Decision.Score and
// the two are kept in separate columns (R7.3).
type Record struct {
	types.ScreenedPaper `yaml:",inline"`

	QualityScore *float64  `json:"quality_score,omitempty" yaml:"quality_score,omitempty"`
	VerifiedBy   string    `json:"verified_by,omitempty" yaml:"verified_by,omitempty"`
	VerifiedAt   time.Time `json:"verified_at,omitempty" yaml:"verified_at,omitempty"`
	RunID        string    `json:"run_id,omitempty" yaml:"run_id,omitempty"`
}

// QueryOptions holds parameters for store queries (R3).
type QueryOptions struct {
	// Text is the FTS5 full-text search string over title and abstract (R3.1).
	Text string

	// Status filters by screening status (R3.2).
	Status types.ScreenStatus

	// Included filters by verdict when non-nil (R3.2).
	Included *bool

	// MinScore and MaxScore bound the automated score (R3.3). Negative
	// values mean unbounded.
	MinScore float64
	MaxScore float64

	// Year filters by publication year; zero means any (R3.4).
	Year int

	// Source filters by originating database (R3.4).
	Source string

	// MaxResults limits result count. Zero uses the store default (R3.5).
	MaxResults int
}

const recordColumns = `p.id, p.number, p.title, p.abstract, p.year, p.authors,
	p.doi, p.url, p.pdf_path, p.source, p.language, p.venue, p.citations,
	p.score, p.included, p.reason, p.categories, p.status,
	p.quality_score, p.verified_by, p.verified_at, p.run_id`

// Query returns stored papers matching the options. Full-text queries are
// ranked by FTS5 relevance; structured-only queries sort by score
// descending (R3.6).
func (s *Store) Query(ctx context.Context, opts QueryOptions) ([]Record, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb     strings.Builder
		args   []any
		useFTS = opts.Text != ""
	)

	if useFTS {
		qb.WriteString(`SELECT ` + recordColumns + `
			FROM papers_fts
			JOIN papers p ON p.rowid = papers_fts.rowid
			WHERE papers_fts MATCH ?`)
		args = append(args, opts.Text)
	} else {
		qb.WriteString(`SELECT ` + recordColumns + `
			FROM papers p
			WHERE 1=1`)
	}

	if opts.Status != "" {
		qb.WriteString(` AND p.status = ?`)
		args = append(args, string(opts.Status))
	}
	if opts.Included != nil {
		qb.WriteString(` AND p.included = ?`)
		args = append(args, boolInt(*opts.Included))
	}
	if opts.MinScore > 0 {
		qb.WriteString(` AND p.score >= ?`)
		args = append(args, opts.MinScore)
	}
	if opts.MaxScore > 0 {
		qb.WriteString(` AND p.score <= ?`)
		args = append(args, opts.MaxScore)
	}
	if opts.Year > 0 {
		qb.WriteString(` AND p.year = ?`)
		args = append(args, opts.Year)
	}
	if opts.Source != "" {
		qb.WriteString(` AND p.source = ?`)
		args = append(args, opts.Source)
	}

	if useFTS {
		qb.WriteString(` ORDER BY papers_fts.rank`)
	} else {
		qb.WriteString(` ORDER BY p.score DESC, p.id`)
	}

	qb.WriteString(` LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying papers: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// IncludedPapers returns every included paper, unbounded by the query
// default limit, for full-text acquisition.
func (s *Store) IncludedPapers(ctx context.Context) ([]Record, error) {
	included := true
	return s.Query(ctx, QueryOptions{Included: &included, MaxResults: exportLimit})
}

// Get returns a single stored paper by ID.
func (s *Store) Get(ctx context.Context, paperID string) (Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+recordColumns+` FROM papers p WHERE p.id = ?`, paperID)
	if err != nil {
		return Record{}, fmt.Errorf("querying paper: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return Record{}, err
		}
		return Record{}, fmt.Errorf("paper %s not found", paperID)
	}
	return scanRecord(rows)
}

func scanRecord(rows *sql.Rows) (Record, error) {
	var (
		r              Record
		abstract       sql.NullString
		authorsJSON    sql.NullString
		doi, url       sql.NullString
		pdfPath        sql.NullString
		source, lang   sql.NullString
		venue          sql.NullString
		number         sql.NullInt64
		year           sql.NullInt64
		citations      sql.NullInt64
		score          sql.NullFloat64
		included       sql.NullInt64
		reason         sql.NullString
		categoriesJSON sql.NullString
		status         sql.NullString
		quality        sql.NullFloat64
		verifiedBy     sql.NullString
		verifiedAt     sql.NullString
		runID          sql.NullString
	)

	if err := rows.Scan(
		&r.Paper.ID, &number, &r.Paper.Title, &abstract, &year, &authorsJSON,
		&doi, &url, &pdfPath, &source, &lang, &venue, &citations,
		&score, &included, &reason, &categoriesJSON, &status,
		&quality, &verifiedBy, &verifiedAt, &runID,
	); err != nil {
		return Record{}, fmt.Errorf("scanning row: %w", err)
	}

	r.Paper.Number = int(number.Int64)
	r.Paper.Abstract = abstract.String
	r.Paper.Year = int(year.Int64)
	r.Paper.DOI = doi.String
	r.Paper.URL = url.String
	r.Paper.PDFPath = pdfPath.String
	r.Paper.Source = source.String
	r.Paper.Language = lang.String
	r.Paper.Venue = venue.String
	r.Paper.Citations = int(citations.Int64)

	if authorsJSON.Valid {
		json.Unmarshal([]byte(authorsJSON.String), &r.Paper.Authors)
	}
	r.Decision.Score = score.Float64
	r.Decision.Included = included.Int64 == 1
	r.Decision.Reason = reason.String
	if categoriesJSON.Valid {
		json.Unmarshal([]byte(categoriesJSON.String), &r.Decision.Categories)
	}
	r.Decision.Status = types.ScreenStatus(status.String)

	if quality.Valid {
		q := quality.Float64
		r.QualityScore = &q
	}
	r.VerifiedBy = verifiedBy.String
	if verifiedAt.Valid && verifiedAt.String != "" {
		if t, err := time.Parse(time.RFC3339, verifiedAt.String); err == nil {
			r.VerifiedAt = t
		}
	}
	r.RunID = runID.String
	return r, nil
}
