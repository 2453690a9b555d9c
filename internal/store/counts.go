// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"fmt"

	"github.com/pdiddy/drift-slr/pkg/types"
)

// Counts holds per-stage totals for PRISMA reporting (R6.1).
type Counts struct {
	// Total is the number of stored papers.
	Total int

	// BySource counts papers per originating database.
	BySource map[string]int

	// Exclusion buckets, by decision reason.
	Temporal     int
	NoAbstract   int
	HardExcluded int
	LowRelevance int

	// Included counts papers with a positive verdict, automated or
	// verified.
	Included int

	// Verified counts papers a reviewer has signed off on.
	Verified int

	// WithPDF counts papers with an acquired full text.
	WithPDF int
}

// Counts aggregates per-stage totals from the stored decisions. The
// buckets are derived from the reason strings the classifier emits, so
// they partition the excluded set the same way the decision order did.
func (s *Store) Counts(ctx context.Context) (Counts, error) {
	c := Counts{BySource: make(map[string]int)}

	err := s.db.QueryRowContext(ctx, `
		SELECT
			count(*),
			coalesce(sum(CASE WHEN reason = ? THEN 1 ELSE 0 END), 0),
			coalesce(sum(CASE WHEN reason = ? THEN 1 ELSE 0 END), 0),
			coalesce(sum(CASE WHEN reason LIKE 'Hard exclusion criteria:%' THEN 1 ELSE 0 END), 0),
			coalesce(sum(CASE WHEN reason LIKE 'Low relevance%' THEN 1 ELSE 0 END), 0),
			coalesce(sum(included), 0),
			coalesce(sum(CASE WHEN status IN (?, ?) THEN 1 ELSE 0 END), 0),
			coalesce(sum(CASE WHEN pdf_path IS NOT NULL AND pdf_path != '' THEN 1 ELSE 0 END), 0)
		FROM papers`,
		"Outside temporal scope", "No abstract",
		string(types.StatusVerifiedIncluded), string(types.StatusVerifiedExcluded),
	).Scan(&c.Total, &c.Temporal, &c.NoAbstract, &c.HardExcluded,
		&c.LowRelevance, &c.Included, &c.Verified, &c.WithPDF)
	if err != nil {
		return Counts{}, fmt.Errorf("counting papers: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT source, count(*) FROM papers WHERE source != '' GROUP BY source`)
	if err != nil {
		return Counts{}, fmt.Errorf("counting by source: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var source string
		var n int
		if err := rows.Scan(&source, &n); err != nil {
			return Counts{}, fmt.Errorf("scanning source count: %w", err)
		}
		c.BySource[source] = n
	}
	return c, rows.Err()
}
