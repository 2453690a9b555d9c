// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/pdiddy/drift-slr/pkg/types"
)

// VerifyQueue returns the manual verification worklist: papers whose
// automated score falls in the borderline band plus the top-N
// highest-scoring papers, excluding already-verified ones (R5.1, R5.2).
// The protocol's defaults are a 2.5-3.5 band and the top 20.
func (s *Store) VerifyQueue(ctx context.Context, cfg types.VerifyConfig) ([]Record, error) {
	low, high, topN := cfg.BorderlineLow, cfg.BorderlineHigh, cfg.TopN
	if low == 0 && high == 0 {
		low, high = 2.5, 3.5
	}
	if topN <= 0 {
		topN = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+recordColumns+` FROM papers p
		WHERE p.status IN (?, ?)
		AND (
			(p.score >= ? AND p.score <= ?)
			OR p.id IN (
				SELECT id FROM papers
				WHERE status IN (?, ?)
				ORDER BY score DESC, id
				LIMIT ?
			)
		)
		ORDER BY p.score DESC, p.id`,
		string(types.StatusAutoIncluded), string(types.StatusAutoExcluded),
		low, high,
		string(types.StatusAutoIncluded), string(types.StatusAutoExcluded),
		topN,
	)
	if err != nil {
		return nil, fmt.Errorf("querying verification queue: %w", err)
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

// Override applies a reviewer's manual verification decision (R5.3). It
// flips the status to verified_included or verified_excluded, records the
// reviewer and timestamp, and rewrites the reason. The automated score and
// matched categories are never touched: they remain the audit trail for
// what the classifier decided.
func (s *Store) Override(ctx context.Context, paperID string, include bool, reviewer, note string) error {
	status := types.StatusVerifiedExcluded
	if include {
		status = types.StatusVerifiedIncluded
	}
	reason := "Manual verification"
	if note != "" {
		reason = "Manual verification: " + note
	}

	return s.updateOne(ctx,
		`UPDATE papers SET
			status = ?, included = ?, reason = ?,
			verified_by = ?, verified_at = ?, updated_at = ?
		WHERE id = ?`,
		string(status), boolInt(include), reason,
		reviewer, time.Now().UTC().Format(time.RFC3339),
		time.Now().UTC().Format(time.RFC3339), paperID)
}

// SetQualityScore records the reviewer's 0-10 quality assessment for a
// paper in the full-text stage (R7.3). The range is validated; the
// automated relevance score is a separate column and is not affected.
func (s *Store) SetQualityScore(ctx context.Context, paperID string, score float64) error {
	if score < 0 || score > 10 {
		return fmt.Errorf("quality score %.1f out of range [0, 10]", score)
	}
	return s.updateOne(ctx,
		`UPDATE papers SET quality_score = ?, updated_at = ? WHERE id = ?`,
		score, time.Now().UTC().Format(time.RFC3339), paperID)
}
