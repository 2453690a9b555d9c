// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report assembles PRISMA flow counts from the store and the
// deduplication statistics, for terminal display and stats export.
// Implements: prd005-reporting (R1-R3); docs/ARCHITECTURE § Reporting.
package report

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/pdiddy/drift-slr/internal/dedup"
	"github.com/pdiddy/drift-slr/internal/store"
)

// Flow mirrors the PRISMA stages of the review: identification,
// deduplication, screening with its exclusion buckets, and the included
// set with acquired full texts. The JSON field names are the stable
// schema consumed by the dashboard tooling downstream.
type Flow struct {
	// Identification.
	IdentifiedBySource map[string]int `json:"identified_by_source"`
	TotalIdentified    int            `json:"total_identified"`

	// Deduplication; zero when no statistics document was supplied.
	DuplicatesRemoved int `json:"duplicates_removed"`
	AfterDedup        int `json:"unique_after_dedup"`

	// Screening.
	Screened             int `json:"screened"`
	ExcludedTemporal     int `json:"excluded_temporal"`
	ExcludedNoAbstract   int `json:"excluded_no_abstract"`
	ExcludedHard         int `json:"excluded_hard_criteria"`
	ExcludedLowRelevance int `json:"excluded_low_relevance"`
	Included             int `json:"included"`

	// Verification and full-text acquisition.
	Verified          int `json:"verified"`
	FullTextAvailable int `json:"fulltext_available"`
}

// Build assembles a Flow from store counts, folding in the dedup
// statistics document when one is available. Without dedup statistics the
// identification side starts at the stored corpus.
func Build(counts store.Counts, dedupStats *dedup.Stats) Flow {
	f := Flow{
		IdentifiedBySource:   counts.BySource,
		TotalIdentified:      counts.Total,
		AfterDedup:           counts.Total,
		Screened:             counts.Total,
		ExcludedTemporal:     counts.Temporal,
		ExcludedNoAbstract:   counts.NoAbstract,
		ExcludedHard:         counts.HardExcluded,
		ExcludedLowRelevance: counts.LowRelevance,
		Included:             counts.Included,
		Verified:             counts.Verified,
		FullTextAvailable:    counts.WithPDF,
	}

	if dedupStats != nil {
		f.TotalIdentified = dedupStats.TotalBefore
		f.DuplicatesRemoved = dedupStats.Removed
		f.AfterDedup = dedupStats.UniqueAfter
		if len(dedupStats.DatabaseTotals) > 0 {
			f.IdentifiedBySource = dedupStats.DatabaseTotals
		}
	}
	return f
}

// Excluded returns the total number of papers screening excluded.
func (f Flow) Excluded() int {
	return f.ExcludedTemporal + f.ExcludedNoAbstract + f.ExcludedHard + f.ExcludedLowRelevance
}

// WriteJSON writes the flow as an indented JSON stats document (R3.1).
func (f Flow) WriteJSON(path string) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding flow statistics: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing flow statistics: %w", err)
	}
	return nil
}
