// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dedup

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
)

// FileStat records the contribution of one input file to the merge (R4.2).
type FileStat struct {
	// File is the input file path.
	File string `json:"file"`

	// Papers is the number of records loaded from the file.
	Papers int `json:"papers"`
}

// Filters documents the corpus filters in effect when the merge ran. The
// values are recorded for the PRISMA audit trail; the filters themselves
// are applied by the screening stage.
type Filters struct {
	// YearRange is the temporal window, e.g. "2019-2025".
	YearRange string `json:"year_range"`

	// PublicationTypes lists the admitted publication types.
	PublicationTypes []string `json:"publication_types"`
}

// Stats is the deduplication statistics document (R4.1). Field names match
// the JSON consumed by downstream reporting.
type Stats struct {
	TotalBefore    int            `json:"total_papers_before"`
	UniqueAfter    int            `json:"unique_papers_after"`
	Removed        int            `json:"duplicates_removed"`
	RatePercent    float64        `json:"deduplication_rate_percent"`
	DatabaseTotals map[string]int `json:"database_totals"`
	FileStats      []FileStat     `json:"file_statistics,omitempty"`
	OutputFile     string         `json:"output_file,omitempty"`
	Filters        Filters        `json:"filters_applied"`
}

// newStats computes the arithmetic fields; callers fill FileStats,
// OutputFile, and Filters before writing.
func newStats(before, after int, perSource map[string]int) Stats {
	s := Stats{
		TotalBefore:    before,
		UniqueAfter:    after,
		Removed:        before - after,
		DatabaseTotals: perSource,
	}
	if before > 0 {
		rate := float64(s.Removed) / float64(before) * 100
		s.RatePercent = math.Round(rate*10) / 10
	}
	return s
}

// WriteFile writes the statistics document as indented JSON.
func (s Stats) WriteFile(path string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding dedup statistics: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing dedup statistics: %w", err)
	}
	return nil
}

// LoadStats reads a statistics document written by WriteFile; the report
// stage uses it to fill the identification side of the PRISMA flow.
func LoadStats(path string) (Stats, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Stats{}, fmt.Errorf("reading dedup statistics: %w", err)
	}
	var s Stats
	if err := json.Unmarshal(data, &s); err != nil {
		return Stats{}, fmt.Errorf("parsing dedup statistics %s: %w", path, err)
	}
	return s, nil
}
