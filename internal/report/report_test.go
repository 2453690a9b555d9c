// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/drift-slr/internal/dedup"
	"github.com/pdiddy/drift-slr/internal/store"
)

func sampleCounts() store.Counts {
	return store.Counts{
		Total:        683,
		BySource:     map[string]int{"scispace": 500, "google_scholar": 100, "arxiv": 83},
		Temporal:     292,
		NoAbstract:   120,
		HardExcluded: 60,
		LowRelevance: 55,
		Included:     156,
		Verified:     40,
		WithPDF:      104,
	}
}

func TestBuild_WithoutDedupStats(t *testing.T) {
	f := Build(sampleCounts(), nil)

	assert.Equal(t, 683, f.TotalIdentified)
	assert.Equal(t, 683, f.AfterDedup)
	assert.Equal(t, 0, f.DuplicatesRemoved)
	assert.Equal(t, 156, f.Included)

	// Screening arithmetic: screened = included + all exclusion buckets.
	assert.Equal(t, f.Screened, f.Included+f.Excluded())
}

func TestBuild_WithDedupStats(t *testing.T) {
	stats := &dedup.Stats{
		TotalBefore:    830,
		UniqueAfter:    683,
		Removed:        147,
		DatabaseTotals: map[string]int{"scispace": 600, "google_scholar": 110, "arxiv": 120},
	}

	f := Build(sampleCounts(), stats)

	assert.Equal(t, 830, f.TotalIdentified)
	assert.Equal(t, 147, f.DuplicatesRemoved)
	assert.Equal(t, 683, f.AfterDedup)
	assert.Equal(t, 600, f.IdentifiedBySource["scispace"])
	assert.Equal(t, f.TotalIdentified, f.AfterDedup+f.DuplicatesRemoved)
}

func TestWriteJSON_SchemaStable(t *testing.T) {
	f := Build(sampleCounts(), nil)
	path := filepath.Join(t.TempDir(), "slr_statistics.json")
	require.NoError(t, f.WriteJSON(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	for _, key := range []string{
		"identified_by_source", "total_identified", "duplicates_removed",
		"unique_after_dedup", "screened", "excluded_temporal",
		"excluded_no_abstract", "excluded_hard_criteria",
		"excluded_low_relevance", "included", "verified", "fulltext_available",
	} {
		assert.Contains(t, doc, key)
	}
}

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	Render(&buf, Build(sampleCounts(), &dedup.Stats{
		TotalBefore: 830, UniqueAfter: 683, Removed: 147,
	}))

	out := buf.String()
	assert.Contains(t, out, "Identification")
	assert.Contains(t, out, "Deduplication")
	assert.Contains(t, out, "Screening")
	assert.Contains(t, out, "830")
	assert.Contains(t, out, "147 duplicates removed")
	assert.Contains(t, out, "156")
}
