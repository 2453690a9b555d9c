// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dedup merges candidate papers from multiple source databases and
// removes duplicate records before screening.
// Implements: prd002-deduplication (R1-R4); docs/ARCHITECTURE § Deduplication.
package dedup

import (
	"strings"
	"unicode"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/pdiddy/drift-slr/pkg/types"
)

// Default thresholds, from the review protocol (R2.1-R2.3).
const (
	defaultTitleSimilarity     = 0.85
	defaultAuthorOverlap       = 0.50
	defaultTitleOnlySimilarity = 0.95
)

// Result holds the deduplicated corpus and run statistics.
type Result struct {
	// Papers is the merged corpus in first-seen order.
	Papers []types.Paper

	// Removed is the number of duplicate records dropped.
	Removed int

	// Stats is the statistics document for the run.
	Stats Stats
}

// Deduplicate merges papers in first-seen order. A paper duplicates an
// earlier one when (R2):
//
//   - both carry the same normalized DOI, or
//   - their normalized titles are similar above the title threshold AND at
//     least half of the smaller author set appears in both, or
//   - their normalized titles are similar above the stricter title-only
//     threshold and either paper lists no authors.
//
// A duplicate's non-empty fields fill gaps in the kept record; the higher
// citation count wins (R3.1).
func Deduplicate(papers []types.Paper, cfg types.DedupConfig) Result {
	cfg = withDefaults(cfg)

	kept := make([]types.Paper, 0, len(papers))
	normTitles := make([]string, 0, len(papers))
	byDOI := make(map[string]int)

	perSource := make(map[string]int)
	removed := 0

	for _, p := range papers {
		if p.Source != "" {
			perSource[p.Source]++
		}

		idx, dup := findDuplicate(p, kept, normTitles, byDOI, cfg)
		if dup {
			mergeInto(&kept[idx], p)
			// The merge may have filled in a DOI; index it so later
			// records with the same DOI match directly.
			if doi := NormalizeDOI(kept[idx].DOI); doi != "" {
				if _, ok := byDOI[doi]; !ok {
					byDOI[doi] = idx
				}
			}
			removed++
			continue
		}

		kept = append(kept, p)
		normTitles = append(normTitles, normalizeTitle(p.Title))
		if doi := NormalizeDOI(p.DOI); doi != "" {
			byDOI[doi] = len(kept) - 1
		}
	}

	stats := newStats(len(papers), len(kept), perSource)
	return Result{Papers: kept, Removed: removed, Stats: stats}
}

func withDefaults(cfg types.DedupConfig) types.DedupConfig {
	if cfg.TitleSimilarity == 0 {
		cfg.TitleSimilarity = defaultTitleSimilarity
	}
	if cfg.AuthorOverlap == 0 {
		cfg.AuthorOverlap = defaultAuthorOverlap
	}
	if cfg.TitleOnlySimilarity == 0 {
		cfg.TitleOnlySimilarity = defaultTitleOnlySimilarity
	}
	return cfg
}

// findDuplicate returns the index of the earlier paper p duplicates, if any.
func findDuplicate(p types.Paper, kept []types.Paper, normTitles []string, byDOI map[string]int, cfg types.DedupConfig) (int, bool) {
	if doi := NormalizeDOI(p.DOI); doi != "" {
		if idx, ok := byDOI[doi]; ok {
			return idx, true
		}
	}

	title := normalizeTitle(p.Title)
	if title == "" {
		return 0, false
	}
	for i := range kept {
		sim := titleSimilarity(title, normTitles[i])
		if sim < cfg.TitleSimilarity {
			continue
		}
		if len(p.Authors) == 0 || len(kept[i].Authors) == 0 {
			if sim >= cfg.TitleOnlySimilarity {
				return i, true
			}
			continue
		}
		if authorOverlap(p.Authors, kept[i].Authors) >= cfg.AuthorOverlap {
			return i, true
		}
	}
	return 0, false
}

// mergeInto fills empty fields of dst from src and keeps the higher
// citation count. The first-seen record's identity fields win.
func mergeInto(dst *types.Paper, src types.Paper) {
	if dst.Abstract == "" {
		dst.Abstract = src.Abstract
	}
	if dst.DOI == "" {
		dst.DOI = src.DOI
	}
	if dst.URL == "" {
		dst.URL = src.URL
	}
	if dst.Venue == "" {
		dst.Venue = src.Venue
	}
	if dst.Language == "" {
		dst.Language = src.Language
	}
	if dst.Year == 0 {
		dst.Year = src.Year
	}
	if len(dst.Authors) == 0 {
		dst.Authors = src.Authors
	}
	if src.Citations > dst.Citations {
		dst.Citations = src.Citations
	}
}

// NormalizeDOI lower-cases a DOI and strips resolver prefixes so records
// from different databases compare equal (R2.1).
func NormalizeDOI(doi string) string {
	d := strings.ToLower(strings.TrimSpace(doi))
	for _, prefix := range []string{
		"https://doi.org/",
		"http://doi.org/",
		"https://dx.doi.org/",
		"http://dx.doi.org/",
		"doi:",
	} {
		d = strings.TrimPrefix(d, prefix)
	}
	return strings.TrimSpace(d)
}

// normalizeTitle lower-cases a title, maps punctuation to spaces, and
// collapses whitespace, mirroring the screening normalization so the two
// stages agree on what "the same title" means.
func normalizeTitle(s string) string {
	lower := strings.ToLower(s)
	var b strings.Builder
	b.Grow(len(lower))
	for _, r := range lower {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// titleSimilarity is the Ratcliff/Obershelp gestalt ratio over the rune
// sequences of two normalized titles, in [0, 1].
func titleSimilarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	if a == "" || b == "" {
		return 0.0
	}
	m := difflib.NewMatcher(strings.Split(a, ""), strings.Split(b, ""))
	return m.Ratio()
}

// authorOverlap returns the fraction of the smaller author set present in
// both lists, comparing normalized full names.
func authorOverlap(a, b []string) float64 {
	setA := authorSet(a)
	setB := authorSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0.0
	}

	smaller, larger := setA, setB
	if len(setB) < len(setA) {
		smaller, larger = setB, setA
	}
	common := 0
	for name := range smaller {
		if larger[name] {
			common++
		}
	}
	return float64(common) / float64(len(smaller))
}

func authorSet(authors []string) map[string]bool {
	set := make(map[string]bool, len(authors))
	for _, a := range authors {
		if n := normalizeTitle(a); n != "" {
			set[n] = true
		}
	}
	return set
}
