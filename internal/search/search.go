// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search queries academic APIs for candidate papers and returns
// unified, deduplicated results that feed the same pipeline as file imports.
// Implements: prd001-identification (R1, R4, R5);
//
//	docs/ARCHITECTURE § Identification.
package search

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pdiddy/drift-slr/internal/dedup"
	"github.com/pdiddy/drift-slr/internal/httputil"
	"github.com/pdiddy/drift-slr/pkg/types"
)

// Backend searches a single academic API. Each backend (arXiv, Crossref)
// implements this interface per the Strategy pattern (R4.1).
type Backend interface {
	Name() string
	Search(ctx context.Context, query string, cfg types.SearchConfig) ([]types.Paper, error)
}

// Backends returns the enabled backends for cfg, sharing one HTTP client.
func Backends(cfg types.SearchConfig) []Backend {
	client := httputil.NewClient(cfg.HTTPConfig)
	var backends []Backend
	if cfg.EnableArxiv {
		backends = append(backends, &ArxivBackend{Client: client})
	}
	if cfg.EnableCrossref {
		backends = append(backends, &CrossrefBackend{Client: client})
	}
	return backends
}

// Output holds merged results and per-run statistics.
type Output struct {
	Papers        []types.Paper
	DupsRemoved   int
	BackendErrors []string
}

// SearchAll queries the backends one after another, merges their results,
// and deduplicates by identifier and normalized title (R1.3, R4.3). The
// backends run sequentially with cfg.InterBackendDelay between calls, so
// the delay actually spaces the API requests (R5.5). A failing backend is
// reported as a warning, not an error: the merged results from the
// remaining backends are still useful. Results are truncated to
// cfg.MaxResults.
func SearchAll(ctx context.Context, backends []Backend, query string, cfg types.SearchConfig, w io.Writer) (Output, error) {
	if strings.TrimSpace(query) == "" {
		return Output{}, fmt.Errorf("query is empty: provide search terms")
	}
	if len(backends) == 0 {
		return Output{}, fmt.Errorf("no search backends enabled")
	}

	var all []types.Paper
	var backendErrors []string
	for i, b := range backends {
		if i > 0 && cfg.InterBackendDelay > 0 {
			time.Sleep(cfg.InterBackendDelay)
		}
		papers, err := b.Search(ctx, query, cfg)
		if err != nil {
			backendErrors = append(backendErrors, fmt.Sprintf("%s: %v", b.Name(), err))
			fmt.Fprintf(w, "warning: backend %s failed: %v\n", b.Name(), err)
			continue
		}
		fmt.Fprintf(w, "%s: %d results\n", b.Name(), len(papers))
		all = append(all, papers...)
	}

	merged, removed := mergeResults(all)

	if cfg.MaxResults > 0 && len(merged) > cfg.MaxResults {
		merged = merged[:cfg.MaxResults]
	}

	return Output{Papers: merged, DupsRemoved: removed, BackendErrors: backendErrors}, nil
}

// mergeResults collapses records that share an identifier or a normalized
// title, filling empty fields from later duplicates (R1.3). This is a
// cheap cross-backend merge; the full similarity-based deduplication runs
// later over the whole corpus.
func mergeResults(papers []types.Paper) ([]types.Paper, int) {
	seen := make(map[string]int) // dedup key -> index in merged
	var merged []types.Paper
	removed := 0

	for _, p := range papers {
		idKey := ""
		if doi := dedup.NormalizeDOI(p.DOI); doi != "" {
			idKey = "id:" + doi
		} else if p.ID != "" {
			idKey = "id:" + p.ID
		}
		titleKey := "title:" + normalizeTitle(p.Title)

		if idx, ok := seen[idKey]; ok && idKey != "" {
			mergeInto(&merged[idx], p)
			removed++
			continue
		}
		if idx, ok := seen[titleKey]; ok && titleKey != "title:" {
			mergeInto(&merged[idx], p)
			removed++
			continue
		}

		idx := len(merged)
		merged = append(merged, p)
		if idKey != "" {
			seen[idKey] = idx
		}
		if titleKey != "title:" {
			seen[titleKey] = idx
		}
	}
	return merged, removed
}

// mergeInto fills empty fields of dst from src and keeps the higher
// citation count.
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
	if dst.Source != src.Source && src.Source != "" && !strings.Contains(dst.Source, src.Source) {
		dst.Source = dst.Source + "," + src.Source
	}
}

// normalizeTitle returns a lowercased, punctuation-stripped title for
// cross-backend duplicate detection (R1.3).
func normalizeTitle(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == ' ' {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// FormatTable writes results as a human-readable table to w (R5.4).
func FormatTable(out Output, w io.Writer) {
	if len(out.Papers) == 0 {
		fmt.Fprintln(w, "No results found.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-60s  %-20s  %-4s  %s\n",
		"Rank", "Title", "Authors", "Year", "Source")
	fmt.Fprintln(w, strings.Repeat("-", 100))

	for i, p := range out.Papers {
		title := p.Title
		if len(title) > 60 {
			title = title[:57] + "..."
		}
		year := ""
		if p.Year > 0 {
			year = fmt.Sprintf("%d", p.Year)
		}
		fmt.Fprintf(w, "%-4d  %-60s  %-20s  %-4s  %s\n",
			i+1, title, formatAuthors(p.Authors), year, p.Source)
	}

	fmt.Fprintf(w, "\n%d results", len(out.Papers))
	if out.DupsRemoved > 0 {
		fmt.Fprintf(w, " (%d duplicates removed)", out.DupsRemoved)
	}
	fmt.Fprintln(w)
}

func formatAuthors(authors []string) string {
	switch len(authors) {
	case 0:
		return ""
	case 1:
		return truncate(authors[0], 20)
	default:
		return truncate(authors[0], 14) + " et al."
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
