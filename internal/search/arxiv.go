// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/mmcdole/gofeed"

	"github.com/pdiddy/drift-slr/internal/httputil"
	"github.com/pdiddy/drift-slr/pkg/types"
)

// arxivAPIBase is the arXiv search endpoint. Declared as a var so tests
// can substitute an httptest server.
var arxivAPIBase = "https://export.arxiv.org/api/query"

// arxivIDPattern extracts the arXiv ID from an abs URL such as
// "http://arxiv.org/abs/2301.07041v2".
var arxivIDPattern = regexp.MustCompile(`arxiv\.org/abs/(\d{4}\.\d{4,5}(?:v\d+)?)`)

// ArxivBackend queries the arXiv Atom API (R1.1).
type ArxivBackend struct {
	Client *http.Client
}

// Name returns the backend identifier.
func (b *ArxivBackend) Name() string { return "arxiv" }

// Search queries the arXiv API and maps Atom entries onto Paper records.
// The Atom response is parsed with gofeed, which handles the namespace
// quirks of the arXiv feed.
func (b *ArxivBackend) Search(ctx context.Context, query string, cfg types.SearchConfig) ([]types.Paper, error) {
	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 50
	}

	params := url.Values{}
	params.Set("search_query", buildArxivQuery(query, cfg))
	params.Set("start", "0")
	params.Set("max_results", fmt.Sprintf("%d", maxResults))
	params.Set("sortBy", "relevance")
	params.Set("sortOrder", "descending")

	resp, err := httputil.Get(ctx, b.Client, arxivAPIBase+"?"+params.Encode(), cfg.HTTPConfig)
	if err != nil {
		return nil, fmt.Errorf("arXiv API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arXiv API returned HTTP %d", resp.StatusCode)
	}

	feed, err := gofeed.NewParser().Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing arXiv response: %w", err)
	}

	var papers []types.Paper
	for _, item := range feed.Items {
		arxivID := extractArxivID(item.GUID)
		if arxivID == "" {
			arxivID = extractArxivID(item.Link)
		}
		if arxivID == "" {
			continue
		}

		p := types.Paper{
			ID:       arxivID,
			Title:    collapseSpace(item.Title),
			Abstract: collapseSpace(item.Description),
			URL:      item.Link,
			Source:   "arxiv",
			Language: "en",
		}
		for _, a := range item.Authors {
			if name := strings.TrimSpace(a.Name); name != "" {
				p.Authors = append(p.Authors, name)
			}
		}
		if item.PublishedParsed != nil {
			p.Year = item.PublishedParsed.Year()
		}
		papers = append(papers, p)
	}
	return papers, nil
}

// buildArxivQuery constructs the search_query parameter: an all-fields
// term query, restricted by submission date when the config bounds years.
// Spaces are kept literal; url.Values.Encode turns them into the `+`
// separators the arXiv API decodes back to spaces.
func buildArxivQuery(query string, cfg types.SearchConfig) string {
	terms := strings.Fields(query)
	q := "all:" + strings.Join(terms, " ")
	if cfg.FromYear > 0 && cfg.ToYear > 0 {
		q += fmt.Sprintf(" AND submittedDate:[%d0101 TO %d1231]", cfg.FromYear, cfg.ToYear)
	}
	return q
}

// extractArxivID pulls the bare arXiv ID out of an abs URL, without the
// version suffix so re-runs dedupe against stored records.
func extractArxivID(s string) string {
	m := arxivIDPattern.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	id := m[1]
	if i := strings.IndexByte(id, 'v'); i > 0 {
		id = id[:i]
	}
	return id
}

// collapseSpace folds the newlines arXiv embeds in titles and abstracts.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
