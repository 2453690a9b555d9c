// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/pdiddy/drift-slr/internal/httputil"
	"github.com/pdiddy/drift-slr/pkg/types"
)

// crossrefAPIBase is the Crossref works endpoint. Declared as a var so
// tests can substitute an httptest server.
var crossrefAPIBase = "https://api.crossref.org/works"

// CrossrefBackend queries the Crossref REST API (R1.2).
type CrossrefBackend struct {
	Client *http.Client
}

// Name returns the backend identifier.
func (b *CrossrefBackend) Name() string { return "crossref" }

// Crossref API JSON structures.
type crossrefResponse struct {
	Message struct {
		Items []crossrefWork `json:"items"`
	} `json:"message"`
}

type crossrefWork struct {
	DOI            string           `json:"DOI"`
	Title          []string         `json:"title"`
	Abstract       string           `json:"abstract"`
	Author         []crossrefAuthor `json:"author"`
	Issued         crossrefDate     `json:"issued"`
	ContainerTitle []string         `json:"container-title"`
	URL            string           `json:"URL"`
	Language       string           `json:"language"`
	Citations      int              `json:"is-referenced-by-count"`
}

type crossrefAuthor struct {
	Given  string `json:"given"`
	Family string `json:"family"`
}

type crossrefDate struct {
	DateParts [][]int `json:"date-parts"`
}

// Search queries Crossref and maps works onto Paper records. The mailto
// parameter routes requests through Crossref's polite pool when the
// config provides a contact address.
func (b *CrossrefBackend) Search(ctx context.Context, query string, cfg types.SearchConfig) ([]types.Paper, error) {
	rows := cfg.MaxResults
	if rows <= 0 {
		rows = 50
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("rows", fmt.Sprintf("%d", rows))
	if cfg.FromYear > 0 && cfg.ToYear > 0 {
		params.Set("filter", fmt.Sprintf("from-pub-date:%d-01-01,until-pub-date:%d-12-31", cfg.FromYear, cfg.ToYear))
	}
	if cfg.CrossrefMailto != "" {
		params.Set("mailto", cfg.CrossrefMailto)
	}

	resp, err := httputil.Get(ctx, b.Client, crossrefAPIBase+"?"+params.Encode(), cfg.HTTPConfig)
	if err != nil {
		return nil, fmt.Errorf("Crossref API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Crossref API returned HTTP %d", resp.StatusCode)
	}

	var cr crossrefResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return nil, fmt.Errorf("parsing Crossref response: %w", err)
	}

	var papers []types.Paper
	for _, work := range cr.Message.Items {
		if len(work.Title) == 0 || work.DOI == "" {
			continue
		}

		p := types.Paper{
			ID:        strings.ToLower(work.DOI),
			DOI:       strings.ToLower(work.DOI),
			Title:     collapseSpace(work.Title[0]),
			Abstract:  stripJATS(work.Abstract),
			URL:       work.URL,
			Source:    "crossref",
			Language:  work.Language,
			Citations: work.Citations,
		}
		for _, a := range work.Author {
			if name := strings.TrimSpace(a.Given + " " + a.Family); name != "" {
				p.Authors = append(p.Authors, name)
			}
		}
		if len(work.ContainerTitle) > 0 {
			p.Venue = work.ContainerTitle[0]
		}
		if len(work.Issued.DateParts) > 0 && len(work.Issued.DateParts[0]) > 0 {
			p.Year = work.Issued.DateParts[0][0]
		}
		papers = append(papers, p)
	}
	return papers, nil
}

// jatsTag matches the JATS XML markup Crossref embeds in abstracts
// (<jats:p>, <jats:title>, ...).
var jatsTag = regexp.MustCompile(`</?[a-zA-Z][^>]*>`)

// stripJATS removes JATS markup from a Crossref abstract and collapses
// the remaining whitespace. The leading "Abstract" heading JATS titles
// contribute is dropped.
func stripJATS(s string) string {
	if s == "" {
		return ""
	}
	text := collapseSpace(jatsTag.ReplaceAllString(s, " "))
	return strings.TrimSpace(strings.TrimPrefix(text, "Abstract "))
}
