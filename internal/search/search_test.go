// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pdiddy/drift-slr/pkg/types"
)

const arxivFixture = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>ArXiv Query Results</title>
  <entry>
    <id>http://arxiv.org/abs/2301.07041v2</id>
    <title>Detecting Infrastructure Drift in
 Multi-Cloud Deployments</title>
    <summary>We study configuration drift between Terraform state and
 deployed cloud resources.</summary>
    <published>2023-01-17T00:00:00Z</published>
    <author><name>Ada Lovelace</name></author>
    <author><name>Grace Hopper</name></author>
    <link href="http://arxiv.org/abs/2301.07041v2" rel="alternate" type="text/html"/>
  </entry>
  <entry>
    <id>http://arxiv.org/abs/2005.11401v1</id>
    <title>GitOps Reconciliation Loops</title>
    <summary>Continuous reconciliation of declarative state.</summary>
    <published>2020-05-22T00:00:00Z</published>
    <author><name>Alan Turing</name></author>
    <link href="http://arxiv.org/abs/2005.11401v1" rel="alternate" type="text/html"/>
  </entry>
</feed>`

func TestArxivBackend_Search(t *testing.T) {
	var gotQuery string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("search_query")
		w.Header().Set("Content-Type", "application/atom+xml")
		fmt.Fprint(w, arxivFixture)
	}))
	defer ts.Close()

	old := arxivAPIBase
	arxivAPIBase = ts.URL
	defer func() { arxivAPIBase = old }()

	b := &ArxivBackend{Client: ts.Client()}
	cfg := types.SearchConfig{MaxResults: 10, FromYear: 2019, ToYear: 2025}
	papers, err := b.Search(context.Background(), "infrastructure drift detection", cfg)
	if err != nil {
		t.Fatal(err)
	}

	// The server sees the decoded query: spaces and the AND operator must
	// survive the round trip, with no literal plus signs glued in.
	want := "all:infrastructure drift detection AND submittedDate:[20190101 TO 20251231]"
	if gotQuery != want {
		t.Errorf("decoded search_query = %q, want %q", gotQuery, want)
	}

	if len(papers) != 2 {
		t.Fatalf("got %d papers, want 2", len(papers))
	}

	p := papers[0]
	if p.ID != "2301.07041" {
		t.Errorf("ID = %q, want version-stripped arXiv ID", p.ID)
	}
	if p.Title != "Detecting Infrastructure Drift in Multi-Cloud Deployments" {
		t.Errorf("Title = %q: embedded newlines should collapse", p.Title)
	}
	if !strings.Contains(p.Abstract, "Terraform state and deployed cloud resources") {
		t.Errorf("Abstract = %q", p.Abstract)
	}
	if p.Year != 2023 {
		t.Errorf("Year = %d, want 2023", p.Year)
	}
	if len(p.Authors) != 2 || p.Authors[0] != "Ada Lovelace" {
		t.Errorf("Authors = %v", p.Authors)
	}
	if p.Source != "arxiv" {
		t.Errorf("Source = %q", p.Source)
	}
}

const crossrefFixture = `{
  "message": {
    "items": [
      {
        "DOI": "10.1109/TSE.2023.1234",
        "title": ["Automated Remediation of Cloud Configuration Drift"],
        "abstract": "<jats:title>Abstract</jats:title><jats:p>We evaluate drift remediation in IaC pipelines.</jats:p>",
        "author": [
          {"given": "Margaret", "family": "Hamilton"}
        ],
        "issued": {"date-parts": [[2023, 4, 11]]},
        "container-title": ["IEEE Transactions on Software Engineering"],
        "URL": "https://doi.org/10.1109/tse.2023.1234",
        "language": "en",
        "is-referenced-by-count": 17
      },
      {
        "DOI": "",
        "title": ["Record without a DOI is skipped"]
      }
    ]
  }
}`

func TestCrossrefBackend_Search(t *testing.T) {
	var gotMailto string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMailto = r.URL.Query().Get("mailto")
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, crossrefFixture)
	}))
	defer ts.Close()

	old := crossrefAPIBase
	crossrefAPIBase = ts.URL
	defer func() { crossrefAPIBase = old }()

	b := &CrossrefBackend{Client: ts.Client()}
	cfg := types.SearchConfig{MaxResults: 10, CrossrefMailto: "review@example.org"}
	papers, err := b.Search(context.Background(), "configuration drift", cfg)
	if err != nil {
		t.Fatal(err)
	}

	if gotMailto != "review@example.org" {
		t.Errorf("mailto = %q, want polite-pool address", gotMailto)
	}
	if len(papers) != 1 {
		t.Fatalf("got %d papers, want 1 (DOI-less record skipped)", len(papers))
	}

	p := papers[0]
	if p.DOI != "10.1109/tse.2023.1234" {
		t.Errorf("DOI = %q, want lowercased", p.DOI)
	}
	if p.Abstract != "We evaluate drift remediation in IaC pipelines." {
		t.Errorf("Abstract = %q: JATS markup should be stripped", p.Abstract)
	}
	if p.Year != 2023 {
		t.Errorf("Year = %d, want 2023", p.Year)
	}
	if p.Venue != "IEEE Transactions on Software Engineering" {
		t.Errorf("Venue = %q", p.Venue)
	}
	if p.Citations != 17 {
		t.Errorf("Citations = %d, want 17", p.Citations)
	}
}

func TestCrossrefBackend_ErrorStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()

	old := crossrefAPIBase
	crossrefAPIBase = ts.URL
	defer func() { crossrefAPIBase = old }()

	b := &CrossrefBackend{Client: ts.Client()}
	if _, err := b.Search(context.Background(), "drift", types.SearchConfig{}); err == nil {
		t.Fatal("expected error for HTTP 502")
	}
}

func TestMergeResults(t *testing.T) {
	papers := []types.Paper{
		{ID: "2301.07041", Title: "Detecting Infrastructure Drift", Source: "arxiv", Year: 2023},
		{ID: "10.1109/tse.2023.1234", DOI: "10.1109/tse.2023.1234", Title: "Detecting Infrastructure Drift", Source: "crossref", Citations: 17, Venue: "TSE"},
		{ID: "10.1145/gitops", DOI: "10.1145/gitops", Title: "GitOps Reconciliation", Source: "crossref"},
		{DOI: "https://doi.org/10.1145/GitOps", Title: "GitOps Reconciliation (extended)", Source: "crossref", Year: 2020},
	}

	merged, removed := mergeResults(papers)
	if removed != 2 {
		t.Fatalf("removed = %d, want 2", removed)
	}
	if len(merged) != 2 {
		t.Fatalf("got %d merged papers, want 2", len(merged))
	}

	// Title duplicate merges across backends, filling empty fields.
	first := merged[0]
	if first.ID != "2301.07041" {
		t.Errorf("first-seen identity should win, got ID %q", first.ID)
	}
	if first.Venue != "TSE" || first.Citations != 17 {
		t.Errorf("merge should fill venue/citations: %+v", first)
	}
	if !strings.Contains(first.Source, "arxiv") || !strings.Contains(first.Source, "crossref") {
		t.Errorf("Source = %q, want both origins recorded", first.Source)
	}

	// DOI duplicate matches despite the resolver prefix and case.
	second := merged[1]
	if second.Year != 2020 {
		t.Errorf("DOI merge should fill year, got %d", second.Year)
	}
}

func TestSearchAll_BackendFailureIsWarning(t *testing.T) {
	var buf bytes.Buffer
	backends := []Backend{
		stubBackend{name: "good", papers: []types.Paper{{ID: "a", Title: "Drift Study", Year: 2022}}},
		stubBackend{name: "bad", err: fmt.Errorf("HTTP 500")},
	}

	out, err := SearchAll(context.Background(), backends, "drift", types.SearchConfig{MaxResults: 10}, &buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(out.Papers) != 1 {
		t.Fatalf("got %d papers, want 1", len(out.Papers))
	}
	if len(out.BackendErrors) != 1 {
		t.Fatalf("BackendErrors = %v, want one entry", out.BackendErrors)
	}
	if !strings.Contains(buf.String(), "warning: backend bad failed") {
		t.Errorf("progress output missing warning: %q", buf.String())
	}
}

func TestSearchAll_BackendsRunSequentially(t *testing.T) {
	var events []string
	backends := []Backend{
		recordingBackend{name: "arxiv", events: &events, delay: 20 * time.Millisecond},
		recordingBackend{name: "crossref", events: &events},
	}

	_, err := SearchAll(context.Background(), backends, "drift", types.SearchConfig{}, &bytes.Buffer{})
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"start arxiv", "end arxiv", "start crossref", "end crossref"}
	if len(events) != len(want) {
		t.Fatalf("events = %v, want %v", events, want)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Fatalf("events = %v, want %v: backend %q must not start before the previous one finished",
				events, want, "crossref")
		}
	}
}

func TestSearchAll_EmptyQuery(t *testing.T) {
	_, err := SearchAll(context.Background(), []Backend{stubBackend{name: "x"}}, "  ", types.SearchConfig{}, &bytes.Buffer{})
	if err == nil {
		t.Fatal("expected error for empty query")
	}
}

type stubBackend struct {
	name   string
	papers []types.Paper
	err    error
}

func (s stubBackend) Name() string { return s.name }

func (s stubBackend) Search(context.Context, string, types.SearchConfig) ([]types.Paper, error) {
	return s.papers, s.err
}

type recordingBackend struct {
	name   string
	events *[]string
	delay  time.Duration
}

func (r recordingBackend) Name() string { return r.name }

func (r recordingBackend) Search(context.Context, string, types.SearchConfig) ([]types.Paper, error) {
	*r.events = append(*r.events, "start "+r.name)
	time.Sleep(r.delay)
	*r.events = append(*r.events, "end "+r.name)
	return nil, nil
}
