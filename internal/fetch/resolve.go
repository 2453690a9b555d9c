// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"regexp"
	"strings"

	"github.com/pdiddy/drift-slr/pkg/types"
)

// arxivPDFBase is the arXiv PDF endpoint. Declared as a var so tests can
// substitute an httptest server.
var arxivPDFBase = "https://arxiv.org/pdf/"

// Patterns for the places an arXiv identity hides in a paper record: a
// bare ID field ("2301.07041", "arXiv:2301.07041v2"), an abs/pdf URL, or
// the DataCite DOI arXiv mints (10.48550/arXiv.2301.07041).
var (
	arxivIDPattern  = regexp.MustCompile(`^(?:arXiv:)?(\d{4}\.\d{4,5}(?:v\d+)?)$`)
	arxivURLPattern = regexp.MustCompile(`(?i)arxiv\.org/(?:abs|pdf)/(\d{4}\.\d{4,5}(?:v\d+)?)`)
	arxivDOIPattern = regexp.MustCompile(`(?i)^10\.48550/arxiv\.(\d{4}\.\d{4,5}(?:v\d+)?)$`)
)

// ArxivID extracts an arXiv identifier from a paper's ID, URL, or DOI
// fields. Returns "" when the paper has no arXiv identity.
func ArxivID(p types.Paper) string {
	if m := arxivIDPattern.FindStringSubmatch(strings.TrimSpace(p.ID)); m != nil {
		return m[1]
	}
	if m := arxivURLPattern.FindStringSubmatch(p.URL); m != nil {
		return m[1]
	}
	if m := arxivDOIPattern.FindStringSubmatch(strings.TrimSpace(p.DOI)); m != nil {
		return m[1]
	}
	return ""
}

// PDFURL resolves the open-access download URL for a paper: the arXiv PDF
// endpoint when the paper has an arXiv identity, a direct link when the
// paper's URL already points at a PDF, and "" otherwise (R1.2). Papers
// with only a paywalled DOI have no open-access source and are skipped by
// the batch.
func PDFURL(p types.Paper) string {
	if id := ArxivID(p); id != "" {
		return arxivPDFBase + id + ".pdf"
	}
	if strings.HasSuffix(strings.ToLower(strings.TrimSpace(p.URL)), ".pdf") {
		return strings.TrimSpace(p.URL)
	}
	return ""
}

// Slug returns a filesystem-safe filename stem for the paper.
func Slug(p types.Paper) string {
	if id := ArxivID(p); id != "" {
		return id
	}
	base := p.ID
	if base == "" {
		base = p.DOI
	}
	return strings.NewReplacer("/", "-", ":", "-", " ", "-").Replace(base)
}
