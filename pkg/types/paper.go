// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// ScreenStatus indicates how a paper's inclusion decision was reached.
// Automated screening produces the auto_* values; a reviewer override
// during manual verification produces the verified_* values.
// Per prd003-screening R4.1, R4.5.
type ScreenStatus string

const (
	StatusPending          ScreenStatus = "pending"
	StatusAutoIncluded     ScreenStatus = "auto_included"
	StatusAutoExcluded     ScreenStatus = "auto_excluded"
	StatusVerifiedIncluded ScreenStatus = "verified_included"
	StatusVerifiedExcluded ScreenStatus = "verified_excluded"
)

// Verified reports whether the status reflects a manual reviewer decision.
func (s ScreenStatus) Verified() bool {
	return s == StatusVerifiedIncluded || s == StatusVerifiedExcluded
}

// Paper is a candidate publication record flowing through the review
// pipeline. Records arrive from database exports (SciSpace, Google Scholar)
// or live API searches (arXiv, Crossref) and are immutable once screened,
// except for the manual-verification override and the acquired PDF path.
// Per prd001-identification R2.1.
type Paper struct {
	// ID is a stable identifier: the DOI or arXiv ID when available,
	// otherwise a generated UUID.
	ID string `json:"id" yaml:"id"`

	// Number is the ordinal assigned by the source export, if any.
	Number int `json:"number,omitempty" yaml:"number,omitempty"`

	// Title is the paper title. Mandatory; screening rejects records
	// without one.
	Title string `json:"title" yaml:"title"`

	// Abstract is the paper abstract. May be empty, in which case the
	// paper is excluded during screening.
	Abstract string `json:"abstract,omitempty" yaml:"abstract,omitempty"`

	// Year is the publication year.
	Year int `json:"year" yaml:"year"`

	// Authors lists the paper authors in source order.
	Authors []string `json:"authors,omitempty" yaml:"authors,omitempty"`

	// DOI is the Digital Object Identifier, normalized to the bare form
	// (no resolver prefix).
	DOI string `json:"doi,omitempty" yaml:"doi,omitempty"`

	// URL is the landing page or abstract page for the paper.
	URL string `json:"url,omitempty" yaml:"url,omitempty"`

	// PDFPath is the local filesystem path to the downloaded PDF, set by
	// the full-text acquisition stage.
	PDFPath string `json:"pdf_path,omitempty" yaml:"pdf_path,omitempty"`

	// Source identifies the originating database: "scispace",
	// "google_scholar", "arxiv", or "crossref".
	Source string `json:"source,omitempty" yaml:"source,omitempty"`

	// Language is the publication language when the source reports one
	// (e.g. "en", "zh"). Empty means unknown and is treated as English.
	Language string `json:"language,omitempty" yaml:"language,omitempty"`

	// Venue is the journal or conference name.
	Venue string `json:"venue,omitempty" yaml:"venue,omitempty"`

	// Citations is the citation count reported by the source.
	Citations int `json:"citations,omitempty" yaml:"citations,omitempty"`
}

// Decision is the screening outcome for a single paper.
// Score is the automated 0-19.5 keyword score; it is distinct from the
// manually assigned 0-10 quality score recorded by the store (R7.3) and
// the two must never be conflated.
type Decision struct {
	// Score is the weighted keyword-category relevance score.
	Score float64 `json:"score" yaml:"score"`

	// Included reports the inclusion verdict.
	Included bool `json:"included" yaml:"included"`

	// Reason is the human-readable explanation for the verdict.
	Reason string `json:"reason" yaml:"reason"`

	// Categories lists the names of the keyword categories that matched,
	// as an audit trail for the score.
	Categories []string `json:"categories,omitempty" yaml:"categories,omitempty"`

	// Status records how the decision was reached.
	Status ScreenStatus `json:"status" yaml:"status"`

	// DecidedAt is when the decision was made.
	DecidedAt time.Time `json:"decided_at,omitempty" yaml:"decided_at,omitempty"`
}

// ScreenedPaper pairs a paper with its screening decision.
type ScreenedPaper struct {
	Paper    Paper    `json:"paper" yaml:"paper"`
	Decision Decision `json:"decision" yaml:"decision"`
}
