// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package screen implements the relevance classifier for abstract
// screening: a deterministic weighted keyword score over title+abstract and
// a multi-stage inclusion decision (temporal window, abstract presence,
// hard exclusion rules, score threshold).
// Implements: prd003-screening (R1-R5); docs/ARCHITECTURE § Screening.
package screen

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pdiddy/drift-slr/pkg/types"
)

// Exclusion reasons reported by Decide. The score-dependent reasons are
// formatted with one decimal place; weights are exact binary fractions so
// the formatted value is exact.
const (
	ReasonTemporal   = "Outside temporal scope"
	ReasonNoAbstract = "No abstract"

	reasonHardPrefix = "Hard exclusion criteria: "
	reasonRelevant   = "Relevant (Score: %.1f)"
	reasonLowScore   = "Low relevance (Score: %.1f)"
)

// ErrInvalidInput marks a paper record the classifier cannot evaluate:
// missing title or unusable year. Missing abstracts are a decision outcome
// (ReasonNoAbstract), never an error (R5.1).
var ErrInvalidInput = errors.New("invalid paper record")

// Default thresholds, from the review protocol.
const (
	defaultMinScore = 3.0
	defaultYearMin  = 2019
	defaultYearMax  = 2025
)

// matcher is a category with its phrases pre-normalized and padded for
// boundary-aware containment checks.
type matcher struct {
	name    string
	weight  float64
	phrases []string
}

// textRule mirrors Rule with pre-normalized trigger and rescue phrases.
type textRule struct {
	name     string
	triggers []string
	rescues  []string
}

// Classifier scores papers against the keyword taxonomy and applies the
// inclusion decision. It is immutable after New and safe for concurrent
// use: scoring reads only the pre-built tables (R1.4).
type Classifier struct {
	categories []matcher
	rules      []textRule
	minScore   float64
	yearMin    int
	yearMax    int
}

// New builds a Classifier from the default taxonomy and rules. Zero-valued
// thresholds in cfg fall back to the protocol defaults (score >= 3.0,
// years 2019-2025).
func New(cfg types.ScreeningConfig) *Classifier {
	c := &Classifier{
		minScore: cfg.MinScore,
		yearMin:  cfg.YearMin,
		yearMax:  cfg.YearMax,
	}
	if c.minScore == 0 {
		c.minScore = defaultMinScore
	}
	if c.yearMin == 0 {
		c.yearMin = defaultYearMin
	}
	if c.yearMax == 0 {
		c.yearMax = defaultYearMax
	}

	for _, cat := range DefaultTaxonomy() {
		c.categories = append(c.categories, matcher{
			name:    cat.Name,
			weight:  cat.Weight,
			phrases: padAll(cat.Keywords),
		})
	}
	for _, r := range DefaultRules() {
		c.rules = append(c.rules, textRule{
			name:     r.Name,
			triggers: padAll(r.Triggers),
			rescues:  padAll(r.Rescues),
		})
	}
	return c
}

// Score computes the weighted keyword score for a paper over its
// normalized title+abstract, returning the score and the names of the
// matched categories. Each category contributes its weight at most once
// (category-level OR, R2.3). Empty text scores 0.0. Pure: identical input
// always yields the identical score.
func (c *Classifier) Score(p types.Paper) (float64, []string) {
	text := pad(Normalize(p.Title + " " + p.Abstract))

	var score float64
	var matched []string
	for _, cat := range c.categories {
		if matchesAny(text, cat.phrases) {
			score += cat.weight
			matched = append(matched, cat.name)
		}
	}
	return score, matched
}

// Decide applies the screening decision to a paper. Checks run in fixed
// order and the first failing check determines the reason (R4.4):
//
//  1. publication year outside the temporal window,
//  2. missing abstract,
//  3. hard exclusion rules,
//  4. score threshold.
//
// The returned Decision always carries the score and matched categories,
// including for papers excluded at an earlier stage, so exports retain a
// full audit trail. Decide returns ErrInvalidInput when the title is blank
// or the year is not a usable integer.
func (c *Classifier) Decide(p types.Paper) (types.Decision, error) {
	if strings.TrimSpace(p.Title) == "" {
		return types.Decision{}, fmt.Errorf("%w: missing title", ErrInvalidInput)
	}
	if p.Year <= 0 {
		return types.Decision{}, fmt.Errorf("%w: year %d", ErrInvalidInput, p.Year)
	}

	score, matched := c.Score(p)
	d := types.Decision{
		Score:      score,
		Categories: matched,
		Status:     types.StatusAutoExcluded,
	}

	if p.Year < c.yearMin || p.Year > c.yearMax {
		d.Reason = ReasonTemporal
		return d, nil
	}
	if strings.TrimSpace(p.Abstract) == "" {
		d.Reason = ReasonNoAbstract
		return d, nil
	}
	if name, ok := c.hardExclusion(p); ok {
		d.Reason = reasonHardPrefix + name
		return d, nil
	}
	if score >= c.minScore {
		d.Included = true
		d.Status = types.StatusAutoIncluded
		d.Reason = fmt.Sprintf(reasonRelevant, score)
		return d, nil
	}
	d.Reason = fmt.Sprintf(reasonLowScore, score)
	return d, nil
}

// hardExclusion evaluates the hard exclusion criteria in order and returns
// the name of the first firing rule. The language criterion is checked
// first: it reads metadata, not text.
func (c *Classifier) hardExclusion(p types.Paper) (string, bool) {
	if nonEnglish(p.Language) {
		return ruleNonEnglish, true
	}

	text := pad(Normalize(p.Title + " " + p.Abstract))
	for _, r := range c.rules {
		if matchesAny(text, r.triggers) && !matchesAny(text, r.rescues) {
			return r.name, true
		}
	}
	return "", false
}
