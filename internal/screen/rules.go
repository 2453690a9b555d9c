// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package screen

import "strings"

// Rule is a hard exclusion criterion: a paper matching any trigger phrase
// is excluded regardless of its relevance score, unless a rescue phrase
// shows the paper still operates in an infrastructure context (R4.2).
type Rule struct {
	// Name identifies the rule and appears verbatim in the exclusion
	// reason ("Hard exclusion criteria: <name>").
	Name string

	// Triggers are phrases that fire the rule.
	Triggers []string

	// Rescues are phrases that suppress the rule when present.
	Rescues []string
}

// ruleNonEnglish is the reason name for the language criterion, which is
// evaluated over paper metadata rather than text triggers.
const ruleNonEnglish = "Non-English publication"

// infrastructureContext lists the rescue phrases shared by all text rules:
// evidence that a paper nominally about another kind of drift still studies
// cloud infrastructure.
var infrastructureContext = []string{
	"infrastructure as code",
	"infrastructure drift",
	"cloud infrastructure",
	"cloud resource",
	"terraform",
	"kubernetes",
	"iac",
	"provisioning",
	"cloud environment",
}

// DefaultRules returns the hard exclusion criteria of the review protocol
// (R4.1), in evaluation order. The first firing rule names the reason.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name: "Application-level configuration only",
			Triggers: []string{
				"application configuration",
				"application-level configuration",
				"application settings",
				"application properties",
				"feature flag",
				"feature toggle",
			},
			Rescues: infrastructureContext,
		},
		{
			Name: "Database drift only",
			Triggers: []string{
				"schema migration",
				"database migration",
				"schema drift",
				"database schema",
				"schema versioning",
				"schema evolution",
			},
			Rescues: infrastructureContext,
		},
		{
			Name: "ML model or data drift only",
			Triggers: []string{
				"concept drift",
				"data drift",
				"model drift",
				"dataset shift",
				"distribution shift",
				"covariate shift",
			},
			Rescues: infrastructureContext,
		},
	}
}

// nonEnglish reports whether a language tag names a non-English
// publication. Empty and unknown tags pass: sources often omit the field
// and the protocol only excludes papers positively identified as
// non-English.
func nonEnglish(lang string) bool {
	l := strings.ToLower(strings.TrimSpace(lang))
	if l == "" {
		return false
	}
	return l != "en" && l != "eng" && l != "english" && !strings.HasPrefix(l, "en-")
}
