// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package screen

import (
	"strings"
	"unicode"
)

// Normalize lower-cases s, maps every non-alphanumeric rune to a space, and
// collapses runs of whitespace. "Terraform," and "terraform" normalize to
// the same token, and hyphenated forms ("multi-cloud", "self-healing")
// normalize to their spaced forms (R3.1).
func Normalize(s string) string {
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

// pad wraps a normalized string in single spaces so phrase containment
// checks respect word boundaries: short keywords like "iac" or "opa" must
// not match inside unrelated words (R3.2).
func pad(s string) string {
	return " " + s + " "
}

// matchesAny reports whether any of the padded phrases occurs in the padded
// normalized text.
func matchesAny(paddedText string, paddedPhrases []string) bool {
	for _, p := range paddedPhrases {
		if strings.Contains(paddedText, p) {
			return true
		}
	}
	return false
}

// padAll normalizes and pads each phrase, dropping any that normalize to
// nothing.
func padAll(phrases []string) []string {
	out := make([]string, 0, len(phrases))
	for _, p := range phrases {
		n := Normalize(p)
		if n == "" {
			continue
		}
		out = append(out, pad(n))
	}
	return out
}
