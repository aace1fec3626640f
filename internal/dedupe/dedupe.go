// Package dedupe suppresses near-duplicate assignment titles. The same
// assignment often appears with slightly different surrounding text across
// DOM levels, so containment in either direction counts as a duplicate.
// Known limitation: a real assignment whose name is a prefix or suffix of
// another's is suppressed too ("Lab 1" vs "Lab 1 Extended").
package dedupe

import (
	"regexp"
	"strings"
)

var whitespaceExpr = regexp.MustCompile(`\s+`)

// Normalize collapses whitespace runs, trims, and lowercases a title.
func Normalize(title string) string {
	return whitespaceExpr.ReplaceAllString(strings.ToLower(strings.TrimSpace(title)), " ")
}

// IsDuplicate reports whether the candidate title equals, contains, or is
// contained in any already-seen title after normalization.
func IsDuplicate(title string, seen []string) bool {
	normalized := Normalize(title)
	for _, existing := range seen {
		existingNormalized := Normalize(existing)
		if normalized == existingNormalized ||
			strings.Contains(existingNormalized, normalized) ||
			strings.Contains(normalized, existingNormalized) {
			return true
		}
	}
	return false
}
