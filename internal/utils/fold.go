package utils

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Fold normalizes text for case-insensitive keyword matching. Compatibility
// forms are composed first so full-width and ligature variants match their
// plain ASCII keywords.
func Fold(text string) string {
	return cases.Fold().String(norm.NFKC.String(text))
}

// ContainsAny reports whether folded contains any of the keywords
func ContainsAny(folded string, keywords []string) bool {
	for _, kw := range keywords {
		if kw != "" && strings.Contains(folded, Fold(kw)) {
			return true
		}
	}
	return false
}

// CountMatches counts how many distinct keywords appear in folded
func CountMatches(folded string, keywords []string) int {
	count := 0
	for _, kw := range keywords {
		if kw != "" && strings.Contains(folded, Fold(kw)) {
			count++
		}
	}
	return count
}

// MatchedKeywords returns the keywords that appear in folded, in table order
func MatchedKeywords(folded string, keywords []string) []string {
	var matched []string
	for _, kw := range keywords {
		if kw != "" && strings.Contains(folded, Fold(kw)) {
			matched = append(matched, kw)
		}
	}
	return matched
}
