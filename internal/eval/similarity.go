package eval

import (
	"strings"
	"unicode/utf8"

	"github.com/antzucaro/matchr"
)

// Similarity returns a normalized [0, 1] closeness measure between actual
// and expected text, based on Levenshtein edit distance over normalized
// input. 1 means identical after normalization; 0 means nothing in common.
//
// Normalization lowercases and collapses all whitespace runs to single
// spaces, so the metric scores wording and punctuation rather than casing
// and layout. Both inputs empty scores 1.
func Similarity(actual, expected string) float64 {
	a := normalize(actual)
	e := normalize(expected)
	if a == e {
		return 1
	}
	longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(e))
	if longest == 0 {
		return 1
	}
	dist := matchr.Levenshtein(a, e)
	if dist >= longest {
		return 0
	}
	return 1 - float64(dist)/float64(longest)
}

// normalize lowercases s and collapses whitespace runs to single spaces.
func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
