package eval

import (
	"strings"

	"github.com/antzucaro/matchr"
)

const (
	defaultPhoneticThreshold = 0.70
	defaultFuzzyThreshold    = 0.85
)

// Matcher locates likely misrecognitions of dictionary terms inside corrected
// output. It combines Double Metaphone phonetic encoding with Jaro-Winkler
// string similarity:
//
//  1. Phonetic candidate filtering: Double Metaphone codes are computed for
//     the dictionary term and for each candidate span of the output. A span
//     whose codes overlap the term's becomes a phonetic candidate.
//
//  2. Jaro-Winkler ranking: among phonetic candidates, the span with the
//     highest Jaro-Winkler similarity to the term (case-insensitive) wins —
//     provided its score exceeds the phonetic threshold. When no phonetic
//     candidate exists, a secondary pass accepts pure string similarity at a
//     higher fuzzy threshold.
//
// Multi-word terms (e.g., "pull request") are supported: candidate spans are
// output n-grams of one to one-more-than the term's word count, so "get hub"
// can surface as the rendering of "GitHub".
//
// All methods are safe for concurrent use; a Matcher is read-only after
// construction.
type Matcher struct {
	phoneticThreshold float64
	fuzzyThreshold    float64
}

// MatcherOption is a functional option for configuring a [Matcher].
type MatcherOption func(*Matcher)

// WithPhoneticThreshold sets the minimum Jaro-Winkler score required for a
// phonetically-matched span to be accepted. Default: 0.70.
func WithPhoneticThreshold(threshold float64) MatcherOption {
	return func(m *Matcher) { m.phoneticThreshold = threshold }
}

// WithFuzzyThreshold sets the minimum Jaro-Winkler score required when no
// phonetic candidate is found and the matcher falls back to pure string
// similarity. Default: 0.85.
func WithFuzzyThreshold(threshold float64) MatcherOption {
	return func(m *Matcher) { m.fuzzyThreshold = threshold }
}

// NewMatcher returns a [Matcher] configured with the supplied options.
func NewMatcher(opts ...MatcherOption) *Matcher {
	m := &Matcher{
		phoneticThreshold: defaultPhoneticThreshold,
		fuzzyThreshold:    defaultFuzzyThreshold,
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// FindMisrecognition searches output for the span most likely to be a
// misrecognized rendering of term. When found is false, span is empty and
// confidence is 0. Spans that already equal the term case-insensitively are
// skipped — those are not misrecognitions.
func (m *Matcher) FindMisrecognition(term, output string) (span string, confidence float64, found bool) {
	termLower := strings.ToLower(strings.TrimSpace(term))
	if termLower == "" {
		return "", 0, false
	}
	outTokens := strings.Fields(output)
	if len(outTokens) == 0 {
		return "", 0, false
	}

	termTokens := strings.Fields(termLower)
	termCodes := codesForTokens(termTokens)

	type candidate struct {
		span     string
		score    float64
		phonetic bool
	}
	var best candidate

	maxN := min(len(termTokens)+1, len(outTokens))
	for n := 1; n <= maxN; n++ {
		for i := 0; i+n <= len(outTokens); i++ {
			raw := strings.Join(outTokens[i:i+n], " ")
			spanLower := strings.ToLower(strings.Trim(raw, ".,!?;:\"'"))
			if spanLower == "" || spanLower == termLower {
				continue
			}
			spanTokens := strings.Fields(spanLower)

			phoneticMatch := codesOverlap(termCodes, codesForTokens(spanTokens))
			jwScore := bestJWScore(spanTokens, termTokens, spanLower, termLower)

			if phoneticMatch {
				if jwScore >= m.phoneticThreshold {
					if !best.phonetic || jwScore > best.score {
						best = candidate{span: raw, score: jwScore, phonetic: true}
					}
				}
			} else if !best.phonetic {
				if jwScore >= m.fuzzyThreshold && jwScore > best.score {
					best = candidate{span: raw, score: jwScore, phonetic: false}
				}
			}
		}
	}

	if best.span != "" {
		return best.span, best.score, true
	}
	return "", 0, false
}

// codesForTokens returns the union of all Double Metaphone codes for the
// given tokens. Empty codes (produced when a word is too short or contains
// no consonants) are excluded.
func codesForTokens(tokens []string) map[string]struct{} {
	codes := make(map[string]struct{}, len(tokens)*2)
	for _, t := range tokens {
		p, s := matchr.DoubleMetaphone(t)
		if p != "" {
			codes[p] = struct{}{}
		}
		if s != "" {
			codes[s] = struct{}{}
		}
	}
	return codes
}

// codesOverlap returns true if the two code sets share at least one code.
func codesOverlap(a, b map[string]struct{}) bool {
	// Iterate over the smaller set.
	if len(a) > len(b) {
		a, b = b, a
	}
	for code := range a {
		if _, ok := b[code]; ok {
			return true
		}
	}
	return false
}

// bestJWScore computes the highest Jaro-Winkler similarity between the span
// and the term using three strategies: full strings, space-stripped strings
// (so "get hub" scores against "github"), and the best pairwise token score.
func bestJWScore(spanTokens, termTokens []string, spanFull, termFull string) float64 {
	score := matchr.JaroWinkler(spanFull, termFull, false)

	if len(spanTokens) > 1 || len(termTokens) > 1 {
		concat1 := strings.Join(spanTokens, "")
		concat2 := strings.Join(termTokens, "")
		if s := matchr.JaroWinkler(concat1, concat2, false); s > score {
			score = s
		}
	}

	for _, st := range spanTokens {
		for _, tt := range termTokens {
			if s := matchr.JaroWinkler(st, tt, false); s > score {
				score = s
			}
		}
	}

	return score
}
