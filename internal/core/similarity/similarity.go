// Package similarity scores how alike two canonical strings are on a 0..100 scale
package similarity

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Scorer produces a similarity score in [0,100] for two strings.
// Inputs are expected to be canonicalized already; scorers do not normalize
type Scorer interface {
	Score(a, b string) int
}

// Ratio scores plain normalized edit distance
type Ratio struct{}

// Score returns 100 for equal strings and degrades with edit distance
func (Ratio) Score(a, b string) int { return ratio(a, b) }

// TokenSort sorts whitespace tokens before scoring, making the score
// invariant to word order ("acme holdings" vs "holdings acme")
type TokenSort struct{}

// Score returns the ratio of the token-sorted forms
func (TokenSort) Score(a, b string) int {
	return ratio(sortTokens(a), sortTokens(b))
}

// ForName returns the scorer for a configured name, defaulting to token_sort
func ForName(name string) Scorer {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "ratio":
		return Ratio{}
	default:
		return TokenSort{}
	}
}

func sortTokens(s string) string {
	toks := strings.Fields(s)
	sort.Strings(toks)
	return strings.Join(toks, " ")
}

func ratio(a, b string) int {
	if a == "" && b == "" {
		return 100
	}
	if a == "" || b == "" {
		return 0
	}
	dist := levenshtein.ComputeDistance(a, b)
	la := len([]rune(a))
	lb := len([]rune(b))
	max := la
	if lb > max {
		max = lb
	}
	if dist >= max {
		return 0
	}
	// round to nearest rather than truncate so near-misses keep their score
	return int(float64(max-dist)/float64(max)*100 + 0.5)
}
