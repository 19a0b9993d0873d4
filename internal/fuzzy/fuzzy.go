// Package fuzzy finds the closest name in a reference table for free-text
// user input. Matching is case- and whitespace-insensitive and tolerant of
// small typos.
package fuzzy

import (
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// DefaultCutoff is the minimum similarity for a candidate to count as a match.
const DefaultCutoff = 0.6

// Similarity scores two already-normalized strings in [0, 1]: 1 minus the
// Levenshtein distance scaled by the longer rune length. Two empty strings
// are identical.
func Similarity(a, b string) float64 {
	la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
	longest := la
	if lb > longest {
		longest = lb
	}
	if longest == 0 {
		return 1
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1 - float64(dist)/float64(longest)
}

// Normalize trims and lowercases input before comparison. Lowercasing is
// rune-aware, so Cyrillic table entries match too.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// BestMatch returns the index of the candidate closest to query, provided
// its similarity reaches cutoff. ok=false means nothing came close enough;
// callers decide the fallback (manual entry for food, an explicit
// unknown-workout reply for workouts).
func BestMatch(query string, candidates []string, cutoff float64) (int, bool) {
	q := Normalize(query)
	best, bestScore := -1, 0.0
	for i, cand := range candidates {
		score := Similarity(q, Normalize(cand))
		if score > bestScore {
			best, bestScore = i, score
		}
	}
	if best < 0 || bestScore < cutoff {
		return -1, false
	}
	return best, true
}
