// Package similarity implements the string-similarity metrics used to rank
// command-name suggestions: a Levenshtein edit-distance metric with a tunable
// substitution cost, and a canonical Jaro-Winkler metric. Both produce
// normalized scores in [0, 1] and compare case-insensitively at rune
// granularity.
package similarity

import "strings"

// Algorithm selects which similarity metric to use.
type Algorithm int

const (
	// AlgoJaroWinkler is the default: match-window similarity with a bonus
	// for a shared leading prefix. Works well for short command names.
	AlgoJaroWinkler Algorithm = iota
	// AlgoLevenshtein is edit-distance similarity with a configurable
	// substitution cost.
	AlgoLevenshtein
)

// String returns the canonical tag for the algorithm.
func (a Algorithm) String() string {
	if a == AlgoLevenshtein {
		return "levenshtein"
	}
	return "jaro_winkler"
}

// ParseAlgorithm maps a textual tag to an Algorithm. "levenshtein" and "lev"
// select AlgoLevenshtein; anything else, including the empty string, selects
// AlgoJaroWinkler. Unknown tags are not an error.
func ParseAlgorithm(tag string) Algorithm {
	switch strings.ToLower(strings.TrimSpace(tag)) {
	case "levenshtein", "lev":
		return AlgoLevenshtein
	default:
		return AlgoJaroWinkler
	}
}

// Metric scores how similar two strings are. Implementations must be
// symmetric, return values in [0, 1], and be safe for concurrent use.
type Metric interface {
	Score(a, b string) float64
}

// New returns the Metric for the given algorithm. subCost is the substitution
// cost for AlgoLevenshtein and is ignored by AlgoJaroWinkler.
func New(alg Algorithm, subCost float64) Metric {
	if alg == AlgoLevenshtein {
		return &Levenshtein{SubCost: subCost}
	}
	return &JaroWinkler{}
}

// foldRunes lower-cases s and returns its runes. All metrics compare at rune
// granularity so multi-byte characters count as one edit, not several.
func foldRunes(s string) []rune {
	return []rune(strings.ToLower(s))
}
