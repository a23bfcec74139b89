package render

import (
	"strings"
	"unicode"

	"github.com/rybkr/cmdsense/internal/termcolor"
)

// Highlight marks up candidate so the user can see where it diverges from
// what they typed: runes matching the query at the same position render
// green, everything else red. Comparison is case-insensitive, consistent
// with the metrics. With color disabled the candidate passes through
// untouched.
func Highlight(query, candidate string, cw *termcolor.Writer) string {
	if !cw.Enabled() {
		return candidate
	}

	qr := []rune(query)
	var b strings.Builder

	// Group consecutive runes of the same kind so each colored run costs
	// one escape sequence, not one per rune.
	var run []rune
	runMatched := false
	flush := func() {
		if len(run) == 0 {
			return
		}
		if runMatched {
			b.WriteString(cw.Green(string(run)))
		} else {
			b.WriteString(cw.Red(string(run)))
		}
		run = run[:0]
	}

	for i, r := range []rune(candidate) {
		matched := i < len(qr) && unicode.ToLower(qr[i]) == unicode.ToLower(r)
		if matched != runMatched {
			flush()
			runMatched = matched
		}
		run = append(run, r)
	}
	flush()

	return b.String()
}
