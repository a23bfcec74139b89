package server

import (
	"fmt"
	"unicode"
	"unicode/utf8"
)

// maxQueryRunes bounds query length at the HTTP boundary. Command names are
// short; anything longer is abuse or a mispasted script.
const maxQueryRunes = 128

// validateQuery ensures a query string is safe to hand to the engine:
// non-empty, valid UTF-8, bounded length, no control characters.
func validateQuery(q string) error {
	if q == "" {
		return fmt.Errorf("missing query parameter q")
	}
	if !utf8.ValidString(q) {
		return fmt.Errorf("query is not valid UTF-8")
	}
	if utf8.RuneCountInString(q) > maxQueryRunes {
		return fmt.Errorf("query exceeds %d characters", maxQueryRunes)
	}
	for _, r := range q {
		if unicode.IsControl(r) {
			return fmt.Errorf("query contains control characters")
		}
	}
	return nil
}
