package cli

import (
	"github.com/rybkr/cmdsense/internal/similarity"
	"github.com/rybkr/cmdsense/internal/suggest"
)

// suggestThreshold is looser than the engine's 0.75 default: the subcommand
// vocabulary is tiny and curated, so a weaker match is still almost certainly
// what the user meant.
const suggestThreshold = 0.5

// Suggest returns the best matching subcommand for input, or "" if nothing
// scores at least suggestThreshold under Jaro-Winkler.
func Suggest(input string, candidates []string) string {
	if input == "" {
		return ""
	}

	matches := suggest.Rank(input, candidates, suggest.Config{
		Algorithm:  similarity.AlgoJaroWinkler,
		Threshold:  suggestThreshold,
		MaxResults: 1,
	})
	if len(matches) == 0 {
		return ""
	}
	return matches[0].Name
}
