// Package suggest turns a mistyped command name and a list of candidate
// names into a ranked, thresholded suggestion list. The ranking itself is a
// total function over validated inputs; all defaulting and rejection of raw
// configuration happens in ParseConfig at the boundary.
package suggest

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/rybkr/cmdsense/internal/similarity"
)

// Defaults applied when a raw value is absent or unusable.
const (
	DefaultCost       = 1.0
	DefaultThreshold  = 0.75
	DefaultMaxResults = 5
)

// Config holds one ranking invocation's parameters. It is immutable for the
// duration of a Rank call.
type Config struct {
	// Algorithm selects the similarity metric.
	Algorithm similarity.Algorithm
	// Cost is the substitution cost for the edit-distance metric, >= 0.
	Cost float64
	// Threshold is the minimum score, inclusive, for a candidate to appear.
	Threshold float64
	// MaxResults bounds the suggestion list, >= 1.
	MaxResults int
}

// DefaultConfig returns the configuration used when no flags are given.
func DefaultConfig() Config {
	return Config{
		Algorithm:  similarity.AlgoJaroWinkler,
		Cost:       DefaultCost,
		Threshold:  DefaultThreshold,
		MaxResults: DefaultMaxResults,
	}
}

// ParseConfig validates raw flag text into a Config.
//
// Unparsable or out-of-range threshold and cost values fall back to their
// defaults with a logged warning. An unrecognized algorithm tag silently
// selects Jaro-Winkler. maxResults below 1 is the one fatal condition: the
// ranker's truncation contract has no sensible reading for it, so the caller
// must treat the returned error as a usage error.
func ParseConfig(algoTag, costText, thresholdText string, maxResults int, logger *slog.Logger) (Config, error) {
	if maxResults < 1 {
		return Config{}, fmt.Errorf("max results must be at least 1, got %d", maxResults)
	}

	cfg := DefaultConfig()
	cfg.Algorithm = similarity.ParseAlgorithm(algoTag)
	cfg.MaxResults = maxResults

	if costText != "" {
		if v, err := parseDecimal(costText); err != nil || v < 0 {
			logger.Warn("invalid substitution cost, using default",
				"raw", costText, "default", DefaultCost)
		} else {
			cfg.Cost = v
		}
	}

	if thresholdText != "" {
		if v, err := parseDecimal(thresholdText); err != nil || v < 0 || v > 1 {
			logger.Warn("invalid threshold, using default",
				"raw", thresholdText, "default", DefaultThreshold)
		} else {
			cfg.Threshold = v
		}
	}

	return cfg, nil
}

// parseDecimal parses a float, normalizing bare leading-dot forms such as
// ".5" (and "-.5") to "0.5" / "-0.5" first.
func parseDecimal(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if rest, ok := strings.CutPrefix(s, "."); ok {
		s = "0." + rest
	} else if rest, ok := strings.CutPrefix(s, "-."); ok {
		s = "-0." + rest
	}
	return strconv.ParseFloat(s, 64)
}
