package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/rybkr/cmdsense/internal/suggest"
)

// handleSuggest serves GET /api/suggest?q=<query>. Optional parameters
// algorithm, cost, threshold, and n override the daemon's defaults for one
// request; unusable numeric overrides fall back the same way the CLI
// boundary does, except n, which is rejected outright.
func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	query := r.URL.Query().Get("q")
	if err := validateQuery(query); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	cfg, err := s.requestConfig(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	matches := s.rankFor(query, cfg)

	w.Header().Set("Content-Type", "application/json")
	resp := SuggestResponse{Type: "suggestions", Query: query, Matches: matches}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Error("Failed to encode suggest response", "err", err)
	}
}

// requestConfig derives the ranking config for one request: the daemon's
// defaults overlaid with any query-parameter overrides.
func (s *Server) requestConfig(r *http.Request) (suggest.Config, error) {
	q := r.URL.Query()

	maxResults := s.baseCfg.MaxResults
	if raw := q.Get("n"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return suggest.Config{}, fmt.Errorf("invalid n %q: must be an integer", raw)
		}
		maxResults = n
	}

	cfg, err := suggest.ParseConfig(
		q.Get("algorithm"), q.Get("cost"), q.Get("threshold"), maxResults, s.logger)
	if err != nil {
		return suggest.Config{}, err
	}

	// Absent parameters inherit the daemon's configuration, not the
	// package-level defaults ParseConfig falls back to.
	if q.Get("algorithm") == "" {
		cfg.Algorithm = s.baseCfg.Algorithm
	}
	if q.Get("cost") == "" {
		cfg.Cost = s.baseCfg.Cost
	}
	if q.Get("threshold") == "" {
		cfg.Threshold = s.baseCfg.Threshold
	}
	return cfg, nil
}
