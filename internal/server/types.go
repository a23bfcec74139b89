package server

import (
	"time"

	"github.com/rybkr/cmdsense/internal/suggest"
)

// CandidateUpdate is broadcast to WebSocket clients when the search path's
// contents change, so they can invalidate anything derived from earlier
// suggestions.
type CandidateUpdate struct {
	Type      string    `json:"type"` // always "candidates"
	Count     int       `json:"count"`
	ScannedAt time.Time `json:"scannedAt"`
}

// QueryRequest is one frame sent by a WebSocket client as the user types.
type QueryRequest struct {
	Query string `json:"query"`
}

// SuggestResponse carries ranked matches back to a client, over either
// transport.
type SuggestResponse struct {
	Type    string          `json:"type"` // always "suggestions"
	Query   string          `json:"query"`
	Matches []suggest.Match `json:"matches"`
}
