package server

import (
	"encoding/json"
	"net/http"
)

// HealthStatus represents the daemon health check response.
type HealthStatus struct {
	Status     string `json:"status"`
	Candidates int    `json:"candidates"`
	Dirs       int    `json:"dirs"`
}

// handleHealth returns a health check response for monitoring and for shell
// integrations probing whether the daemon is up.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	status := HealthStatus{
		Status:     "ok",
		Candidates: len(s.scanner.Names()),
		Dirs:       len(s.scanner.Dirs()),
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(status); err != nil {
		s.logger.Error("Failed to encode health status", "err", err)
	}
}
