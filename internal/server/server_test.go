package server

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/rybkr/cmdsense/internal/pathscan"
	"github.com/rybkr/cmdsense/internal/suggest"
)

// newTestServer builds a Server over a temp directory populated with the
// given fake executables, scanned and ready to serve. Logging goes nowhere.
func newTestServer(t *testing.T, names ...string) *Server {
	t.Helper()

	dir := t.TempDir()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("#!/bin/sh\n"), 0o755); err != nil {
			t.Fatalf("writing fake executable %s: %v", name, err)
		}
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	scanner := pathscan.New(pathscan.Options{Path: dir}, logger)
	if err := scanner.Rescan(context.Background()); err != nil {
		t.Fatalf("Rescan: %v", err)
	}

	s := NewServer(scanner, suggest.DefaultConfig(), "127.0.0.1:0")
	s.logger = logger
	t.Cleanup(func() {
		s.cancel()
		s.rateLimiter.Close()
	})
	return s
}

// TestRankFor_Memoizes verifies that repeated identical queries hit the
// cache, and that a refresh flushes it.
func TestRankFor_Memoizes(t *testing.T) {
	s := newTestServer(t, "git", "grep", "which", "witch")

	first := s.rankFor("wimich", s.baseCfg)
	if s.rankCache.Len() != 1 {
		t.Fatalf("cache Len = %d after one query, want 1", s.rankCache.Len())
	}
	second := s.rankFor("wimich", s.baseCfg)
	if s.rankCache.Len() != 1 {
		t.Errorf("cache Len = %d after repeated query, want 1", s.rankCache.Len())
	}
	if len(first) != len(second) {
		t.Fatalf("cached result differs: %d vs %d matches", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("match %d differs: %+v vs %+v", i, first[i], second[i])
		}
	}

	s.refresh()
	if s.rankCache.Len() != 0 {
		t.Errorf("cache Len = %d after refresh, want 0", s.rankCache.Len())
	}
}

// TestRankKey_DistinguishesConfigs verifies that every config field that
// affects ranking participates in the cache key.
func TestRankKey_DistinguishesConfigs(t *testing.T) {
	base := suggest.DefaultConfig()
	variants := []suggest.Config{
		{Algorithm: base.Algorithm, Cost: base.Cost, Threshold: base.Threshold, MaxResults: base.MaxResults + 1},
		{Algorithm: base.Algorithm, Cost: base.Cost, Threshold: 0.5, MaxResults: base.MaxResults},
		{Algorithm: base.Algorithm, Cost: 2.0, Threshold: base.Threshold, MaxResults: base.MaxResults},
	}

	baseKey := rankKey("query", base)
	for i, v := range variants {
		if got := rankKey("query", v); got == baseKey {
			t.Errorf("variant %d: rankKey collides with base config: %q", i, got)
		}
	}
	if rankKey("a", base) == rankKey("b", base) {
		t.Error("rankKey must distinguish queries")
	}
}

// TestRefresh_PicksUpNewExecutables verifies that a refresh rescans the
// search path and broadcasts the new candidate count.
func TestRefresh_PicksUpNewExecutables(t *testing.T) {
	s := newTestServer(t, "git")

	if got := len(s.scanner.Names()); got != 1 {
		t.Fatalf("initial candidates = %d, want 1", got)
	}

	dir := s.scanner.Dirs()[0]
	if err := os.WriteFile(filepath.Join(dir, "grep"), []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatalf("writing fake executable: %v", err)
	}

	s.refresh()

	if got := len(s.scanner.Names()); got != 2 {
		t.Errorf("candidates after refresh = %d, want 2", got)
	}

	select {
	case msg := <-s.broadcast:
		if msg.Type != "candidates" {
			t.Errorf("broadcast type = %q, want %q", msg.Type, "candidates")
		}
		if msg.Count != 2 {
			t.Errorf("broadcast count = %d, want 2", msg.Count)
		}
		if msg.ScannedAt.IsZero() {
			t.Error("broadcast ScannedAt is zero")
		}
	default:
		t.Error("refresh did not queue a broadcast message")
	}
}
