package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rybkr/cmdsense/internal/pathscan"
)

// newScanner builds a Scanner from the environment. CMDSENSE_PATH overrides
// the search path (same syntax as $PATH) and CMDSENSE_IGNORE holds
// comma-separated glob patterns for names to exclude.
func newScanner() *pathscan.Scanner {
	opts := pathscan.Options{
		Path: os.Getenv("CMDSENSE_PATH"),
	}
	if raw := os.Getenv("CMDSENSE_IGNORE"); raw != "" {
		for _, pat := range strings.Split(raw, ",") {
			if pat = strings.TrimSpace(pat); pat != "" {
				opts.IgnoreNames = append(opts.IgnoreNames, pat)
			}
		}
	}
	return pathscan.New(opts, nil)
}

// scanCandidates builds a scanner and performs the initial scan.
func scanCandidates() (*pathscan.Scanner, error) {
	scanner := newScanner()
	if err := scanner.Rescan(context.Background()); err != nil {
		return nil, fmt.Errorf("scanning search path: %w", err)
	}
	return scanner, nil
}
