// Package pathscan enumerates the executable names available on a search
// path. It owns candidate discovery only; scoring and presentation live in
// the suggest and render packages.
package pathscan

import (
	"context"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Options controls what a Scanner considers a candidate.
type Options struct {
	// Path is the raw search path (entries separated by os.PathListSeparator).
	// Empty means the process's $PATH.
	Path string
	// IgnoreDirs lists directories to skip outright.
	IgnoreDirs []string
	// IgnoreNames lists glob patterns (path.Match syntax); matching names
	// are excluded from the candidate list.
	IgnoreNames []string
}

// Scanner produces and caches the deduplicated candidate list. The cached
// snapshot is replaced wholesale by Rescan, so readers always see a
// consistent list; the serve daemon calls Rescan from its watcher.
type Scanner struct {
	opts   Options
	logger *slog.Logger

	mu     sync.RWMutex
	names  []string          // search-path order, first directory wins
	origin map[string]string // name -> full path of the winning entry
}

// New returns a Scanner. No scan happens until Rescan is called.
func New(opts Options, logger *slog.Logger) *Scanner {
	if opts.Path == "" {
		opts.Path = os.Getenv("PATH")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scanner{opts: opts, logger: logger, origin: make(map[string]string)}
}

// Dirs returns the search-path directories after ignore filtering, in
// resolution order.
func (s *Scanner) Dirs() []string {
	var dirs []string
	for _, d := range filepath.SplitList(s.opts.Path) {
		if d == "" || s.ignoredDir(d) {
			continue
		}
		dirs = append(dirs, d)
	}
	return dirs
}

// Rescan walks every search-path directory and replaces the cached
// candidate snapshot. Directories are read concurrently; results are merged
// back in search-path order so the output is deterministic regardless of
// scheduling. Unreadable directories are logged and skipped; a PATH entry
// that does not exist is routine, not an error.
func (s *Scanner) Rescan(ctx context.Context) error {
	dirs := s.Dirs()
	perDir := make([][]string, len(dirs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, dir := range dirs {
		i, dir := i, dir
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			names, err := s.readDir(dir)
			if err != nil {
				s.logger.Debug("skipping unreadable path entry", "dir", dir, "err", err)
				return nil
			}
			perDir[i] = names
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	names := make([]string, 0, 512)
	origin := make(map[string]string, 512)
	for i, dir := range dirs {
		for _, name := range perDir[i] {
			if _, seen := origin[name]; seen {
				continue
			}
			origin[name] = filepath.Join(dir, name)
			names = append(names, name)
		}
	}

	s.mu.Lock()
	s.names = names
	s.origin = origin
	s.mu.Unlock()

	s.logger.Debug("path scan complete", "dirs", len(dirs), "candidates", len(names))
	return nil
}

// Names returns a copy of the cached candidate list.
func (s *Scanner) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Resolve returns the full path of the directory entry that won the search
// for name, if name is a known candidate.
func (s *Scanner) Resolve(name string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.origin[name]
	return p, ok
}

// readDir lists the executable names in one directory, applying the name
// ignore patterns.
func (s *Scanner) readDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if s.ignoredName(name) {
			continue
		}
		// Stat rather than entry.Info so symlinks resolve to their target.
		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		if info.Mode().Perm()&0o111 == 0 {
			continue
		}
		names = append(names, name)
	}
	return names, nil
}

func (s *Scanner) ignoredDir(dir string) bool {
	clean := filepath.Clean(dir)
	for _, ig := range s.opts.IgnoreDirs {
		if filepath.Clean(ig) == clean {
			return true
		}
	}
	return false
}

func (s *Scanner) ignoredName(name string) bool {
	for _, pattern := range s.opts.IgnoreNames {
		if ok, err := path.Match(pattern, name); err == nil && ok {
			return true
		}
	}
	return false
}
