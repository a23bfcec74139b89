package server

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceTime coalesces bursts of filesystem events (a package manager
// installing dozens of binaries) into one rescan.
const debounceTime = 200 * time.Millisecond

func (s *Server) startWatcher() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	// Watch every search-path directory we can; a missing directory is
	// routine (PATH entries that don't exist), so only fail when nothing
	// at all is watchable.
	watched := 0
	for _, dir := range s.scanner.Dirs() {
		if err := watcher.Add(dir); err != nil {
			s.logger.Debug("cannot watch path entry", "dir", dir, "err", err)
			continue
		}
		watched++
	}
	if watched == 0 {
		_ = watcher.Close()
		return fmt.Errorf("no search-path directory could be watched")
	}

	go s.watchLoop(watcher)

	s.logger.Info("Watching search path for changes", "dirs", watched)
	return nil
}

func (s *Server) watchLoop(watcher *fsnotify.Watcher) {
	defer s.wg.Done()
	defer func() {
		if err := watcher.Close(); err != nil {
			s.logger.Error("Failed to close watcher", "err", err)
		}
	}()

	var debounceTimer *time.Timer

	for {
		select {
		case <-s.ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if shouldIgnoreEvent(event) {
				continue
			}

			s.logger.Debug("Change detected", "file", filepath.Base(event.Name))

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(debounceTime, s.refresh)

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			s.logger.Error("Watcher error", "err", err)
		}
	}
}

// shouldIgnoreEvent filters events that cannot change the candidate list.
// Chmod is deliberately kept: flipping an executable bit adds or removes a
// candidate.
func shouldIgnoreEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename|fsnotify.Chmod) == 0 {
		return true
	}

	base := filepath.Base(event.Name)
	// Hidden files and editor/package-manager scratch files never become
	// commands worth suggesting.
	if strings.HasPrefix(base, ".") {
		return true
	}
	if strings.HasSuffix(base, ".tmp") || strings.HasSuffix(base, ".swp") {
		return true
	}

	return false
}
