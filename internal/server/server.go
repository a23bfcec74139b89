package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rybkr/cmdsense/internal/pathscan"
	"github.com/rybkr/cmdsense/internal/suggest"
)

// Server is the live suggestion daemon behind `cmdsense serve`. It keeps the
// scanned candidate list warm, answers suggestion queries over HTTP and
// WebSocket, and pushes a refresh notice to connected clients whenever the
// search path's contents change.
type Server struct {
	scanner *pathscan.Scanner
	baseCfg suggest.Config
	addr    string

	rateLimiter *rateLimiter
	httpServer  *http.Server
	// logger is the structured logger for this server instance. It is
	// initialised from slog.Default() in NewServer so that the global handler
	// configured in main (format, level) is inherited automatically, while
	// still being injectable in tests via a null-writer handler.
	logger *slog.Logger

	clientsMu sync.RWMutex
	// clients maps each WebSocket connection to its per-connection write mutex.
	// All writes to a conn (broadcasts, query replies, pings) must hold the
	// per-conn mutex to satisfy gorilla/websocket's "one concurrent writer"
	// contract.
	clients map[*websocket.Conn]*sync.Mutex

	broadcast chan CandidateUpdate

	// rankCache memoizes rank results per query+config. Keys are derived
	// from the full configuration, and the cache is flushed wholesale on
	// every rescan, so a hit is always computed against the live candidate
	// list.
	rankCache *LRUCache[[]suggest.Match]

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewServer constructs a Server ready to be started. cfg supplies the default
// ranking parameters for queries that do not override them.
func NewServer(scanner *pathscan.Scanner, cfg suggest.Config, addr string) *Server {
	ctx, cancel := context.WithCancel(context.Background())

	// Allow operators to tune cache capacity via env var. Values that are
	// missing, zero, or negative fall back to the package default.
	cacheSize := defaultCacheSize
	if raw := os.Getenv("CMDSENSE_CACHE_SIZE"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			cacheSize = n
		}
	}

	return &Server{
		scanner:     scanner,
		baseCfg:     cfg,
		addr:        addr,
		rateLimiter: newRateLimiter(100, 200, time.Second),
		logger:      slog.Default(),
		clients:     make(map[*websocket.Conn]*sync.Mutex),
		broadcast:   make(chan CandidateUpdate, broadcastChannelSize),
		rankCache:   NewLRUCache[[]suggest.Match](cacheSize),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Start scans the search path, begins serving, and blocks until the server
// exits or encounters a fatal error.
func (s *Server) Start() error {
	if err := s.scanner.Rescan(s.ctx); err != nil {
		return fmt.Errorf("initial path scan: %w", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleDocs)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/api/suggest", s.rateLimiter.middleware(s.handleSuggest))
	mux.HandleFunc("/api/ws", s.handleWebSocket)

	s.httpServer = &http.Server{
		Addr:        s.addr,
		Handler:     mux,
		ReadTimeout: 15 * time.Second,
		// WriteTimeout is intentionally 0: WebSocket connections are long-lived
		// and hijacked from net/http, so the HTTP-level write deadline does not
		// apply to them. Per-message write deadlines are enforced in websocket.go
		// via conn.SetWriteDeadline.
		WriteTimeout: 0,
		IdleTimeout:  120 * time.Second,
	}

	s.wg.Add(1)
	go s.handleBroadcast()
	// Reserve the WaitGroup slot for the watchLoop goroutine here, before the
	// outer goroutine starts, so s.wg.Add cannot race with s.wg.Wait in Shutdown.
	s.wg.Add(1)
	go func() {
		if err := s.startWatcher(); err != nil {
			s.logger.Error("watcher error", "err", err)
			s.wg.Done() // watchLoop never started; release the reserved slot
		}
	}()

	s.logger.Info("cmdsense daemon starting", "addr", "http://"+s.addr,
		"candidates", len(s.scanner.Names()))
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests, stops background goroutines, and
// closes all WebSocket clients.
func (s *Server) Shutdown() {
	s.logger.Info("daemon shutting down")

	if s.httpServer != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("HTTP server shutdown error", "err", err)
		}
	}

	s.cancel()
	s.rateLimiter.Close()

	s.wg.Wait()

	s.clientsMu.Lock()
	for conn := range s.clients {
		if err := conn.Close(); err != nil {
			s.logger.Error("Failed to close client connection", "err", err)
		}
	}
	s.clients = make(map[*websocket.Conn]*sync.Mutex)
	s.clientsMu.Unlock()

	s.logger.Info("daemon shutdown complete")
}

// rankFor returns ranked matches for query under cfg, memoized until the
// next rescan.
func (s *Server) rankFor(query string, cfg suggest.Config) []suggest.Match {
	key := rankKey(query, cfg)
	if cached, ok := s.rankCache.Get(key); ok {
		return cached
	}

	matches := suggest.Rank(query, s.scanner.Names(), cfg)
	s.rankCache.Put(key, matches)
	return matches
}

// rankKey builds the cache key from the query and every config field that
// affects the result.
func rankKey(query string, cfg suggest.Config) string {
	return fmt.Sprintf("%s|%s|%g|%g|%d",
		query, cfg.Algorithm, cfg.Cost, cfg.Threshold, cfg.MaxResults)
}

// refresh rescans the search path, flushes memoized results, and notifies
// connected clients. Called from the filesystem watcher.
func (s *Server) refresh() {
	s.logger.Debug("rescanning search path")

	if err := s.scanner.Rescan(s.ctx); err != nil {
		s.logger.Error("path rescan failed", "err", err)
		return
	}
	s.rankCache.Clear()

	s.broadcastUpdate(CandidateUpdate{
		Type:      "candidates",
		Count:     len(s.scanner.Names()),
		ScannedAt: time.Now().UTC(),
	})
}
