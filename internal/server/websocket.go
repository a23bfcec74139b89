package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 54 * time.Second
	maxMessageSize = 512
)

// CheckOrigin allows all origins; the daemon is designed for local use only.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(_ *http.Request) bool {
		return true
	},
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("WebSocket upgrade failed", "err", err)
		return
	}

	conn.SetReadLimit(maxMessageSize)
	if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		s.logger.Error("Failed to set read deadline", "addr", conn.RemoteAddr(), "err", err)
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	s.logger.Info("WebSocket client connected", "addr", conn.RemoteAddr())

	writeMu := &sync.Mutex{}

	// Send the current candidate state before registering for broadcasts to
	// prevent a race where a refresh arrives before the client knows its
	// baseline.
	s.sendInitialState(conn, writeMu)

	s.clientsMu.Lock()
	s.clients[conn] = writeMu
	clientCount := len(s.clients)
	s.clientsMu.Unlock()

	s.logger.Info("WebSocket client registered", "addr", conn.RemoteAddr(), "totalClients", clientCount)

	done := make(chan struct{})
	go s.clientReadPump(conn, done, writeMu)
	go s.clientWritePump(conn, done, writeMu)
}

func (s *Server) sendInitialState(conn *websocket.Conn, writeMu *sync.Mutex) {
	message := CandidateUpdate{
		Type:      "candidates",
		Count:     len(s.scanner.Names()),
		ScannedAt: time.Now().UTC(),
	}

	if err := s.writeJSON(conn, writeMu, message); err != nil {
		s.logger.Error("Failed to send initial state", "addr", conn.RemoteAddr(), "err", err)
		return
	}

	s.logger.Info("Initial state sent", "addr", conn.RemoteAddr())
}

// writeJSON serializes one message to conn under the connection's write
// mutex and deadline.
func (s *Server) writeJSON(conn *websocket.Conn, writeMu *sync.Mutex, v any) error {
	writeMu.Lock()
	defer writeMu.Unlock()

	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return conn.WriteJSON(v)
}

// clientReadPump services query frames until the client disconnects, then
// closes the done channel to signal clientWritePump to stop. Each frame is a
// QueryRequest; the ranked reply goes back on the same connection.
func (s *Server) clientReadPump(conn *websocket.Conn, done chan struct{}, writeMu *sync.Mutex) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Warn("Recovered panic in clientReadPump", "addr", conn.RemoteAddr(), "panic", r)
		}
		close(done)
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				s.logger.Error("WebSocket read error", "addr", conn.RemoteAddr(), "err", err)
			}
			return
		}

		var req QueryRequest
		if err := json.Unmarshal(data, &req); err != nil {
			s.logger.Debug("Malformed query frame", "addr", conn.RemoteAddr(), "err", err)
			continue
		}
		if err := validateQuery(req.Query); err != nil {
			s.logger.Debug("Rejected query frame", "addr", conn.RemoteAddr(), "err", err)
			continue
		}

		resp := SuggestResponse{
			Type:    "suggestions",
			Query:   req.Query,
			Matches: s.rankFor(req.Query, s.baseCfg),
		}
		if err := s.writeJSON(conn, writeMu, resp); err != nil {
			s.logger.Error("Failed to send suggestions", "addr", conn.RemoteAddr(), "err", err)
			return
		}
	}
}

// clientWritePump sends keepalive pings. writeMu serializes pings with
// broadcasts and query replies.
func (s *Server) clientWritePump(conn *websocket.Conn, done chan struct{}, writeMu *sync.Mutex) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	defer s.removeClient(conn)

	for {
		select {
		case <-done:
			s.logger.Info("WebSocket client disconnected", "addr", conn.RemoteAddr())
			return

		case <-ticker.C:
			writeMu.Lock()
			err1 := conn.SetWriteDeadline(time.Now().Add(writeWait))
			var err2 error
			if err1 == nil {
				err2 = conn.WriteMessage(websocket.PingMessage, nil)
			}
			writeMu.Unlock()

			if err1 != nil {
				s.logger.Error("Failed to set write deadline", "addr", conn.RemoteAddr(), "err", err1)
			}
			if err2 != nil {
				s.logger.Error("WebSocket ping failed", "addr", conn.RemoteAddr(), "err", err2)
				return
			}
		}
	}
}

func (s *Server) removeClient(conn *websocket.Conn) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()

	if _, ok := s.clients[conn]; ok {
		delete(s.clients, conn)
		if err := conn.Close(); err != nil {
			s.logger.Error("Failed to close connection", "addr", conn.RemoteAddr(), "err", err)
		}
		s.logger.Info("WebSocket client removed", "totalClients", len(s.clients))
	}
}
