// Package monitor broadcasts grid-build progress and result-cursor
// throughput to connected observers over WebSocket. It is purely
// observational: nothing here affects query correctness, and a build or
// scan proceeds identically whether or not a monitor server is attached.
package monitor

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// ProgressFrame is one JSON-encoded progress update pushed to observers.
type ProgressFrame struct {
	Kind      string                 `json:"kind"`
	Timestamp time.Time              `json:"timestamp"`
	Detail    map[string]interface{} `json:"detail"`
}

// NewGridBuildFrame reports how many of a grid's cells have been populated
// so far.
func NewGridBuildFrame(cellsPopulated, totalCells int, now time.Time) ProgressFrame {
	return ProgressFrame{
		Kind:      "grid_build",
		Timestamp: now,
		Detail: map[string]interface{}{
			"cells_populated": cellsPopulated,
			"total_cells":     totalCells,
		},
	}
}

// NewHistogramFrame reports a histogram's current bin count and observed
// range for one axis during grid build.
func NewHistogramFrame(axis int, binCount int, min, max float64, now time.Time) ProgressFrame {
	return ProgressFrame{
		Kind:      "histogram",
		Timestamp: now,
		Detail: map[string]interface{}{
			"axis":      axis,
			"bin_count": binCount,
			"min":       min,
			"max":       max,
		},
	}
}

// NewCursorThroughputFrame reports rows produced by a ResultCursor and the
// time spent producing them.
func NewCursorThroughputFrame(rows int64, elapsed time.Duration, now time.Time) ProgressFrame {
	return ProgressFrame{
		Kind:      "cursor_throughput",
		Timestamp: now,
		Detail: map[string]interface{}{
			"rows":        rows,
			"elapsed_sec": elapsed.Seconds(),
		},
	}
}

// client is one connected observer.
type client struct {
	id     string
	conn   *websocket.Conn
	mu     sync.Mutex
	closed bool
}

// Server accepts WebSocket observers and fans progress frames out to all
// of them.
type Server struct {
	upgrader websocket.Upgrader
	clients  map[string]*client
	mu       sync.RWMutex
}

func NewServer() *Server {
	return &Server{
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		clients:  make(map[string]*client),
	}
}

// ServeHTTP upgrades the connection and registers it as an observer.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	c := &client{id: fmt.Sprintf("observer_%d", time.Now().UnixNano()), conn: conn}

	s.mu.Lock()
	s.clients[c.id] = c
	s.mu.Unlock()

	go s.readLoop(c)
}

// readLoop drains the socket so the underlying connection notices client
// disconnects; observers aren't expected to send anything meaningful back.
func (s *Server) readLoop(c *client) {
	defer s.removeClient(c.id)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *Server) removeClient(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.clients[id]; ok {
		c.mu.Lock()
		c.closed = true
		c.conn.Close()
		c.mu.Unlock()
		delete(s.clients, id)
	}
}

// Broadcast sends frame to every connected observer, dropping (and
// unregistering) any whose write fails.
func (s *Server) Broadcast(frame ProgressFrame) error {
	payload, err := json.Marshal(frame)
	if err != nil {
		return err
	}

	s.mu.RLock()
	clients := make([]*client, 0, len(s.clients))
	for _, c := range s.clients {
		clients = append(clients, c)
	}
	s.mu.RUnlock()

	var lastErr error
	var dead []string
	for _, c := range clients {
		c.mu.Lock()
		if !c.closed {
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				lastErr = err
				c.closed = true
				dead = append(dead, c.id)
			}
		}
		c.mu.Unlock()
	}
	if len(dead) > 0 {
		s.mu.Lock()
		for _, id := range dead {
			delete(s.clients, id)
		}
		s.mu.Unlock()
	}
	return lastErr
}

// ClientCount reports how many observers are currently connected.
func (s *Server) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// Close disconnects every observer.
func (s *Server) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, c := range s.clients {
		c.mu.Lock()
		c.closed = true
		c.conn.Close()
		c.mu.Unlock()
		delete(s.clients, id)
	}
}
