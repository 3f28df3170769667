// Package ws provides the persistent-connection endpoint: an authenticated
// websocket upgrade and a hub that tracks who is online.
package ws

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// writeWait is the allowed duration for a single write to complete.
	writeWait = 10 * time.Second

	// pongWait is how long a connection may stay silent before it is dropped.
	pongWait = 60 * time.Second

	// pingPeriod must be shorter than pongWait so pings keep connections alive.
	pingPeriod = 50 * time.Second

	// sendQueueSize bounds the per-connection outbound queue. A connection
	// that cannot drain its queue is closed rather than blocking the hub.
	sendQueueSize = 32
)

// Message is the envelope for every frame pushed to clients.
type Message struct {
	Kind string `json:"kind"`
	Data any    `json:"data"`
}

// connection is one upgraded websocket bound to a subject.
type connection struct {
	subjectID int64
	conn      *websocket.Conn
	send      chan []byte
}

// Hub tracks live connections by subject. One subject may hold several
// connections (multiple tabs); the online count is distinct subjects.
type Hub struct {
	logger *slog.Logger

	mu         sync.RWMutex
	bySubject  map[int64]map[*connection]struct{}
	connection map[*connection]struct{}
}

// NewHub creates an empty hub.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		logger:     logger,
		bySubject:  make(map[int64]map[*connection]struct{}),
		connection: make(map[*connection]struct{}),
	}
}

// OnlineCount returns the number of distinct subjects currently connected.
func (h *Hub) OnlineCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.bySubject)
}

// Broadcast pushes a message to every live connection.
func (h *Hub) Broadcast(kind string, data any) {
	payload, err := json.Marshal(Message{Kind: kind, Data: data})
	if err != nil {
		h.logger.Error("broadcast marshal failed", slog.String("error", err.Error()))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.connection {
		c.enqueue(payload)
	}
}

// SendToSubject pushes a message to every connection held by a subject.
// Returns false when the subject has no live connection, so callers can
// decide to retry later.
func (h *Hub) SendToSubject(subjectID int64, kind string, data any) bool {
	payload, err := json.Marshal(Message{Kind: kind, Data: data})
	if err != nil {
		h.logger.Error("send marshal failed", slog.String("error", err.Error()))
		return false
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	conns, ok := h.bySubject[subjectID]
	if !ok || len(conns) == 0 {
		return false
	}
	for c := range conns {
		c.enqueue(payload)
	}
	return true
}

// register adds a connection and broadcasts the new online count.
func (h *Hub) register(c *connection) {
	h.mu.Lock()
	h.connection[c] = struct{}{}
	if h.bySubject[c.subjectID] == nil {
		h.bySubject[c.subjectID] = make(map[*connection]struct{})
	}
	h.bySubject[c.subjectID][c] = struct{}{}
	online := len(h.bySubject)
	h.mu.Unlock()

	h.logger.Debug("websocket connected",
		slog.Int64("subject_id", c.subjectID),
		slog.Int("online", online))
	h.Broadcast("online_count", online)
}

// unregister drops a connection and broadcasts the new online count.
func (h *Hub) unregister(c *connection) {
	h.mu.Lock()
	if _, ok := h.connection[c]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.connection, c)
	delete(h.bySubject[c.subjectID], c)
	if len(h.bySubject[c.subjectID]) == 0 {
		delete(h.bySubject, c.subjectID)
	}
	close(c.send)
	online := len(h.bySubject)
	h.mu.Unlock()

	h.logger.Debug("websocket disconnected",
		slog.Int64("subject_id", c.subjectID),
		slog.Int("online", online))
	h.Broadcast("online_count", online)
}

// enqueue offers a payload to the connection without blocking. A full queue
// drops the frame; the ping cycle will eventually close a stuck connection.
func (c *connection) enqueue(payload []byte) {
	select {
	case c.send <- payload:
	default:
	}
}

// writePump drains the send queue onto the wire and keeps the connection
// alive with pings. Exits when the queue is closed or a write fails.
func (c *connection) writePump(hub *Hub) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		hub.unregister(c)
		_ = c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump discards inbound frames and detects the peer going away.
// The endpoint is push-only; clients have nothing to say.
func (c *connection) readPump(hub *Hub) {
	defer func() {
		hub.unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
