package realtime

import (
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// ErrHubClosed is returned by Add once the hub has shut down.
var ErrHubClosed = errors.New("realtime: hub closed")

// Conn is one accepted connection, bound to the user that opened it.
type Conn struct {
	userID       string
	ws           *websocket.Conn
	writeTimeout time.Duration

	writeMu sync.Mutex
}

func (c *Conn) UserID() string {
	return c.userID
}

// WriteFrame serializes writes; gorilla allows one concurrent writer.
func (c *Conn) WriteFrame(f Frame) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	_ = c.ws.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	return c.ws.WriteJSON(f)
}

func (c *Conn) ping() error {
	return c.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(c.writeTimeout))
}

func (c *Conn) closeWith(code int, text string) {
	_ = c.ws.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(code, text),
		time.Now().Add(c.writeTimeout),
	)
	_ = c.ws.Close()
}

// Hub tracks live connections.
type Hub struct {
	mu     sync.RWMutex
	conns  map[*Conn]struct{}
	closed bool
}

func NewHub() *Hub {
	return &Hub{conns: make(map[*Conn]struct{})}
}

func (h *Hub) Add(c *Conn) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return ErrHubClosed
	}
	h.conns[c] = struct{}{}
	return nil
}

func (h *Hub) Remove(c *Conn) {
	h.mu.Lock()
	delete(h.conns, c)
	h.mu.Unlock()
}

// Count returns the number of live connections.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// CountUser returns the number of live connections opened by userID.
func (h *Hub) CountUser(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	n := 0
	for c := range h.conns {
		if c.userID == userID {
			n++
		}
	}
	return n
}

// Close sends a going-away close frame to every connection and refuses new
// ones. It is safe to call more than once.
func (h *Hub) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	conns := make([]*Conn, 0, len(h.conns))
	for c := range h.conns {
		conns = append(conns, c)
	}
	h.mu.Unlock()

	for _, c := range conns {
		c.closeWith(websocket.CloseGoingAway, "server shutting down")
	}
}
