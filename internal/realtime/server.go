package realtime

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"session-gate/internal/gate"
	"session-gate/internal/logger"
	"session-gate/internal/metrics"
)

const (
	defaultReadTimeout    = 60 * time.Second
	defaultWriteTimeout   = 10 * time.Second
	defaultMaxMessageSize = 64 * 1024
)

// Options tunes connection handling.
type Options struct {
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	MaxMessageSize int64
	// CheckOrigin overrides gorilla's same-origin check when set.
	CheckOrigin func(r *http.Request) bool
}

func (o Options) withDefaults() Options {
	if o.ReadTimeout <= 0 {
		o.ReadTimeout = defaultReadTimeout
	}
	if o.WriteTimeout <= 0 {
		o.WriteTimeout = defaultWriteTimeout
	}
	if o.MaxMessageSize <= 0 {
		o.MaxMessageSize = defaultMaxMessageSize
	}
	return o
}

// Server accepts WebSocket connections for signed-in sessions only. The
// gate runs before the upgrade, so a refused client never gets a socket.
type Server struct {
	gate     *gate.Gate
	hub      *Hub
	metrics  *metrics.Metrics
	opts     Options
	upgrader websocket.Upgrader
}

func NewServer(g *gate.Gate, hub *Hub, m *metrics.Metrics, opts Options) *Server {
	opts = opts.withDefaults()
	return &Server{
		gate:    g,
		hub:     hub,
		metrics: m,
		opts:    opts,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     opts.CheckOrigin,
		},
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	cookieHeader := strings.Join(r.Header.Values("Cookie"), "; ")

	user, err := s.gate.Authenticate(r.Context(), cookieHeader)
	if err != nil {
		s.metrics.ObserveGate(metrics.GateRealtime, false)
		logger.Info("connection refused", map[string]any{
			"reason":    err.Error(),
			"remote_ip": r.RemoteAddr,
		})
		writeRefusal(w, err)
		return
	}
	s.metrics.ObserveGate(metrics.GateRealtime, true)

	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied with an HTTP error.
		logger.Warn("websocket upgrade failed", map[string]any{
			"error":   err.Error(),
			"user_id": user.ID,
		})
		return
	}

	c := &Conn{
		userID:       user.ID,
		ws:           ws,
		writeTimeout: s.opts.WriteTimeout,
	}
	if err := s.hub.Add(c); err != nil {
		c.closeWith(websocket.CloseGoingAway, "server shutting down")
		return
	}

	s.metrics.ConnectionOpened()
	logger.Info("connection accepted", map[string]any{
		"user_id": user.ID,
	})

	defer func() {
		s.hub.Remove(c)
		s.metrics.ConnectionClosed()
		_ = ws.Close()
		logger.Info("connection closed", map[string]any{
			"user_id": user.ID,
		})
	}()

	if err := c.WriteFrame(Frame{Type: FrameWelcome, UserID: user.ID}); err != nil {
		return
	}

	done := make(chan struct{})
	defer close(done)
	go s.pingLoop(c, done)

	s.readLoop(c)
}

func (s *Server) readLoop(c *Conn) {
	ws := c.ws
	ws.SetReadLimit(s.opts.MaxMessageSize)
	_ = ws.SetReadDeadline(time.Now().Add(s.opts.ReadTimeout))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(s.opts.ReadTimeout))
	})

	for {
		_, msg, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				logger.Warn("read error", map[string]any{
					"error":   err.Error(),
					"user_id": c.userID,
				})
			}
			return
		}
		_ = ws.SetReadDeadline(time.Now().Add(s.opts.ReadTimeout))

		logger.Info("message received", map[string]any{
			"user_id": c.userID,
			"bytes":   len(msg),
		})

		if err := c.WriteFrame(Frame{Type: FrameAck, Bytes: len(msg)}); err != nil {
			return
		}
	}
}

func (s *Server) pingLoop(c *Conn, done <-chan struct{}) {
	ticker := time.NewTicker(s.opts.ReadTimeout * 9 / 10)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := c.ping(); err != nil {
				return
			}
		}
	}
}

func writeRefusal(w http.ResponseWriter, err error) {
	reason := gate.ErrNotAuthenticated.Reason
	if ae, ok := err.(*gate.AuthError); ok && ae.Reason != "" {
		reason = ae.Reason
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": reason})
}
