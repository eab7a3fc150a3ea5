package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"

	"session-gate/internal/gate"
)

// Client is a connected, accepted session on the server.
type Client struct {
	conn   *websocket.Conn
	userID string
}

// Dial opens a connection with the given handshake headers (normally a
// Cookie header) and waits for the welcome frame. A refused handshake is
// reported as a *gate.AuthError, so errors.Is(err, gate.ErrNotAuthenticated)
// distinguishes it from transport failures.
func Dial(ctx context.Context, url string, header http.Header) (*Client, error) {
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, url, header)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusUnauthorized {
			return nil, refusalFrom(resp)
		}
		return nil, fmt.Errorf("realtime: dial: %w", err)
	}

	var welcome Frame
	if err := conn.ReadJSON(&welcome); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("realtime: read welcome: %w", err)
	}
	if welcome.Type != FrameWelcome {
		_ = conn.Close()
		return nil, fmt.Errorf("realtime: unexpected first frame %q", welcome.Type)
	}

	return &Client{conn: conn, userID: welcome.UserID}, nil
}

func refusalFrom(resp *http.Response) error {
	var body struct {
		Error string `json:"error"`
	}
	if resp.Body != nil {
		_ = json.NewDecoder(resp.Body).Decode(&body)
	}
	if body.Error == "" {
		return gate.ErrNotAuthenticated
	}
	return &gate.AuthError{Reason: body.Error}
}

// UserID is the user the server bound this connection to.
func (c *Client) UserID() string {
	return c.userID
}

// Send writes a text message and returns the server's acknowledgement.
func (c *Client) Send(msg []byte) (Frame, error) {
	if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
		return Frame{}, fmt.Errorf("realtime: send: %w", err)
	}
	return c.Next()
}

// Next reads the next frame from the server.
func (c *Client) Next() (Frame, error) {
	var f Frame
	if err := c.conn.ReadJSON(&f); err != nil {
		return Frame{}, err
	}
	return f, nil
}

// IsGoingAway reports whether err is the close the server sends on shutdown.
func IsGoingAway(err error) bool {
	var ce *websocket.CloseError
	return errors.As(err, &ce) && ce.Code == websocket.CloseGoingAway
}

func (c *Client) Close() error {
	_ = c.conn.WriteMessage(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
	)
	return c.conn.Close()
}
