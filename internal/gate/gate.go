// Package gate decides whether a real-time connection attempt belongs to a
// signed-in session. It reads the same sid cookie and store as the HTTP
// session middleware and applies session.IsAuthenticated.
package gate

import (
	"context"
	"errors"

	"session-gate/internal/logger"
	"session-gate/internal/session"
)

const reasonNotAuthenticated = "Not authenticated"

// ErrNotAuthenticated is the refusal returned for every unauthenticated
// connection attempt.
var ErrNotAuthenticated = &AuthError{Reason: reasonNotAuthenticated}

// AuthError is a handshake-level authentication refusal. It is distinct from
// transport errors so clients can tell "not logged in" from "network down".
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string {
	return e.Reason
}

// Is matches any *AuthError, so errors.Is(err, ErrNotAuthenticated) holds for
// refusals that carry a server-supplied reason too.
func (e *AuthError) Is(target error) bool {
	_, ok := target.(*AuthError)
	return ok
}

// IsAuthError reports whether err is an authentication refusal.
func IsAuthError(err error) bool {
	var ae *AuthError
	return errors.As(err, &ae)
}

// Gate resolves handshake cookies against the session store.
type Gate struct {
	sessions *session.Manager
}

func New(sessions *session.Manager) *Gate {
	return &Gate{sessions: sessions}
}

// Authenticate returns the signed-in user for a raw Cookie header, or
// ErrNotAuthenticated. It never returns any other error.
func (g *Gate) Authenticate(ctx context.Context, cookieHeader string) (*session.User, error) {
	s, err := g.sessions.LoadFromHeader(ctx, cookieHeader)
	if err != nil {
		if !errors.Is(err, session.ErrInvalidCookie) {
			logger.Error("connection gate: session lookup failed", map[string]any{
				"error": err.Error(),
			})
		}
		return nil, ErrNotAuthenticated
	}

	if !session.IsAuthenticated(s) {
		return nil, ErrNotAuthenticated
	}

	return session.CurrentUser(s), nil
}
