package session

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidSession is returned by stores for records that cannot be saved.
	ErrInvalidSession = errors.New("session: invalid session")
	// ErrStoreClosed is returned after Close.
	ErrStoreClosed = errors.New("session: store closed")
)

// Session is the server-side record addressed by the sid cookie.
// UserID is empty until a sign-in completes.
type Session struct {
	SessionID string    `json:"sid"`
	UserID    string    `json:"user,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session is past its absolute expiry.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// IsAuthenticated is the single predicate both gates use to decide whether a
// session belongs to a signed-in user.
func IsAuthenticated(s *Session) bool {
	return s != nil && s.UserID != ""
}

// Store defines how sessions are stored and retrieved.
// Implementations must be safe for concurrent use and make Get/Create/Update
// atomic per session id. Get returns (nil, nil) for unknown or expired ids.
type Store interface {
	Create(ctx context.Context, s Session) error
	Get(ctx context.Context, sessionID string) (*Session, error)
	Update(ctx context.Context, s Session) error
	Delete(ctx context.Context, sessionID string) error
}

func validate(s Session, now time.Time) error {
	if s.SessionID == "" {
		return fmt.Errorf("%w: missing session_id", ErrInvalidSession)
	}
	if s.Expired(now) {
		return fmt.Errorf("%w: expires_at must be in the future", ErrInvalidSession)
	}
	return nil
}
