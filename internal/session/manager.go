package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Manager ties a Store to the signed sid cookie. The HTTP session middleware,
// the auth callback and the connection gate all go through it, so they agree
// on cookie framing and lookup.
type Manager struct {
	store  Store
	codec  *Codec
	ttl    time.Duration
	cookie CookieOptions
	now    func() time.Time
}

func NewManager(store Store, codec *Codec, ttl time.Duration, cookie CookieOptions) *Manager {
	return &Manager{
		store:  store,
		codec:  codec,
		ttl:    ttl,
		cookie: cookie,
		now:    time.Now,
	}
}

// Store returns the underlying store.
func (m *Manager) Store() Store {
	return m.store
}

// Load resolves a sid cookie value. It returns (nil, nil) when the value is
// well formed but no live session exists, and ErrInvalidCookie when the value
// does not verify.
func (m *Manager) Load(ctx context.Context, cookieValue string) (*Session, error) {
	id, err := m.codec.Decode(cookieValue)
	if err != nil {
		return nil, err
	}

	s, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("session: load: %w", err)
	}
	return s, nil
}

// LoadFromHeader resolves the sid entry of a raw Cookie header.
func (m *Manager) LoadFromHeader(ctx context.Context, header string) (*Session, error) {
	value, ok := ParseCookieHeader(header)[CookieName]
	if !ok {
		return nil, nil
	}
	return m.Load(ctx, value)
}

// LoadRequest resolves the sid cookie of r.
func (m *Manager) LoadRequest(r *http.Request) (*Session, error) {
	c, err := r.Cookie(CookieName)
	if errors.Is(err, http.ErrNoCookie) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return m.Load(r.Context(), c.Value)
}

// Start creates an anonymous session and sets its cookie on w.
func (m *Manager) Start(ctx context.Context, w http.ResponseWriter) (*Session, error) {
	return m.issue(ctx, w, "")
}

// Login stores u in a fresh session, replacing prev, and sets the new cookie.
func (m *Manager) Login(ctx context.Context, w http.ResponseWriter, prev *Session, u *User) (*Session, error) {
	userID, err := SerializeUser(u)
	if err != nil {
		return nil, err
	}

	if prev != nil {
		if err := m.store.Delete(ctx, prev.SessionID); err != nil {
			return nil, fmt.Errorf("session: drop previous: %w", err)
		}
	}

	return m.issue(ctx, w, userID)
}

// Destroy deletes s and clears the cookie. s may be nil.
func (m *Manager) Destroy(ctx context.Context, w http.ResponseWriter, s *Session) error {
	ClearCookie(w, m.cookie)
	if s == nil {
		return nil
	}
	return m.store.Delete(ctx, s.SessionID)
}

func (m *Manager) issue(ctx context.Context, w http.ResponseWriter, userID string) (*Session, error) {
	id, err := GenerateID()
	if err != nil {
		return nil, err
	}

	now := m.now()
	s := Session{
		SessionID: id,
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}

	value, err := m.codec.Encode(id)
	if err != nil {
		return nil, err
	}

	if err := m.store.Create(ctx, s); err != nil {
		return nil, fmt.Errorf("session: persist: %w", err)
	}

	SetCookie(w, value, s.ExpiresAt, m.cookie)
	return &s, nil
}
