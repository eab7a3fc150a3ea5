package session

import "errors"

// ErrNoUserID is returned when a user without an id is serialized.
var ErrNoUserID = errors.New("session: user has no id")

// User is the current user as seen by request handlers.
// Only the provider-issued id is kept.
type User struct {
	ID string `json:"id"`
}

// SerializeUser reduces u to the value stored in the session payload.
func SerializeUser(u *User) (string, error) {
	if u == nil || u.ID == "" {
		return "", ErrNoUserID
	}
	return u.ID, nil
}

// DeserializeUser rebuilds the id-only user from a stored payload value.
func DeserializeUser(id string) *User {
	if id == "" {
		return nil
	}
	return &User{ID: id}
}

// CurrentUser returns the signed-in user of s, or nil.
func CurrentUser(s *Session) *User {
	if !IsAuthenticated(s) {
		return nil
	}
	return DeserializeUser(s.UserID)
}
