package session

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/securecookie"
)

var (
	// ErrInvalidCookie is returned when a cookie value fails signature,
	// timestamp or format checks.
	ErrInvalidCookie = errors.New("session: invalid cookie")
	// ErrWeakSecret is returned for secrets shorter than 16 bytes.
	ErrWeakSecret = errors.New("session: secret must be at least 16 bytes")
)

// Codec wraps session ids for transport in the sid cookie.
//
// The wire form is securecookie's: base64url("<unix ts>|<base64url(gob(id))>|<hmac>"),
// where the HMAC-SHA256 covers "sid|<ts>|<value>" under the session secret.
// The raw id is only recoverable through Decode.
type Codec struct {
	sc *securecookie.SecureCookie
}

// NewCodec builds a codec signing with secret. Cookies older than maxAge are
// rejected on decode.
func NewCodec(secret string, maxAge time.Duration) (*Codec, error) {
	if len(secret) < 16 {
		return nil, ErrWeakSecret
	}

	sc := securecookie.New([]byte(secret), nil)
	sc.MaxAge(int(maxAge.Seconds()))

	return &Codec{sc: sc}, nil
}

// Encode signs a session id.
func (c *Codec) Encode(sessionID string) (string, error) {
	v, err := c.sc.Encode(CookieName, sessionID)
	if err != nil {
		return "", fmt.Errorf("session: encode cookie: %w", err)
	}
	return v, nil
}

// Decode verifies a cookie value and returns the session id it carries.
func (c *Codec) Decode(value string) (string, error) {
	if value == "" {
		return "", ErrInvalidCookie
	}

	var id string
	if err := c.sc.Decode(CookieName, value, &id); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidCookie, err)
	}
	if id == "" {
		return "", ErrInvalidCookie
	}
	return id, nil
}

// ParseCookieHeader splits a raw Cookie header into name/value pairs.
// Malformed pairs are skipped; for repeated names the first one wins.
func ParseCookieHeader(header string) map[string]string {
	out := make(map[string]string)
	if header == "" {
		return out
	}

	r := http.Request{Header: http.Header{"Cookie": {header}}}
	for _, c := range r.Cookies() {
		if _, seen := out[c.Name]; !seen {
			out[c.Name] = c.Value
		}
	}
	return out
}
