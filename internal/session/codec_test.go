package session

import (
	"bytes"
	"encoding/base64"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-0123456789"

func newTestCodec(t *testing.T) *Codec {
	t.Helper()
	c, err := NewCodec(testSecret, time.Hour)
	require.NoError(t, err)
	return c
}

func TestNewCodec_WeakSecret(t *testing.T) {
	_, err := NewCodec("short", time.Hour)
	assert.ErrorIs(t, err, ErrWeakSecret)
}

func TestCodec_RoundTrip(t *testing.T) {
	c := newTestCodec(t)

	value, err := c.Encode("raw-session-id")
	require.NoError(t, err)
	assert.NotEqual(t, "raw-session-id", value)

	id, err := c.Decode(value)
	require.NoError(t, err)
	assert.Equal(t, "raw-session-id", id)
}

// The sid cookie carries securecookie's framing, not a fixed prefix around the
// raw id: base64url("<ts>|<base64url(gob(id))>|<mac>").
func TestCodec_WireFormatMatchesSecureCookie(t *testing.T) {
	c := newTestCodec(t)
	id, err := GenerateID()
	require.NoError(t, err)

	value, err := c.Encode(id)
	require.NoError(t, err)

	// The raw id does not appear verbatim anywhere in the cookie value, so no
	// substring rule could recover it.
	assert.False(t, strings.Contains(value, id))

	decoded, err := base64.URLEncoding.DecodeString(value)
	require.NoError(t, err)

	parts := bytes.SplitN(decoded, []byte("|"), 3)
	require.Len(t, parts, 3)

	ts, err := strconv.ParseInt(string(parts[0]), 10, 64)
	require.NoError(t, err)
	assert.InDelta(t, time.Now().Unix(), ts, 5)

	_, err = base64.URLEncoding.DecodeString(string(parts[1]))
	require.NoError(t, err)

	// A plain securecookie instance with the same key reads our value.
	var got string
	sc := securecookie.New([]byte(testSecret), nil)
	require.NoError(t, sc.Decode(CookieName, value, &got))
	assert.Equal(t, id, got)

	// And we read a value produced directly by securecookie.
	external, err := sc.Encode(CookieName, "from-securecookie")
	require.NoError(t, err)
	decodedID, err := c.Decode(external)
	require.NoError(t, err)
	assert.Equal(t, "from-securecookie", decodedID)
}

func TestCodec_RejectsTampering(t *testing.T) {
	c := newTestCodec(t)
	value, err := c.Encode("raw-session-id")
	require.NoError(t, err)

	tests := []struct {
		name  string
		value string
	}{
		{"empty", ""},
		{"raw id", "raw-session-id"},
		{"truncated", value[:len(value)-4]},
		{"garbage", "%%%not-base64%%%"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Decode(tt.value)
			assert.ErrorIs(t, err, ErrInvalidCookie)
		})
	}
}

func TestCodec_RejectsOtherSecret(t *testing.T) {
	other, err := NewCodec("another-secret-9876543210", time.Hour)
	require.NoError(t, err)

	value, err := other.Encode("raw-session-id")
	require.NoError(t, err)

	_, err = newTestCodec(t).Decode(value)
	assert.ErrorIs(t, err, ErrInvalidCookie)
}

func TestParseCookieHeader(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   map[string]string
	}{
		{"empty", "", map[string]string{}},
		{"single", "sid=abc", map[string]string{"sid": "abc"}},
		{"several", "theme=dark; sid=abc==; lang=en", map[string]string{"theme": "dark", "sid": "abc==", "lang": "en"}},
		{"first wins", "sid=one; sid=two", map[string]string{"sid": "one"}},
		{"skips junk", "bad name=x; sid=abc", map[string]string{"sid": "abc"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseCookieHeader(tt.header))
		})
	}
}
