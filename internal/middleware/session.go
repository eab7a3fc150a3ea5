package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"session-gate/internal/logger"
	"session-gate/internal/session"
)

// unexported, collision-proof context key
type sessionContextKeyType struct{}

var sessionKey = sessionContextKeyType{}

// SessionFromContext returns the session attached by Session.
func SessionFromContext(ctx context.Context) (*session.Session, bool) {
	s, ok := ctx.Value(sessionKey).(*session.Session)
	return s, ok && s != nil
}

// UserIDFromContext extracts the authenticated user ID from context.
func UserIDFromContext(ctx context.Context) (string, bool) {
	s, ok := SessionFromContext(ctx)
	if !ok || !session.IsAuthenticated(s) {
		return "", false
	}
	return s.UserID, true
}

// Session attaches the caller's session to the request context, creating an
// anonymous one (and its cookie) when the request carries none. A missing,
// forged or expired cookie all lead to a fresh anonymous session.
func Session(sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		s, err := sessions.LoadRequest(c.Request)
		if err != nil && !errors.Is(err, session.ErrInvalidCookie) {
			logger.Error("session load failed", map[string]any{
				"error": err.Error(),
				"path":  c.Request.URL.Path,
			})
		}

		if s == nil {
			s, err = sessions.Start(ctx, c.Writer)
			if err != nil {
				logger.Error("session start failed", map[string]any{
					"error": err.Error(),
				})
				c.AbortWithStatus(http.StatusInternalServerError)
				return
			}
		}

		c.Request = c.Request.WithContext(context.WithValue(ctx, sessionKey, s))
		c.Next()
	}
}
