package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"session-gate/internal/metrics"
	"session-gate/internal/session"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestManager(t *testing.T) (*session.Manager, *session.MemoryStore) {
	t.Helper()
	store := session.NewMemoryStore()
	t.Cleanup(func() { _ = store.Close() })
	codec, err := session.NewCodec("middleware-secret-0123", time.Hour)
	require.NoError(t, err)
	return session.NewManager(store, codec, time.Hour, session.CookieOptions{}), store
}

func loginCookie(t *testing.T, m *session.Manager, userID string) *http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	_, err := m.Login(context.Background(), rec, nil, &session.User{ID: userID})
	require.NoError(t, err)
	for _, c := range rec.Result().Cookies() {
		if c.Name == session.CookieName {
			return c
		}
	}
	t.Fatal("no session cookie")
	return nil
}

func newProtectedRouter(m *session.Manager, mt *metrics.Metrics, invoked *bool) *gin.Engine {
	router := gin.New()
	router.Use(Session(m))

	protected := router.Group("/loggedin")
	protected.Use(GinRequireAuth(NewAuthMiddleware(mt)))
	protected.GET("", func(c *gin.Context) {
		*invoked = true
		id, _ := UserIDFromContext(c.Request.Context())
		c.String(http.StatusOK, id)
	})
	return router
}

func TestSession_StartsAnonymousSession(t *testing.T) {
	m, store := newTestManager(t)

	var attached *session.Session
	router := gin.New()
	router.Use(Session(m))
	router.GET("/", func(c *gin.Context) {
		attached, _ = SessionFromContext(c.Request.Context())
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, attached)
	assert.False(t, session.IsAuthenticated(attached))
	assert.Equal(t, 1, store.Len())
	assert.Contains(t, w.Header().Get("Set-Cookie"), session.CookieName+"=")
}

func TestSession_ReusesExistingSession(t *testing.T) {
	m, store := newTestManager(t)
	cookie := loginCookie(t, m, "u1")

	router := gin.New()
	router.Use(Session(m))
	router.GET("/", func(c *gin.Context) {
		id, ok := UserIDFromContext(c.Request.Context())
		assert.True(t, ok)
		assert.Equal(t, "u1", id)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Set-Cookie"))
	assert.Equal(t, 1, store.Len())
}

func TestRequireAuth_NoCookieRedirects(t *testing.T) {
	m, _ := newTestManager(t)
	mt := metrics.New()
	invoked := false
	router := newProtectedRouter(m, mt, &invoked)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/loggedin", nil))

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
	assert.False(t, invoked)
}

func TestRequireAuth_ForgedOrUnknownCookieRedirects(t *testing.T) {
	m, _ := newTestManager(t)
	invoked := false
	router := newProtectedRouter(m, nil, &invoked)

	for _, value := range []string{"forged", "MTIzfGFiY3xkZWY="} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/loggedin", nil)
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: value})
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/", w.Header().Get("Location"))
	}
	assert.False(t, invoked)
}

func TestRequireAuth_AnonymousSessionRedirects(t *testing.T) {
	m, _ := newTestManager(t)
	invoked := false
	router := newProtectedRouter(m, nil, &invoked)

	rec := httptest.NewRecorder()
	_, err := m.Start(context.Background(), rec)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/loggedin", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.False(t, invoked)
}

func TestRequireAuth_AuthenticatedPasses(t *testing.T) {
	m, _ := newTestManager(t)
	invoked := false
	router := newProtectedRouter(m, nil, &invoked)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/loggedin", nil)
	req.AddCookie(loginCookie(t, m, "g-123"))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "g-123", w.Body.String())
	assert.True(t, invoked)
}

func TestCorrelation(t *testing.T) {
	router := gin.New()
	router.Use(Correlation(), RequestLog())
	router.GET("/", func(c *gin.Context) {
		assert.NotEmpty(t, c.GetString(CorrelationIDKey))
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, w.Header().Get(HeaderCorrelationID))

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderCorrelationID, "abc-123")
	router.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(HeaderCorrelationID))
}
