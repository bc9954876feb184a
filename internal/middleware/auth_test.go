package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmeshcher/goods-market/internal/model"
)

func loginCapture(t *testing.T, got *string, called *bool) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		*got, _ = GetLoginFromContext(r.Context())
	})
}

func TestAuthMiddleware_WithValidCookie(t *testing.T) {
	m := NewAuthMiddleware("test-secret", time.Hour)

	w := httptest.NewRecorder()
	require.NoError(t, m.SetAuthCookie(w, "alice"))

	res := w.Result()
	resCookies := res.Cookies()
	if len(resCookies) == 0 {
		t.Fatalf("no cookies set by SetAuthCookie")
	}
	assert.Contains(t, res.Header.Get("Authorization"), "Bearer ")

	r := httptest.NewRequest(http.MethodGet, "/order/place", nil)
	r.AddCookie(resCookies[0])

	var login string
	var called bool
	m.Middleware(loginCapture(t, &login, &called)).ServeHTTP(httptest.NewRecorder(), r)

	if !called {
		t.Fatalf("next handler was not called")
	}
	assert.Equal(t, "alice", login)
}

func TestAuthMiddleware_WithBearerHeader(t *testing.T) {
	m := NewAuthMiddleware("test-secret", time.Hour)

	token, err := m.IssueToken("bob")
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodGet, "/order/place", nil)
	r.Header.Set("Authorization", "Bearer "+token)

	var login string
	var called bool
	m.Middleware(loginCapture(t, &login, &called)).ServeHTTP(httptest.NewRecorder(), r)

	assert.True(t, called)
	assert.Equal(t, "bob", login)
}

func TestAuthMiddleware_WithoutToken(t *testing.T) {
	m := NewAuthMiddleware("test-secret", time.Hour)

	var login string
	var called bool
	m.Middleware(loginCapture(t, &login, &called)).
		ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.True(t, called, "anonymous requests pass through")
	assert.Empty(t, login)
}

func TestAuthMiddleware_RejectsForeignSignature(t *testing.T) {
	issuer := NewAuthMiddleware("other-secret", time.Hour)
	m := NewAuthMiddleware("test-secret", time.Hour)

	token, err := issuer.IssueToken("mallory")
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer "+token)

	var login string
	var called bool
	m.Middleware(loginCapture(t, &login, &called)).ServeHTTP(httptest.NewRecorder(), r)

	assert.True(t, called)
	assert.Empty(t, login)
}

func TestAuthMiddleware_RejectsExpiredToken(t *testing.T) {
	m := NewAuthMiddleware("test-secret", time.Minute)
	issuedAt := time.Now().Add(-time.Hour)
	m.now = func() time.Time { return issuedAt }

	token, err := m.IssueToken("alice")
	require.NoError(t, err)

	m.now = time.Now

	_, err = m.parseToken(token)
	assert.Error(t, err)
}

func TestAuthMiddleware_RejectsGarbage(t *testing.T) {
	m := NewAuthMiddleware("", time.Hour)

	_, err := m.parseToken("not-a-token")
	assert.Error(t, err)
}

func TestClearAuthCookie(t *testing.T) {
	m := NewAuthMiddleware("test-secret", time.Hour)

	w := httptest.NewRecorder()
	m.ClearAuthCookie(w)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, authCookieName, cookies[0].Name)
	assert.Equal(t, "", cookies[0].Value)
	assert.True(t, cookies[0].MaxAge < 0)
}

func TestAuthMiddleware_SessionCarriesIssuedAt(t *testing.T) {
	m := NewAuthMiddleware("test-secret", time.Hour)
	issuedAt := time.Now().Add(-time.Minute).Truncate(time.Second)
	m.now = func() time.Time { return issuedAt }

	token, err := m.IssueToken("alice")
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodPost, "/order/place", nil)
	r.Header.Set("Authorization", "Bearer "+token)

	var session model.Session
	m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, _ = GetSessionFromContext(r.Context())
	})).ServeHTTP(httptest.NewRecorder(), r)

	assert.Equal(t, "alice", session.Login)
	assert.True(t, session.IssuedAt.Equal(issuedAt))
	assert.False(t, session.RevokedBy(issuedAt.Add(500*time.Millisecond)), "logout within the same second")
	assert.True(t, session.RevokedBy(issuedAt.Add(time.Second)))
}
