package auth

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mastermind-creat/techsafi/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		Admin: config.AdminConfig{
			APIKey:          "secret-key",
			SessionHashKey:  "0123456789abcdef0123456789abcdef",
			SessionBlockKey: "abcdef0123456789",
			SessionTTL:      time.Hour,
		},
	}
}

func newTestMiddleware(cfg *config.Config) (*Middleware, *Sessions) {
	sessions := NewSessions(cfg, slog.Default())
	return NewMiddleware(cfg, sessions, slog.Default()), sessions
}

func okHandler(c echo.Context) error {
	user := GetUser(c)
	if user == nil {
		return c.String(http.StatusOK, "anonymous")
	}
	return c.String(http.StatusOK, user.Method)
}

func TestRequireAuth(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		value      string
		wantStatus int
		wantBody   string
	}{
		{"x-api-key", "X-API-Key", "secret-key", http.StatusOK, MethodAPIKey},
		{"bearer token", "Authorization", "Bearer secret-key", http.StatusOK, MethodAPIKey},
		{"wrong key", "X-API-Key", "nope", http.StatusUnauthorized, "invalid_api_key"},
		{"no credentials", "", "", http.StatusUnauthorized, "unauthorized"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			m, _ := newTestMiddleware(testConfig())

			req := httptest.NewRequest(http.MethodGet, "/api/content", nil)
			if tt.header != "" {
				req.Header.Set(tt.header, tt.value)
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			err := m.RequireAuth()(okHandler)(c)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}

func TestRequireAuth_EmptyConfiguredKeyNeverMatches(t *testing.T) {
	cfg := testConfig()
	cfg.Admin.APIKey = ""
	m, _ := newTestMiddleware(cfg)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-API-Key", "")
	req.Header.Set("Authorization", "Bearer ")
	rec := httptest.NewRecorder()

	require.NoError(t, m.RequireAuth()(okHandler)(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSessionRoundTrip(t *testing.T) {
	e := echo.New()
	m, sessions := newTestMiddleware(testConfig())

	// Issue a cookie on one response...
	rec := httptest.NewRecorder()
	require.NoError(t, sessions.Issue(e.NewContext(httptest.NewRequest(http.MethodPost, "/control-centre/login", nil), rec), AdminSubject))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.True(t, cookies[0].HttpOnly)

	// ...and present it on the next request.
	req := httptest.NewRequest(http.MethodGet, "/control-centre", nil)
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()

	require.NoError(t, m.RequireSession("/control-centre/login")(okHandler)(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, MethodSession, rec.Body.String())
}

func TestSession_Expired(t *testing.T) {
	cfg := testConfig()
	_, sessions := newTestMiddleware(cfg)
	e := echo.New()

	issued := time.Now().Add(-2 * time.Hour)
	sessions.now = func() time.Time { return issued }
	rec := httptest.NewRecorder()
	require.NoError(t, sessions.Issue(e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec), AdminSubject))
	sessions.now = time.Now

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(rec.Result().Cookies()[0])
	_, err := sessions.Read(req)
	assert.Error(t, err)
}

func TestRequireSession_RedirectsToLogin(t *testing.T) {
	e := echo.New()
	m, _ := newTestMiddleware(testConfig())

	req := httptest.NewRequest(http.MethodGet, "/control-centre/pages?tab=home", nil)
	rec := httptest.NewRecorder()

	require.NoError(t, m.RequireSession("/control-centre/login")(okHandler)(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/control-centre/login?next=%2Fcontrol-centre%2Fpages%3Ftab%3Dhome", rec.Header().Get("Location"))
}

func TestOptional(t *testing.T) {
	e := echo.New()
	m, _ := newTestMiddleware(testConfig())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/events/stream", nil)
	require.NoError(t, m.Optional()(okHandler)(e.NewContext(req, rec)))
	assert.Equal(t, "anonymous", rec.Body.String())

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/events/stream", nil)
	req.Header.Set("X-API-Key", "secret-key")
	require.NoError(t, m.Optional()(okHandler)(e.NewContext(req, rec)))
	assert.Equal(t, MethodAPIKey, rec.Body.String())
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("hunter22")
	require.NoError(t, err)

	assert.NoError(t, CheckPassword(hash, "hunter22"))
	assert.Error(t, CheckPassword(hash, "hunter23"))
	assert.Error(t, CheckPassword("", "hunter22"))
}

func TestActor(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	assert.Equal(t, "anonymous", Actor(c))

	c.Set(string(UserContextKey), &AuthUser{ID: AdminSubject, Method: MethodAPIKey})
	assert.Equal(t, AdminSubject, Actor(c))
}
