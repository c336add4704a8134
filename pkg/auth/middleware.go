// Package auth guards the admin surfaces. There is one shared admin identity:
// API clients present ADMIN_API_KEY, dashboard users log in with the admin
// password and carry a signed session cookie.
package auth

import (
	"crypto/subtle"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/mastermind-creat/techsafi/internal/config"
	"github.com/mastermind-creat/techsafi/pkg/apperror"
	"github.com/mastermind-creat/techsafi/pkg/logger"
)

// Authentication methods recorded on AuthUser.
const (
	MethodAPIKey  = "api_key"
	MethodSession = "session"
)

// AdminSubject is the identity every authenticated request resolves to.
const AdminSubject = "admin"

// AuthUser represents an authenticated admin
type AuthUser struct {
	ID     string `json:"id"`
	Method string `json:"method"`
}

type contextKey string

const UserContextKey contextKey = "auth_user"

// GetUser retrieves the authenticated user from the Echo context
func GetUser(c echo.Context) *AuthUser {
	if user, ok := c.Get(string(UserContextKey)).(*AuthUser); ok {
		return user
	}
	return nil
}

// Actor returns the user id for audit fields, or "anonymous".
func Actor(c echo.Context) string {
	if u := GetUser(c); u != nil {
		return u.ID
	}
	return "anonymous"
}

// Middleware handles authentication for routes
type Middleware struct {
	cfg      *config.Config
	log      *slog.Logger
	sessions *Sessions
}

// NewMiddleware creates a new auth middleware
func NewMiddleware(cfg *config.Config, sessions *Sessions, log *slog.Logger) *Middleware {
	return &Middleware{
		cfg:      cfg,
		log:      log.With(logger.Scope("auth")),
		sessions: sessions,
	}
}

// RequireAuth rejects requests without a valid API key or session.
func (m *Middleware) RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, err := m.authenticate(c)
			if err != nil {
				m.log.Warn("authentication failed",
					slog.String("path", c.Request().URL.Path),
					logger.Error(err),
				)
				return m.authError(c, err)
			}
			c.Set(string(UserContextKey), user)
			return next(c)
		}
	}
}

// Optional attaches the user when credentials are present and valid, and
// lets anonymous requests through.
func (m *Middleware) Optional() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if user, err := m.authenticate(c); err == nil {
				c.Set(string(UserContextKey), user)
			}
			return next(c)
		}
	}
}

// RequireSession is RequireAuth for HTML pages: it redirects to loginPath
// instead of answering with JSON.
func (m *Middleware) RequireSession(loginPath string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, err := m.authenticate(c)
			if err != nil {
				target := loginPath + "?next=" + url.QueryEscape(c.Request().URL.RequestURI())
				return c.Redirect(http.StatusSeeOther, target)
			}
			c.Set(string(UserContextKey), user)
			return next(c)
		}
	}
}

func (m *Middleware) authenticate(c echo.Context) (*AuthUser, error) {
	r := c.Request()

	if key := extractAPIKey(r); key != "" {
		if !m.checkAPIKey(key) {
			return nil, apperror.ErrInvalidAPIKey
		}
		return &AuthUser{ID: AdminSubject, Method: MethodAPIKey}, nil
	}

	if m.sessions != nil {
		sess, err := m.sessions.Read(r)
		if err == nil {
			return &AuthUser{ID: sess.Subject, Method: MethodSession}, nil
		}
		if !errors.Is(err, ErrNoSession) {
			return nil, err
		}
	}

	return nil, apperror.ErrUnauthorized
}

// extractAPIKey reads X-API-Key, then a Bearer token.
func extractAPIKey(r *http.Request) string {
	if key := r.Header.Get("X-API-Key"); key != "" {
		return key
	}
	if h := r.Header.Get(echo.HeaderAuthorization); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}

func (m *Middleware) checkAPIKey(key string) bool {
	want := m.cfg.Admin.APIKey
	if want == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(key), []byte(want)) == 1
}

func (m *Middleware) authError(c echo.Context, err error) error {
	status, body := apperror.ToHTTPError(err)
	return c.JSON(status, body)
}
