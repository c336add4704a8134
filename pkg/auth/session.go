package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/labstack/echo/v4"

	"github.com/mastermind-creat/techsafi/internal/config"
	"github.com/mastermind-creat/techsafi/pkg/apperror"
	"github.com/mastermind-creat/techsafi/pkg/logger"
)

// SessionCookieName is the dashboard session cookie.
const SessionCookieName = "techsafi_session"

// ErrNoSession means the request carries no session cookie at all.
var ErrNoSession = errors.New("no session cookie")

// Session is the payload of the signed, encrypted cookie.
type Session struct {
	Subject   string    `json:"sub"`
	IssuedAt  time.Time `json:"iat"`
	ExpiresAt time.Time `json:"exp"`
}

// Sessions issues and verifies dashboard session cookies.
type Sessions struct {
	codec  *securecookie.SecureCookie
	ttl    time.Duration
	secure bool
	now    func() time.Time
}

// NewSessions builds the cookie codec from SESSION_HASH_KEY / SESSION_BLOCK_KEY.
// Missing keys are generated, so sessions then last only until restart.
func NewSessions(cfg *config.Config, log *slog.Logger) *Sessions {
	hashKey := []byte(cfg.Admin.SessionHashKey)
	blockKey := []byte(cfg.Admin.SessionBlockKey)

	if len(hashKey) == 0 {
		hashKey = securecookie.GenerateRandomKey(64)
		log.Warn("SESSION_HASH_KEY not set, using an ephemeral key", logger.Scope("auth"))
	}
	switch len(blockKey) {
	case 16, 24, 32:
	default:
		if len(blockKey) != 0 {
			log.Warn("SESSION_BLOCK_KEY must be 16, 24 or 32 bytes; using an ephemeral key", logger.Scope("auth"))
		}
		blockKey = securecookie.GenerateRandomKey(32)
	}

	codec := securecookie.New(hashKey, blockKey)
	codec.MaxAge(int(cfg.Admin.SessionTTL.Seconds()))
	codec.SetSerializer(securecookie.JSONEncoder{})

	return &Sessions{
		codec:  codec,
		ttl:    cfg.Admin.SessionTTL,
		secure: cfg.Admin.SecureCookie,
		now:    time.Now,
	}
}

// Issue sets a fresh session cookie for subject.
func (s *Sessions) Issue(c echo.Context, subject string) error {
	now := s.now().UTC()
	sess := Session{Subject: subject, IssuedAt: now, ExpiresAt: now.Add(s.ttl)}

	encoded, err := s.codec.Encode(SessionCookieName, sess)
	if err != nil {
		return apperror.NewInternal("failed to encode session", err)
	}

	c.SetCookie(&http.Cookie{
		Name:     SessionCookieName,
		Value:    encoded,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Read decodes the session cookie from r.
func (s *Sessions) Read(r *http.Request) (*Session, error) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return nil, ErrNoSession
	}

	var sess Session
	if err := s.codec.Decode(SessionCookieName, cookie.Value, &sess); err != nil {
		return nil, apperror.ErrSessionExpired.WithInternal(err)
	}
	if s.now().After(sess.ExpiresAt) {
		return nil, apperror.ErrSessionExpired
	}
	return &sess, nil
}

// Clear expires the session cookie.
func (s *Sessions) Clear(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
