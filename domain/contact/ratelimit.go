package contact

import (
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"

	"github.com/mastermind-creat/techsafi/internal/config"
	"github.com/mastermind-creat/techsafi/pkg/apperror"
)

// RateLimiter keeps one token bucket per client IP for the public form.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*visitor
	limit    rate.Limit
	burst    int
	now      func() time.Time
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter creates a limiter from CONTACT_RATE_PER_MINUTE and CONTACT_RATE_BURST.
func NewRateLimiter(cfg *config.Config) *RateLimiter {
	perMin := cfg.RateLimit.ContactPerMinute
	if perMin <= 0 {
		perMin = 5
	}
	burst := cfg.RateLimit.ContactBurst
	if burst <= 0 {
		burst = 3
	}
	return &RateLimiter{
		limiters: make(map[string]*visitor),
		limit:    rate.Every(time.Minute / time.Duration(perMin)),
		burst:    burst,
		now:      time.Now,
	}
}

// Allow reports whether ip may submit now and consumes a token when it may.
func (l *RateLimiter) Allow(ip string) bool {
	l.mu.Lock()
	v, ok := l.limiters[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[ip] = v
	}
	now := l.now()
	v.lastSeen = now
	l.mu.Unlock()

	return v.limiter.AllowN(now, 1)
}

// Prune forgets clients not seen for longer than idle. It returns the number removed.
func (l *RateLimiter) Prune(idle time.Duration) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	cutoff := l.now().Add(-idle)
	n := 0
	for ip, v := range l.limiters {
		if v.lastSeen.Before(cutoff) {
			delete(l.limiters, ip)
			n++
		}
	}
	return n
}

// Middleware rejects requests over the limit with 429 rate_limited.
func (l *RateLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !l.Allow(c.RealIP()) {
				c.Response().Header().Set("Retry-After", "60")
				return apperror.ErrRateLimited
			}
			return next(c)
		}
	}
}
