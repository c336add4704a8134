package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/fx"
)

// HTTPLogger writes one access line per request to a dedicated file.
// With HTTP_LOG_PATH unset it discards everything.
type HTTPLogger struct {
	mu  sync.Mutex
	out io.Writer
	f   *os.File
}

// NewHTTPLogger opens HTTP_LOG_PATH for appending and closes it on shutdown.
func NewHTTPLogger(lc fx.Lifecycle, log *slog.Logger) *HTTPLogger {
	path := os.Getenv("HTTP_LOG_PATH")
	if path == "" {
		return &HTTPLogger{out: io.Discard}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		log.Warn("http log disabled", Scope("logger"), Error(err))
		return &HTTPLogger{out: io.Discard}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		log.Warn("http log disabled", Scope("logger"), Error(err))
		return &HTTPLogger{out: io.Discard}
	}

	h := &HTTPLogger{out: f, f: f}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return h.Close()
		},
	})
	return h
}

// NewHTTPLoggerWriter is used by tests and tools that want the lines in memory.
func NewHTTPLoggerWriter(w io.Writer) *HTTPLogger {
	return &HTTPLogger{out: w}
}

// LogRequest appends a combined-style access line.
func (h *HTTPLogger) LogRequest(ip, method, uri string, status int, latency time.Duration, userAgent, requestID string) {
	if h == nil {
		return
	}
	line := fmt.Sprintf("%s %s %q %d %s %q %s\n",
		time.Now().UTC().Format(time.RFC3339), ip, method+" "+uri, status, latency.Round(time.Microsecond), userAgent, requestID)

	h.mu.Lock()
	defer h.mu.Unlock()
	_, _ = io.WriteString(h.out, line)
}

// Close releases the underlying file, if any.
func (h *HTTPLogger) Close() error {
	if h == nil || h.f == nil {
		return nil
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.f.Close()
}
