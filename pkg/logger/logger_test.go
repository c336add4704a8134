package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"":        slog.LevelInfo,
		"info":    slog.LevelInfo,
		"DEBUG":   slog.LevelDebug,
		" warn ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"verbose": slog.LevelInfo,
	}
	for in, want := range cases {
		assert.Equal(t, want, parseLevel(in), "parseLevel(%q)", in)
	}
}

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger(&buf, "warn", true)

	log.Info("dropped")
	log.Warn("contact form rejected", Scope("contact"), Error(errors.New("honeypot")))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "contact form rejected", line["msg"])
	assert.Equal(t, "contact", line["scope"])
	assert.Equal(t, "honeypot", line["error"])
}

func TestNewLogger_Text(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger(&buf, "debug", false)
	assert.True(t, log.Enabled(context.Background(), slog.LevelDebug))

	log.Debug("snapshot written", Scope("scheduler"))
	assert.Contains(t, buf.String(), "scope=scheduler")
}

func TestNewLogger_Env(t *testing.T) {
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("GO_ENV", "production")

	log := NewLogger()
	assert.False(t, log.Enabled(context.Background(), slog.LevelWarn))
	assert.Same(t, log.Handler(), slog.Default().Handler())
}

func TestHTTPLogger_LogRequest(t *testing.T) {
	var buf bytes.Buffer
	h := NewHTTPLoggerWriter(&buf)

	h.LogRequest("10.0.0.1", "GET", "/pricing?category=Web", 200, 1500*time.Microsecond, "curl/8.0", "req-1")

	line := buf.String()
	for _, want := range []string{"10.0.0.1", `"GET /pricing?category=Web"`, " 200 ", "curl/8.0", "req-1"} {
		assert.Contains(t, line, want)
	}
}

func TestHTTPLogger_File(t *testing.T) {
	path := t.TempDir() + "/logs/access.log"
	t.Setenv("HTTP_LOG_PATH", path)

	lc := fxtest.NewLifecycle(t)
	h := NewHTTPLogger(lc, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
	lc.RequireStart()
	h.LogRequest("127.0.0.1", "POST", "/api/contact", 201, time.Millisecond, "", "")
	lc.RequireStop()

	assert.FileExists(t, path)
}

func TestHTTPLogger_NilSafe(t *testing.T) {
	var h *HTTPLogger
	assert.NotPanics(t, func() { h.LogRequest("ip", "GET", "/", 200, 0, "", "") })
	assert.NoError(t, h.Close())
}
