package tracing

import (
	"log/slog"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mastermind-creat/techsafi/internal/config"
)

func TestNewTracerProvider_DisabledIsNoop(t *testing.T) {
	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	p, err := NewTracerProvider(&config.Config{}, log)
	require.NoError(t, err)
	assert.Nil(t, p.SDK)
}

func TestUntraced(t *testing.T) {
	e := echo.New()
	for path, want := range map[string]bool{
		"/health":           true,
		"/metrics":          true,
		"/static/css/x.css": true,
		"/":                 false,
		"/api/content/home": false,
		"/control-centre":   false,
	} {
		c := e.NewContext(httptest.NewRequest("GET", path, nil), httptest.NewRecorder())
		assert.Equal(t, want, untraced(c), path)
	}
}
