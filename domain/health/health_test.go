package health

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mastermind-creat/techsafi/domain/email"
	"github.com/mastermind-creat/techsafi/domain/scheduler"
	"github.com/mastermind-creat/techsafi/internal/config"
	"github.com/mastermind-creat/techsafi/internal/docstore"
	"github.com/mastermind-creat/techsafi/internal/storage"
	"github.com/mastermind-creat/techsafi/pkg/apperror"
	"github.com/mastermind-creat/techsafi/pkg/auth"
)

type downStore struct {
	docstore.Store
}

func (downStore) Ping(context.Context) error { return errors.New("connection refused") }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newServer(t *testing.T, store docstore.Store, env string) *echo.Echo {
	t.Helper()
	log := testLogger()
	cfg := &config.Config{
		Environment: env,
		Admin:       config.AdminConfig{APIKey: "k", SessionTTL: time.Hour},
	}
	storageSvc, err := storage.NewService(cfg, log)
	require.NoError(t, err)

	sched := scheduler.NewScheduler(&scheduler.Config{}, log)
	require.NoError(t, sched.AddIntervalTask("noop", time.Hour, func(context.Context) error { return nil }))
	worker := email.NewWorker(nil, nil, &email.Config{}, log)

	e := echo.New()
	e.HTTPErrorHandler = apperror.HTTPErrorHandler(log)
	RegisterRoutes(e,
		NewHandler(store, storageSvc, cfg),
		NewMetricsHandler(sched, worker),
		auth.NewMiddleware(cfg, auth.NewSessions(cfg, log), log),
	)
	return e
}

func openStore(t *testing.T) docstore.Store {
	t.Helper()
	store, err := docstore.OpenBunt(":memory:", 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func get(e *echo.Echo, path string, admin bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if admin {
		req.Header.Set("X-API-Key", "k")
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHealth_Healthy(t *testing.T) {
	e := newServer(t, openStore(t), "local")

	rec := get(e, "/health", false)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "healthy", resp.Checks["store"].Status)
	assert.Equal(t, "disabled", resp.Checks["storage"].Status)

	assert.Equal(t, http.StatusOK, get(e, "/ready", false).Code)
	assert.Equal(t, "OK", get(e, "/healthz", false).Body.String())
}

func TestHealth_StoreDown(t *testing.T) {
	e := newServer(t, downStore{}, "local")

	rec := get(e, "/health", false)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "unhealthy", resp.Status)
	assert.Equal(t, "connection refused", resp.Checks["store"].Message)

	rec = get(e, "/ready", false)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "not_ready")

	// Liveness does not depend on the store.
	assert.Equal(t, http.StatusOK, get(e, "/healthz", false).Code)
}

func TestDebug_HiddenInProduction(t *testing.T) {
	rec := get(newServer(t, openStore(t), "local"), "/debug", false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "goroutines")
	assert.Contains(t, rec.Body.String(), `"system":{"cpus"`)

	rec = get(newServer(t, openStore(t), "production"), "/debug", false)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMetrics(t *testing.T) {
	e := newServer(t, openStore(t), "local")

	rec := get(e, "/metrics", false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")

	assert.Equal(t, http.StatusUnauthorized, get(e, "/api/metrics/scheduler", false).Code)

	rec = get(e, "/api/metrics/scheduler", true)
	require.Equal(t, http.StatusOK, rec.Code)
	var sched struct {
		Running bool                 `json:"running"`
		Tasks   []scheduler.TaskInfo `json:"tasks"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sched))
	assert.False(t, sched.Running)
	require.Len(t, sched.Tasks, 1)
	assert.Equal(t, "noop", sched.Tasks[0].Name)

	rec = get(e, "/api/metrics/email", true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"sent":0`)
}

func TestSystemStats(t *testing.T) {
	prevLoad, prevMem := loadAvg, virtualMem
	t.Cleanup(func() { loadAvg, virtualMem = prevLoad, prevMem })

	loadAvg = func(context.Context) (*load.AvgStat, error) {
		return &load.AvgStat{Load1: 0.5, Load5: 0.25, Load15: 0.1}, nil
	}
	virtualMem = func(context.Context) (*mem.VirtualMemoryStat, error) {
		return nil, errors.New("unsupported")
	}

	st := systemStats(context.Background())
	assert.Positive(t, st.CPUs)
	assert.Equal(t, 0.5, st.Load1)
	assert.Equal(t, 0.1, st.Load15)
	assert.Zero(t, st.MemoryUsedPct)
}
