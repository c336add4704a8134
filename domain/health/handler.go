package health

import (
	"context"
	"net/http"
	"runtime"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"

	"github.com/mastermind-creat/techsafi/internal/config"
	"github.com/mastermind-creat/techsafi/internal/docstore"
	"github.com/mastermind-creat/techsafi/internal/storage"
	"github.com/mastermind-creat/techsafi/internal/version"
)

// probeKey is looked up in the bucket to prove storage is reachable. It never exists.
const probeKey = ".healthcheck"

// Handler handles health check requests
type Handler struct {
	store   docstore.Store
	storage *storage.Service
	cfg     *config.Config
	startAt time.Time
}

// NewHandler creates a new health handler
func NewHandler(store docstore.Store, storageSvc *storage.Service, cfg *config.Config) *Handler {
	return &Handler{
		store:   store,
		storage: storageSvc,
		cfg:     cfg,
		startAt: time.Now(),
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string           `json:"status"`
	Timestamp string           `json:"timestamp"`
	Uptime    string           `json:"uptime"`
	Version   string           `json:"version"`
	Checks    map[string]Check `json:"checks"`
}

// Check represents an individual health check result
type Check struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// check runs the store and storage probes concurrently. Storage that is not
// configured reports "disabled" and does not make the service unhealthy.
func (h *Handler) check(ctx context.Context) (bool, map[string]Check) {
	var mu sync.Mutex
	checks := map[string]Check{}
	record := func(name string, err error) {
		c := Check{Status: "healthy"}
		if err != nil {
			c = Check{Status: "unhealthy", Message: err.Error()}
		}
		mu.Lock()
		checks[name] = c
		mu.Unlock()
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		err := h.store.Ping(ctx)
		record("store", err)
		return err
	})
	if h.storage != nil && h.storage.Enabled() {
		eg.Go(func() error {
			_, err := h.storage.Exists(ctx, probeKey)
			record("storage", err)
			return nil
		})
	} else {
		checks["storage"] = Check{Status: "disabled"}
	}
	err := eg.Wait()
	return err == nil, checks
}

// Health returns the overall service health
func (h *Handler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	ok, checks := h.check(ctx)
	resp := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Uptime:    time.Since(h.startAt).String(),
		Version:   version.Version,
		Checks:    checks,
	}
	status := http.StatusOK
	if !ok {
		resp.Status = "unhealthy"
		status = http.StatusServiceUnavailable
	}
	return c.JSON(status, resp)
}

// Healthz returns a simple health check (for k8s liveness probe)
func (h *Handler) Healthz(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

// Ready reports whether the content store answers (for k8s readiness probe)
func (h *Handler) Ready(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]any{
			"status":  "not_ready",
			"message": "Content store unavailable",
		})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"status": "ready",
	})
}

// Debug returns runtime information outside production
func (h *Handler) Debug(c echo.Context) error {
	if h.cfg.IsProduction() {
		return echo.NewHTTPError(http.StatusNotFound, "Not found")
	}

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	return c.JSON(http.StatusOK, map[string]any{
		"environment":   h.cfg.Environment,
		"debug":         h.cfg.Debug,
		"version":       version.Info(),
		"go_version":    runtime.Version(),
		"goroutines":    runtime.NumGoroutine(),
		"store_backend": h.cfg.Store.Backend,
		"system":        systemStats(c.Request().Context()),
		"memory": map[string]any{
			"alloc_mb":       mem.Alloc / 1024 / 1024,
			"total_alloc_mb": mem.TotalAlloc / 1024 / 1024,
			"sys_mb":         mem.Sys / 1024 / 1024,
			"num_gc":         mem.NumGC,
		},
	})
}
