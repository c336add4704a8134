package health

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mastermind-creat/techsafi/domain/email"
	"github.com/mastermind-creat/techsafi/domain/scheduler"
)

// MetricsHandler exposes background worker state
type MetricsHandler struct {
	scheduler *scheduler.Scheduler
	worker    *email.Worker
}

// NewMetricsHandler creates a new metrics handler
func NewMetricsHandler(s *scheduler.Scheduler, w *email.Worker) *MetricsHandler {
	return &MetricsHandler{scheduler: s, worker: w}
}

// SchedulerMetrics lists the scheduled tasks with their last outcome
func (h *MetricsHandler) SchedulerMetrics(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"running":   h.scheduler.IsRunning(),
		"tasks":     h.scheduler.GetTaskInfo(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// EmailMetrics returns the notification worker counters
func (h *MetricsHandler) EmailMetrics(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"running": h.worker.IsRunning(),
		"metrics": h.worker.Metrics(),
	})
}

// Prometheus serves the default registry in the text exposition format
func (h *MetricsHandler) Prometheus() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.Handler())
}
