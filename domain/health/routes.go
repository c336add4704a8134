package health

import (
	"github.com/labstack/echo/v4"

	"github.com/mastermind-creat/techsafi/pkg/auth"
)

// RegisterRoutes registers health check routes
func RegisterRoutes(e *echo.Echo, h *Handler, m *MetricsHandler, authMiddleware *auth.Middleware) {
	e.GET("/health", h.Health)
	e.GET("/healthz", h.Healthz)
	e.GET("/ready", h.Ready)
	e.GET("/debug", h.Debug)
	e.GET("/api/health", h.Health)

	e.GET("/metrics", m.Prometheus())

	g := e.Group("/api/metrics", authMiddleware.RequireAuth())
	g.GET("/scheduler", m.SchedulerMetrics)
	g.GET("/email", m.EmailMetrics)
}
