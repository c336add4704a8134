package contact

import (
	"github.com/labstack/echo/v4"

	"github.com/mastermind-creat/techsafi/pkg/auth"
)

// RegisterRoutes registers the contact routes
func RegisterRoutes(e *echo.Echo, h *Handler, limiter *RateLimiter, authMiddleware *auth.Middleware) {
	g := e.Group("/api/contact")

	g.POST("", h.Submit, limiter.Middleware())

	admin := authMiddleware.RequireAuth()
	g.GET("/stats", h.Stats, admin)
	g.GET("/submissions", h.List, admin)
	g.GET("/submissions/:id", h.Get, admin)
	g.PATCH("/submissions/:id", h.Update, admin)
	g.DELETE("/submissions/:id", h.Delete, admin)
}
