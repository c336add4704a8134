package events

import (
	"context"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"

	"github.com/mastermind-creat/techsafi/pkg/auth"
)

var Module = fx.Module("events",
	fx.Provide(NewService, NewHandler),
	fx.Invoke(RegisterRoutes, registerShutdown),
)

// RegisterRoutes mounts the stream. Whether a topic needs credentials is
// decided by the handler, so the stream itself only resolves an optional user.
func RegisterRoutes(e *echo.Echo, h *Handler, authMiddleware *auth.Middleware) {
	g := e.Group("/api/events")
	g.GET("/stream", h.HandleStream, authMiddleware.Optional())
	g.GET("/connections/count", h.HandleConnectionsCount, authMiddleware.RequireAuth())
}

func registerShutdown(lc fx.Lifecycle, h *Handler) {
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			h.Stop()
			return nil
		},
	})
}
