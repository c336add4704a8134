package site

import (
	"context"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// Module provides the public site
var Module = fx.Module("site",
	fx.Provide(NewLayoutProvider),
	fx.Provide(NewHandler),
	fx.Invoke(RegisterLayoutLifecycle),
	fx.Invoke(RegisterRoutes),
)

// RegisterLayoutLifecycle loads the layout on start and stops listening on shutdown.
func RegisterLayoutLifecycle(lc fx.Lifecycle, p *LayoutProvider) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return p.Start(ctx)
		},
		OnStop: func(context.Context) error {
			p.Stop()
			return nil
		},
	})
}

// RegisterRoutes mounts the page router behind every path echo has no route for.
func RegisterRoutes(e *echo.Echo, h *Handler) {
	Mount(e, NewRouter(h))
}
