package dashboard

import "go.uber.org/fx"

// Module provides the Control Centre
var Module = fx.Module("dashboard",
	fx.Provide(NewHandler),
	fx.Invoke(RegisterRoutes),
)
