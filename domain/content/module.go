package content

import (
	"go.uber.org/fx"
)

// Module provides the content domain
var Module = fx.Module("content",
	fx.Provide(NewService),
	fx.Provide(NewHandler),
	fx.Invoke(RegisterRoutes),
)
