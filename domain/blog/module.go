package blog

import (
	"go.uber.org/fx"
)

// Module provides the blog domain
var Module = fx.Module("blog",
	fx.Provide(NewService),
	fx.Provide(NewHandler),
	fx.Invoke(RegisterRoutes),
)
