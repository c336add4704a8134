package pricing

import (
	"go.uber.org/fx"
)

// Module provides the pricing domain
var Module = fx.Module("pricing",
	fx.Provide(NewService),
	fx.Provide(NewHandler),
	fx.Invoke(RegisterRoutes),
)
