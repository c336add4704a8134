package portfolio

import (
	"go.uber.org/fx"
)

// Module provides the portfolio domain
var Module = fx.Module("portfolio",
	fx.Provide(NewService),
	fx.Provide(NewHandler),
	fx.Invoke(RegisterRoutes),
)
