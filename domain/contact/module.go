package contact

import (
	"go.uber.org/fx"

	"github.com/mastermind-creat/techsafi/domain/email"
)

// Module provides the contact domain
var Module = fx.Module("contact",
	fx.Provide(
		NewService,
		NewHandler,
		NewRateLimiter,
		func(w *email.Worker) Notifier { return w },
	),
	fx.Invoke(RegisterRoutes),
)
