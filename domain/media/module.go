package media

import (
	"go.uber.org/fx"

	"github.com/mastermind-creat/techsafi/internal/storage"
)

// Module provides the media library
var Module = fx.Module("media",
	fx.Provide(
		NewService,
		NewHandler,
		func(s *storage.Service) ObjectStore { return s },
	),
	fx.Invoke(RegisterRoutes),
)
