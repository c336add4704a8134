package email

import (
	"go.uber.org/fx"
)

var Module = fx.Module("email",
	fx.Provide(NewConfig, NewTemplateService, NewSender, NewWorker),
	fx.Invoke(RegisterWorkerLifecycle),
)

// RegisterWorkerLifecycle runs the delivery worker for the life of the app.
func RegisterWorkerLifecycle(lc fx.Lifecycle, w *Worker) {
	lc.Append(fx.Hook{OnStart: w.Start, OnStop: w.Stop})
}
