package scheduler

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/mastermind-creat/techsafi/domain/contact"
	"github.com/mastermind-creat/techsafi/domain/content"
	"github.com/mastermind-creat/techsafi/internal/docstore"
	"github.com/mastermind-creat/techsafi/internal/storage"
)

// Task names.
const (
	TaskSnapshot     = "snapshot"
	TaskPruneHistory = "prune-history"
	TaskPruneVisitor = "prune-visitors"
)

// Module provides scheduled task functionality
var Module = fx.Module("scheduler",
	fx.Provide(
		NewConfig,
		NewScheduler,
	),
	fx.Invoke(
		RegisterTasks,
		RegisterSchedulerLifecycle,
	),
)

// TaskParams contains dependencies for creating scheduled tasks
type TaskParams struct {
	fx.In
	Scheduler *Scheduler
	Content   *content.Service
	Store     docstore.Store
	Storage   *storage.Service
	Limiter   *contact.RateLimiter
	Log       *slog.Logger
	Cfg       *Config
}

// RegisterTasks registers all scheduled tasks
func RegisterTasks(p TaskParams) error {
	if !p.Cfg.Enabled {
		p.Log.Info("scheduler disabled, skipping task registration")
		return nil
	}

	snapshot := NewSnapshotTask(p.Content, p.Storage, p.Cfg, p.Log)
	if err := p.Scheduler.AddCronTask(TaskSnapshot, p.Cfg.SnapshotSchedule, snapshot.Run); err != nil {
		return err
	}

	prune := NewPruneHistoryTask(p.Store, p.Cfg.HistoryLimit, p.Log)
	if err := p.Scheduler.AddIntervalTask(TaskPruneHistory, p.Cfg.PruneInterval, prune.Run); err != nil {
		return err
	}

	if err := p.Scheduler.AddIntervalTask(TaskPruneVisitor, p.Cfg.VisitorIdle, NewVisitorPruneTask(p.Limiter, p.Cfg.VisitorIdle, p.Log)); err != nil {
		return err
	}

	p.Log.Info("registered scheduled tasks", slog.Any("tasks", p.Scheduler.ListTasks()))
	return nil
}

// RegisterSchedulerLifecycle registers the scheduler with fx lifecycle
func RegisterSchedulerLifecycle(lc fx.Lifecycle, scheduler *Scheduler, cfg *Config) {
	if !cfg.Enabled {
		return
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return scheduler.Start(ctx)
		},
		OnStop: func(ctx context.Context) error {
			return scheduler.Stop(ctx)
		},
	})
}
