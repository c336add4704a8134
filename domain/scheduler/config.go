package scheduler

import (
	"time"

	"github.com/mastermind-creat/techsafi/internal/config"
)

// Config holds scheduler configuration
type Config struct {
	// Enabled controls whether the scheduler runs
	Enabled bool

	// SnapshotSchedule is a cron expression with seconds, e.g. "0 0 3 * * *".
	SnapshotSchedule string
	SnapshotDir      string
	SnapshotKeep     int

	// PruneInterval is how often revision history is trimmed to HistoryLimit.
	PruneInterval time.Duration
	HistoryLimit  int

	// VisitorIdle is how long a contact form client stays in the rate limiter.
	VisitorIdle time.Duration

	TaskTimeout time.Duration
}

// NewConfig derives the scheduler settings from the application config
func NewConfig(cfg *config.Config) *Config {
	return &Config{
		Enabled:          cfg.Snapshot.Enabled,
		SnapshotSchedule: cfg.Snapshot.Schedule,
		SnapshotDir:      cfg.Snapshot.Dir,
		SnapshotKeep:     cfg.Snapshot.Keep,
		PruneInterval:    cfg.Snapshot.PruneInterval,
		HistoryLimit:     cfg.Store.HistoryLimit,
		VisitorIdle:      10 * time.Minute,
		TaskTimeout:      cfg.Snapshot.TaskTimeout,
	}
}
