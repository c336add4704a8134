package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/robfig/cron/v3"

	"github.com/mastermind-creat/techsafi/pkg/logger"
)

var (
	taskRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "techsafi_scheduler_task_runs_total",
		Help: "Scheduled task runs by task and result.",
	}, []string{"task", "result"})

	taskDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "techsafi_scheduler_task_duration_seconds",
		Help:    "Scheduled task duration.",
		Buckets: prometheus.DefBuckets,
	}, []string{"task"})
)

// TaskFunc is the function signature for scheduled tasks
type TaskFunc func(ctx context.Context) error

type task struct {
	entry    cron.EntryID
	schedule string
	fn       TaskFunc

	lastRun   time.Time
	lastError string
	runs      int
	failures  int
}

// Scheduler runs maintenance tasks on cron expressions or fixed intervals.
type Scheduler struct {
	cron    *cron.Cron
	log     *slog.Logger
	timeout time.Duration

	mu      sync.RWMutex
	tasks   map[string]*task
	running bool
}

// NewScheduler creates a scheduler whose cron expressions include seconds.
// Each run is cancelled after timeout.
func NewScheduler(cfg *Config, log *slog.Logger) *Scheduler {
	timeout := cfg.TaskTimeout
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return &Scheduler{
		cron:    cron.New(cron.WithSeconds()),
		log:     log.With(logger.Scope("scheduler")),
		timeout: timeout,
		tasks:   make(map[string]*task),
	}
}

// Start begins the scheduler
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}
	s.cron.Start()
	s.running = true
	s.log.Info("scheduler started", slog.Int("tasks", len(s.tasks)))
	return nil
}

// Stop waits for running tasks to finish or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	s.mu.Unlock()

	// Running tasks take the lock to record their result, so wait unlocked.
	select {
	case <-s.cron.Stop().Done():
		s.log.Info("scheduler stopped gracefully")
	case <-ctx.Done():
		s.log.Warn("scheduler stop timeout")
	}
	return nil
}

// AddCronTask adds a task with a cron expression.
// Cron format: "second minute hour day-of-month month day-of-week"
func (s *Scheduler) AddCronTask(name, schedule string, fn TaskFunc) error {
	if err := s.add(name, schedule, fn); err != nil {
		return err
	}
	s.log.Info("added cron task", slog.String("name", name), slog.String("schedule", schedule))
	return nil
}

// AddIntervalTask adds a task that runs at a fixed interval
func (s *Scheduler) AddIntervalTask(name string, interval time.Duration, fn TaskFunc) error {
	if interval <= 0 {
		return fmt.Errorf("task %s: interval must be positive", name)
	}
	if err := s.add(name, "@every "+interval.String(), fn); err != nil {
		return err
	}
	s.log.Info("added interval task", slog.String("name", name), slog.Duration("interval", interval))
	return nil
}

func (s *Scheduler) add(name, schedule string, fn TaskFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.tasks[name]; ok {
		s.cron.Remove(t.entry)
		delete(s.tasks, name)
	}

	id, err := s.cron.AddFunc(schedule, func() {
		_ = s.run(context.Background(), name)
	})
	if err != nil {
		return fmt.Errorf("task %s: %w", name, err)
	}
	s.tasks[name] = &task{entry: id, schedule: schedule, fn: fn}
	return nil
}

// RemoveTask removes a scheduled task
func (s *Scheduler) RemoveTask(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.tasks[name]; ok {
		s.cron.Remove(t.entry)
		delete(s.tasks, name)
		s.log.Info("removed task", slog.String("name", name))
	}
}

// RunNow runs a registered task immediately, outside its schedule.
func (s *Scheduler) RunNow(ctx context.Context, name string) error {
	s.mu.RLock()
	_, ok := s.tasks[name]
	s.mu.RUnlock()
	if !ok {
		return fmt.Errorf("unknown task %q", name)
	}
	return s.run(ctx, name)
}

func (s *Scheduler) run(ctx context.Context, name string) error {
	s.mu.RLock()
	t, ok := s.tasks[name]
	s.mu.RUnlock()
	if !ok {
		return nil
	}

	start := time.Now()
	s.log.Debug("running scheduled task", slog.String("name", name))

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	err := t.fn(ctx)
	elapsed := time.Since(start)

	s.mu.Lock()
	t.lastRun = start
	t.runs++
	if err != nil {
		t.failures++
		t.lastError = err.Error()
	} else {
		t.lastError = ""
	}
	s.mu.Unlock()

	taskDuration.WithLabelValues(name).Observe(elapsed.Seconds())
	if err != nil {
		taskRuns.WithLabelValues(name, "error").Inc()
		s.log.Error("scheduled task failed",
			slog.String("name", name),
			slog.Duration("duration", elapsed),
			logger.Error(err))
		return err
	}
	taskRuns.WithLabelValues(name, "ok").Inc()
	s.log.Debug("scheduled task completed",
		slog.String("name", name),
		slog.Duration("duration", elapsed))
	return nil
}

// ListTasks returns the names of all scheduled tasks, sorted.
func (s *Scheduler) ListTasks() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.tasks))
	for name := range s.tasks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TaskInfo represents information about a scheduled task
type TaskInfo struct {
	Name      string    `json:"name"`
	Schedule  string    `json:"schedule"`
	NextRun   time.Time `json:"next_run"`
	LastRun   time.Time `json:"last_run,omitempty"`
	LastError string    `json:"last_error,omitempty"`
	Runs      int       `json:"runs"`
	Failures  int       `json:"failures"`
}

// GetTaskInfo returns information about all scheduled tasks, sorted by name.
func (s *Scheduler) GetTaskInfo() []TaskInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	info := make([]TaskInfo, 0, len(s.tasks))
	for name, t := range s.tasks {
		info = append(info, TaskInfo{
			Name:      name,
			Schedule:  t.schedule,
			NextRun:   s.cron.Entry(t.entry).Next,
			LastRun:   t.lastRun,
			LastError: t.lastError,
			Runs:      t.runs,
			Failures:  t.failures,
		})
	}
	sort.Slice(info, func(i, j int) bool { return info[i].Name < info[j].Name })
	return info
}

// IsRunning returns whether the scheduler is running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}
