package email

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/cenkalti/backoff/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/mastermind-creat/techsafi/pkg/logger"
)

var emailsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "techsafi_emails_total",
	Help: "Outgoing emails by result.",
}, []string{"template", "result"})

// ErrQueueFull is returned by Enqueue when the worker cannot take more messages.
var ErrQueueFull = errors.New("email queue is full")

// ErrNotRunning is returned by Enqueue before Start or after Stop.
var ErrNotRunning = errors.New("email worker is not running")

// Message is one queued email. Template is rendered with Data in the default layout.
type Message struct {
	Template string
	To       string
	ToName   string
	ReplyTo  string
	Subject  string
	Data     TemplateContext
}

// Worker sends queued messages in the background, retrying failures with
// exponential backoff. Enqueue never blocks the caller.
type Worker struct {
	sender    Sender
	templates *TemplateService
	cfg       *Config
	log       *slog.Logger

	mu      sync.Mutex
	queue   chan Message
	cancel  context.CancelFunc
	done    chan struct{}
	running bool

	metricsMu sync.RWMutex
	metrics   WorkerMetrics
}

// WorkerMetrics are the worker's counters since start.
type WorkerMetrics struct {
	Sent    int64 `json:"sent"`
	Failed  int64 `json:"failed"`
	Dropped int64 `json:"dropped"`
}

// NewWorker creates a new email worker
func NewWorker(sender Sender, templates *TemplateService, cfg *Config, log *slog.Logger) *Worker {
	return &Worker{
		sender:    sender,
		templates: templates,
		cfg:       cfg,
		log:       log.With(logger.Scope("email.worker")),
	}
}

// Start begins consuming the queue.
func (w *Worker) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil
	}

	size := w.cfg.QueueSize
	if size <= 0 {
		size = 100
	}
	runCtx, cancel := context.WithCancel(context.Background())
	w.queue = make(chan Message, size)
	w.cancel = cancel
	w.done = make(chan struct{})
	w.running = true

	w.log.Info("email worker starting",
		slog.Int("queue_size", size),
		slog.Int("max_retries", w.cfg.MaxRetries))

	go w.run(runCtx)
	return nil
}

// Stop stops accepting messages and waits for the queue to drain or ctx to end.
func (w *Worker) Stop(ctx context.Context) error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = false
	close(w.queue)
	done := w.done
	cancel := w.cancel
	w.mu.Unlock()

	select {
	case <-done:
		w.log.Info("email worker stopped gracefully")
	case <-ctx.Done():
		cancel()
		w.log.Warn("email worker stop timeout, dropping pending messages")
		<-done
	}
	cancel()
	return nil
}

// Enqueue schedules msg for delivery.
func (w *Worker) Enqueue(msg Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.running {
		return ErrNotRunning
	}
	select {
	case w.queue <- msg:
		return nil
	default:
		w.metricsMu.Lock()
		w.metrics.Dropped++
		w.metricsMu.Unlock()
		return ErrQueueFull
	}
}

func (w *Worker) run(ctx context.Context) {
	defer close(w.done)
	for msg := range w.queue {
		if ctx.Err() != nil {
			continue
		}
		w.deliver(ctx, msg)
	}
}

func (w *Worker) deliver(ctx context.Context, msg Message) {
	rendered, err := w.templates.Render(msg.Template, msg.Data, "default")
	if err != nil {
		w.log.Error("failed to render email", slog.String("template", msg.Template), logger.Error(err))
		w.record(msg.Template, false)
		return
	}

	opts := SendOptions{
		To:      msg.To,
		ToName:  msg.ToName,
		ReplyTo: msg.ReplyTo,
		Subject: msg.Subject,
		HTML:    rendered.HTML,
		Text:    rendered.Text,
		Tag:     msg.Template,
	}

	b := backoff.NewExponentialBackOff()
	if w.cfg.RetryDelay > 0 {
		b.InitialInterval = w.cfg.RetryDelay
	}
	tries := w.cfg.MaxRetries
	if tries < 1 {
		tries = 1
	}

	attempt := 0
	res, err := backoff.Retry(ctx, func() (*SendResult, error) {
		attempt++
		res, err := w.sender.Send(ctx, opts)
		if err != nil {
			w.log.Warn("email send attempt failed",
				slog.String("to", msg.To),
				slog.Int("attempt", attempt),
				logger.Error(err))
		}
		return res, err
	}, backoff.WithBackOff(b), backoff.WithMaxTries(uint(tries)))

	if err != nil {
		w.log.Error("email delivery failed",
			slog.String("to", msg.To),
			slog.String("template", msg.Template),
			slog.Int("attempts", attempt),
			logger.Error(err))
		w.record(msg.Template, false)
		return
	}
	w.log.Debug("email delivered", slog.String("to", msg.To), slog.String("message_id", res.MessageID))
	w.record(msg.Template, true)
}

func (w *Worker) record(template string, ok bool) {
	w.metricsMu.Lock()
	defer w.metricsMu.Unlock()
	if ok {
		w.metrics.Sent++
		emailsTotal.WithLabelValues(template, "sent").Inc()
		return
	}
	w.metrics.Failed++
	emailsTotal.WithLabelValues(template, "failed").Inc()
}

// Metrics returns a copy of the counters.
func (w *Worker) Metrics() WorkerMetrics {
	w.metricsMu.RLock()
	defer w.metricsMu.RUnlock()
	return w.metrics
}

// IsRunning reports whether the worker accepts messages.
func (w *Worker) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}
