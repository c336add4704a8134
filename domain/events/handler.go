package events

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/mastermind-creat/techsafi/pkg/apperror"
	"github.com/mastermind-creat/techsafi/pkg/auth"
	"github.com/mastermind-creat/techsafi/pkg/logger"
	"github.com/mastermind-creat/techsafi/pkg/sse"
)

const (
	// streamBuffer is how many undelivered events a slow client may lag behind
	// before new ones are dropped.
	streamBuffer = 32

	// reconnectDelay is the EventSource retry hint in milliseconds.
	reconnectDelay = 3000
)

// HeartbeatInterval is how often an idle stream gets a heartbeat event.
var HeartbeatInterval = 30 * time.Second

type stream struct {
	id    string
	topic string
	actor string
	out   chan Event
	done  chan struct{}
	once  sync.Once
}

func (s *stream) close() {
	s.once.Do(func() { close(s.done) })
}

// offer queues ev without blocking and reports whether it was accepted.
func (s *stream) offer(ev Event) bool {
	select {
	case <-s.done:
		return false
	default:
	}
	select {
	case s.out <- ev:
		return true
	default:
		return false
	}
}

// Handler serves the SSE change stream.
type Handler struct {
	svc *Service
	log *slog.Logger

	mu      sync.RWMutex
	streams map[string]*stream
}

func NewHandler(svc *Service, log *slog.Logger) *Handler {
	return &Handler{
		svc:     svc,
		log:     log.With(logger.Scope("events.stream")),
		streams: make(map[string]*stream),
	}
}

// Stop ends every open stream.
func (h *Handler) Stop() {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, s := range h.streams {
		s.close()
	}
}

// HandleStream handles GET /api/events/stream?topic=content|admin.
//
// The public site joins "content" without credentials and reloads when the
// open page's domain changes. "admin" also carries private domain changes and
// needs an API key or session.
func (h *Handler) HandleStream(c echo.Context) error {
	topic := c.QueryParam("topic")
	if topic == "" {
		topic = TopicContent
	}
	switch topic {
	case TopicContent:
	case TopicAdmin:
		if auth.GetUser(c) == nil {
			return apperror.ErrUnauthorized
		}
	default:
		return apperror.ErrBadRequest.WithMessage("unknown topic: " + topic)
	}

	w := sse.NewWriter(c.Response().Writer)
	if err := w.Start(); err != nil {
		return apperror.ErrInternal.WithMessage("streaming not supported")
	}
	defer w.Close()

	s := &stream{
		id:    "sse_" + uuid.NewString(),
		topic: topic,
		actor: auth.Actor(c),
		out:   make(chan Event, streamBuffer),
		done:  make(chan struct{}),
	}
	h.add(s)
	defer h.drop(s)

	log := h.log.With(slog.String("connection_id", s.id), slog.String("topic", topic))
	log.Info("stream opened", slog.String("actor", s.actor))

	_ = w.WriteRetry(reconnectDelay)
	if err := w.WriteEvent("connected", map[string]string{"connectionId": s.id, "topic": topic}); err != nil {
		return nil
	}

	unsubscribe := h.svc.Subscribe(topic, func(ev Event) {
		if !s.offer(ev) {
			log.Warn("stream buffer full, event dropped", slog.String("type", string(ev.Type)), slog.String("id", ev.ID))
		}
	})
	defer unsubscribe()

	heartbeat := time.NewTicker(HeartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-c.Request().Context().Done():
			log.Info("stream closed by client")
			return nil
		case <-s.done:
			log.Info("stream closed by server")
			return nil
		case ev := <-s.out:
			if err := w.Send(sse.Event{ID: ev.ID, Name: string(ev.Type), Data: ev}); err != nil {
				log.Warn("stream write failed", logger.Error(err))
				return nil
			}
		case now := <-heartbeat.C:
			if err := w.WriteEvent("heartbeat", map[string]string{"timestamp": now.UTC().Format(time.RFC3339)}); err != nil {
				log.Warn("heartbeat failed", logger.Error(err))
				return nil
			}
		}
	}
}

// HandleConnectionsCount handles GET /api/events/connections/count.
func (h *Handler) HandleConnectionsCount(c echo.Context) error {
	h.mu.RLock()
	byTopic := make(map[string]int)
	for _, s := range h.streams {
		byTopic[s.topic]++
	}
	total := len(h.streams)
	h.mu.RUnlock()

	return c.JSON(http.StatusOK, map[string]any{"count": total, "byTopic": byTopic})
}

// ConnectionCount returns the number of open streams.
func (h *Handler) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.streams)
}

func (h *Handler) add(s *stream) {
	h.mu.Lock()
	h.streams[s.id] = s
	h.mu.Unlock()
}

func (h *Handler) drop(s *stream) {
	s.close()
	h.mu.Lock()
	delete(h.streams, s.id)
	h.mu.Unlock()
}
