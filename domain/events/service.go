// Package events is the in-process change feed. Services emit events and
// subscribers (the SSE handler, the site layout provider) receive them
// asynchronously.
package events

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mastermind-creat/techsafi/pkg/logger"
)

type subscriber struct {
	id int64
	fn func(Event)
}

// Service fans events out to topic subscribers.
type Service struct {
	log    *slog.Logger
	mu     sync.RWMutex
	topics map[string][]subscriber
	seq    atomic.Int64
}

func NewService(log *slog.Logger) *Service {
	return &Service{
		log:    log.With(logger.Scope("events")),
		topics: make(map[string][]subscriber),
	}
}

// Subscribe registers fn for topic. The returned func removes it and is safe
// to call more than once.
func (s *Service) Subscribe(topic string, fn func(Event)) func() {
	id := s.seq.Add(1)

	s.mu.Lock()
	s.topics[topic] = append(s.topics[topic], subscriber{id: id, fn: fn})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { s.remove(topic, id) })
	}
}

func (s *Service) remove(topic string, id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var kept []subscriber
	for _, sub := range s.topics[topic] {
		if sub.id != id {
			kept = append(kept, sub)
		}
	}
	if len(kept) == 0 {
		delete(s.topics, topic)
		return
	}
	s.topics[topic] = kept
}

// GetSubscriberCount returns the number of subscribers on topic.
func (s *Service) GetSubscriberCount(topic string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.topics[topic])
}

// GetTotalSubscriberCount returns the number of subscribers across all topics.
func (s *Service) GetTotalSubscriberCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, subs := range s.topics {
		n += len(subs)
	}
	return n
}

// Emit hands ev to every subscriber of ev.Topic, each on its own goroutine.
// A panicking subscriber is logged and does not affect the others.
func (s *Service) Emit(ev Event) {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now().UTC()
	}

	s.mu.RLock()
	subs := append([]subscriber(nil), s.topics[ev.Topic]...)
	s.mu.RUnlock()
	if len(subs) == 0 {
		return
	}

	s.log.Debug("emit",
		slog.String("type", string(ev.Type)),
		slog.String("entity", string(ev.Entity)),
		slog.String("id", ev.ID),
		slog.String("topic", ev.Topic),
		slog.Int("subscribers", len(subs)),
	)
	for _, sub := range subs {
		go s.deliver(sub.fn, ev)
	}
}

func (s *Service) deliver(fn func(Event), ev Event) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("subscriber panicked", slog.String("type", string(ev.Type)), slog.Any("panic", r))
		}
	}()
	fn(ev)
}

func (s *Service) emit(t Type, entity Entity, id, topic string, opts *Options) {
	ev := Event{Type: t, Entity: entity, ID: id, Topic: topic}
	if opts != nil {
		ev.Data, ev.Actor, ev.Revision = opts.Data, opts.Actor, opts.Revision
	}
	s.Emit(ev)
}

func (s *Service) EmitCreated(entity Entity, id, topic string, opts *Options) {
	s.emit(Created, entity, id, topic, opts)
}

func (s *Service) EmitUpdated(entity Entity, id, topic string, opts *Options) {
	s.emit(Updated, entity, id, topic, opts)
}

func (s *Service) EmitDeleted(entity Entity, id, topic string, opts *Options) {
	s.emit(Deleted, entity, id, topic, opts)
}

// EmitBatch emits one event covering several ids.
func (s *Service) EmitBatch(entity Entity, ids []string, topic string, data map[string]any) {
	s.Emit(Event{Type: Batch, Entity: entity, IDs: ids, Topic: topic, Data: data})
}

// EmitConfigUpdated announces a change to a public content domain on
// TopicContent and mirrors it to TopicAdmin.
func (s *Service) EmitConfigUpdated(domain string, opts *Options) {
	s.emit(ConfigUpdated, EntityContent, domain, TopicContent, opts)
	s.emit(ConfigUpdated, EntityContent, domain, TopicAdmin, opts)
}
