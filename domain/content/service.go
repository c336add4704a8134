// Package content is the typed layer over the document store. Each content
// domain (home, pricing, careers, ...) is a Def[T] with a storage key, a
// default value and its schema migrations. Accessor[T] gives typed
// Fetch/Save/Mutate, and Service offers the same operations by domain name
// for the admin API, the dashboard and the CLI.
package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mastermind-creat/techsafi/domain/events"
	"github.com/mastermind-creat/techsafi/internal/docstore"
	"github.com/mastermind-creat/techsafi/pkg/apperror"
	"github.com/mastermind-creat/techsafi/pkg/logger"
)

// Document is a domain's current value as served by the admin API.
type Document struct {
	Domain        string          `json:"domain"`
	Key           string          `json:"key"`
	Kind          Kind            `json:"kind"`
	SchemaVersion int             `json:"schemaVersion"`
	Revision      int64           `json:"revision"`
	Default       bool            `json:"default"`
	UpdatedAt     *time.Time      `json:"updatedAt,omitempty"`
	UpdatedBy     string          `json:"updatedBy,omitempty"`
	Data          json.RawMessage `json:"data"`
}

// DomainInfo describes a domain and, when stored, its current revision.
type DomainInfo struct {
	Name          string     `json:"name"`
	Key           string     `json:"key"`
	Kind          Kind       `json:"kind"`
	Public        bool       `json:"public"`
	Description   string     `json:"description"`
	SchemaVersion int        `json:"schemaVersion"`
	Stored        bool       `json:"stored"`
	Revision      int64      `json:"revision,omitempty"`
	UpdatedAt     *time.Time `json:"updatedAt,omitempty"`
	UpdatedBy     string     `json:"updatedBy,omitempty"`
	Size          int        `json:"size,omitempty"`
}

// Service implements the content operations on top of a docstore.Store.
type Service struct {
	store  docstore.Store
	events *events.Service
	log    *slog.Logger

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

// NewService creates a new content service
func NewService(store docstore.Store, ev *events.Service, log *slog.Logger) *Service {
	return &Service{
		store:  store,
		events: ev,
		log:    log.With(logger.Scope("content")),
		locks:  make(map[string]*sync.Mutex),
	}
}

// Store exposes the underlying store for health checks and maintenance.
func (s *Service) Store() docstore.Store {
	return s.store
}

// lock returns the in-process mutex guarding key.
func (s *Service) lock(key string) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	mu, ok := s.locks[key]
	if !ok {
		mu = &sync.Mutex{}
		s.locks[key] = mu
	}
	return mu
}

// load returns the stored record upgraded to the current schema version, or
// a nil record when nothing is stored.
func (s *Service) load(ctx context.Context, d Domain) (*docstore.Record, error) {
	rec, err := s.store.Get(ctx, d.Key())
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperror.ErrStore.WithInternal(err)
	}
	return s.upgrade(d, rec)
}

func (s *Service) upgrade(d Domain, rec *docstore.Record) (*docstore.Record, error) {
	data, err := d.upgrade(rec.SchemaVersion, rec.Data)
	if err == nil {
		data, err = d.canonical(data)
	}
	if err != nil {
		s.log.Error("stored document is corrupt",
			slog.String("domain", d.Name()),
			slog.Int64("revision", rec.Revision),
			logger.Error(err),
		)
		return nil, apperror.ErrCorruptDocument.
			WithInternal(err).
			WithDetails(map[string]any{"domain": d.Name(), "revision": rec.Revision})
	}
	out := *rec
	out.Data = data
	out.SchemaVersion = d.SchemaVersion()
	return &out, nil
}

// write stores canonical data as the next revision and announces the change.
func (s *Service) write(ctx context.Context, d Domain, data json.RawMessage, actor string) (*docstore.Record, error) {
	rec, err := s.store.Put(ctx, d.Key(), data, docstore.PutOptions{
		SchemaVersion: d.SchemaVersion(),
		Actor:         actor,
	})
	if err != nil {
		return nil, apperror.ErrStore.WithInternal(err)
	}

	s.log.Info("content saved",
		slog.String("domain", d.Name()),
		slog.Int64("revision", rec.Revision),
		slog.String("actor", actor),
	)
	s.notify(d, rec.Revision, actor)
	return rec, nil
}

func (s *Service) notify(d Domain, revision int64, actor string) {
	if s.events == nil {
		return
	}
	opts := &events.Options{
		Data:     map[string]any{"key": d.Key()},
		Actor:    actorOf(actor),
		Revision: revision,
	}
	if d.Public() {
		s.events.EmitConfigUpdated(d.Name(), opts)
		return
	}
	// Private domains never reach the public stream.
	s.events.EmitUpdated(events.EntityContent, d.Name(), events.TopicAdmin, opts)
}

func actorOf(actor string) *events.Actor {
	switch actor {
	case "", "anonymous":
		return &events.Actor{Kind: events.ActorVisitor}
	case "system":
		return &events.Actor{Kind: events.ActorSystem}
	}
	return &events.Actor{Kind: events.ActorAdmin, ID: actor}
}

func lookup(name string) (Domain, error) {
	d, ok := Lookup(name)
	if !ok {
		return nil, apperror.ErrUnknownDomain.WithDetails(map[string]any{"domain": name})
	}
	return d, nil
}

func toDocument(d Domain, rec *docstore.Record) *Document {
	doc := &Document{
		Domain:        d.Name(),
		Key:           d.Key(),
		Kind:          d.Kind(),
		SchemaVersion: d.SchemaVersion(),
		Revision:      rec.Revision,
		Data:          rec.Data,
		UpdatedBy:     rec.UpdatedBy,
	}
	if !rec.UpdatedAt.IsZero() {
		t := rec.UpdatedAt
		doc.UpdatedAt = &t
	}
	return doc
}

// List returns every domain with its stored revision metadata.
func (s *Service) List(ctx context.Context) ([]DomainInfo, error) {
	metas, err := s.store.List(ctx)
	if err != nil {
		return nil, apperror.ErrStore.WithInternal(err)
	}
	byKey := make(map[string]docstore.Meta, len(metas))
	for _, m := range metas {
		byKey[m.Key] = m
	}

	domains := Domains()
	out := make([]DomainInfo, 0, len(domains))
	for _, d := range domains {
		info := DomainInfo{
			Name:          d.Name(),
			Key:           d.Key(),
			Kind:          d.Kind(),
			Public:        d.Public(),
			Description:   d.Description(),
			SchemaVersion: d.SchemaVersion(),
		}
		if m, ok := byKey[d.Key()]; ok {
			t := m.UpdatedAt
			info.Stored = true
			info.Revision = m.Revision
			info.UpdatedAt = &t
			info.UpdatedBy = m.UpdatedBy
			info.Size = m.Size
		}
		out = append(out, info)
	}
	return out, nil
}

// Get returns the current document of a domain, or its default.
func (s *Service) Get(ctx context.Context, name string) (*Document, error) {
	d, err := lookup(name)
	if err != nil {
		return nil, err
	}
	rec, err := s.load(ctx, d)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		data, err := d.defaultJSON()
		if err != nil {
			return nil, apperror.NewInternal("failed to encode default", err)
		}
		return &Document{
			Domain:        d.Name(),
			Key:           d.Key(),
			Kind:          d.Kind(),
			SchemaVersion: d.SchemaVersion(),
			Default:       true,
			Data:          data,
		}, nil
	}
	return toDocument(d, rec), nil
}

// Put replaces a domain's document with raw after checking it decodes into
// the domain's type.
func (s *Service) Put(ctx context.Context, name string, raw json.RawMessage, actor string) (*Document, error) {
	d, err := lookup(name)
	if err != nil {
		return nil, err
	}
	data, err := d.canonical(raw)
	if err != nil {
		return nil, apperror.ErrValidation.
			WithMessage(fmt.Sprintf("document does not match the %s shape: %v", d.Name(), err)).
			WithInternal(err)
	}

	mu := s.lock(d.Key())
	mu.Lock()
	defer mu.Unlock()

	rec, err := s.write(ctx, d, data, actor)
	if err != nil {
		return nil, err
	}
	return toDocument(d, rec), nil
}

// Reset deletes the stored document so the default applies again. The
// deleted content stays in history.
func (s *Service) Reset(ctx context.Context, name, actor string) error {
	d, err := lookup(name)
	if err != nil {
		return err
	}

	mu := s.lock(d.Key())
	mu.Lock()
	defer mu.Unlock()

	if err := s.store.Delete(ctx, d.Key()); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil
		}
		return apperror.ErrStore.WithInternal(err)
	}
	s.log.Info("content reset to default",
		slog.String("domain", d.Name()),
		slog.String("actor", actor),
	)
	s.notify(d, 0, actor)
	return nil
}

// History lists earlier revisions of a domain, newest first.
func (s *Service) History(ctx context.Context, name string) ([]docstore.Meta, error) {
	d, err := lookup(name)
	if err != nil {
		return nil, err
	}
	recs, err := s.store.History(ctx, d.Key())
	if err != nil {
		return nil, apperror.ErrStore.WithInternal(err)
	}
	out := make([]docstore.Meta, 0, len(recs))
	for i := range recs {
		out = append(out, recs[i].Meta())
	}
	return out, nil
}

// Revision returns one revision of a domain, upgraded to the current schema.
func (s *Service) Revision(ctx context.Context, name string, revision int64) (*Document, error) {
	d, err := lookup(name)
	if err != nil {
		return nil, err
	}
	rec, err := s.store.Revision(ctx, d.Key(), revision)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, apperror.ErrRevisionMissing.WithDetails(map[string]any{"domain": name, "revision": revision})
	}
	if err != nil {
		return nil, apperror.ErrStore.WithInternal(err)
	}
	rec, err = s.upgrade(d, rec)
	if err != nil {
		return nil, err
	}
	return toDocument(d, rec), nil
}

// Restore writes an earlier revision back as the newest one.
func (s *Service) Restore(ctx context.Context, name string, revision int64, actor string) (*Document, error) {
	old, err := s.Revision(ctx, name, revision)
	if err != nil {
		return nil, err
	}
	d, _ := Lookup(name)

	mu := s.lock(d.Key())
	mu.Lock()
	defer mu.Unlock()

	rec, err := s.write(ctx, d, old.Data, actor)
	if err != nil {
		return nil, err
	}
	s.log.Info("content restored",
		slog.String("domain", name),
		slog.Int64("from_revision", revision),
		slog.Int64("revision", rec.Revision),
	)
	return toDocument(d, rec), nil
}
