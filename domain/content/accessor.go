package content

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/mastermind-creat/techsafi/pkg/apperror"
	"github.com/mastermind-creat/techsafi/pkg/logger"
)

// Accessor reads and writes one domain as its Go type.
type Accessor[T any] struct {
	svc *Service
	def *Def[T]
}

// For returns the typed accessor of d.
func For[T any](s *Service, d *Def[T]) *Accessor[T] {
	return &Accessor[T]{svc: s, def: d}
}

// Fetch returns the stored document, or a fresh default when none is stored.
// A stored value that cannot be decoded yields apperror.ErrCorruptDocument.
func (a *Accessor[T]) Fetch(ctx context.Context) (T, error) {
	var v T
	rec, err := a.svc.load(ctx, a.def)
	if err != nil {
		return v, err
	}
	if rec == nil {
		return a.def.Default(), nil
	}
	if err := json.Unmarshal(rec.Data, &v); err != nil {
		return v, apperror.ErrCorruptDocument.WithInternal(err)
	}
	return v, nil
}

// FetchOrDefault is Fetch for the public renderer: errors are logged and the
// default is returned instead.
func (a *Accessor[T]) FetchOrDefault(ctx context.Context) T {
	v, err := a.Fetch(ctx)
	if err != nil {
		a.svc.log.Warn("serving default content",
			slog.String("domain", a.def.Name()),
			logger.Error(err),
		)
		return a.def.Default()
	}
	return v
}

// Save replaces the stored document with v. It returns once the store write
// has completed.
func (a *Accessor[T]) Save(ctx context.Context, v T, actor string) error {
	data, err := json.Marshal(v)
	if err != nil {
		return apperror.NewInternal("failed to encode document", err)
	}

	mu := a.svc.lock(a.def.Key())
	mu.Lock()
	defer mu.Unlock()

	_, err = a.svc.write(ctx, a.def, data, actor)
	return err
}

// Mutate runs a read-modify-write of the document under the domain's lock.
// When fn returns an error nothing is written.
func (a *Accessor[T]) Mutate(ctx context.Context, actor string, fn func(*T) error) (T, error) {
	mu := a.svc.lock(a.def.Key())
	mu.Lock()
	defer mu.Unlock()

	v, err := a.Fetch(ctx)
	if err != nil {
		return v, err
	}
	if err := fn(&v); err != nil {
		return v, err
	}

	data, err := json.Marshal(v)
	if err != nil {
		return v, apperror.NewInternal("failed to encode document", err)
	}
	if _, err := a.svc.write(ctx, a.def, data, actor); err != nil {
		return v, err
	}
	return v, nil
}
