package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel/attribute"

	"github.com/mastermind-creat/techsafi/pkg/tracing"
)

var (
	opsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "techsafi_docstore_operations_total",
		Help: "Document store operations by operation and result",
	}, []string{"op", "result"})

	opDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "techsafi_docstore_operation_duration_seconds",
		Help:    "Document store operation latency",
		Buckets: []float64{.0005, .001, .005, .01, .05, .1, .5, 1},
	}, []string{"op"})
)

// instrumented records metrics and spans around another Store.
type instrumented struct {
	next    Store
	backend string
}

// Instrument wraps s with prometheus metrics and tracing spans.
func Instrument(s Store, backend string) Store {
	return &instrumented{next: s, backend: backend}
}

func (i *instrumented) observe(ctx context.Context, op, key string) (context.Context, func(error)) {
	start := time.Now()
	ctx, span := tracing.Start(ctx, "docstore."+op,
		attribute.String("techsafi.docstore.backend", i.backend),
		attribute.String("techsafi.docstore.key", key),
	)
	return ctx, func(err error) {
		result := "ok"
		switch {
		case errors.Is(err, ErrNotFound):
			result = "not_found"
		case err != nil:
			result = "error"
			tracing.RecordError(span, err)
		}
		opsTotal.WithLabelValues(op, result).Inc()
		opDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
		span.End()
	}
}

func (i *instrumented) Get(ctx context.Context, key string) (rec *Record, err error) {
	ctx, done := i.observe(ctx, "get", key)
	defer func() { done(err) }()
	return i.next.Get(ctx, key)
}

func (i *instrumented) Put(ctx context.Context, key string, data json.RawMessage, opts PutOptions) (rec *Record, err error) {
	ctx, done := i.observe(ctx, "put", key)
	defer func() { done(err) }()
	return i.next.Put(ctx, key, data, opts)
}

func (i *instrumented) Delete(ctx context.Context, key string) (err error) {
	ctx, done := i.observe(ctx, "delete", key)
	defer func() { done(err) }()
	return i.next.Delete(ctx, key)
}

func (i *instrumented) List(ctx context.Context) (out []Meta, err error) {
	ctx, done := i.observe(ctx, "list", "")
	defer func() { done(err) }()
	return i.next.List(ctx)
}

func (i *instrumented) History(ctx context.Context, key string) (out []Record, err error) {
	ctx, done := i.observe(ctx, "history", key)
	defer func() { done(err) }()
	return i.next.History(ctx, key)
}

func (i *instrumented) Revision(ctx context.Context, key string, revision int64) (rec *Record, err error) {
	ctx, done := i.observe(ctx, "revision", key)
	defer func() { done(err) }()
	return i.next.Revision(ctx, key, revision)
}

func (i *instrumented) Prune(ctx context.Context, keep int) (n int, err error) {
	ctx, done := i.observe(ctx, "prune", "")
	defer func() { done(err) }()
	return i.next.Prune(ctx, keep)
}

func (i *instrumented) Ping(ctx context.Context) error {
	return i.next.Ping(ctx)
}

func (i *instrumented) Close() error {
	return i.next.Close()
}
