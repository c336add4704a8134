// Package database opens the PostgreSQL connection behind the postgres
// document store backend.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"

	"github.com/mastermind-creat/techsafi/internal/config"
	"github.com/mastermind-creat/techsafi/pkg/logger"
)

const (
	connectTimeout = 10 * time.Second
	slowQuery      = time.Second
)

// DB is a bun handle over a pgx pool. Close releases both.
type DB struct {
	*bun.DB
	pool *pgxpool.Pool
}

func (d *DB) Close() error {
	err := d.DB.Close()
	d.pool.Close()
	return err
}

// Pool exposes the pgx pool for health checks.
func (d *DB) Pool() *pgxpool.Pool {
	return d.pool
}

// Open connects using cfg.Database and verifies the connection.
func Open(ctx context.Context, cfg *config.Config, log *slog.Logger) (*DB, error) {
	dc := cfg.Database
	log = log.With(logger.Scope("database"))

	pc, err := pgxpool.ParseConfig(dc.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if dc.MaxOpenConns > 0 {
		pc.MaxConns = int32(dc.MaxOpenConns)
	}
	pc.MinConns = int32(dc.MaxIdleConns)
	pc.MaxConnIdleTime = dc.MaxIdleTime

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres %s:%d: %w", dc.Host, dc.Port, err)
	}

	db := bun.NewDB(stdlib.OpenDBFromPool(pool), pgdialect.New())
	if dc.QueryDebug {
		db.AddQueryHook(queryLog{log: log})
	}

	log.Info("postgres connected",
		slog.String("host", dc.Host),
		slog.String("database", dc.Database),
		slog.Int("max_conns", int(pc.MaxConns)),
	)
	return &DB{DB: db, pool: pool}, nil
}

// queryLog logs every statement at debug, slow ones at warn and failures at error.
type queryLog struct {
	log *slog.Logger
}

func (q queryLog) BeforeQuery(ctx context.Context, _ *bun.QueryEvent) context.Context {
	return ctx
}

func (q queryLog) AfterQuery(_ context.Context, ev *bun.QueryEvent) {
	took := time.Since(ev.StartTime)
	attrs := []any{slog.String("op", ev.Operation()), slog.String("query", ev.Query), slog.Duration("took", took)}

	switch {
	case ev.Err != nil && !errors.Is(ev.Err, sql.ErrNoRows):
		q.log.Error("query failed", append(attrs, logger.Error(ev.Err))...)
	case took > slowQuery:
		q.log.Warn("slow query", attrs...)
	default:
		q.log.Debug("query", attrs...)
	}
}
