package docstore

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"go.uber.org/fx"

	"github.com/mastermind-creat/techsafi/internal/config"
	"github.com/mastermind-creat/techsafi/internal/database"
	"github.com/mastermind-creat/techsafi/internal/migrate"
	"github.com/mastermind-creat/techsafi/pkg/logger"
)

var Module = fx.Module("docstore",
	fx.Provide(NewStore),
)

// NewStore opens the configured backend and closes it when the app stops.
func NewStore(lc fx.Lifecycle, cfg *config.Config, log *slog.Logger) (Store, error) {
	s, err := Open(context.Background(), cfg, log)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			log.Info("closing document store", logger.Scope("docstore"))
			return s.Close()
		},
	})
	return s, nil
}

// Open returns an instrumented Store for cfg.Store.Backend.
func Open(ctx context.Context, cfg *config.Config, log *slog.Logger) (Store, error) {
	log = log.With(logger.Scope("docstore"))

	switch cfg.Store.Backend {
	case config.BackendPostgres:
		db, err := database.Open(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		if cfg.Database.AutoMigrate {
			m := migrate.NewMigrator(db.DB.DB, migrate.NewLogger(cfg.IsProduction()))
			if err := m.Up(ctx); err != nil {
				db.Close()
				return nil, err
			}
		}
		log.Info("document store opened", slog.String("backend", "postgres"))
		return Instrument(NewPostgresStore(db, cfg.Store.HistoryLimit), "postgres"), nil

	case config.BackendBunt, "":
		path := cfg.Store.Path
		if path != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return nil, fmt.Errorf("create store dir: %w", err)
			}
		}
		s, err := OpenBunt(path, cfg.Store.HistoryLimit)
		if err != nil {
			return nil, err
		}
		log.Info("document store opened", slog.String("backend", "bunt"), slog.String("path", path))
		return Instrument(s, "bunt"), nil
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
}
