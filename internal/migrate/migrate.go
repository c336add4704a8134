// Package migrate applies the embedded goose migrations of the postgres
// document store.
package migrate

import (
	"context"
	"database/sql"
	"fmt"
	"path"

	"github.com/pressly/goose/v3"
	"go.uber.org/zap"

	"github.com/mastermind-creat/techsafi/migrations"
)

// Migrator runs the migrations in migrations.FS against one database.
type Migrator struct {
	db  *sql.DB
	log *zap.Logger
}

// Status is one migration file and whether it is applied.
type Status struct {
	Version int64  `json:"version"`
	Name    string `json:"name"`
	Applied bool   `json:"applied"`
	// AppliedAt is empty for pending migrations.
	AppliedAt string `json:"appliedAt,omitempty"`
}

func NewMigrator(db *sql.DB, log *zap.Logger) *Migrator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Migrator{db: db, log: log.Named("migrate")}
}

// NewLogger returns the zap logger migration progress is reported through.
func NewLogger(production bool) *zap.Logger {
	build := zap.NewDevelopment
	if production {
		build = zap.NewProduction
	}
	l, err := build()
	if err != nil {
		return zap.NewNop()
	}
	return l
}

func (m *Migrator) provider() (*goose.Provider, error) {
	p, err := goose.NewProvider(goose.DialectPostgres, m.db, migrations.FS)
	if err != nil {
		return nil, fmt.Errorf("load migrations: %w", err)
	}
	return p, nil
}

// Up applies every pending migration.
func (m *Migrator) Up(ctx context.Context) error {
	return m.UpTo(ctx, 0)
}

// UpTo applies pending migrations up to and including version. Zero means all.
func (m *Migrator) UpTo(ctx context.Context, version int64) error {
	p, err := m.provider()
	if err != nil {
		return err
	}
	var results []*goose.MigrationResult
	if version > 0 {
		results, err = p.UpTo(ctx, version)
	} else {
		results, err = p.Up(ctx)
	}
	m.report(results)
	if err != nil {
		return fmt.Errorf("migrate up: %w", err)
	}
	if len(results) == 0 {
		m.log.Info("schema up to date")
	}
	return nil
}

// Down rolls back the most recent migration.
func (m *Migrator) Down(ctx context.Context) error {
	p, err := m.provider()
	if err != nil {
		return err
	}
	res, err := p.Down(ctx)
	if res != nil {
		m.report([]*goose.MigrationResult{res})
	}
	if err != nil {
		return fmt.Errorf("migrate down: %w", err)
	}
	return nil
}

// Status lists every known migration in version order.
func (m *Migrator) Status(ctx context.Context) ([]Status, error) {
	p, err := m.provider()
	if err != nil {
		return nil, err
	}
	list, err := p.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("migrate status: %w", err)
	}
	out := make([]Status, 0, len(list))
	for _, st := range list {
		s := Status{
			Version: st.Source.Version,
			Name:    path.Base(st.Source.Path),
			Applied: st.State == goose.StateApplied,
		}
		if s.Applied {
			s.AppliedAt = st.AppliedAt.UTC().Format("2006-01-02 15:04:05")
		}
		out = append(out, s)
	}
	return out, nil
}

// Version returns the highest applied version, 0 on an empty database.
func (m *Migrator) Version(ctx context.Context) (int64, error) {
	p, err := m.provider()
	if err != nil {
		return 0, err
	}
	v, err := p.GetDBVersion(ctx)
	if err != nil {
		return 0, fmt.Errorf("migrate version: %w", err)
	}
	return v, nil
}

func (m *Migrator) report(results []*goose.MigrationResult) {
	for _, r := range results {
		fields := []zap.Field{
			zap.Int64("version", r.Source.Version),
			zap.String("file", path.Base(r.Source.Path)),
			zap.String("direction", r.Direction),
			zap.Duration("took", r.Duration),
		}
		if r.Error != nil {
			m.log.Error("migration failed", append(fields, zap.Error(r.Error))...)
			continue
		}
		m.log.Info("migration applied", fields...)
	}
}
