package docstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/mastermind-creat/techsafi/internal/database"
)

type documentRow struct {
	bun.BaseModel `bun:"table:content_documents,alias:d"`

	Key           string    `bun:"key,pk"`
	SchemaVersion int       `bun:"schema_version,notnull"`
	Revision      int64     `bun:"revision,notnull"`
	Data          string    `bun:"data,type:jsonb,notnull"`
	UpdatedAt     time.Time `bun:"updated_at,notnull"`
	UpdatedBy     string    `bun:"updated_by,notnull"`
}

type revisionRow struct {
	bun.BaseModel `bun:"table:content_document_revisions,alias:r"`

	Key           string    `bun:"key,pk"`
	Revision      int64     `bun:"revision,pk"`
	SchemaVersion int       `bun:"schema_version,notnull"`
	Data          string    `bun:"data,type:jsonb,notnull"`
	UpdatedAt     time.Time `bun:"updated_at,notnull"`
	UpdatedBy     string    `bun:"updated_by,notnull"`
}

type sequenceRow struct {
	bun.BaseModel `bun:"table:content_document_sequences,alias:s"`

	Key          string `bun:"key,pk"`
	LastRevision int64  `bun:"last_revision,notnull"`
}

func (r *documentRow) record() *Record {
	return &Record{
		Key:           r.Key,
		SchemaVersion: r.SchemaVersion,
		Revision:      r.Revision,
		Data:          json.RawMessage(r.Data),
		UpdatedAt:     r.UpdatedAt,
		UpdatedBy:     r.UpdatedBy,
	}
}

func (r *revisionRow) record() Record {
	return Record{
		Key:           r.Key,
		SchemaVersion: r.SchemaVersion,
		Revision:      r.Revision,
		Data:          json.RawMessage(r.Data),
		UpdatedAt:     r.UpdatedAt,
		UpdatedBy:     r.UpdatedBy,
	}
}

func (r *documentRow) toRevision() *revisionRow {
	return &revisionRow{
		Key:           r.Key,
		Revision:      r.Revision,
		SchemaVersion: r.SchemaVersion,
		Data:          r.Data,
		UpdatedAt:     r.UpdatedAt,
		UpdatedBy:     r.UpdatedBy,
	}
}

// PostgresStore keeps documents in PostgreSQL. Schema comes from the goose migrations.
type PostgresStore struct {
	db           *database.DB
	historyLimit int
}

// NewPostgresStore wraps an open database.
func NewPostgresStore(db *database.DB, historyLimit int) *PostgresStore {
	return &PostgresStore{db: db, historyLimit: historyLimit}
}

func (s *PostgresStore) Get(ctx context.Context, key string) (*Record, error) {
	row := new(documentRow)
	err := s.db.NewSelect().Model(row).Where("key = ?", key).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	return row.record(), nil
}

func (s *PostgresStore) Put(ctx context.Context, key string, data json.RawMessage, opts PutOptions) (*Record, error) {
	if err := validKey(key); err != nil {
		return nil, err
	}
	if err := validJSON(data); err != nil {
		return nil, err
	}

	var rec *Record
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		next, err := s.nextRevision(ctx, tx, key)
		if err != nil {
			return err
		}

		prev := new(documentRow)
		err = tx.NewSelect().Model(prev).Where("key = ?", key).For("UPDATE").Scan(ctx)
		switch {
		case err == nil:
			if _, err := tx.NewInsert().Model(prev.toRevision()).On("CONFLICT DO NOTHING").Exec(ctx); err != nil {
				return fmt.Errorf("archive revision: %w", err)
			}
		case errors.Is(err, sql.ErrNoRows):
		default:
			return fmt.Errorf("lock %s: %w", key, err)
		}

		row := &documentRow{
			Key:           key,
			SchemaVersion: opts.SchemaVersion,
			Revision:      next,
			Data:          string(data),
			UpdatedAt:     time.Now().UTC(),
			UpdatedBy:     opts.Actor,
		}
		_, err = tx.NewInsert().Model(row).
			On("CONFLICT (key) DO UPDATE").
			Set("schema_version = EXCLUDED.schema_version").
			Set("revision = EXCLUDED.revision").
			Set("data = EXCLUDED.data").
			Set("updated_at = EXCLUDED.updated_at").
			Set("updated_by = EXCLUDED.updated_by").
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("upsert %s: %w", key, err)
		}
		if _, err := s.trim(ctx, tx, key, s.historyLimit); err != nil {
			return err
		}
		rec = row.record()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// nextRevision bumps the per-key sequence row and returns the new value.
func (s *PostgresStore) nextRevision(ctx context.Context, tx bun.IDB, key string) (int64, error) {
	seq := &sequenceRow{Key: key, LastRevision: 1}
	_, err := tx.NewInsert().Model(seq).
		On("CONFLICT (key) DO UPDATE").
		Set("last_revision = s.last_revision + 1").
		Returning("last_revision").
		Exec(ctx, &seq.LastRevision)
	if err != nil {
		return 0, fmt.Errorf("next revision %s: %w", key, err)
	}
	return seq.LastRevision, nil
}

func (s *PostgresStore) trim(ctx context.Context, db bun.IDB, key string, keep int) (int, error) {
	del := db.NewDelete().
		Model((*revisionRow)(nil)).
		Where("key = ?", key)
	if keep > 0 {
		// Limit(0) means no limit in bun, so only add the subquery when something is kept.
		del = del.Where("revision NOT IN (?)", db.NewSelect().
			Model((*revisionRow)(nil)).
			Column("revision").
			Where("key = ?", key).
			Order("revision DESC").
			Limit(keep))
	}

	res, err := del.Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("trim history %s: %w", key, err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

func (s *PostgresStore) Delete(ctx context.Context, key string) error {
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		row := new(documentRow)
		_, err := tx.NewDelete().Model(row).Where("key = ?", key).Returning("*").Exec(ctx, row)
		if errors.Is(err, sql.ErrNoRows) || (err == nil && row.Key == "") {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("delete %s: %w", key, err)
		}
		if _, err := tx.NewInsert().Model(row.toRevision()).On("CONFLICT DO NOTHING").Exec(ctx); err != nil {
			return fmt.Errorf("archive revision: %w", err)
		}
		_, err = s.trim(ctx, tx, key, s.historyLimit)
		return err
	})
}

func (s *PostgresStore) List(ctx context.Context) ([]Meta, error) {
	var rows []documentRow
	if err := s.db.NewSelect().Model(&rows).Order("key ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	out := make([]Meta, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].record().Meta())
	}
	return out, nil
}

func (s *PostgresStore) History(ctx context.Context, key string) ([]Record, error) {
	var rows []revisionRow
	err := s.db.NewSelect().Model(&rows).
		Where("key = ?", key).
		Order("revision DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("history %s: %w", key, err)
	}
	out := make([]Record, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].record())
	}
	return out, nil
}

func (s *PostgresStore) Revision(ctx context.Context, key string, revision int64) (*Record, error) {
	row := new(revisionRow)
	err := s.db.NewSelect().Model(row).
		Where("key = ?", key).
		Where("revision = ?", revision).
		Scan(ctx)
	if err == nil {
		rec := row.record()
		return &rec, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("revision %s@%d: %w", key, revision, err)
	}

	cur, err := s.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if cur.Revision != revision {
		return nil, ErrNotFound
	}
	return cur, nil
}

func (s *PostgresStore) Prune(ctx context.Context, keep int) (int, error) {
	var keys []string
	err := s.db.NewSelect().
		Model((*revisionRow)(nil)).
		ColumnExpr("DISTINCT key").
		Scan(ctx, &keys)
	if err != nil {
		return 0, fmt.Errorf("prune: %w", err)
	}
	removed := 0
	for _, key := range keys {
		n, err := s.trim(ctx, s.db, key, keep)
		if err != nil {
			return removed, err
		}
		removed += n
	}
	return removed, nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.Pool().Ping(ctx)
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}
