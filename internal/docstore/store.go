// Package docstore persists versioned JSON content documents.
//
// Each key holds one current Record. Every Put bumps the revision and moves
// the previous record into a bounded history, so a document can be restored.
// Writes are whole-document and last-write-wins.
package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// ErrNotFound is returned when a key or revision does not exist.
var ErrNotFound = errors.New("document not found")

// Record is one stored version of a content document.
type Record struct {
	Key           string          `json:"key"`
	SchemaVersion int             `json:"schemaVersion"`
	Revision      int64           `json:"revision"`
	Data          json.RawMessage `json:"data"`
	UpdatedAt     time.Time       `json:"updatedAt"`
	UpdatedBy     string          `json:"updatedBy,omitempty"`
}

// Meta is a Record without its payload.
type Meta struct {
	Key           string    `json:"key"`
	SchemaVersion int       `json:"schemaVersion"`
	Revision      int64     `json:"revision"`
	UpdatedAt     time.Time `json:"updatedAt"`
	UpdatedBy     string    `json:"updatedBy,omitempty"`
	Size          int       `json:"size"`
}

// Meta strips the payload.
func (r *Record) Meta() Meta {
	return Meta{
		Key:           r.Key,
		SchemaVersion: r.SchemaVersion,
		Revision:      r.Revision,
		UpdatedAt:     r.UpdatedAt,
		UpdatedBy:     r.UpdatedBy,
		Size:          len(r.Data),
	}
}

// PutOptions describe a write.
type PutOptions struct {
	SchemaVersion int
	Actor         string
}

// Store is implemented by the bunt and postgres backends.
type Store interface {
	// Get returns the current record or ErrNotFound.
	Get(ctx context.Context, key string) (*Record, error)
	// Put writes data as the next revision of key.
	Put(ctx context.Context, key string, data json.RawMessage, opts PutOptions) (*Record, error)
	// Delete removes the current record. Its content stays in history.
	Delete(ctx context.Context, key string) error
	// List returns the metadata of every current record, ordered by key.
	List(ctx context.Context) ([]Meta, error)
	// History returns previous revisions of key, newest first.
	History(ctx context.Context, key string) ([]Record, error)
	// Revision returns one record from history (or the current one).
	Revision(ctx context.Context, key string, revision int64) (*Record, error)
	// Prune trims every key's history to keep entries and reports how many were removed.
	Prune(ctx context.Context, keep int) (int, error)
	Ping(ctx context.Context) error
	Close() error
}

func validKey(key string) error {
	if key == "" {
		return errors.New("docstore: empty key")
	}
	for _, r := range key {
		if r == '*' || r == '?' || r == ':' {
			return errors.New("docstore: key contains reserved character")
		}
	}
	return nil
}

func validJSON(data json.RawMessage) error {
	if !json.Valid(data) {
		return errors.New("docstore: data is not valid JSON")
	}
	return nil
}
