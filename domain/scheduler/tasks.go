package scheduler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/mastermind-creat/techsafi/domain/content"
	"github.com/mastermind-creat/techsafi/internal/docstore"
	"github.com/mastermind-creat/techsafi/internal/storage"
	"github.com/mastermind-creat/techsafi/pkg/logger"
)

// Bundler exports and imports content bundles. *content.Service implements it.
type Bundler interface {
	Export(ctx context.Context, includeDefaults bool) (*content.Bundle, error)
	Import(ctx context.Context, b *content.Bundle, actor string) (int, error)
}

// ObjectStore is the part of *storage.Service the snapshot task uses.
type ObjectStore interface {
	Enabled() bool
	Upload(ctx context.Context, key string, data io.Reader, size int64, opts storage.UploadOptions) (*storage.UploadResult, error)
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	List(ctx context.Context, prefix string) ([]string, error)
	Delete(ctx context.Context, key string) error
}

// SnapshotTask writes every stored document to one JSON bundle, in object
// storage when it is configured and in a local directory otherwise.
type SnapshotTask struct {
	content Bundler
	store   ObjectStore
	dir     string
	keep    int
	log     *slog.Logger
	now     func() time.Time
}

// NewSnapshotTask creates a new snapshot task
func NewSnapshotTask(bundler Bundler, store ObjectStore, cfg *Config, log *slog.Logger) *SnapshotTask {
	return &SnapshotTask{
		content: bundler,
		store:   store,
		dir:     cfg.SnapshotDir,
		keep:    cfg.SnapshotKeep,
		log:     log.With(logger.Scope("scheduler.snapshot")),
		now:     time.Now,
	}
}

// Run takes one snapshot and deletes snapshots beyond the retention count.
func (t *SnapshotTask) Run(ctx context.Context) error {
	bundle, err := t.content.Export(ctx, false)
	if err != nil {
		return fmt.Errorf("export content: %w", err)
	}
	data, err := json.MarshalIndent(bundle, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	key := storage.SnapshotKey(t.now())

	var where string
	var removed int
	if t.objectStore() {
		where, removed, err = t.toObjectStore(ctx, key, data)
	} else {
		where, removed, err = t.toDir(key, data)
	}
	if err != nil {
		return err
	}

	t.log.Info("content snapshot written",
		slog.String("location", where),
		slog.Int("documents", len(bundle.Documents)),
		slog.Int("bytes", len(data)),
		slog.Int("expired", removed))
	return nil
}

func (t *SnapshotTask) toObjectStore(ctx context.Context, key string, data []byte) (string, int, error) {
	_, err := t.store.Upload(ctx, key, bytes.NewReader(data), int64(len(data)), storage.UploadOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return "", 0, fmt.Errorf("upload snapshot: %w", err)
	}

	keys, err := t.store.List(ctx, storage.SnapshotPrefix+"/")
	if err != nil {
		return key, 0, fmt.Errorf("list snapshots: %w", err)
	}
	removed := 0
	for _, old := range expired(keys, t.keep) {
		if err := t.store.Delete(ctx, old); err != nil {
			t.log.Warn("failed to delete old snapshot", slog.String("key", old), logger.Error(err))
			continue
		}
		removed++
	}
	return key, removed, nil
}

func (t *SnapshotTask) toDir(key string, data []byte) (string, int, error) {
	if err := os.MkdirAll(t.dir, 0o755); err != nil {
		return "", 0, fmt.Errorf("create snapshot dir: %w", err)
	}
	file := filepath.Join(t.dir, path.Base(key))
	tmp := file + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", 0, fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.Rename(tmp, file); err != nil {
		_ = os.Remove(tmp)
		return "", 0, fmt.Errorf("write snapshot: %w", err)
	}

	names, err := t.localNames()
	if err != nil {
		return file, 0, err
	}
	removed := 0
	for _, old := range expired(names, t.keep) {
		if err := os.Remove(filepath.Join(t.dir, old)); err != nil {
			t.log.Warn("failed to delete old snapshot", slog.String("file", old), logger.Error(err))
			continue
		}
		removed++
	}
	return file, removed, nil
}

func (t *SnapshotTask) objectStore() bool {
	return t.store != nil && t.store.Enabled()
}

func (t *SnapshotTask) localNames() ([]string, error) {
	entries, err := os.ReadDir(t.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && isSnapshotName(e.Name()) {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

func isSnapshotName(name string) bool {
	return strings.HasPrefix(name, "content-") && strings.HasSuffix(name, ".json")
}

// List returns the snapshot names, oldest first.
func (t *SnapshotTask) List(ctx context.Context) ([]string, error) {
	if !t.objectStore() {
		names, err := t.localNames()
		sort.Strings(names)
		return names, err
	}
	keys, err := t.store.List(ctx, storage.SnapshotPrefix+"/")
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	var names []string
	for _, k := range keys {
		if name := path.Base(k); isSnapshotName(name) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// Restore imports the snapshot called name, or the newest one when name is
// empty, and returns the name used with the number of documents written.
func (t *SnapshotTask) Restore(ctx context.Context, name, actor string) (string, int, error) {
	if name == "" {
		names, err := t.List(ctx)
		if err != nil {
			return "", 0, err
		}
		if len(names) == 0 {
			return "", 0, errors.New("no snapshots found")
		}
		name = names[len(names)-1]
	}
	name = path.Base(name)

	var rc io.ReadCloser
	var err error
	if t.objectStore() {
		rc, err = t.store.Download(ctx, path.Join(storage.SnapshotPrefix, name))
	} else {
		rc, err = os.Open(filepath.Join(t.dir, name))
	}
	if err != nil {
		return name, 0, fmt.Errorf("open snapshot %s: %w", name, err)
	}
	defer rc.Close()

	var bundle content.Bundle
	if err := json.NewDecoder(rc).Decode(&bundle); err != nil {
		return name, 0, fmt.Errorf("decode snapshot %s: %w", name, err)
	}
	n, err := t.content.Import(ctx, &bundle, actor)
	if err != nil {
		return name, n, err
	}
	t.log.Info("content snapshot restored", slog.String("snapshot", name), slog.Int("documents", n))
	return name, n, nil
}

// expired returns the names to delete so that only the newest keep remain.
// Snapshot names embed a sortable UTC timestamp.
func expired(names []string, keep int) []string {
	if keep <= 0 || len(names) <= keep {
		return nil
	}
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)
	return sorted[:len(sorted)-keep]
}

// PruneHistoryTask trims every document's revision history to a fixed length.
type PruneHistoryTask struct {
	store docstore.Store
	keep  int
	log   *slog.Logger
}

// NewPruneHistoryTask creates a new history prune task
func NewPruneHistoryTask(store docstore.Store, keep int, log *slog.Logger) *PruneHistoryTask {
	return &PruneHistoryTask{
		store: store,
		keep:  keep,
		log:   log.With(logger.Scope("scheduler.prune_history")),
	}
}

// Run executes the prune
func (t *PruneHistoryTask) Run(ctx context.Context) error {
	start := time.Now()
	n, err := t.store.Prune(ctx, t.keep)
	if err != nil {
		return fmt.Errorf("prune history: %w", err)
	}
	if n > 0 {
		t.log.Info("pruned revision history",
			slog.Int("removed", n),
			slog.Duration("duration", time.Since(start)))
	} else {
		t.log.Debug("no revisions to prune", slog.Duration("duration", time.Since(start)))
	}
	return nil
}

// VisitorPruner forgets idle rate limiter clients. *contact.RateLimiter implements it.
type VisitorPruner interface {
	Prune(idle time.Duration) int
}

// NewVisitorPruneTask returns a task that drops clients idle for longer than idle.
func NewVisitorPruneTask(limiter VisitorPruner, idle time.Duration, log *slog.Logger) TaskFunc {
	log = log.With(logger.Scope("scheduler.visitor_prune"))
	return func(ctx context.Context) error {
		if n := limiter.Prune(idle); n > 0 {
			log.Debug("pruned idle contact form clients", slog.Int("removed", n))
		}
		return nil
	}
}
