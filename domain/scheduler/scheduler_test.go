package scheduler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mastermind-creat/techsafi/domain/content"
	"github.com/mastermind-creat/techsafi/domain/events"
	"github.com/mastermind-creat/techsafi/internal/docstore"
	"github.com/mastermind-creat/techsafi/internal/storage"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newContent(t *testing.T) (*content.Service, docstore.Store) {
	t.Helper()
	store, err := docstore.OpenBunt(":memory:", 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return content.NewService(store, events.NewService(testLogger()), testLogger()), store
}

func TestScheduler_AddAndList(t *testing.T) {
	s := NewScheduler(&Config{}, testLogger())
	noop := func(context.Context) error { return nil }

	assert.Empty(t, s.ListTasks())
	require.NoError(t, s.AddCronTask("b", "0 0 3 * * *", noop))
	require.NoError(t, s.AddIntervalTask("a", time.Hour, noop))
	assert.Equal(t, []string{"a", "b"}, s.ListTasks())

	// Re-adding replaces the task.
	require.NoError(t, s.AddIntervalTask("a", 2*time.Hour, noop))
	info := s.GetTaskInfo()
	require.Len(t, info, 2)
	assert.Equal(t, "@every 2h0m0s", info[0].Schedule)
	assert.Equal(t, "0 0 3 * * *", info[1].Schedule)

	s.RemoveTask("a")
	assert.Equal(t, []string{"b"}, s.ListTasks())
}

func TestScheduler_RejectsBadSchedules(t *testing.T) {
	s := NewScheduler(&Config{}, testLogger())
	noop := func(context.Context) error { return nil }

	assert.Error(t, s.AddCronTask("bad", "every tuesday", noop))
	assert.Error(t, s.AddIntervalTask("zero", 0, noop))
	assert.Empty(t, s.ListTasks())
}

func TestScheduler_RunNowRecordsOutcome(t *testing.T) {
	s := NewScheduler(&Config{TaskTimeout: time.Second}, testLogger())

	fail := true
	require.NoError(t, s.AddIntervalTask("flaky", time.Hour, func(ctx context.Context) error {
		_, hasDeadline := ctx.Deadline()
		assert.True(t, hasDeadline)
		if fail {
			return errors.New("boom")
		}
		return nil
	}))

	assert.EqualError(t, s.RunNow(context.Background(), "flaky"), "boom")
	info := s.GetTaskInfo()[0]
	assert.Equal(t, 1, info.Runs)
	assert.Equal(t, 1, info.Failures)
	assert.Equal(t, "boom", info.LastError)
	assert.False(t, info.LastRun.IsZero())

	fail = false
	require.NoError(t, s.RunNow(context.Background(), "flaky"))
	info = s.GetTaskInfo()[0]
	assert.Equal(t, 2, info.Runs)
	assert.Empty(t, info.LastError)

	assert.Error(t, s.RunNow(context.Background(), "missing"))
}

func TestScheduler_StartStop(t *testing.T) {
	s := NewScheduler(&Config{}, testLogger())
	assert.False(t, s.IsRunning())

	require.NoError(t, s.Start(context.Background()))
	assert.True(t, s.IsRunning())
	require.NoError(t, s.Start(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))
	assert.False(t, s.IsRunning())
	require.NoError(t, s.Stop(ctx))
}

func TestExpired(t *testing.T) {
	names := []string{"content-20260103T000000Z.json", "content-20260101T000000Z.json", "content-20260102T000000Z.json"}

	assert.Equal(t, []string{"content-20260101T000000Z.json"}, expired(names, 2))
	assert.Nil(t, expired(names, 3))
	assert.Nil(t, expired(names, 0))
}

func TestSnapshotTask_LocalDir(t *testing.T) {
	svc, _ := newContent(t)
	ctx := context.Background()
	require.NoError(t, content.For(svc, content.Pricing).Save(ctx, []content.PricingPlan{{ID: "p1", Name: "Starter", Category: content.PricingWeb, DisplayOrder: 1}}, "admin"))

	dir := t.TempDir()
	task := NewSnapshotTask(svc, nil, &Config{SnapshotDir: dir, SnapshotKeep: 2}, testLogger())

	at := time.Date(2026, 1, 1, 3, 0, 0, 0, time.UTC)
	task.now = func() time.Time { return at }
	for i := 0; i < 3; i++ {
		require.NoError(t, task.Run(ctx))
		at = at.Add(24 * time.Hour)
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.Equal(t, []string{"content-20260102T030000Z.json", "content-20260103T030000Z.json"}, names)

	raw, err := os.ReadFile(filepath.Join(dir, names[1]))
	require.NoError(t, err)
	var b content.Bundle
	require.NoError(t, json.Unmarshal(raw, &b))
	require.Len(t, b.Documents, 1)
	assert.Equal(t, content.DomainPricing, b.Documents[0].Domain)
}

type memObjects struct {
	mu      sync.Mutex
	enabled bool
	objects map[string][]byte
}

func (m *memObjects) Enabled() bool { return m.enabled }

func (m *memObjects) Upload(_ context.Context, key string, data io.Reader, size int64, _ storage.UploadOptions) (*storage.UploadResult, error) {
	b, err := io.ReadAll(data)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = b
	return &storage.UploadResult{Key: key, Size: size}, nil
}

func (m *memObjects) Download(_ context.Context, key string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.objects[key]
	if !ok {
		return nil, os.ErrNotExist
	}
	return io.NopCloser(strings.NewReader(string(b))), nil
}

func (m *memObjects) List(_ context.Context, prefix string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var keys []string
	for k := range m.objects {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (m *memObjects) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

func TestSnapshotTask_ObjectStore(t *testing.T) {
	svc, _ := newContent(t)
	ctx := context.Background()
	objects := &memObjects{enabled: true, objects: map[string][]byte{
		"media/2026/01/x-logo.png": []byte("png"),
	}}

	dir := t.TempDir()
	task := NewSnapshotTask(svc, objects, &Config{SnapshotDir: dir, SnapshotKeep: 1}, testLogger())
	at := time.Date(2026, 1, 1, 3, 0, 0, 0, time.UTC)
	task.now = func() time.Time { return at }

	require.NoError(t, task.Run(ctx))
	at = at.Add(time.Hour)
	require.NoError(t, task.Run(ctx))

	keys, err := objects.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"media/2026/01/x-logo.png", "snapshots/content-20260101T040000Z.json"}, keys)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSnapshotTask_RestoreLocal(t *testing.T) {
	svc, _ := newContent(t)
	ctx := context.Background()
	acc := content.For(svc, content.Pricing)
	require.NoError(t, acc.Save(ctx, []content.PricingPlan{{ID: "p1", Name: "Starter", Category: content.PricingWeb, DisplayOrder: 1}}, "admin"))

	task := NewSnapshotTask(svc, nil, &Config{SnapshotDir: t.TempDir(), SnapshotKeep: 5}, testLogger())
	_, _, err := task.Restore(ctx, "", "admin")
	assert.ErrorContains(t, err, "no snapshots")

	task.now = func() time.Time { return time.Date(2026, 2, 1, 3, 0, 0, 0, time.UTC) }
	require.NoError(t, task.Run(ctx))

	require.NoError(t, acc.Save(ctx, []content.PricingPlan{}, "admin"))

	names, err := task.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"content-20260201T030000Z.json"}, names)

	name, n, err := task.Restore(ctx, "", "admin")
	require.NoError(t, err)
	assert.Equal(t, names[0], name)
	assert.Equal(t, 1, n)

	plans, err := acc.Fetch(ctx)
	require.NoError(t, err)
	require.Len(t, plans, 1)
	assert.Equal(t, "Starter", plans[0].Name)
}

func TestSnapshotTask_RestoreFromObjectStore(t *testing.T) {
	svc, _ := newContent(t)
	ctx := context.Background()
	acc := content.For(svc, content.Careers)

	careers, err := acc.Fetch(ctx)
	require.NoError(t, err)
	careers.Notice.IsActive = false
	require.NoError(t, acc.Save(ctx, careers, "admin"))

	objects := &memObjects{enabled: true, objects: map[string][]byte{}}
	task := NewSnapshotTask(svc, objects, &Config{SnapshotDir: t.TempDir(), SnapshotKeep: 5}, testLogger())
	require.NoError(t, task.Run(ctx))

	careers.Notice.IsActive = true
	require.NoError(t, acc.Save(ctx, careers, "admin"))

	names, err := task.List(ctx)
	require.NoError(t, err)
	require.Len(t, names, 1)

	_, n, err := task.Restore(ctx, storage.SnapshotPrefix+"/"+names[0], "admin")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := acc.Fetch(ctx)
	require.NoError(t, err)
	assert.False(t, got.Notice.IsActive)

	_, _, err = task.Restore(ctx, "content-missing.json", "admin")
	assert.Error(t, err)
}

func TestPruneHistoryTask(t *testing.T) {
	svc, store := newContent(t)
	ctx := context.Background()
	acc := content.For(svc, content.Careers)

	for i := 0; i < 5; i++ {
		_, err := acc.Mutate(ctx, "admin", func(c *content.CareersConfig) error {
			c.Notice.IsActive = !c.Notice.IsActive
			return nil
		})
		require.NoError(t, err)
	}
	before, err := svc.History(ctx, content.DomainCareers)
	require.NoError(t, err)
	require.Greater(t, len(before), 2)

	require.NoError(t, NewPruneHistoryTask(store, 2, testLogger()).Run(ctx))

	after, err := svc.History(ctx, content.DomainCareers)
	require.NoError(t, err)
	assert.Len(t, after, 2)
}

type countingPruner struct{ idle time.Duration }

func (c *countingPruner) Prune(idle time.Duration) int {
	c.idle = idle
	return 3
}

func TestVisitorPruneTask(t *testing.T) {
	p := &countingPruner{}
	require.NoError(t, NewVisitorPruneTask(p, 10*time.Minute, testLogger())(context.Background()))
	assert.Equal(t, 10*time.Minute, p.idle)
}
