package docstore

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/buntdb"
)

func newMemStore(t *testing.T, historyLimit int) *BuntStore {
	t.Helper()
	s, err := OpenBunt(":memory:", historyLimit)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func put(t *testing.T, s Store, key, data string) *Record {
	t.Helper()
	rec, err := s.Put(context.Background(), key, json.RawMessage(data), PutOptions{SchemaVersion: 1, Actor: "test"})
	require.NoError(t, err)
	return rec
}

func TestBunt_SyncsEveryWrite(t *testing.T) {
	s, err := OpenBunt(filepath.Join(t.TempDir(), "content.db"), 5)
	require.NoError(t, err)
	defer s.Close()

	var cfg buntdb.Config
	require.NoError(t, s.db.ReadConfig(&cfg))
	assert.Equal(t, buntdb.SyncPolicy(buntdb.Always), cfg.SyncPolicy)
}

func TestBunt_GetMissing(t *testing.T) {
	s := newMemStore(t, 5)
	_, err := s.Get(context.Background(), "techsafi_home_config")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBunt_PutGetRoundTrip(t *testing.T) {
	s := newMemStore(t, 5)
	ctx := context.Background()

	put(t, s, "techsafi_careers_config", `{"notice":{"isActive":false}}`)

	rec, err := s.Get(ctx, "techsafi_careers_config")
	require.NoError(t, err)
	assert.JSONEq(t, `{"notice":{"isActive":false}}`, string(rec.Data))
	assert.Equal(t, int64(1), rec.Revision)
	assert.Equal(t, 1, rec.SchemaVersion)
	assert.Equal(t, "test", rec.UpdatedBy)
	assert.False(t, rec.UpdatedAt.IsZero())
}

func TestBunt_RevisionsAndHistory(t *testing.T) {
	s := newMemStore(t, 5)
	ctx := context.Background()

	put(t, s, "k", `{"v":1}`)
	put(t, s, "k", `{"v":2}`)
	last := put(t, s, "k", `{"v":3}`)
	assert.Equal(t, int64(3), last.Revision)

	hist, err := s.History(ctx, "k")
	require.NoError(t, err)
	require.Len(t, hist, 2)
	assert.Equal(t, int64(2), hist[0].Revision, "history is newest first")
	assert.JSONEq(t, `{"v":1}`, string(hist[1].Data))

	rev, err := s.Revision(ctx, "k", 1)
	require.NoError(t, err)
	assert.JSONEq(t, `{"v":1}`, string(rev.Data))

	cur, err := s.Revision(ctx, "k", 3)
	require.NoError(t, err)
	assert.JSONEq(t, `{"v":3}`, string(cur.Data))

	_, err = s.Revision(ctx, "k", 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBunt_HistoryLimit(t *testing.T) {
	s := newMemStore(t, 2)
	ctx := context.Background()

	for i := 0; i < 6; i++ {
		put(t, s, "k", `{}`)
	}

	hist, err := s.History(ctx, "k")
	require.NoError(t, err)
	require.Len(t, hist, 2)
	assert.Equal(t, int64(5), hist[0].Revision)
	assert.Equal(t, int64(4), hist[1].Revision)
}

func TestBunt_DeleteKeepsHistoryAndNumbering(t *testing.T) {
	s := newMemStore(t, 5)
	ctx := context.Background()

	put(t, s, "k", `{"v":1}`)
	require.NoError(t, s.Delete(ctx, "k"))

	_, err := s.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)

	hist, err := s.History(ctx, "k")
	require.NoError(t, err)
	require.Len(t, hist, 1)

	rec := put(t, s, "k", `{"v":2}`)
	assert.Equal(t, int64(2), rec.Revision, "revision numbering continues after a reset")

	assert.ErrorIs(t, s.Delete(ctx, "missing"), ErrNotFound)
}

func TestBunt_KeysDoNotBleed(t *testing.T) {
	s := newMemStore(t, 5)
	ctx := context.Background()

	put(t, s, "techsafi_contact_config", `{"a":1}`)
	put(t, s, "techsafi_contact_config", `{"a":2}`)
	put(t, s, "techsafi_contact_config_extra", `{"b":1}`)
	put(t, s, "techsafi_contact_config_extra", `{"b":2}`)

	hist, err := s.History(ctx, "techsafi_contact_config")
	require.NoError(t, err)
	require.Len(t, hist, 1)
	assert.Equal(t, "techsafi_contact_config", hist[0].Key)
}

func TestBunt_List(t *testing.T) {
	s := newMemStore(t, 5)

	put(t, s, "b", `[1,2]`)
	put(t, s, "a", `{}`)

	metas, err := s.List(context.Background())
	require.NoError(t, err)
	require.Len(t, metas, 2)
	assert.Equal(t, "a", metas[0].Key)
	assert.Equal(t, 5, metas[1].Size)
}

func TestBunt_Prune(t *testing.T) {
	s := newMemStore(t, 10)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		put(t, s, "a", `{}`)
		put(t, s, "b", `{}`)
	}

	removed, err := s.Prune(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 4, removed)

	hist, err := s.History(ctx, "a")
	require.NoError(t, err)
	assert.Len(t, hist, 1)
}

func TestBunt_RejectsBadInput(t *testing.T) {
	s := newMemStore(t, 5)
	ctx := context.Background()

	_, err := s.Put(ctx, "", json.RawMessage(`{}`), PutOptions{})
	assert.Error(t, err)

	_, err = s.Put(ctx, "bad:key", json.RawMessage(`{}`), PutOptions{})
	assert.Error(t, err)

	_, err = s.Put(ctx, "k", json.RawMessage(`{not json`), PutOptions{})
	assert.Error(t, err)
}

func TestBunt_CanceledContext(t *testing.T) {
	s := newMemStore(t, 5)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Get(ctx, "k")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBunt_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "content.db")

	s, err := OpenBunt(path, 5)
	require.NoError(t, err)
	put(t, s, "k", `{"v":"kept"}`)
	require.NoError(t, s.Close())

	s, err = OpenBunt(path, 5)
	require.NoError(t, err)
	defer s.Close()

	rec, err := s.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.JSONEq(t, `{"v":"kept"}`, string(rec.Data))
}

func TestInstrument_PassesThrough(t *testing.T) {
	s := Instrument(newMemStore(t, 5), "bunt")
	ctx := context.Background()

	put(t, s, "k", `{"x":true}`)
	rec, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.JSONEq(t, `{"x":true}`, string(rec.Data))

	_, err = s.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, s.Ping(ctx))
}
