package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/buntdb"
)

// Key layout:
//
//	doc:<key>               current record
//	rev:<key>:<%012d rev>   previous records
//	seq:<key>               highest revision issued
const (
	docPrefix = "doc:"
	revPrefix = "rev:"
	seqPrefix = "seq:"
)

// BuntStore keeps documents in an embedded BuntDB file.
type BuntStore struct {
	db           *buntdb.DB
	historyLimit int
	now          func() time.Time
}

// OpenBunt opens (or creates) the BuntDB file at path. ":memory:" is allowed.
func OpenBunt(path string, historyLimit int) (*BuntStore, error) {
	db, err := buntdb.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open buntdb %s: %w", path, err)
	}
	if err := db.SetConfig(buntdb.Config{
		SyncPolicy:           buntdb.Always,
		AutoShrinkPercentage: 100,
		AutoShrinkMinSize:    32 * 1024 * 1024,
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("configure buntdb: %w", err)
	}
	return &BuntStore{db: db, historyLimit: historyLimit, now: time.Now}, nil
}

func revKey(key string, rev int64) string {
	return fmt.Sprintf("%s%s:%012d", revPrefix, key, rev)
}

func revPattern(key string) string {
	return revPrefix + key + ":*"
}

func decodeRecord(val string) (*Record, error) {
	var rec Record
	if err := json.Unmarshal([]byte(val), &rec); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	return &rec, nil
}

func encodeRecord(rec *Record) (string, error) {
	b, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("encode record: %w", err)
	}
	return string(b), nil
}

func (s *BuntStore) Get(ctx context.Context, key string) (*Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var rec *Record
	err := s.db.View(func(tx *buntdb.Tx) error {
		val, err := tx.Get(docPrefix + key)
		if err != nil {
			return err
		}
		rec, err = decodeRecord(val)
		return err
	})
	if errors.Is(err, buntdb.ErrNotFound) {
		return nil, ErrNotFound
	}
	return rec, err
}

func (s *BuntStore) Put(ctx context.Context, key string, data json.RawMessage, opts PutOptions) (*Record, error) {
	if err := validKey(key); err != nil {
		return nil, err
	}
	if err := validJSON(data); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var rec *Record
	err := s.db.Update(func(tx *buntdb.Tx) error {
		last, err := lastRevision(tx, key)
		if err != nil {
			return err
		}

		if prev, err := tx.Get(docPrefix + key); err == nil {
			old, err := decodeRecord(prev)
			if err != nil {
				return err
			}
			if _, _, err := tx.Set(revKey(key, old.Revision), prev, nil); err != nil {
				return err
			}
		} else if !errors.Is(err, buntdb.ErrNotFound) {
			return err
		}

		rec = &Record{
			Key:           key,
			SchemaVersion: opts.SchemaVersion,
			Revision:      last + 1,
			Data:          data,
			UpdatedAt:     s.now().UTC(),
			UpdatedBy:     opts.Actor,
		}
		val, err := encodeRecord(rec)
		if err != nil {
			return err
		}
		if _, _, err := tx.Set(docPrefix+key, val, nil); err != nil {
			return err
		}
		if _, _, err := tx.Set(seqPrefix+key, strconv.FormatInt(rec.Revision, 10), nil); err != nil {
			return err
		}
		_, err = trimHistory(tx, key, s.historyLimit)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("put %s: %w", key, err)
	}
	return rec, nil
}

// lastRevision is the highest revision ever issued for key.
func lastRevision(tx *buntdb.Tx, key string) (int64, error) {
	val, err := tx.Get(seqPrefix + key)
	if errors.Is(err, buntdb.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(val, 10, 64)
}

// trimHistory keeps the newest keep revisions of key.
func trimHistory(tx *buntdb.Tx, key string, keep int) (int, error) {
	var stale []string
	n := 0
	err := tx.DescendKeys(revPattern(key), func(k, _ string) bool {
		n++
		if n > keep {
			stale = append(stale, k)
		}
		return true
	})
	if err != nil {
		return 0, err
	}
	for _, k := range stale {
		if _, err := tx.Delete(k); err != nil && !errors.Is(err, buntdb.ErrNotFound) {
			return 0, err
		}
	}
	return len(stale), nil
}

func (s *BuntStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := s.db.Update(func(tx *buntdb.Tx) error {
		val, err := tx.Delete(docPrefix + key)
		if err != nil {
			return err
		}
		rec, err := decodeRecord(val)
		if err != nil {
			return err
		}
		if _, _, err := tx.Set(revKey(key, rec.Revision), val, nil); err != nil {
			return err
		}
		_, err = trimHistory(tx, key, s.historyLimit)
		return err
	})
	if errors.Is(err, buntdb.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

func (s *BuntStore) List(ctx context.Context) ([]Meta, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []Meta
	err := s.db.View(func(tx *buntdb.Tx) error {
		var decodeErr error
		err := tx.AscendKeys(docPrefix+"*", func(_, val string) bool {
			rec, err := decodeRecord(val)
			if err != nil {
				decodeErr = err
				return false
			}
			out = append(out, rec.Meta())
			return true
		})
		if err != nil {
			return err
		}
		return decodeErr
	})
	return out, err
}

func (s *BuntStore) History(ctx context.Context, key string) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []Record
	err := s.db.View(func(tx *buntdb.Tx) error {
		var decodeErr error
		err := tx.DescendKeys(revPattern(key), func(_, val string) bool {
			rec, err := decodeRecord(val)
			if err != nil {
				decodeErr = err
				return false
			}
			out = append(out, *rec)
			return true
		})
		if err != nil {
			return err
		}
		return decodeErr
	})
	return out, err
}

func (s *BuntStore) Revision(ctx context.Context, key string, revision int64) (*Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var rec *Record
	err := s.db.View(func(tx *buntdb.Tx) error {
		val, err := tx.Get(revKey(key, revision))
		if errors.Is(err, buntdb.ErrNotFound) {
			cur, cerr := tx.Get(docPrefix + key)
			if cerr != nil {
				return cerr
			}
			r, derr := decodeRecord(cur)
			if derr != nil {
				return derr
			}
			if r.Revision != revision {
				return buntdb.ErrNotFound
			}
			rec = r
			return nil
		}
		if err != nil {
			return err
		}
		rec, err = decodeRecord(val)
		return err
	})
	if errors.Is(err, buntdb.ErrNotFound) {
		return nil, ErrNotFound
	}
	return rec, err
}

func (s *BuntStore) Prune(ctx context.Context, keep int) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	removed := 0
	err := s.db.Update(func(tx *buntdb.Tx) error {
		keys := map[string]struct{}{}
		err := tx.AscendKeys(revPrefix+"*", func(k, _ string) bool {
			rest := strings.TrimPrefix(k, revPrefix)
			if i := strings.LastIndexByte(rest, ':'); i > 0 {
				keys[rest[:i]] = struct{}{}
			}
			return true
		})
		if err != nil {
			return err
		}
		for key := range keys {
			n, err := trimHistory(tx, key, keep)
			if err != nil {
				return err
			}
			removed += n
		}
		return nil
	})
	return removed, err
}

func (s *BuntStore) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.View(func(tx *buntdb.Tx) error {
		_, err := tx.Len()
		return err
	})
}

// Close flushes and closes the file.
func (s *BuntStore) Close() error {
	return s.db.Close()
}
