package storage

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"
)

var (
	historyBucket = []byte("invocations")
	errNoBucket   = errors.New("history bucket missing")
)

// expiryPrefix is the size of the big-endian unix expiry stored before each JSON entry.
const expiryPrefix = 8

// boltStore keeps invocation history in a single BoltDB bucket keyed by invocation ID.
// Expired records are hidden on read and swept on write at most once per sweepEvery.
type boltStore struct {
	db         *bolt.DB
	ttl        time.Duration
	sweepEvery time.Duration
	now        func() time.Time

	mu        sync.Mutex
	lastSweep time.Time
}

func openBolt(opts Options) (Store, error) {
	if dir := filepath.Dir(opts.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage directory: %w", err)
		}
	}

	db, err := bolt.Open(opts.Path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bbolt db: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(historyBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create history bucket: %w", err)
	}

	store := &boltStore{
		db:         db,
		ttl:        opts.EntryTTL,
		sweepEvery: opts.CleanupInterval,
		now:        time.Now,
	}
	store.lastSweep = store.now()
	return store, nil
}

func history(tx *bolt.Tx) (*bolt.Bucket, error) {
	if b := tx.Bucket(historyBucket); b != nil {
		return b, nil
	}
	return nil, errNoBucket
}

func (b *boltStore) Close() error {
	return b.db.Close()
}

// Record stores entry under its ID. Re-recording an ID replaces it and resets its expiry.
func (b *boltStore) Record(entry Entry) error {
	if entry.ID == "" {
		return errors.New("entry id is empty")
	}

	now := b.now()
	if err := b.sweep(now); err != nil {
		return fmt.Errorf("sweep expired entries: %w", err)
	}

	value, err := encodeEntry(entry, now.Add(b.ttl))
	if err != nil {
		return err
	}
	return b.db.Update(func(tx *bolt.Tx) error {
		bucket, err := history(tx)
		if err != nil {
			return err
		}
		return bucket.Put([]byte(entry.ID), value)
	})
}

// Get returns the live entry recorded under id.
func (b *boltStore) Get(id string) (Entry, bool, error) {
	now := b.now()
	var (
		entry Entry
		live  bool
	)
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket, err := history(tx)
		if err != nil {
			return err
		}
		value := bucket.Get([]byte(id))
		if value == nil {
			return nil
		}
		entry, live, err = decodeEntry(value, now)
		return err
	})
	if err != nil || !live {
		return Entry{}, false, err
	}
	return entry, true, nil
}

// Recent returns up to limit live entries ordered by completion time, newest first.
// A non-positive limit returns every live entry.
func (b *boltStore) Recent(limit int) ([]Entry, error) {
	now := b.now()
	var entries []Entry
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket, err := history(tx)
		if err != nil {
			return err
		}
		return bucket.ForEach(func(_, value []byte) error {
			entry, live, err := decodeEntry(value, now)
			if live {
				entries = append(entries, entry)
			}
			return err
		})
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CompletedAt.After(entries[j].CompletedAt)
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// sweep deletes expired records when sweepEvery has elapsed since the last pass.
func (b *boltStore) sweep(now time.Time) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if now.Sub(b.lastSweep) < b.sweepEvery {
		return nil
	}

	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket, err := history(tx)
		if err != nil {
			return err
		}
		c := bucket.Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			if expires, ok := expiryOf(v); ok && expires.After(now) {
				continue
			}
			if err := c.Delete(); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	b.lastSweep = now
	return nil
}

func encodeEntry(entry Entry, expires time.Time) ([]byte, error) {
	payload, err := json.Marshal(entry)
	if err != nil {
		return nil, fmt.Errorf("encode entry %s: %w", entry.ID, err)
	}
	value := make([]byte, expiryPrefix, expiryPrefix+len(payload))
	binary.BigEndian.PutUint64(value, uint64(expires.Unix()))
	return append(value, payload...), nil
}

// decodeEntry reports live=false for expired or truncated values.
func decodeEntry(value []byte, now time.Time) (Entry, bool, error) {
	expires, ok := expiryOf(value)
	if !ok || !expires.After(now) {
		return Entry{}, false, nil
	}
	var entry Entry
	if err := json.Unmarshal(value[expiryPrefix:], &entry); err != nil {
		return Entry{}, false, fmt.Errorf("decode entry: %w", err)
	}
	return entry, true, nil
}

func expiryOf(value []byte) (time.Time, bool) {
	if len(value) < expiryPrefix {
		return time.Time{}, false
	}
	unix := int64(binary.BigEndian.Uint64(value[:expiryPrefix]))
	if unix <= 0 {
		return time.Time{}, false
	}
	return time.Unix(unix, 0), true
}
