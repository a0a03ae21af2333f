package storage

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	bolt "go.etcd.io/bbolt"
)

const (
	notificationBucket = "notifications"
	expiryValueBytes   = 8
)

var errBucketMissing = errors.New("notification bucket missing")

// boltStore keeps notification keys in BoltDB, each valued with its expiry
// as big-endian unix seconds.
type boltStore struct {
	db              *bolt.DB
	cleanupMu       sync.Mutex
	lastCleanup     atomic.Int64
	keyTTL          time.Duration
	cleanupInterval time.Duration
	now             func() time.Time
}

func openBolt(path string, opts Options) (*boltStore, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bbolt db: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(notificationBucket))
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("init bucket: %w", err)
	}

	store := &boltStore{
		db:              db,
		keyTTL:          opts.KeyTTL,
		cleanupInterval: opts.CleanupInterval,
		now:             time.Now,
	}
	store.lastCleanup.Store(store.now().Unix())
	return store, nil
}

func (b *boltStore) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

// Seen reports whether key was marked and has not expired. Expired entries
// are removed on sight.
func (b *boltStore) Seen(key string) (bool, error) {
	if b == nil || b.db == nil {
		return false, nil
	}
	now := b.now()
	if err := b.maybeCleanupExpired(now); err != nil {
		return false, err
	}

	var live bool
	err := b.update(func(bucket *bolt.Bucket) error {
		value := bucket.Get([]byte(key))
		if value == nil {
			return nil
		}
		if expiry, ok := decodeExpiry(value); ok && expiry.After(now) {
			live = true
			return nil
		}
		return bucket.Delete([]byte(key))
	})
	return live, err
}

// Mark records key as sent until the TTL elapses.
func (b *boltStore) Mark(key string) error {
	if b == nil || b.db == nil {
		return nil
	}
	now := b.now()
	if err := b.maybeCleanupExpired(now); err != nil {
		return err
	}
	return b.update(func(bucket *bolt.Bucket) error {
		return bucket.Put([]byte(key), encodeExpiry(now.Add(b.keyTTL)))
	})
}

// maybeCleanupExpired sweeps expired keys at most once per cleanup interval.
func (b *boltStore) maybeCleanupExpired(now time.Time) error {
	if !b.cleanupDue(now) {
		return nil
	}

	b.cleanupMu.Lock()
	defer b.cleanupMu.Unlock()
	if !b.cleanupDue(now) {
		return nil
	}

	err := b.update(func(bucket *bolt.Bucket) error {
		cursor := bucket.Cursor()
		for k, v := cursor.First(); k != nil; k, v = cursor.Next() {
			if expiry, ok := decodeExpiry(v); ok && expiry.After(now) {
				continue
			}
			if err := cursor.Delete(); err != nil {
				return err
			}
		}
		return nil
	})
	if err == nil {
		b.lastCleanup.Store(now.Unix())
	}
	return err
}

func (b *boltStore) cleanupDue(now time.Time) bool {
	return now.Sub(time.Unix(b.lastCleanup.Load(), 0)) >= b.cleanupInterval
}

func (b *boltStore) update(fn func(*bolt.Bucket) error) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(notificationBucket))
		if bucket == nil {
			return errBucketMissing
		}
		return fn(bucket)
	})
}

func encodeExpiry(t time.Time) []byte {
	buf := make([]byte, expiryValueBytes)
	binary.BigEndian.PutUint64(buf, uint64(t.Unix()))
	return buf
}

func decodeExpiry(value []byte) (time.Time, bool) {
	if len(value) != expiryValueBytes {
		return time.Time{}, false
	}
	unix := int64(binary.BigEndian.Uint64(value))
	if unix <= 0 {
		return time.Time{}, false
	}
	return time.Unix(unix, 0), true
}
