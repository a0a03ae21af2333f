package storage

import (
	"sync"
	"time"
)

// memoryStore keeps keys for the life of the process.
type memoryStore struct {
	mu     sync.Mutex
	expiry map[string]time.Time
	ttl    time.Duration
	now    func() time.Time
}

func newMemoryStore(opts Options) *memoryStore {
	return &memoryStore{
		expiry: make(map[string]time.Time),
		ttl:    opts.KeyTTL,
		now:    time.Now,
	}
}

func (m *memoryStore) Close() error { return nil }

func (m *memoryStore) Seen(key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	exp, ok := m.expiry[key]
	if !ok {
		return false, nil
	}
	if !exp.After(m.now()) {
		delete(m.expiry, key)
		return false, nil
	}
	return true, nil
}

func (m *memoryStore) Mark(key string) error {
	m.mu.Lock()
	m.expiry[key] = m.now().Add(m.ttl)
	m.mu.Unlock()
	return nil
}
