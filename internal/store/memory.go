package store

import (
	"bytes"
	"sync"

	"creg/internal/registry"
)

// MemoryStore keeps collections in memory. It is used by tests and by the
// "memory" store type, which forgets everything when the process exits.
// This implementation is safe for concurrent use.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[registry.Collection][]byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[registry.Collection][]byte)}
}

// Get returns a copy of the stored value.
func (m *MemoryStore) Get(key registry.Collection) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.collections[key]
	if !ok {
		return nil, false, nil
	}
	return bytes.Clone(value), true, nil
}

// Set stores copies of every entry under one lock.
func (m *MemoryStore) Set(entries ...registry.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, e := range entries {
		m.collections[e.Key] = bytes.Clone(e.Value)
	}
	return nil
}

// Close is a no-op.
func (m *MemoryStore) Close() error {
	return nil
}

var _ registry.Store = (*MemoryStore)(nil)
