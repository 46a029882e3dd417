package testutil

import (
	"errors"
	"sync"

	"creg/internal/encryption"
	"creg/internal/registry"
	"creg/internal/store"
)

// NewTestStore creates an empty in-memory store.
func NewTestStore() *store.MemoryStore {
	return store.NewMemoryStore()
}

// NewTestSealedStore creates an in-memory store sealed with the test
// encryptor.
func NewTestSealedStore() *store.SealedStore {
	enc := encryption.NewTestEncryptor()
	dec, _ := enc.Unlock("")
	return store.NewSealedStore(store.NewMemoryStore(), enc, dec)
}

// ErrStoreFailure is returned by a FailingStore once it is armed.
var ErrStoreFailure = errors.New("injected store failure")

// FailingStore wraps a Store and fails reads or writes on demand. It also
// counts Set calls so tests can assert how many writes an operation made.
type FailingStore struct {
	registry.Store

	mu       sync.Mutex
	failGet  bool
	failSet  bool
	setCalls [][]registry.Collection
}

func NewFailingStore(inner registry.Store) *FailingStore {
	return &FailingStore{Store: inner}
}

// FailGets makes every following Get fail.
func (s *FailingStore) FailGets(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failGet = fail
}

// FailSets makes every following Set fail without writing.
func (s *FailingStore) FailSets(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failSet = fail
}

// SetCalls returns the collection keys written by each successful Set.
func (s *FailingStore) SetCalls() [][]registry.Collection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([][]registry.Collection(nil), s.setCalls...)
}

func (s *FailingStore) Get(key registry.Collection) ([]byte, bool, error) {
	s.mu.Lock()
	fail := s.failGet
	s.mu.Unlock()
	if fail {
		return nil, false, ErrStoreFailure
	}
	return s.Store.Get(key)
}

func (s *FailingStore) Set(entries ...registry.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failSet {
		return ErrStoreFailure
	}
	if err := s.Store.Set(entries...); err != nil {
		return err
	}
	keys := make([]registry.Collection, len(entries))
	for i, e := range entries {
		keys[i] = e.Key
	}
	s.setCalls = append(s.setCalls, keys)
	return nil
}
