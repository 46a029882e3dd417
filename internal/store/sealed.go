package store

import (
	"errors"
	"fmt"

	"creg/internal/encryption"
	"creg/internal/registry"
)

// ErrLocked is returned when a sealed store is read without a decryption
// context.
var ErrLocked = errors.New("sealed store is locked")

// SealedStore encrypts every collection before handing it to the wrapped
// store and decrypts it on the way back. Writes only need the public key;
// reads need the private key unlocked with the passphrase.
type SealedStore struct {
	inner registry.Store
	enc   encryption.Encryptor
	dec   encryption.DecryptionContext
}

// NewSealedStore wraps inner. dec may be nil for a write-only store; reads
// then fail with ErrLocked.
func NewSealedStore(inner registry.Store, enc encryption.Encryptor, dec encryption.DecryptionContext) *SealedStore {
	return &SealedStore{inner: inner, enc: enc, dec: dec}
}

func (s *SealedStore) Get(key registry.Collection) ([]byte, bool, error) {
	sealed, found, err := s.inner.Get(key)
	if err != nil || !found {
		return nil, found, err
	}
	if s.dec == nil {
		return nil, false, fmt.Errorf("reading %s: %w", key, ErrLocked)
	}
	plain, err := encryption.Open(s.dec, sealed)
	if err != nil {
		return nil, false, fmt.Errorf("reading %s: %w", key, err)
	}
	return plain, true, nil
}

// Set seals every entry first and writes them in one call to the wrapped
// store, keeping its atomicity.
func (s *SealedStore) Set(entries ...registry.Entry) error {
	sealed := make([]registry.Entry, len(entries))
	for i, e := range entries {
		value, err := encryption.Seal(s.enc, e.Value)
		if err != nil {
			return fmt.Errorf("writing %s: %w", e.Key, err)
		}
		sealed[i] = registry.Entry{Key: e.Key, Value: value}
	}
	return s.inner.Set(sealed...)
}

func (s *SealedStore) Close() error {
	return s.inner.Close()
}

var _ registry.Store = (*SealedStore)(nil)
