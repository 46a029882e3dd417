package store

import (
	"fmt"
	"sync"

	"github.com/fxamacker/cbor/v2"

	"creg/internal/registry"
)

// blob is a single object holding every collection. Replacing it is the
// only write a blob backend performs, which makes a multi-entry Set atomic
// on storage that has no transactions.
type blob interface {
	// load returns the current object; found is false if it was never written.
	load() (data []byte, found bool, err error)
	// save replaces the object in one step.
	save(data []byte) error
}

// snapshot is the CBOR document stored in a blob.
type snapshot map[registry.Collection][]byte

var snapshotEnc cbor.EncMode

func init() {
	var err error
	snapshotEnc, err = cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("building cbor encoder: %v", err))
	}
}

// snapshotStore implements registry.Store on top of a blob with
// read-modify-write under a mutex.
type snapshotStore struct {
	mu   sync.Mutex
	blob blob
}

func (s *snapshotStore) Get(key registry.Collection) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.read()
	if err != nil {
		return nil, false, err
	}
	value, ok := snap[key]
	return value, ok, nil
}

func (s *snapshotStore) Set(entries ...registry.Entry) error {
	if len(entries) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.read()
	if err != nil {
		return err
	}
	for _, e := range entries {
		snap[e.Key] = e.Value
	}

	data, err := snapshotEnc.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	if err := s.blob.save(data); err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}
	return nil
}

func (s *snapshotStore) read() (snapshot, error) {
	data, found, err := s.blob.load()
	if err != nil {
		return nil, fmt.Errorf("loading snapshot: %w", err)
	}
	snap := make(snapshot)
	if !found {
		return snap, nil
	}
	if err := cbor.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	if snap == nil {
		snap = make(snapshot)
	}
	return snap, nil
}
