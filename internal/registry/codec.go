package registry

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	opts := cbor.CanonicalEncOptions()
	opts.Time = cbor.TimeRFC3339Nano
	var err error
	encMode, err = opts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("building cbor encoder: %v", err))
	}
	decMode, err = cbor.DecOptions{}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("building cbor decoder: %v", err))
	}
}

// loadCollection reads and decodes one collection. A collection that has
// never been written decodes to an empty, non-nil map.
func loadCollection[V any](store Store, key Collection) (map[string]V, error) {
	raw, found, err := store.Get(key)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", key, err)
	}
	out := make(map[string]V)
	if !found || len(raw) == 0 {
		return out, nil
	}
	if err := decMode.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", key, err)
	}
	if out == nil {
		out = make(map[string]V)
	}
	return out, nil
}

// encodeCollection encodes a collection into an Entry ready for Store.Set.
func encodeCollection[V any](key Collection, value map[string]V) (Entry, error) {
	raw, err := encMode.Marshal(value)
	if err != nil {
		return Entry{}, fmt.Errorf("encoding %s: %w", key, err)
	}
	return Entry{Key: key, Value: raw}, nil
}
