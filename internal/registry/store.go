package registry

// Collection names one of the persisted top-level mappings. Every collection
// maps a wallet identifier to a value.
type Collection string

const (
	CollectionCreators        Collection = "creators"
	CollectionContent         Collection = "content"
	CollectionDeletionHistory Collection = "deletion_history"
	CollectionVersionHistory  Collection = "version_history"
)

// Collections lists every collection the registry persists.
var Collections = []Collection{
	CollectionCreators,
	CollectionContent,
	CollectionDeletionHistory,
	CollectionVersionHistory,
}

// Entry is one encoded collection to be written by Store.Set.
type Entry struct {
	Key   Collection
	Value []byte
}

// Store provides durable storage for encoded collections.
// Implementations must be safe for concurrent use.
type Store interface {
	// Get returns the encoded value of a collection.
	// A collection that has never been written is reported with found == false
	// and a nil value; callers treat it as an empty collection.
	Get(key Collection) (value []byte, found bool, err error)

	// Set writes all entries in a single atomic step: either every entry is
	// persisted or none is.
	Set(entries ...Entry) error

	// Close releases any resources held by the store.
	Close() error
}
