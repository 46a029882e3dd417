package registry

import "time"

// MinFileURLLength is the exclusive lower bound on a content file URL length.
// URLs of this length or shorter are rejected.
const MinFileURLLength = 10

// Creator is the profile registered under a wallet identifier.
type Creator struct {
	Username    string  `cbor:"username"`
	Email       string  `cbor:"email"`
	SocialLinks *string `cbor:"social_links,omitempty"`
}

// RegisteredCreator pairs a Creator with the wallet it is registered under.
type RegisteredCreator struct {
	WalletID string
	Creator  Creator
}

// ContentItem is a piece of published content. Items are held in insertion
// order per creator; Title is used as a lookup key but is not unique.
type ContentItem struct {
	Title         string `cbor:"title"`
	Description   string `cbor:"description"`
	FileURL       string `cbor:"file_url"`
	Authenticated bool   `cbor:"authenticated"`
}

// VersionRecord is an immutable snapshot of a ContentItem taken immediately
// before it was updated.
type VersionRecord struct {
	Title       string    `cbor:"title"`
	Description string    `cbor:"description"`
	FileURL     string    `cbor:"file_url"`
	Timestamp   time.Time `cbor:"timestamp"`
}

// DeletionRecord is an immutable snapshot of a ContentItem taken immediately
// before it was unpublished.
type DeletionRecord struct {
	Title       string    `cbor:"title"`
	Description string    `cbor:"description"`
	Timestamp   time.Time `cbor:"timestamp"`
}

// isAuthenticURL reports whether a file URL is long enough to be accepted.
func isAuthenticURL(fileURL string) bool {
	return len(fileURL) > MinFileURLLength
}

// indexOfTitle returns the position of the first item with the given title,
// or -1.
func indexOfTitle(items []ContentItem, title string) int {
	for i, item := range items {
		if item.Title == title {
			return i
		}
	}
	return -1
}
