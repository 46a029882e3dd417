package registry

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ContentStore owns published content and its version and deletion history.
// It consults the CreatorRegistry only when content is published.
type ContentStore struct {
	store    Store
	creators *CreatorRegistry
	clock    Clock
	logger   Logger
}

// NewContentStore creates a ContentStore backed by store.
func NewContentStore(store Store, creators *CreatorRegistry, clock Clock, logger Logger) *ContentStore {
	return &ContentStore{
		store:    store,
		creators: creators,
		clock:    clock,
		logger:   logger,
	}
}

// Publish appends a new content item to the creator's list.
// The creator must be registered and the file URL must be longer than
// MinFileURLLength bytes.
func (s *ContentStore) Publish(walletID, title, description, fileURL string) error {
	exists, err := s.creators.Exists(walletID)
	if err != nil {
		return fmt.Errorf("publishing %q: %w", title, err)
	}
	if !exists {
		return fmt.Errorf("publishing %q for %s: %w", title, walletID, ErrCreatorNotFound)
	}
	if !isAuthenticURL(fileURL) {
		return fmt.Errorf("publishing %q: %w", title, ErrInvalidURL)
	}

	content, err := loadCollection[[]ContentItem](s.store, CollectionContent)
	if err != nil {
		return err
	}
	content[walletID] = append(content[walletID], ContentItem{
		Title:         title,
		Description:   description,
		FileURL:       fileURL,
		Authenticated: true,
	})

	entry, err := encodeCollection(CollectionContent, content)
	if err != nil {
		return err
	}
	if err := s.store.Set(entry); err != nil {
		return fmt.Errorf("publishing %q: writing content: %w", title, err)
	}

	s.logger.Info("content published", "wallet", walletID, "title", title)
	return nil
}

// Unpublish removes the first item with the given title and records a
// deletion snapshot. The content and deletion history are written together.
func (s *ContentStore) Unpublish(walletID, title string, confirm bool) error {
	if !confirm {
		return fmt.Errorf("unpublishing %q: %w", title, ErrUnconfirmed)
	}

	content, err := loadCollection[[]ContentItem](s.store, CollectionContent)
	if err != nil {
		return err
	}
	items := content[walletID]
	idx := indexOfTitle(items, title)
	if idx < 0 {
		return fmt.Errorf("unpublishing %q for %s: %w", title, walletID, ErrContentNotFound)
	}

	deletions, err := loadCollection[[]DeletionRecord](s.store, CollectionDeletionHistory)
	if err != nil {
		return err
	}
	removed := items[idx]
	deletions[walletID] = append(deletions[walletID], DeletionRecord{
		Title:       removed.Title,
		Description: removed.Description,
		Timestamp:   s.clock.Now(),
	})
	content[walletID] = slices.Delete(slices.Clone(items), idx, idx+1)

	contentEntry, err := encodeCollection(CollectionContent, content)
	if err != nil {
		return err
	}
	deletionEntry, err := encodeCollection(CollectionDeletionHistory, deletions)
	if err != nil {
		return err
	}
	if err := s.store.Set(contentEntry, deletionEntry); err != nil {
		return fmt.Errorf("unpublishing %q: %w", title, err)
	}

	s.logger.Info("content unpublished", "wallet", walletID, "title", title)
	return nil
}

// Update replaces the first item titled oldTitle. A snapshot of the item is
// appended to the version history and persisted before the new URL is
// validated, so a rejected update still leaves its version record behind.
func (s *ContentStore) Update(walletID, oldTitle, newTitle, newDescription, newURL string) error {
	content, err := loadCollection[[]ContentItem](s.store, CollectionContent)
	if err != nil {
		return err
	}
	items := content[walletID]
	idx := indexOfTitle(items, oldTitle)
	if idx < 0 {
		return fmt.Errorf("updating %q for %s: %w", oldTitle, walletID, ErrContentNotFound)
	}

	versions, err := loadCollection[[]VersionRecord](s.store, CollectionVersionHistory)
	if err != nil {
		return err
	}
	current := items[idx]
	versions[walletID] = append(versions[walletID], VersionRecord{
		Title:       current.Title,
		Description: current.Description,
		FileURL:     current.FileURL,
		Timestamp:   s.clock.Now(),
	})
	versionEntry, err := encodeCollection(CollectionVersionHistory, versions)
	if err != nil {
		return err
	}

	if !isAuthenticURL(newURL) {
		if err := s.store.Set(versionEntry); err != nil {
			return fmt.Errorf("updating %q: writing version history: %w", oldTitle, err)
		}
		s.logger.Warn("content update rejected", "wallet", walletID, "title", oldTitle, "reason", InvalidURL.String())
		return fmt.Errorf("updating %q: %w", oldTitle, ErrInvalidURL)
	}

	updated := slices.Clone(items)
	updated[idx] = ContentItem{
		Title:         newTitle,
		Description:   newDescription,
		FileURL:       newURL,
		Authenticated: isAuthenticURL(newURL),
	}
	content[walletID] = updated

	contentEntry, err := encodeCollection(CollectionContent, content)
	if err != nil {
		return err
	}
	if err := s.store.Set(versionEntry, contentEntry); err != nil {
		return fmt.Errorf("updating %q: %w", oldTitle, err)
	}

	s.logger.Info("content updated", "wallet", walletID, "title", newTitle)
	return nil
}

// Search returns every item whose title or description contains query,
// ignoring case. Creators are visited in wallet order and items in list
// order. An empty query matches everything.
func (s *ContentStore) Search(query string) ([]ContentItem, error) {
	content, err := loadCollection[[]ContentItem](s.store, CollectionContent)
	if err != nil {
		return nil, err
	}

	lower := cases.Lower(language.Und)
	needle := lower.String(query)

	results := []ContentItem{}
	for _, walletID := range sortedKeys(content) {
		for _, item := range content[walletID] {
			if strings.Contains(lower.String(item.Title), needle) ||
				strings.Contains(lower.String(item.Description), needle) {
				results = append(results, item)
			}
		}
	}
	return results, nil
}

// List returns the items published under walletID in insertion order.
func (s *ContentStore) List(walletID string) ([]ContentItem, error) {
	content, err := loadCollection[[]ContentItem](s.store, CollectionContent)
	if err != nil {
		return nil, err
	}
	return nonNil(content[walletID]), nil
}

// Versions returns the version history recorded under walletID, oldest first.
func (s *ContentStore) Versions(walletID string) ([]VersionRecord, error) {
	versions, err := loadCollection[[]VersionRecord](s.store, CollectionVersionHistory)
	if err != nil {
		return nil, err
	}
	return nonNil(versions[walletID]), nil
}

// Deletions returns the deletion history recorded under walletID, oldest
// first.
func (s *ContentStore) Deletions(walletID string) ([]DeletionRecord, error) {
	deletions, err := loadCollection[[]DeletionRecord](s.store, CollectionDeletionHistory)
	if err != nil {
		return nil, err
	}
	return nonNil(deletions[walletID]), nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
