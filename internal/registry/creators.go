package registry

import (
	"fmt"
	"sort"
)

// CreatorRegistry owns the creators collection.
type CreatorRegistry struct {
	store  Store
	logger Logger
}

// NewCreatorRegistry creates a CreatorRegistry backed by store.
func NewCreatorRegistry(store Store, logger Logger) *CreatorRegistry {
	return &CreatorRegistry{store: store, logger: logger}
}

// Register records a new creator under walletID with no social links.
func (r *CreatorRegistry) Register(walletID, name, email string) error {
	creators, err := loadCollection[Creator](r.store, CollectionCreators)
	if err != nil {
		return err
	}
	if _, ok := creators[walletID]; ok {
		return fmt.Errorf("registering %s: %w", walletID, ErrDuplicateCreator)
	}

	creators[walletID] = Creator{Username: name, Email: email}
	if err := r.save(creators); err != nil {
		return fmt.Errorf("registering %s: %w", walletID, err)
	}

	r.logger.Info("creator registered", "wallet", walletID)
	return nil
}

// Remove deletes the creator under walletID. Content and history recorded
// under the wallet are left untouched.
func (r *CreatorRegistry) Remove(walletID string, confirm bool) error {
	if !confirm {
		return fmt.Errorf("removing %s: %w", walletID, ErrUnconfirmed)
	}

	creators, err := loadCollection[Creator](r.store, CollectionCreators)
	if err != nil {
		return err
	}
	if _, ok := creators[walletID]; !ok {
		return fmt.Errorf("removing %s: %w", walletID, ErrCreatorNotFound)
	}

	delete(creators, walletID)
	if err := r.save(creators); err != nil {
		return fmt.Errorf("removing %s: %w", walletID, err)
	}

	r.logger.Info("creator removed", "wallet", walletID)
	return nil
}

// Update replaces every profile field of an existing creator.
func (r *CreatorRegistry) Update(walletID, name, email string, socialLinks *string) error {
	creators, err := loadCollection[Creator](r.store, CollectionCreators)
	if err != nil {
		return err
	}
	if _, ok := creators[walletID]; !ok {
		return fmt.Errorf("updating %s: %w", walletID, ErrCreatorNotFound)
	}

	creator := Creator{Username: name, Email: email}
	if socialLinks != nil {
		links := *socialLinks
		creator.SocialLinks = &links
	}
	creators[walletID] = creator
	if err := r.save(creators); err != nil {
		return fmt.Errorf("updating %s: %w", walletID, err)
	}

	r.logger.Info("creator updated", "wallet", walletID)
	return nil
}

// Lookup returns the creator registered under walletID, or nil if there is
// none.
func (r *CreatorRegistry) Lookup(walletID string) (*Creator, error) {
	creators, err := loadCollection[Creator](r.store, CollectionCreators)
	if err != nil {
		return nil, err
	}
	creator, ok := creators[walletID]
	if !ok {
		return nil, nil
	}
	return &creator, nil
}

// Exists reports whether a creator is registered under walletID.
func (r *CreatorRegistry) Exists(walletID string) (bool, error) {
	creator, err := r.Lookup(walletID)
	if err != nil {
		return false, err
	}
	return creator != nil, nil
}

// List returns every registered creator ordered by wallet identifier.
func (r *CreatorRegistry) List() ([]RegisteredCreator, error) {
	creators, err := loadCollection[Creator](r.store, CollectionCreators)
	if err != nil {
		return nil, err
	}

	result := make([]RegisteredCreator, 0, len(creators))
	for _, walletID := range sortedKeys(creators) {
		result = append(result, RegisteredCreator{WalletID: walletID, Creator: creators[walletID]})
	}
	return result, nil
}

func (r *CreatorRegistry) save(creators map[string]Creator) error {
	entry, err := encodeCollection(CollectionCreators, creators)
	if err != nil {
		return err
	}
	if err := r.store.Set(entry); err != nil {
		return fmt.Errorf("writing %s: %w", CollectionCreators, err)
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
