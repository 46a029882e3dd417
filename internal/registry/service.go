package registry

import "sync"

// Service is the entry point used by callers outside this package. It wires
// the registry components to their collaborators and runs every operation
// under one lock, so no operation observes another's partial writes.
type Service struct {
	mu           sync.Mutex
	creators     *CreatorRegistry
	content      *ContentStore
	moderation   *ModerationFilter
	compensation *CompensationService
}

// NewService creates a Service with the provided dependencies.
// moderation may be nil, in which case the default banned terms are used.
func NewService(store Store, ledger Ledger, moderation *ModerationFilter, clock Clock, logger Logger) *Service {
	if moderation == nil {
		moderation = NewModerationFilter()
	}
	creators := NewCreatorRegistry(store, logger)
	return &Service{
		creators:     creators,
		content:      NewContentStore(store, creators, clock, logger),
		moderation:   moderation,
		compensation: NewCompensationService(ledger, logger),
	}
}

func (s *Service) RegisterCreator(walletID, name, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.creators.Register(walletID, name, email)
}

func (s *Service) RemoveCreator(walletID string, confirm bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.creators.Remove(walletID, confirm)
}

func (s *Service) UpdateProfile(walletID, name, email string, socialLinks *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.creators.Update(walletID, name, email, socialLinks)
}

func (s *Service) LookupCreator(walletID string) (*Creator, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.creators.Lookup(walletID)
}

func (s *Service) ListCreators() ([]RegisteredCreator, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.creators.List()
}

func (s *Service) Publish(walletID, title, description, fileURL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.content.Publish(walletID, title, description, fileURL)
}

func (s *Service) Unpublish(walletID, title string, confirm bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.content.Unpublish(walletID, title, confirm)
}

func (s *Service) UpdateContent(walletID, oldTitle, newTitle, newDescription, newURL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.content.Update(walletID, oldTitle, newTitle, newDescription, newURL)
}

func (s *Service) Search(query string) ([]ContentItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.content.Search(query)
}

func (s *Service) ListContent(walletID string) ([]ContentItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.content.List(walletID)
}

func (s *Service) Versions(walletID string) ([]VersionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.content.Versions(walletID)
}

func (s *Service) Deletions(walletID string) ([]DeletionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.content.Deletions(walletID)
}

// IsApproved runs the moderation filter. It touches no state and takes no
// lock.
func (s *Service) IsApproved(item ContentItem) bool {
	return s.moderation.IsApproved(item)
}

func (s *Service) Compensate(consumer, creator string, amount int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.compensation.Compensate(consumer, creator, amount)
}

func (s *Service) CompensateWithNote(consumer, creator string, amount int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.compensation.CompensateWithNote(consumer, creator, amount)
}
