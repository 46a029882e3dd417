package app

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"creg/internal/config"
	"creg/internal/encryption"
	"creg/internal/ledger"
	"creg/internal/registry"
	"creg/internal/store"
)

// PassphraseFunc supplies the passphrase that unlocks a sealed store. It is
// only called when the configured store is sealed.
type PassphraseFunc func() (string, error)

// CregApp is the application layer between the CLI and registry.Service.
// It constructs all dependencies from config, exposes one method per CLI
// command, and closes the store and ledger on Close.
type CregApp struct {
	cfg     *config.Config
	store   registry.Store
	ledger  ledger.Backend
	service *registry.Service
	op      *Operation
	logger  *slog.Logger
	logFile *os.File
}

// NewCregApp creates a fully wired CregApp from the given config.
// operation identifies the CLI command being run (e.g. "Publish", "Pay") and
// parameters is a short description of its arguments for the log.
// The caller must call Close when done.
func NewCregApp(cfg *config.Config, operation, parameters string, passphrase PassphraseFunc) (*CregApp, error) {
	level, err := parseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	opID := time.Now().UTC().Format("20060102T150405Z")
	logger, logFile, err := newLogger(cfg.LogDir, opID, level)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	st, err := openStore(cfg, passphrase)
	if err != nil {
		logFile.Close()
		return nil, err
	}

	l, err := ledger.NewLedgerFromConfig(cfg.Ledger)
	if err != nil {
		st.Close()
		logFile.Close()
		return nil, fmt.Errorf("creating ledger: %w", err)
	}

	moderation := registry.NewModerationFilter(cfg.Moderation.BannedTerms...)
	svc := registry.NewService(st, l, moderation, registry.RealClock{}, &slogAdapter{l: logger})

	return &CregApp{
		cfg:     cfg,
		store:   st,
		ledger:  l,
		service: svc,
		op:      NewOperation(operation, parameters),
		logger:  logger,
		logFile: logFile,
	}, nil
}

// openStore builds the configured store and, when it is sealed, wraps it in
// a SealedStore unlocked with the passphrase.
func openStore(cfg *config.Config, passphrase PassphraseFunc) (registry.Store, error) {
	st, err := store.NewStoreFromConfig(cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("creating store: %w", err)
	}
	if !cfg.Store.Sealed {
		return st, nil
	}

	enc, err := encryption.NewEncryptorFromConfig(cfg.Encryption)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("creating encryptor: %w", err)
	}
	if !enc.IsConfigured() {
		st.Close()
		return nil, fmt.Errorf("store is sealed but no keys are configured: run 'creg config keys init'")
	}
	if passphrase == nil {
		st.Close()
		return nil, fmt.Errorf("opening sealed store: %w", store.ErrLocked)
	}

	pass, err := passphrase()
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("reading passphrase: %w", err)
	}
	dec, err := enc.Unlock(pass)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("unlocking store: %w", err)
	}
	return store.NewSealedStore(st, enc, dec), nil
}

// SetupKeys generates the key pair used to seal the store.
func SetupKeys(cfg *config.Config, passphrase string) error {
	enc, err := encryption.NewEncryptorFromConfig(cfg.Encryption)
	if err != nil {
		return fmt.Errorf("creating encryptor: %w", err)
	}
	if err := enc.Setup(passphrase); err != nil {
		return fmt.Errorf("setting up keys: %w", err)
	}
	return nil
}

// track marks the operation failed and logs the error kind when err is not
// nil. It returns err unchanged.
func (a *CregApp) track(err error) error {
	if err == nil {
		return nil
	}
	a.op.Fail()
	kind := "Internal"
	if k, ok := registry.KindOf(err); ok {
		kind = k.String()
	}
	a.logger.Warn("operation failed", "operation", a.op.Name, "kind", kind, "error", err)
	return err
}

func (a *CregApp) RegisterCreator(walletID, name, email string) error {
	return a.track(a.service.RegisterCreator(walletID, name, email))
}

func (a *CregApp) RemoveCreator(walletID string, confirm bool) error {
	return a.track(a.service.RemoveCreator(walletID, confirm))
}

// UpdateCreator replaces a creator's profile. A nil socialLinks clears the
// links.
func (a *CregApp) UpdateCreator(walletID, name, email string, socialLinks *string) error {
	return a.track(a.service.UpdateProfile(walletID, name, email, socialLinks))
}

// ShowCreator returns the creator registered under walletID, failing with
// registry.ErrCreatorNotFound when there is none.
func (a *CregApp) ShowCreator(walletID string) (*registry.Creator, error) {
	creator, err := a.service.LookupCreator(walletID)
	if err != nil {
		return nil, a.track(err)
	}
	if creator == nil {
		return nil, a.track(fmt.Errorf("looking up %s: %w", walletID, registry.ErrCreatorNotFound))
	}
	return creator, nil
}

func (a *CregApp) ListCreators() ([]registry.RegisteredCreator, error) {
	creators, err := a.service.ListCreators()
	return creators, a.track(err)
}

func (a *CregApp) Publish(walletID, title, description, fileURL string) error {
	return a.track(a.service.Publish(walletID, title, description, fileURL))
}

func (a *CregApp) Unpublish(walletID, title string, confirm bool) error {
	return a.track(a.service.Unpublish(walletID, title, confirm))
}

func (a *CregApp) UpdateContent(walletID, oldTitle, newTitle, newDescription, newURL string) error {
	return a.track(a.service.UpdateContent(walletID, oldTitle, newTitle, newDescription, newURL))
}

func (a *CregApp) ListContent(walletID string) ([]registry.ContentItem, error) {
	items, err := a.service.ListContent(walletID)
	return items, a.track(err)
}

func (a *CregApp) Search(query string) ([]registry.ContentItem, error) {
	items, err := a.service.Search(query)
	return items, a.track(err)
}

// Review runs moderation on a description without storing anything.
func (a *CregApp) Review(description string) bool {
	return a.service.IsApproved(registry.ContentItem{Description: description})
}

func (a *CregApp) Versions(walletID string) ([]registry.VersionRecord, error) {
	versions, err := a.service.Versions(walletID)
	return versions, a.track(err)
}

func (a *CregApp) Deletions(walletID string) ([]registry.DeletionRecord, error) {
	deletions, err := a.service.Deletions(walletID)
	return deletions, a.track(err)
}

// Pay compensates creator from consumer's balance. A payment note is recorded
// when the ledger config asks for it.
func (a *CregApp) Pay(consumer, creator string, amount int64) error {
	if a.cfg.Ledger.RecordNotes {
		return a.track(a.service.CompensateWithNote(consumer, creator, amount))
	}
	return a.track(a.service.Compensate(consumer, creator, amount))
}

func (a *CregApp) Balance(address string) (int64, error) {
	balance, err := a.ledger.BalanceOf(address)
	return balance, a.track(err)
}

// Fund mints amount into address on the local ledger.
func (a *CregApp) Fund(address string, amount int64) error {
	if err := a.ledger.Credit(address, amount); err != nil {
		return a.track(err)
	}
	a.logger.Info("account funded", "address", address, "amount", amount)
	return nil
}

// LedgerHistory returns the transfers and notes sent or received by address.
func (a *CregApp) LedgerHistory(address string) ([]ledger.Transfer, []ledger.Note, error) {
	transfers, err := a.ledger.Transfers(address)
	if err != nil {
		return nil, nil, a.track(err)
	}
	notes, err := a.ledger.Notes(address)
	if err != nil {
		return nil, nil, a.track(err)
	}
	return transfers, notes, nil
}

// Operation returns the operation tracked by this app.
func (a *CregApp) Operation() *Operation {
	return a.op
}

// Close logs the operation outcome and closes all resources.
func (a *CregApp) Close() error {
	a.logger.Info("operation finished",
		"operation", a.op.Name,
		"parameters", a.op.Parameters,
		"status", a.op.Status,
		"duration", a.op.Duration().Truncate(time.Millisecond),
	)

	var errs []error
	if err := a.store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("closing store: %w", err))
	}
	if err := a.ledger.Close(); err != nil {
		errs = append(errs, fmt.Errorf("closing ledger: %w", err))
	}
	if a.logFile != nil {
		a.logFile.Close()
	}
	return errors.Join(errs...)
}
