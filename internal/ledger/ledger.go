// Package ledger provides the local token ledgers used for compensation.
package ledger

import (
	"fmt"
	"sync"

	"creg/internal/database"
	"creg/internal/registry"
)

// Funder is implemented by ledgers that can mint balance into an account.
// Only local ledgers support it; `creg ledger fund` uses it to seed
// consumers.
type Funder interface {
	Credit(address string, amount int64) error
}

// History lists the transfers and notes that touch one account.
// `creg ledger history` prints it.
type History interface {
	Transfers(address string) ([]Transfer, error)
	Notes(address string) ([]Note, error)
}

type (
	Transfer = database.Transfer
	Note     = database.Note
)

// MemoryLedger is an in-memory ledger. It refuses to overdraw an account.
// This implementation is safe for concurrent use.
type MemoryLedger struct {
	mu        sync.Mutex
	balances  map[string]int64
	transfers []Transfer
	notes     []Note
	idgen     registry.IDGenerator
}

// NewMemoryLedger creates an empty ledger. A nil idgen uses UUIDs.
func NewMemoryLedger(idgen registry.IDGenerator) *MemoryLedger {
	if idgen == nil {
		idgen = registry.UUIDGenerator{}
	}
	return &MemoryLedger{balances: make(map[string]int64), idgen: idgen}
}

func (l *MemoryLedger) BalanceOf(address string) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[address], nil
}

func (l *MemoryLedger) Credit(address string, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("crediting %s: %w", address, registry.ErrInvalidAmount)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[address] += amount
	return nil
}

// Transfer moves amount from one account to another. Negative amounts are
// rejected; zero is recorded like any other transfer.
func (l *MemoryLedger) Transfer(from, to string, amount int64) error {
	if amount < 0 {
		return fmt.Errorf("transferring from %s: %w", from, registry.ErrInvalidAmount)
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.balances[from] < amount {
		return fmt.Errorf("transferring %d from %s: %w", amount, from, registry.ErrInsufficientFunds)
	}
	l.balances[from] -= amount
	l.balances[to] += amount
	l.transfers = append(l.transfers, Transfer{ID: l.idgen.New(), From: from, To: to, Amount: amount})
	return nil
}

func (l *MemoryLedger) RecordTransaction(from, to string, amount int64, note string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.notes = append(l.notes, Note{ID: l.idgen.New(), From: from, To: to, Amount: amount, Note: note})
	return nil
}

// Transfers returns every transfer sent or received by address, oldest first.
func (l *MemoryLedger) Transfers(address string) ([]Transfer, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var result []Transfer
	for _, t := range l.transfers {
		if t.From == address || t.To == address {
			result = append(result, t)
		}
	}
	return result, nil
}

// Notes returns every note sent or received by address, oldest first.
func (l *MemoryLedger) Notes(address string) ([]Note, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var result []Note
	for _, n := range l.notes {
		if n.From == address || n.To == address {
			result = append(result, n)
		}
	}
	return result, nil
}

// Close is a no-op; it lets MemoryLedger share lifecycle handling with the
// SQLite ledger.
func (l *MemoryLedger) Close() error {
	return nil
}

var (
	_ registry.Ledger              = (*MemoryLedger)(nil)
	_ registry.TransactionRecorder = (*MemoryLedger)(nil)
	_ Funder                       = (*MemoryLedger)(nil)
	_ History                      = (*MemoryLedger)(nil)
)
