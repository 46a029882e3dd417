package testutil

import (
	"errors"
	"sync"

	"creg/internal/registry"
)

// ErrNoteFailure is returned by RecordTransaction when a SpyLedger is told to
// fail note recording.
var ErrNoteFailure = errors.New("injected note failure")

// TransferCall is one call made to SpyLedger.Transfer.
type TransferCall struct {
	From   string
	To     string
	Amount int64
}

// SpyLedger is a minimal ledger with fixed balances that records every call.
// It does not enforce balances itself, so tests can observe exactly what the
// caller decided.
type SpyLedger struct {
	mu          sync.Mutex
	Balances    map[string]int64
	Transfers   []TransferCall
	Notes       []string
	BalanceErr  error
	TransferErr error
}

func NewSpyLedger(balances map[string]int64) *SpyLedger {
	if balances == nil {
		balances = make(map[string]int64)
	}
	return &SpyLedger{Balances: balances}
}

func (l *SpyLedger) BalanceOf(address string) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.BalanceErr != nil {
		return 0, l.BalanceErr
	}
	return l.Balances[address], nil
}

func (l *SpyLedger) Transfer(from, to string, amount int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.TransferErr != nil {
		return l.TransferErr
	}
	l.Transfers = append(l.Transfers, TransferCall{From: from, To: to, Amount: amount})
	l.Balances[from] -= amount
	l.Balances[to] += amount
	return nil
}

// RecordingLedger is a SpyLedger that also implements
// registry.TransactionRecorder.
type RecordingLedger struct {
	*SpyLedger
	FailNotes bool
}

func NewRecordingLedger(balances map[string]int64) *RecordingLedger {
	return &RecordingLedger{SpyLedger: NewSpyLedger(balances)}
}

func (l *RecordingLedger) RecordTransaction(from, to string, amount int64, note string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.FailNotes {
		return ErrNoteFailure
	}
	l.Notes = append(l.Notes, note)
	return nil
}

var (
	_ registry.Ledger              = (*SpyLedger)(nil)
	_ registry.Ledger              = (*RecordingLedger)(nil)
	_ registry.TransactionRecorder = (*RecordingLedger)(nil)
)
