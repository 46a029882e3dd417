package registry

// Ledger is the token ledger consulted for compensation. It is authoritative
// for balances; the registry keeps no bookkeeping of its own.
type Ledger interface {
	// BalanceOf returns the current balance held by address.
	// Unknown addresses have a zero balance.
	BalanceOf(address string) (int64, error)

	// Transfer moves amount from one address to another.
	Transfer(from, to string, amount int64) error
}

// TransactionRecorder is implemented by ledgers that can attach a note to a
// completed transfer.
type TransactionRecorder interface {
	RecordTransaction(from, to string, amount int64, note string) error
}
