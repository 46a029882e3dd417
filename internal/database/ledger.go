package database

import (
	"database/sql"
	"errors"
	"fmt"

	"creg/internal/registry"
)

// Transfer is one completed ledger transfer.
type Transfer struct {
	ID     string
	From   string
	To     string
	Amount int64
}

// Note is a memo recorded against a transfer.
type Note struct {
	ID     string
	From   string
	To     string
	Amount int64
	Note   string
}

// BalanceOf returns the balance of address. Unknown addresses hold zero.
func (s *SQLiteDatabase) BalanceOf(address string) (int64, error) {
	return balanceOf(s.db, address)
}

// Credit adds amount to address, creating the account if needed.
func (s *SQLiteDatabase) Credit(address string, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("crediting %s: %w", address, registry.ErrInvalidAmount)
	}
	return s.inTx(func(tx *sql.Tx) error {
		return adjust(tx, address, amount, s.clock)
	})
}

// Transfer moves amount between accounts in one transaction. It refuses to
// overdraw the sender. A zero amount is recorded like any other transfer.
func (s *SQLiteDatabase) Transfer(from, to string, amount int64) error {
	if amount < 0 {
		return fmt.Errorf("transferring from %s: %w", from, registry.ErrInvalidAmount)
	}
	return s.inTx(func(tx *sql.Tx) error {
		balance, err := balanceOf(tx, from)
		if err != nil {
			return err
		}
		if balance < amount {
			return fmt.Errorf("transferring %d from %s: %w", amount, from, registry.ErrInsufficientFunds)
		}
		if err := adjust(tx, from, -amount, s.clock); err != nil {
			return err
		}
		if err := adjust(tx, to, amount, s.clock); err != nil {
			return err
		}
		_, err = tx.Exec(`INSERT INTO ledger_transfers (id, from_address, to_address, amount, created_at)
			VALUES (?, ?, ?, ?, ?)`, s.idgen.New(), from, to, amount, s.clock.Now())
		if err != nil {
			return fmt.Errorf("recording transfer: %w", err)
		}
		return nil
	})
}

// RecordTransaction attaches a note to a transfer.
func (s *SQLiteDatabase) RecordTransaction(from, to string, amount int64, note string) error {
	_, err := s.db.Exec(`INSERT INTO ledger_notes (id, from_address, to_address, amount, note, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`, s.idgen.New(), from, to, amount, note, s.clock.Now())
	if err != nil {
		return fmt.Errorf("recording transaction note: %w", err)
	}
	return nil
}

// Transfers returns every transfer sent or received by address, oldest first.
func (s *SQLiteDatabase) Transfers(address string) ([]Transfer, error) {
	rows, err := s.db.Query(`SELECT id, from_address, to_address, amount FROM ledger_transfers
		WHERE from_address = ? OR to_address = ? ORDER BY created_at, rowid`, address, address)
	if err != nil {
		return nil, fmt.Errorf("listing transfers: %w", err)
	}
	defer rows.Close()

	var result []Transfer
	for rows.Next() {
		var t Transfer
		if err := rows.Scan(&t.ID, &t.From, &t.To, &t.Amount); err != nil {
			return nil, fmt.Errorf("scanning transfer: %w", err)
		}
		result = append(result, t)
	}
	return result, rows.Err()
}

// Notes returns every note sent or received by address, oldest first.
func (s *SQLiteDatabase) Notes(address string) ([]Note, error) {
	rows, err := s.db.Query(`SELECT id, from_address, to_address, amount, note FROM ledger_notes
		WHERE from_address = ? OR to_address = ? ORDER BY created_at, rowid`, address, address)
	if err != nil {
		return nil, fmt.Errorf("listing notes: %w", err)
	}
	defer rows.Close()

	var result []Note
	for rows.Next() {
		var n Note
		if err := rows.Scan(&n.ID, &n.From, &n.To, &n.Amount, &n.Note); err != nil {
			return nil, fmt.Errorf("scanning note: %w", err)
		}
		result = append(result, n)
	}
	return result, rows.Err()
}

type queryer interface {
	QueryRow(query string, args ...any) *sql.Row
}

func balanceOf(q queryer, address string) (int64, error) {
	var balance int64
	err := q.QueryRow("SELECT balance FROM accounts WHERE address = ?", address).Scan(&balance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("reading balance of %s: %w", address, err)
	}
	return balance, nil
}

func adjust(tx *sql.Tx, address string, delta int64, clock registry.Clock) error {
	_, err := tx.Exec(`
		INSERT INTO accounts (address, balance, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(address) DO UPDATE SET balance = balance + excluded.balance, updated_at = excluded.updated_at`,
		address, delta, clock.Now())
	if err != nil {
		return fmt.Errorf("updating balance of %s: %w", address, err)
	}
	return nil
}

var (
	_ registry.Ledger              = (*SQLiteDatabase)(nil)
	_ registry.TransactionRecorder = (*SQLiteDatabase)(nil)
)
