package database

import (
	"database/sql"
	"errors"
	"fmt"

	"creg/internal/registry"
)

// Get returns the encoded value stored for a collection.
func (s *SQLiteDatabase) Get(key registry.Collection) ([]byte, bool, error) {
	var value []byte
	err := s.db.QueryRow("SELECT value FROM collections WHERE name = ?", string(key)).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("reading collection %s: %w", key, err)
	}
	return value, true, nil
}

// Set upserts every entry in one transaction.
func (s *SQLiteDatabase) Set(entries ...registry.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	now := s.clock.Now()
	return s.inTx(func(tx *sql.Tx) error {
		for _, e := range entries {
			_, err := tx.Exec(`
				INSERT INTO collections (name, value, updated_at) VALUES (?, ?, ?)
				ON CONFLICT(name) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
				string(e.Key), e.Value, now)
			if err != nil {
				return fmt.Errorf("writing collection %s: %w", e.Key, err)
			}
		}
		return nil
	})
}

var _ registry.Store = (*SQLiteDatabase)(nil)
