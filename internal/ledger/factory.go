package ledger

import (
	"fmt"
	"io"

	"creg/internal/config"
	"creg/internal/database"
	"creg/internal/registry"
)

// Backend is a ledger the application can fund and must close.
type Backend interface {
	registry.Ledger
	registry.TransactionRecorder
	Funder
	History
	io.Closer
}

// NewLedgerFromConfig creates a Backend based on the ledger config type.
func NewLedgerFromConfig(cfg config.LedgerConfig) (Backend, error) {
	switch cfg.Type {
	case "memory":
		return NewMemoryLedger(nil), nil
	case "sqlite":
		db, err := database.NewDatabaseFromDataDir(cfg.DataDir)
		if err != nil {
			return nil, err
		}
		return db, nil
	default:
		return nil, fmt.Errorf("unknown ledger type: %q", cfg.Type)
	}
}

var _ Backend = (*database.SQLiteDatabase)(nil)
