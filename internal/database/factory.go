package database

import (
	"fmt"
	"os"
	"path/filepath"
)

// FileName is the name of the SQLite file created inside a data_dir.
const FileName = "creg.db"

// NewDatabaseFromDataDir opens (creating if needed) the database file inside
// dataDir. The store and ledger sections may point at the same directory;
// each gets its own connection to the shared file.
func NewDatabaseFromDataDir(dataDir string) (*SQLiteDatabase, error) {
	if dataDir == "" {
		return nil, fmt.Errorf("data_dir required for sqlite database")
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return NewSQLiteDatabase(filepath.Join(dataDir, FileName), nil, nil)
}
