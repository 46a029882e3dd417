package database

import (
	"database/sql"
	"fmt"

	"creg/internal/database/migrations"
	"creg/internal/registry"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// SQLiteDatabase persists registry collections and the local token ledger
// in one SQLite file. It implements registry.Store, registry.Ledger and
// registry.TransactionRecorder.
type SQLiteDatabase struct {
	db    *sql.DB
	path  string
	clock registry.Clock
	idgen registry.IDGenerator
}

// NewSQLiteDatabase opens the database at path and migrates it to the latest
// schema. path can be a file path or MemoryPath.
// A nil clock or idgen falls back to the real clock and UUIDs.
func NewSQLiteDatabase(path string, clock registry.Clock, idgen registry.IDGenerator) (*SQLiteDatabase, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}
	if err := migrations.MigrateUp(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating %s: %w", path, err)
	}
	return NewSQLiteDatabaseFromDB(db, path, clock, idgen), nil
}

// NewSQLiteDatabaseFromDB wraps an existing, already migrated connection.
func NewSQLiteDatabaseFromDB(db *sql.DB, path string, clock registry.Clock, idgen registry.IDGenerator) *SQLiteDatabase {
	if clock == nil {
		clock = registry.RealClock{}
	}
	if idgen == nil {
		idgen = registry.UUIDGenerator{}
	}
	return &SQLiteDatabase{db: db, path: path, clock: clock, idgen: idgen}
}

// OpenConnection opens and configures a SQLite connection.
// path can be a file path or MemoryPath.
func OpenConnection(path string) (*sql.DB, error) {
	dsn := path
	if path != MemoryPath {
		// Writers take the lock at BEGIN so a balance check and the debit that
		// follows cannot interleave with another process.
		dsn = "file:" + path + "?_busy_timeout=5000&_journal_mode=WAL&_txlock=immediate"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if path == MemoryPath {
		// Every pooled connection to :memory: would get its own empty database.
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// Path returns the database file path (or MemoryPath).
func (s *SQLiteDatabase) Path() string {
	return s.path
}

// CheckMigrations verifies the database schema is up-to-date.
func (s *SQLiteDatabase) CheckMigrations() error {
	return migrations.CheckDBMigrationStatus(s.db)
}

// Close closes the database connection.
func (s *SQLiteDatabase) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// inTx runs fn inside a transaction, committing if it returns nil.
func (s *SQLiteDatabase) inTx(fn func(tx *sql.Tx) error) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}
