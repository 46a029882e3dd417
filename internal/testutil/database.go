package testutil

import (
	"testing"

	"creg/internal/database"
)

// NewTestDatabase creates a migrated in-memory SQLite database that uses the
// fixed clock and sequential IDs. It is closed when the test completes.
func NewTestDatabase(t *testing.T) *database.SQLiteDatabase {
	t.Helper()

	db, err := database.NewSQLiteDatabase(database.MemoryPath, FixedClock(), NewStubIDGenerator())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	return db
}
