package testutil

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/alexanderramin/studytime/internal/db"
)

// NewTestDB opens a migrated in-memory database. It has a single connection,
// so transactions from concurrent callers queue in the pool.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	return openTestDB(t, ":memory:")
}

// NewFileTestDB opens a migrated database file in a temp directory. Use it
// when a test needs several connections racing for the write lock.
func NewFileTestDB(t *testing.T) *sql.DB {
	t.Helper()
	return openTestDB(t, filepath.Join(t.TempDir(), "studytime_test.db"))
}

func openTestDB(t *testing.T, path string) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(path)
	if err != nil {
		t.Fatalf("opening test database %s: %v", path, err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

// NewTestUoW returns the production unit of work over database.
func NewTestUoW(database *sql.DB) db.UnitOfWork {
	return db.NewSQLiteUnitOfWork(database)
}
