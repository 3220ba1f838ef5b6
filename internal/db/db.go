package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// busyTimeoutMs is how long a connection waits for the write lock before
// failing with SQLITE_BUSY.
const busyTimeoutMs = 5000

// OpenDB opens a SQLite database at the given path.
// If path is ":memory:", uses an in-memory database restricted to a single
// connection so every caller sees the same schema.
// File databases use WAL mode, a busy timeout and IMMEDIATE transactions so
// concurrent writers queue instead of racing on read-then-write sequences.
// Runs migrations automatically.
func OpenDB(path string) (*sql.DB, error) {
	dsn := path
	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
		dsn = fmt.Sprintf("%s?_pragma=busy_timeout(%d)&_txlock=immediate", path, busyTimeoutMs)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	// Enable WAL mode for better concurrent read performance
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	if err := Migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return db, nil
}
