package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// DefaultBusyTimeoutMs is how long a writer waits for the SQLite write lock.
const DefaultBusyTimeoutMs = 5000

// OpenDB opens a SQLite database at the given path with the default busy timeout.
func OpenDB(path string) (*sql.DB, error) {
	return OpenDBWithTimeout(path, DefaultBusyTimeoutMs)
}

// OpenDBWithTimeout opens a SQLite database at the given path.
// If path is ":memory:", uses an in-memory database on a single connection.
// Sets WAL mode, enables foreign keys and begins every transaction IMMEDIATE,
// so a UnitOfWork holds the write lock from its first statement.
// Runs migrations automatically.
func OpenDBWithTimeout(path string, busyTimeoutMs int) (*sql.DB, error) {
	memory := path == ":memory:"
	if !memory {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}
	if busyTimeoutMs <= 0 {
		busyTimeoutMs = DefaultBusyTimeoutMs
	}

	db, err := sql.Open("sqlite", dsn(path, busyTimeoutMs))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if memory {
		// Each connection would otherwise see its own empty database.
		db.SetMaxOpenConns(1)
	}

	if !memory {
		if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("setting WAL mode: %w", err)
		}
	}

	if err := Migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return db, nil
}

func dsn(path string, busyTimeoutMs int) string {
	params := fmt.Sprintf("_pragma=busy_timeout(%d)&_pragma=foreign_keys(1)&_txlock=immediate", busyTimeoutMs)
	if path == ":memory:" {
		return "file::memory:?" + params
	}
	return "file:" + path + "?" + params
}
