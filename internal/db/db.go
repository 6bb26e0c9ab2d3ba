// Package db provides SQLite database initialization and access.
package db

import (
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// busyTimeoutMillis is how long a writer waits for the database lock
// before giving up with SQLITE_BUSY.
const busyTimeoutMillis = 5000

// DefaultPath returns the default database path: ~/.config/rf/rentals.db
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".config", "rf", "rentals.db"), nil
}

// Open opens (or creates) a SQLite database at the given path and runs
// migrations. WAL mode, foreign keys, the busy timeout and immediate
// transaction locking are set on the DSN so every pooled connection gets them.
func Open(path string) (*sql.DB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite3", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		closeErr := db.Close()
		if closeErr != nil {
			return nil, fmt.Errorf("pinging database: %w (also failed to close: %v)", err, closeErr)
		}
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	if err := migrate(db); err != nil {
		closeErr := db.Close()
		if closeErr != nil {
			return nil, fmt.Errorf("running migrations: %w (also failed to close: %v)", err, closeErr)
		}
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return db, nil
}

// dsn builds the go-sqlite3 connection string for path.
func dsn(path string) string {
	params := url.Values{}
	params.Set("_journal_mode", "WAL")
	params.Set("_foreign_keys", "on")
	params.Set("_busy_timeout", fmt.Sprintf("%d", busyTimeoutMillis))
	params.Set("_txlock", "immediate")
	return "file:" + path + "?" + params.Encode()
}
