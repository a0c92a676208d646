// Package persistence provides the durable key-value stores behind player records.
package persistence

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // SQLite3 driver

	"github.com/user/career-survival/internal/interfaces"
)

// SQLiteStore keeps records in a single SQLite table
type SQLiteStore struct {
	conn *sqlx.DB
}

var (
	_ interfaces.Store     = (*SQLiteStore)(nil)
	_ interfaces.KeyLister = (*SQLiteStore)(nil)
)

// OpenSQLite opens or creates the database at path
func OpenSQLite(path string) (*SQLiteStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	conn, err := sqlx.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// SQLite allows a single writer
	conn.SetMaxOpenConns(1)

	s := &SQLiteStore{conn: conn}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.conn.Close()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS records (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	`
	_, err := s.conn.Exec(schema)
	return err
}

// Get returns the value stored under key
func (s *SQLiteStore) Get(key string) (string, bool, error) {
	var value string
	err := s.conn.Get(&value, "SELECT value FROM records WHERE key = ?", key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return value, true, nil
}

// Set stores value under key
func (s *SQLiteStore) Set(key, value string) error {
	_, err := s.conn.Exec(
		"INSERT OR REPLACE INTO records (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)",
		key, value,
	)
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Delete removes key; deleting a missing key is not an error
func (s *SQLiteStore) Delete(key string) error {
	if _, err := s.conn.Exec("DELETE FROM records WHERE key = ?", key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// Keys lists the stored keys starting with prefix
func (s *SQLiteStore) Keys(prefix string) ([]string, error) {
	var keys []string
	err := s.conn.Select(&keys, "SELECT key FROM records WHERE substr(key, 1, ?) = ? ORDER BY key", len(prefix), prefix)
	if err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}
	return keys, nil
}
