// Package store persists the client's durable state between runs: the bearer
// token and the one-time landing flag. It is the desktop analog of the
// browser's per-origin localStorage.
//
// The backing file is a SQLite database via modernc.org/sqlite — pure Go, no
// CGo, so the binary stays a single cross-compilable artifact. A key/value
// table is deliberately all the schema there is: the backend owns every other
// piece of state.
package store

import (
	"database/sql"
	"fmt"

	// Registers the "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"
)

// Keys used by the client. Nothing else is ever written.
const (
	KeyToken       = "token"        // bearer token, present only while logged in
	KeyLandingSeen = "landing_seen" // suppresses the one-time landing screen
)

// Store is a durable key/value store scoped to this application.
type Store struct {
	conn *sql.DB
}

// Open opens (creating if needed) the state database at path.
// Use ":memory:" in tests.
func Open(path string) (*Store, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: opening state database: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: pinging state database: %w", err)
	}

	// WAL keeps a crash mid-write from corrupting the token file.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: setting WAL mode: %w", err)
	}

	s := &Store{conn: conn}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: migrating: %w", err)
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) migrate() error {
	_, err := s.conn.Exec(`
		CREATE TABLE IF NOT EXISTS client_state (
			key        TEXT PRIMARY KEY,
			value      TEXT NOT NULL,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	return err
}

// Get returns the value for key and whether it was present.
func (s *Store) Get(key string) (string, bool, error) {
	var value string
	err := s.conn.QueryRow(
		`SELECT value FROM client_state WHERE key = ?`, key,
	).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("store: reading %q: %w", key, err)
	}
	return value, true, nil
}

// Set writes key to value, replacing any previous value.
func (s *Store) Set(key, value string) error {
	_, err := s.conn.Exec(`
		INSERT INTO client_state (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`, key, value)
	if err != nil {
		return fmt.Errorf("store: writing %q: %w", key, err)
	}
	return nil
}

// Delete removes the given keys. Missing keys are not an error.
func (s *Store) Delete(keys ...string) error {
	for _, key := range keys {
		if _, err := s.conn.Exec(`DELETE FROM client_state WHERE key = ?`, key); err != nil {
			return fmt.Errorf("store: deleting %q: %w", key, err)
		}
	}
	return nil
}
