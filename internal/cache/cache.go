// Package cache persists the full application snapshot in a single
// key-value slot backed by an embedded SQLite database.
package cache

import (
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

// slotKey is the one fixed key the snapshot lives under.
const slotKey = "app_state"

// SQLite is a durable single-slot cache. It satisfies store.Cache.
type SQLite struct {
	db *sql.DB
}

// Open creates or opens the cache database at path.
func Open(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	schema := `
		CREATE TABLE IF NOT EXISTS snapshots (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating snapshot table: %w", err)
	}

	return &SQLite{db: db}, nil
}

// Close releases the underlying database handle.
func (c *SQLite) Close() error {
	return c.db.Close()
}

// Read returns the stored snapshot, or an empty string when the slot has
// never been written.
func (c *SQLite) Read() (string, error) {
	var value string

	err := c.db.QueryRow(`SELECT value FROM snapshots WHERE key = ?`, slotKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}

	if err != nil {
		return "", fmt.Errorf("reading snapshot: %w", err)
	}

	return value, nil
}

// Write overwrites the slot with the given snapshot.
func (c *SQLite) Write(snapshot string) error {
	query := `
		INSERT INTO snapshots (key, value) VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value
	`

	if _, err := c.db.Exec(query, slotKey, snapshot); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}

	return nil
}

// Clear deletes the slot entirely.
func (c *SQLite) Clear() error {
	if _, err := c.db.Exec(`DELETE FROM snapshots WHERE key = ?`, slotKey); err != nil {
		return fmt.Errorf("clearing snapshot: %w", err)
	}

	return nil
}
