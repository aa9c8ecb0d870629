// Package localstore is the always-available local persistence layer: a
// key-value cache of JSON-serialized values keyed by fixed string names.
// Every mutation of in-memory state is mirrored here synchronously,
// independent of remote sync outcome.
package localstore

import (
	"database/sql"

	"github.com/palpal-apps/work-tracker/internal/errors"
	"github.com/palpal-apps/work-tracker/internal/localstore/migrations"

	_ "modernc.org/sqlite"
)

// Fixed cache keys used by the stores.
const (
	KeyTimeSessions   = "timeSessions"
	KeyCurrentSession = "currentSession"
	KeyTimezone       = "work_tracker_timezone"
)

// Store defines the local key-value persistence contract.
type Store interface {
	// Get returns the value for key. The second return is false when the
	// key is absent.
	Get(key string) (string, bool, error)

	// Set stores value under key, overwriting any previous value.
	Set(key, value string) error

	// Remove deletes key. Removing an absent key is not an error.
	Remove(key string) error

	// Close releases the underlying database.
	Close() error
}

// SQLiteStore implements Store on a single-table SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// New opens (or creates) the cache database at path and runs migrations.
// Pass ":memory:" for an ephemeral store in tests.
func New(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.NewStorageError("open database", err)
	}

	if err := migrations.RunMigrations(db); err != nil {
		db.Close()
		return nil, errors.NewStorageError("run migrations", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Get returns the cached value for key, if present.
func (s *SQLiteStore) Get(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM cache WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.NewStorageError("read "+key, err)
	}
	return value, true, nil
}

// Set stores value under key.
func (s *SQLiteStore) Set(key, value string) error {
	query := `
	INSERT INTO cache (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
	ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`

	if _, err := s.db.Exec(query, key, value); err != nil {
		return errors.NewStorageError("write "+key, err)
	}
	return nil
}

// Remove deletes key from the cache.
func (s *SQLiteStore) Remove(key string) error {
	if _, err := s.db.Exec(`DELETE FROM cache WHERE key = ?`, key); err != nil {
		return errors.NewStorageError("remove "+key, err)
	}
	return nil
}
