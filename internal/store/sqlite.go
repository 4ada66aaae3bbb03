package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"canarycast/internal/config"
	"canarycast/internal/errors"
	"canarycast/internal/retry"
)

// SQLiteStore persists entries in a single key-value table. One row per
// entry; the cache layer owns the key scheme and the value format.
type SQLiteStore struct {
	db    *sql.DB
	quota int64
}

// OpenSQLite opens (and creates if needed) the persistent store described by
// the settings. Schema initialization is retried because a concurrent
// canarycast process may hold the sqlite write lock for a moment.
func OpenSQLite(settings config.Settings) (*SQLiteStore, error) {
	dir, err := resolveCacheDir(settings.CacheDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve cache directory: %w", err)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	dbPath := filepath.Join(dir, "entries.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	s := &SQLiteStore{
		db:    db,
		quota: settings.StoreQuotaBytes,
	}

	initErr := retry.WithQuickRetry(context.Background(), "init cache store", func() error {
		if err := s.initSchema(); err != nil {
			return errors.ClassifyStorage(err, "init", dbPath)
		}
		return nil
	})
	if initErr != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize cache store: %w", initErr)
	}

	return s, nil
}

// Close closes the store's database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// GetItem reads a stored value by key
func (s *SQLiteStore) GetItem(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM entries WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read entry: %w", err)
	}
	return value, true, nil
}

// SetItem writes a value, enforcing the byte quota first. The quota counts
// key and value bytes of every row except the one being overwritten.
func (s *SQLiteStore) SetItem(key, value string) error {
	if s.quota > 0 {
		var used int64
		err := s.db.QueryRow(
			`SELECT COALESCE(SUM(LENGTH(key) + LENGTH(value)), 0) FROM entries WHERE key != ?`, key,
		).Scan(&used)
		if err != nil {
			return fmt.Errorf("failed to check store usage: %w", err)
		}
		if used+int64(len(key)+len(value)) > s.quota {
			return fmt.Errorf("write %q: %w", key, errors.ErrQuotaExceeded)
		}
	}

	_, err := s.db.Exec(`INSERT OR REPLACE INTO entries (key, value) VALUES (?, ?)`, key, value)
	if err != nil {
		return fmt.Errorf("failed to write entry: %w", err)
	}
	return nil
}

// RemoveItem deletes a key; deleting an absent key succeeds
func (s *SQLiteStore) RemoveItem(key string) error {
	_, err := s.db.Exec(`DELETE FROM entries WHERE key = ?`, key)
	return err
}

// Keys lists every stored key
func (s *SQLiteStore) Keys() ([]string, error) {
	rows, err := s.db.Query(`SELECT key FROM entries ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

// Size returns the database file size in bytes
func (s *SQLiteStore) Size() (int64, error) {
	var pageCount, pageSize int64
	if err := s.db.QueryRow("PRAGMA page_count").Scan(&pageCount); err != nil {
		return 0, err
	}
	if err := s.db.QueryRow("PRAGMA page_size").Scan(&pageSize); err != nil {
		return 0, err
	}
	return pageCount * pageSize, nil
}

// Vacuum reclaims file space after bulk deletions
func (s *SQLiteStore) Vacuum() error {
	_, err := s.db.Exec("VACUUM")
	return err
}

// initSchema creates the entries table if it doesn't exist
func (s *SQLiteStore) initSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS entries (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`
	_, err := s.db.Exec(schema)
	return err
}

// resolveCacheDir returns the cache directory following XDG standards
func resolveCacheDir(override string) (string, error) {
	if override != "" {
		return override, nil
	}

	// Use XDG_CACHE_HOME if set
	if xdgCache := os.Getenv("XDG_CACHE_HOME"); xdgCache != "" {
		return filepath.Join(xdgCache, "canarycast"), nil
	}

	// Fallback to ~/.cache/canarycast
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(homeDir, ".cache", "canarycast"), nil
}

// Ensure SQLiteStore implements the store contracts
var (
	_ KV    = (*SQLiteStore)(nil)
	_ Sizer = (*SQLiteStore)(nil)
)
