package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/glebarez/sqlite"
)

const createPreferencesTable = `CREATE TABLE IF NOT EXISTS preferences (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
)`

const upsertPreference = `INSERT INTO preferences (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value`

// SQLiteStore persists the record as one row per key in a local SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the database at path.
func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open settings db: %w", err)
	}
	// single writer; keeps transactions from contending on the file lock
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, createPreferencesTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("create preferences table: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Load reads each key individually. Missing rows or unparsable values fall
// back to defaults; only database failures are returned as errors.
func (s *SQLiteStore) Load(ctx context.Context) (Settings, error) {
	values := make(map[string]string, len(Keys))
	for _, key := range Keys {
		var v string
		err := s.db.QueryRowContext(ctx, `SELECT value FROM preferences WHERE key = ?`, key).Scan(&v)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			continue
		case err != nil:
			return Defaults(), fmt.Errorf("read %s: %w", key, err)
		}
		values[key] = v
	}
	return decode(func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}), nil
}

// Save writes all keys in a single transaction.
func (s *SQLiteStore) Save(ctx context.Context, st Settings) error {
	enc := encode(st)
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin settings tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	for _, key := range Keys {
		if _, err := tx.ExecContext(ctx, upsertPreference, key, enc[key]); err != nil {
			return fmt.Errorf("write %s: %w", key, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit settings: %w", err)
	}
	return nil
}

// setRaw is used by tests to plant malformed rows.
func (s *SQLiteStore) setRaw(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, upsertPreference, key, value)
	return err
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
