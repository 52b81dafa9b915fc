package prefs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// sqliteTimeLayout matches what CURRENT_TIMESTAMP writes, so cutoffs compare
// correctly as text.
const sqliteTimeLayout = "2006-01-02 15:04:05"

// SQLiteBackend stores preferences in the preferences table of the site
// database. The caller owns the *sql.DB.
type SQLiteBackend struct {
	db *sql.DB
}

// NewSQLiteBackend creates the preferences table if needed.
func NewSQLiteBackend(ctx context.Context, db *sql.DB) (*SQLiteBackend, error) {
	createPreferencesTable := `
	CREATE TABLE IF NOT EXISTS preferences (
		visitor_id TEXT NOT NULL,
		key TEXT NOT NULL,
		value TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (visitor_id, key)
	)`

	if _, err := db.ExecContext(ctx, createPreferencesTable); err != nil {
		return nil, fmt.Errorf("failed to create preferences table: %w", err)
	}

	return &SQLiteBackend{db: db}, nil
}

func (b *SQLiteBackend) ForVisitor(visitorID string) Store {
	return &sqliteStore{db: b.db, visitor: visitorID}
}

// Prune deletes preferences whose updated_at is older than before.
func (b *SQLiteBackend) Prune(ctx context.Context, before time.Time) (int64, error) {
	result, err := b.db.ExecContext(ctx,
		`DELETE FROM preferences WHERE updated_at < ?`,
		before.UTC().Format(sqliteTimeLayout),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to prune preferences: %w", err)
	}
	return result.RowsAffected()
}

type sqliteStore struct {
	db      *sql.DB
	visitor string
}

func (s *sqliteStore) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM preferences WHERE visitor_id = ? AND key = ?`,
		s.visitor, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get preference %q: %w", key, err)
	}
	return value, nil
}

func (s *sqliteStore) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO preferences (visitor_id, key, value, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (visitor_id, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, s.visitor, key, value)
	if err != nil {
		return fmt.Errorf("failed to set preference %q: %w", key, err)
	}
	return nil
}
