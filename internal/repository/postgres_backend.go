package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/jmoiron/sqlx"
)

type collectionRow struct {
	Key       string    `db:"key"`
	Value     string    `db:"value"`
	UpdatedAt time.Time `db:"updated_at"`
}

// PostgresBackend keeps collections as rows of a key/value table.
type PostgresBackend struct {
	db *sqlx.DB
}

// NewPostgresBackend constructs the backend.
func NewPostgresBackend(db *sqlx.DB) *PostgresBackend {
	return &PostgresBackend{db: db}
}

// EnsureSchema creates the backing table when missing.
func (b *PostgresBackend) EnsureSchema(ctx context.Context) error {
	const query = `CREATE TABLE IF NOT EXISTS record_collections (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL
)`
	if _, err := b.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("ensure record_collections: %w", err)
	}
	return nil
}

// Read returns the stored payload for key.
func (b *PostgresBackend) Read(ctx context.Context, key string) ([]byte, error) {
	const query = `SELECT value FROM record_collections WHERE key = $1`
	var value string
	if err := b.db.GetContext(ctx, &value, query, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrKeyNotFound
		}
		return nil, fmt.Errorf("read collection %s: %w", key, err)
	}
	return []byte(value), nil
}

// Write upserts every entry inside one transaction.
func (b *PostgresBackend) Write(ctx context.Context, entries map[string][]byte) error {
	if len(entries) == 0 {
		return nil
	}
	tx, err := b.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin collection tx: %w", err)
	}
	const query = `INSERT INTO record_collections (key, value, updated_at)
VALUES (:key, :value, :updated_at)
ON CONFLICT (key)
DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`
	now := time.Now().UTC()
	for _, key := range sortedKeys(entries) {
		row := collectionRow{Key: key, Value: string(entries[key]), UpdatedAt: now}
		if _, err := tx.NamedExecContext(ctx, query, row); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("upsert collection %s: %w", key, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit collection tx: %w", err)
	}
	return nil
}

// Delete removes the row for key.
func (b *PostgresBackend) Delete(ctx context.Context, key string) error {
	const query = `DELETE FROM record_collections WHERE key = $1`
	if _, err := b.db.ExecContext(ctx, query, key); err != nil {
		return fmt.Errorf("delete collection %s: %w", key, err)
	}
	return nil
}

// Close closes the connection pool.
func (b *PostgresBackend) Close() error {
	return b.db.Close()
}

func sortedKeys(entries map[string][]byte) []string {
	keys := make([]string, 0, len(entries))
	for key := range entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
