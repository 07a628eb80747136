// Package cache is the client's persistent key-value store. Entity-set
// snapshots and the saved session live here, keyed by their union_*
// names, so the site renders instantly from the last known state even
// when the server is unreachable.
package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/ourunion/unionhub/internal/client/cache/migrations"
	"github.com/ourunion/unionhub/internal/common"
	"github.com/ourunion/unionhub/internal/dbx"
)

// Cache stores string values by key in a local sqlite database.
type Cache struct {
	db dbx.DBTX
}

// New binds a Cache to the given DBTX (either *sql.DB or *sql.Tx).
func New(db dbx.DBTX) *Cache {
	return &Cache{db: db}
}

// Open opens (creating if needed) the sqlite cache at dsn and applies
// pending migrations.
func Open(ctx context.Context, dsn string) (*Cache, *sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open cache db: %w", err)
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, err
	}

	return New(db), db, nil
}

// RunMigrations applies the embedded schema migrations.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// Get returns the value stored under key, or common.ErrNotFound.
func (c *Cache) Get(ctx context.Context, key string) (string, error) {
	row := c.db.QueryRowContext(ctx, `select value from cache where key=?`, key)

	var value string
	if err := row.Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", common.ErrNotFound
		}
		return "", fmt.Errorf("failed to read cache key: %w", err)
	}
	return value, nil
}

// Set stores value under key, replacing any previous value.
func (c *Cache) Set(ctx context.Context, key string, value string) error {
	query := `insert into cache (key, value) values (?, ?)
		on conflict(key) do update set value = excluded.value`
	if _, err := c.db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("failed to write cache key: %w", err)
	}
	return nil
}

// Remove deletes key from the cache. Removing an absent key is not an
// error.
func (c *Cache) Remove(ctx context.Context, key string) error {
	if _, err := c.db.ExecContext(ctx, `delete from cache where key=?`, key); err != nil {
		return fmt.Errorf("failed to remove cache key: %w", err)
	}
	return nil
}
