package aicache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// schema is the DDL for the cache table. Types are kept portable across
// Postgres and SQLite; timestamps are stored in UTC.
const schema = `
CREATE TABLE IF NOT EXISTS ai_response_cache (
	cache_key     TEXT PRIMARY KEY,
	function_name TEXT NOT NULL,
	request_hash  TEXT NOT NULL,
	response      TEXT NOT NULL,
	expires_at    TIMESTAMP NOT NULL,
	hit_count     BIGINT NOT NULL DEFAULT 0,
	created_at    TIMESTAMP NOT NULL
);
`

// SQLStore is a durable Store backed by a SQL database via sqlx.
// It works against Postgres (lib/pq) and SQLite (modernc.org/sqlite);
// queries are written with ? placeholders and rebound per driver.
//
// Reads filter on expires_at, so expired rows linger until overwritten.
// Garbage collection of stale rows is left to external tooling.
type SQLStore struct {
	db *sqlx.DB
}

// NewSQLStore creates a store over an open sqlx database handle.
func NewSQLStore(db *sqlx.DB) *SQLStore {
	if db == nil {
		panic("aicache: db cannot be nil")
	}
	return &SQLStore{db: db}
}

// OpenSQLStore opens a database by driver name and DSN, applies the cache
// schema, and returns a ready store.
func OpenSQLStore(driverName, dsn string) (*SQLStore, error) {
	db, err := sqlx.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}

	store := NewSQLStore(db)
	if err := store.EnsureSchema(context.Background()); err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

// EnsureSchema creates the cache table if it does not exist.
func (s *SQLStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate cache table: %w", err)
	}
	return nil
}

// Get returns the entry for cacheKey only while expires_at is in the future.
func (s *SQLStore) Get(ctx context.Context, cacheKey string) (*Entry, error) {
	query := s.db.Rebind(`
		SELECT cache_key, function_name, request_hash, response, expires_at, hit_count, created_at
		FROM ai_response_cache
		WHERE cache_key = ? AND expires_at > ?
	`)

	var entry Entry
	err := s.db.GetContext(ctx, &entry, query, cacheKey, time.Now().UTC())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("cache get: %w", err)
	}

	return &entry, nil
}

// Put upserts the entry keyed on cache_key, replacing payload and expiry and
// resetting the hit count.
func (s *SQLStore) Put(ctx context.Context, entry *Entry) error {
	query := s.db.Rebind(`
		INSERT INTO ai_response_cache
			(cache_key, function_name, request_hash, response, expires_at, hit_count, created_at)
		VALUES (?, ?, ?, ?, ?, 0, ?)
		ON CONFLICT (cache_key) DO UPDATE SET
			function_name = excluded.function_name,
			request_hash  = excluded.request_hash,
			response      = excluded.response,
			expires_at    = excluded.expires_at,
			hit_count     = 0,
			created_at    = excluded.created_at
	`)

	_, err := s.db.ExecContext(ctx, query,
		entry.CacheKey,
		entry.Operation,
		entry.RequestHash,
		[]byte(entry.Response),
		entry.ExpiresAt.UTC(),
		entry.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("cache put: %w", err)
	}

	return nil
}

// Touch increments the hit counter for cacheKey. A missing row is not an
// error; the counter is best-effort.
func (s *SQLStore) Touch(ctx context.Context, cacheKey string) error {
	query := s.db.Rebind(`
		UPDATE ai_response_cache SET hit_count = hit_count + 1 WHERE cache_key = ?
	`)

	if _, err := s.db.ExecContext(ctx, query, cacheKey); err != nil {
		return fmt.Errorf("cache touch: %w", err)
	}

	return nil
}

// Close releases the underlying database handle.
func (s *SQLStore) Close() error {
	return s.db.Close()
}
