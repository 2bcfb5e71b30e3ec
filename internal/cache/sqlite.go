package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/expozr/navigator/pkg/types"
)

// cacheDBName is the SQLite database file inside the store's data directory.
const cacheDBName = "cache.db"

// Schema DDL for the cache table. expires_at is unix milliseconds, 0 = never.
const createCacheEntries = `CREATE TABLE IF NOT EXISTS cache_entries (
    key TEXT PRIMARY KEY,
    value BLOB NOT NULL,
    expires_at INTEGER NOT NULL DEFAULT 0
);`

// SQLite is the transactional persistent larger-capacity store. Writes run
// inside a transaction; values round-trip through JSON and are returned as
// json.RawMessage.
type SQLite struct {
	mu  sync.Mutex
	db  *sql.DB
	now func() time.Time
}

// NewSQLite opens (or creates) the SQLite store rooted at dataDir and
// initializes its schema.
func NewSQLite(dataDir string) (*SQLite, error) {
	if dataDir == "" {
		dataDir = "."
	}
	if err := ensureDir(dataDir); err != nil {
		return nil, &types.CacheError{Op: "open", Cause: err}
	}

	db, err := sql.Open("sqlite", filepath.Join(dataDir, cacheDBName))
	if err != nil {
		return nil, &types.CacheError{Op: "open", Cause: err}
	}
	if _, err := db.Exec(createCacheEntries); err != nil {
		db.Close()
		return nil, &types.CacheError{Op: "open", Cause: err}
	}

	return &SQLite{db: db, now: time.Now}, nil
}

// Get returns the live value for key, lazily deleting an expired row.
func (s *SQLite) Get(ctx context.Context, key string) (any, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var value []byte
	var expiresAt int64
	row := s.db.QueryRowContext(ctx,
		`SELECT value, expires_at FROM cache_entries WHERE key = ?`, key)
	if err := row.Scan(&value, &expiresAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		return nil, false, &types.CacheError{Op: "get", Key: key, Cause: err}
	}

	if expiresAt != 0 && s.now().UnixMilli() >= expiresAt {
		if _, err := s.db.ExecContext(ctx,
			`DELETE FROM cache_entries WHERE key = ?`, key); err != nil {
			return nil, false, &types.CacheError{Op: "get", Key: key, Cause: err}
		}
		return nil, false, nil
	}
	return json.RawMessage(value), true, nil
}

// Set stores value under key inside a transaction.
func (s *SQLite) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return &types.CacheError{Op: "set", Key: key, Cause: err}
	}

	var expiresAt int64
	if ttl > 0 {
		expiresAt = s.now().Add(ttl).UnixMilli()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &types.CacheError{Op: "set", Key: key, Cause: err}
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO cache_entries (key, value, expires_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, expires_at = excluded.expires_at`,
		key, raw, expiresAt); err != nil {
		tx.Rollback()
		return &types.CacheError{Op: "set", Key: key, Cause: err}
	}
	if err := tx.Commit(); err != nil {
		return &types.CacheError{Op: "set", Key: key, Cause: err}
	}
	return nil
}

// Has reports whether a live entry exists.
func (s *SQLite) Has(ctx context.Context, key string) (bool, error) {
	_, ok, err := s.Get(ctx, key)
	return ok, err
}

// Delete removes the entry for key.
func (s *SQLite) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM cache_entries WHERE key = ?`, key); err != nil {
		return &types.CacheError{Op: "delete", Key: key, Cause: err}
	}
	return nil
}

// Clear removes every entry.
func (s *SQLite) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, `DELETE FROM cache_entries`); err != nil {
		return &types.CacheError{Op: "clear", Cause: err}
	}
	return nil
}

// Size returns the number of rows, including not-yet-evicted expired ones.
func (s *SQLite) Size(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int
	row := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cache_entries`)
	if err := row.Scan(&n); err != nil {
		return 0, &types.CacheError{Op: "size", Cause: err}
	}
	return n, nil
}

// CleanExpired removes expired rows with one ranged delete.
func (s *SQLite) CleanExpired(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`DELETE FROM cache_entries WHERE expires_at != 0 AND expires_at <= ?`,
		s.now().UnixMilli())
	if err != nil {
		return 0, &types.CacheError{Op: "clean", Cause: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, &types.CacheError{Op: "clean", Cause: err}
	}
	return int(n), nil
}

// Close closes the database. Idempotent.
func (s *SQLite) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}
