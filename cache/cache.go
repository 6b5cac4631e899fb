// SPDX-License-Identifier: MIT

// Package cache keeps unfold results in a SQLite file keyed by mesh content
// and the settings that shape the result, so unchanged meshes are not
// solved twice. It sits outside the pipeline: Unfold itself never caches.
package cache

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/katalvlaran/unfold/manufacturing"
	"github.com/katalvlaran/unfold/unfold"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// ErrClosed is returned by every method after Close.
var ErrClosed = errors.New("cache: store is closed")

const schema = `CREATE TABLE IF NOT EXISTS results (
	key        TEXT PRIMARY KEY,
	method     TEXT NOT NULL,
	payload    BLOB NOT NULL,
	created_at INTEGER NOT NULL
)`

// Store is a result cache backed by database/sql and modernc.org/sqlite.
// It is safe for concurrent use; writes are serialized on one connection.
type Store struct {
	mu sync.RWMutex
	db *sql.DB
}

// Open opens or creates the cache at path (MemoryPath for a throwaway one).
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("cache: open %s: %w", path, err)
	}
	// One connection: an in-memory database is per connection, and SQLite
	// serializes writers anyway.
	db.SetMaxOpenConns(1)

	for _, stmt := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		schema,
	} {
		if _, err = db.Exec(stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("cache: init %s: %w", path, err)
		}
	}

	return &Store{db: db}, nil
}

// Key derives the cache key of a mesh content hash (mesh.ContentHash), a
// method and the thresholds that shape the verdict.
func Key(meshHash string, method unfold.Method, th manufacturing.Thresholds) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%s|%g|%g|%g|%g|%g|%g", meshHash, method,
		th.MaxAngleDistortionDeg, th.MaxAreaDistortion,
		th.MaterialWidth, th.MaterialHeight, th.CuttingTolerance, th.SizeIncrement)

	return hex.EncodeToString(h.Sum(nil))
}

// Get returns the cached result for key; ok is false on a miss.
func (s *Store) Get(ctx context.Context, key string) (res *unfold.Result, ok bool, err error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return nil, false, ErrClosed
	}
	var payload []byte
	err = s.db.QueryRowContext(ctx, "SELECT payload FROM results WHERE key = ?", key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache: get: %w", err)
	}
	res = new(unfold.Result)
	if err = json.Unmarshal(payload, res); err != nil {
		return nil, false, fmt.Errorf("cache: decode %s: %w", key, err)
	}

	return res, true, nil
}

// Put stores res under key, replacing any previous entry.
func (s *Store) Put(ctx context.Context, key string, res *unfold.Result) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return ErrClosed
	}
	if res == nil {
		return errors.New("cache: put: nil result")
	}
	payload, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("cache: encode %s: %w", key, err)
	}
	_, err = s.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO results (key, method, payload, created_at) VALUES (?, ?, ?, ?)",
		key, res.Method.String(), payload, time.Now().UnixNano())
	if err != nil {
		return fmt.Errorf("cache: put: %w", err)
	}

	return nil
}

// Purge deletes entries stored more than olderThan ago and returns how many
// went. Purge(ctx, 0) empties the cache.
func (s *Store) Purge(ctx context.Context, olderThan time.Duration) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return 0, ErrClosed
	}
	cutoff := time.Now().Add(-olderThan).UnixNano()
	r, err := s.db.ExecContext(ctx, "DELETE FROM results WHERE created_at <= ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("cache: purge: %w", err)
	}

	return r.RowsAffected()
}

// Len returns the number of cached results.
func (s *Store) Len(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return 0, ErrClosed
	}
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM results").Scan(&n); err != nil {
		return 0, fmt.Errorf("cache: len: %w", err)
	}

	return n, nil
}

// Close releases the database. Further calls return ErrClosed.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return ErrClosed
	}
	err := s.db.Close()
	s.db = nil

	return err
}
