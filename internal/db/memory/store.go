// Package memory provides an in-process token store for single-instance
// deployments and tests.
package memory

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/kailas-cloud/edsapi/internal/db"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

// DefaultMaxItems bounds the store when no size is configured.
const DefaultMaxItems = 1024

type entry struct {
	value     []byte
	expiresAt time.Time // zero means no expiry
}

// Store is a thread-safe LRU key-value store with per-entry expiry.
type Store struct {
	cache  *lru.Cache[string, entry]
	now    func() time.Time
	closed atomic.Bool
}

// NewStore creates a store holding at most maxItems entries.
func NewStore(maxItems int) (*Store, error) {
	if maxItems <= 0 {
		maxItems = DefaultMaxItems
	}
	c, err := lru.New[string, entry](maxItems)
	if err != nil {
		return nil, fmt.Errorf("create lru cache: %w", err)
	}
	return &Store{cache: c, now: time.Now}, nil
}

// WithClock replaces the time source.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// Ping reports whether the store is open.
func (s *Store) Ping(_ context.Context) error {
	if s.closed.Load() {
		return &db.Error{Op: db.OpPing, Err: db.ErrClosed}
	}
	return nil
}

// Close purges all entries. Further calls fail with db.ErrClosed.
func (s *Store) Close() {
	s.closed.Store(true)
	s.cache.Purge()
}

// WaitForReady returns immediately; an in-process store is always ready.
func (s *Store) WaitForReady(ctx context.Context, _ time.Duration) error {
	return s.Ping(ctx)
}

// Get retrieves a value. Expired entries are removed and reported missing.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	if s.closed.Load() {
		return nil, &db.Error{Op: db.OpGet, Err: db.ErrClosed}
	}
	e, ok := s.cache.Get(key)
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	if !e.expiresAt.IsZero() && !s.now().Before(e.expiresAt) {
		s.cache.Remove(key)
		return nil, db.ErrKeyNotFound
	}
	out := make([]byte, len(e.value))
	copy(out, e.value)
	return out, nil
}

// Set stores a value without expiry.
func (s *Store) Set(_ context.Context, key string, value []byte) error {
	return s.put(key, value, time.Time{})
}

// SetWithTTL stores a value that expires after ttl.
func (s *Store) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) error {
	return s.put(key, value, s.now().Add(ttl))
}

// Del removes a key.
func (s *Store) Del(_ context.Context, key string) error {
	if s.closed.Load() {
		return &db.Error{Op: db.OpDel, Err: db.ErrClosed}
	}
	s.cache.Remove(key)
	return nil
}

// Len returns the number of stored entries, expired ones included.
func (s *Store) Len() int {
	return s.cache.Len()
}

func (s *Store) put(key string, value []byte, expiresAt time.Time) error {
	if s.closed.Load() {
		return &db.Error{Op: db.OpSet, Err: db.ErrClosed}
	}
	v := make([]byte, len(value))
	copy(v, value)
	s.cache.Add(key, entry{value: v, expiresAt: expiresAt})
	return nil
}
