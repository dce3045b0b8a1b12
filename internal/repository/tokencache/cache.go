package tokencache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/edsapi/internal/db"
	domtoken "github.com/kailas-cloud/edsapi/internal/domain/token"
)

// store is the consumer interface for the token cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// Cache persists the authentication token and the default session as JSON
// entries. The auth entry expires with the token; the session entry lives
// until the service rejects it or it is cleared.
type Cache struct {
	store  store
	prefix string
	now    func() time.Time
}

// New creates a token cache. prefix is prepended to every entry name.
func New(s store, prefix string) *Cache {
	return &Cache{store: s, prefix: prefix, now: time.Now}
}

// WithClock replaces the time source.
func (c *Cache) WithClock(now func() time.Time) *Cache {
	c.now = now
	return c
}

// GetAuth reads the cached authentication token.
func (c *Cache) GetAuth(ctx context.Context) (domtoken.AuthToken, bool, error) {
	var tok domtoken.AuthToken
	found, err := c.get(ctx, domtoken.AuthCacheKey, &tok)
	return tok, found, err
}

// SetAuth caches tok until its expiration. An already expired token is not
// written.
func (c *Cache) SetAuth(ctx context.Context, tok domtoken.AuthToken) error {
	ttl := tok.TTL(c.now())
	if ttl <= 0 {
		return nil
	}
	data, err := json.Marshal(tok)
	if err != nil {
		return fmt.Errorf("marshal auth token: %w", err)
	}
	if err := c.store.SetWithTTL(ctx, c.key(domtoken.AuthCacheKey), data, ttl); err != nil {
		return fmt.Errorf("store auth token: %w", err)
	}
	return nil
}

// GetSession reads the cached session.
func (c *Cache) GetSession(ctx context.Context) (domtoken.Session, bool, error) {
	var s domtoken.Session
	found, err := c.get(ctx, domtoken.SessionCacheKey, &s)
	return s, found, err
}

// SetSession caches the session.
func (c *Cache) SetSession(ctx context.Context, s domtoken.Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := c.store.Set(ctx, c.key(domtoken.SessionCacheKey), data); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

// Clear removes both entries.
func (c *Cache) Clear(ctx context.Context) error {
	for _, name := range []string{domtoken.AuthCacheKey, domtoken.SessionCacheKey} {
		if err := c.store.Del(ctx, c.key(name)); err != nil {
			return fmt.Errorf("clear %s: %w", name, err)
		}
	}
	return nil
}

func (c *Cache) get(ctx context.Context, name string, v any) (bool, error) {
	data, err := c.store.Get(ctx, c.key(name))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("read %s: %w", name, err)
	}
	if len(data) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("decode %s: %w", name, err)
	}
	return true, nil
}

func (c *Cache) key(name string) string {
	return c.prefix + name
}
