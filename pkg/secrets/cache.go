package secrets

import (
	"context"
	"sync"
	"time"
)

type cacheItem struct {
	value      map[string]string
	expiration time.Time
}

// CachedProvider wraps a Provider with an in-memory TTL cache so repeated
// lookups of the same secret do not hit the backend. Safe for concurrent use.
type CachedProvider struct {
	mu      sync.RWMutex
	data    map[string]cacheItem
	ttl     time.Duration
	backend Provider
}

// NewCached wraps backend with a TTL cache.
func NewCached(backend Provider, ttl time.Duration) *CachedProvider {
	return &CachedProvider{
		data:    make(map[string]cacheItem),
		ttl:     ttl,
		backend: backend,
	}
}

// GetSecret returns the cached value when fresh, otherwise fetches from the
// backend and stores the result.
func (c *CachedProvider) GetSecret(ctx context.Context, key string) (map[string]string, error) {
	c.mu.RLock()
	item, ok := c.data[key]
	c.mu.RUnlock()
	if ok && time.Now().Before(item.expiration) {
		return item.value, nil
	}

	value, err := c.backend.GetSecret(ctx, key)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.data[key] = cacheItem{value: value, expiration: time.Now().Add(c.ttl)}
	c.mu.Unlock()
	return value, nil
}

// Bust deletes a single entry (e.g. on secret rotation).
func (c *CachedProvider) Bust(key string) {
	c.mu.Lock()
	delete(c.data, key)
	c.mu.Unlock()
}
