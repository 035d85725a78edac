package cache

import (
	"fmt"
	"sync"
	"time"
)

// Cache is a generic expiring key/value store. Expired entries are evicted
// lazily on Get; there is no background sweep, so a key written once and
// never read again occupies memory until Clear or process restart. That
// trade-off fits a process-scoped response cache with a bounded key space.
type Cache[V any] struct {
	mu         sync.Mutex
	defaultTTL time.Duration
	entries    map[string]entry[V]
	now        func() time.Time
}

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// New constructs a cache with the given default TTL. A non-positive TTL is a
// configuration error.
func New[V any](defaultTTL time.Duration) (*Cache[V], error) {
	if defaultTTL <= 0 {
		return nil, fmt.Errorf("cache: default ttl must be positive, got %s", defaultTTL)
	}
	return &Cache[V]{
		defaultTTL: defaultTTL,
		entries:    make(map[string]entry[V]),
		now:        time.Now,
	}, nil
}

// Get returns the stored value while it is still live. An expired entry is
// evicted and reported as absent.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	e, ok := c.entries[key]
	if !ok {
		return zero, false
	}
	if !c.now().Before(e.expiresAt) {
		delete(c.entries, key)
		return zero, false
	}
	return e.value, true
}

// Set stores the value, unconditionally replacing any existing entry. A
// non-positive ttl falls back to the default.
func (c *Cache[V]) Set(key string, value V, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry[V]{value: value, expiresAt: c.now().Add(ttl)}
}

// Delete evicts a single key.
func (c *Cache[V]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Clear evicts everything.
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry[V])
}

// Len reports the number of stored entries, expired or not.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// WithClock overrides the time source. Test hook.
func (c *Cache[V]) WithClock(now func() time.Time) *Cache[V] {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
	return c
}
