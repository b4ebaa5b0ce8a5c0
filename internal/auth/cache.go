package auth

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// DefaultCacheTTL is the expiry applied when callers pass no explicit TTL
const DefaultCacheTTL = time.Hour

// Cache is a keyed store of values with absolute expiry timestamps. Eviction
// is entirely lazy: expired entries are removed by Get, or in bulk by
// SweepExpired. No background timer runs. The clock is injected so expiry is
// testable without sleeping.
type Cache struct {
	mu      sync.RWMutex
	clock   clockwork.Clock
	entries map[string]cacheEntry
}

type cacheEntry struct {
	value     interface{}
	expiresAt time.Time
}

// NewCache creates an empty cache. A nil clock selects the real one.
func NewCache(clock clockwork.Clock) *Cache {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Cache{
		clock:   clock,
		entries: make(map[string]cacheEntry),
	}
}

// Put stores value under key with the given TTL. A zero TTL means the entry
// is already expired on the next Get; a negative TTL selects DefaultCacheTTL.
func (c *Cache) Put(key string, value interface{}, ttl time.Duration) {
	if ttl < 0 {
		ttl = DefaultCacheTTL
	}
	c.mu.Lock()
	c.entries[key] = cacheEntry{
		value:     value,
		expiresAt: c.clock.Now().Add(ttl),
	}
	c.mu.Unlock()
}

// Get returns the value stored under key. An entry past its expiry is evicted
// and reported as absent.
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	entry, exists := c.entries[key]
	c.mu.RUnlock()

	if !exists {
		return nil, false
	}

	if c.clock.Now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false
	}

	return entry.value, true
}

// Remove deletes one entry
func (c *Cache) Remove(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Clear removes all entries
func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]cacheEntry)
	c.mu.Unlock()
}

// SweepExpired proactively removes every entry whose expiry has passed
func (c *Cache) SweepExpired() {
	now := c.clock.Now()
	c.mu.Lock()
	for key, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, key)
		}
	}
	c.mu.Unlock()
}

// Len returns the number of entries, expired ones included
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
