// Package querycache memoizes rendered search responses per route, query
// string and requester, and drops them when a mutation touches the route.
package querycache

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"tandabase/internal/metrics"
)

// Key identifies a cached response.
type Key struct {
	Route  string
	Query  string
	UserID int64
}

func (k Key) String() string {
	return fmt.Sprintf("%s?%s#%d", k.Route, k.Query, k.UserID)
}

type entry struct {
	body    []byte
	expires time.Time
}

// Cache is safe for concurrent use. A zero TTL disables caching.
type Cache struct {
	ttl   time.Duration
	now   func() time.Time
	group singleflight.Group

	mu      sync.Mutex
	entries map[Key]entry
	// epoch counts invalidations; invalidated keeps the epoch at which each
	// prefix was last dropped so fills started earlier are not stored.
	epoch       uint64
	invalidated map[string]uint64
}

// New returns a cache whose entries live for ttl.
func New(ttl time.Duration) *Cache {
	return &Cache{
		ttl:         ttl,
		now:         time.Now,
		entries:     make(map[Key]entry),
		invalidated: make(map[string]uint64),
	}
}

// Enabled reports whether the cache stores anything.
func (c *Cache) Enabled() bool {
	return c != nil && c.ttl > 0
}

// Get returns a live entry.
func (c *Cache) Get(key Key) ([]byte, bool) {
	if !c.Enabled() {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if !c.now().Before(e.expires) {
		delete(c.entries, key)
		return nil, false
	}
	return e.body, true
}

// Set stores body under key.
func (c *Cache) Set(key Key, body []byte) {
	if !c.Enabled() {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{body: body, expires: c.now().Add(c.ttl)}
}

func (c *Cache) currentEpoch() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.epoch
}

// setIfCurrent stores body unless the key's route was invalidated after
// since.
func (c *Cache) setIfCurrent(key Key, body []byte, since uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for prefix, at := range c.invalidated {
		if at > since && strings.HasPrefix(key.Route, prefix) {
			return false
		}
	}
	c.entries[key] = entry{body: body, expires: c.now().Add(c.ttl)}
	return true
}

// Do returns the cached body for key or computes it with fn. Concurrent
// misses for the same key share one call to fn. Errors are not cached.
func (c *Cache) Do(key Key, fn func() ([]byte, error)) ([]byte, bool, error) {
	if !c.Enabled() {
		body, err := fn()
		return body, false, err
	}

	if body, ok := c.Get(key); ok {
		metrics.CacheLookupsTotal.WithLabelValues("hit").Inc()
		return body, true, nil
	}
	metrics.CacheLookupsTotal.WithLabelValues("miss").Inc()

	// Callers arriving after an invalidation must not join a fill that
	// started before it, so the epoch is part of the flight key.
	since := c.currentEpoch()
	flight := fmt.Sprintf("%s@%d", key, since)
	v, err, _ := c.group.Do(flight, func() (any, error) {
		body, err := fn()
		if err != nil {
			return nil, err
		}
		if !c.setIfCurrent(key, body, since) {
			metrics.CacheLookupsTotal.WithLabelValues("stale").Inc()
		}
		return body, nil
	})
	if err != nil {
		return nil, false, err
	}
	return v.([]byte), false, nil
}

// InvalidatePrefix drops every entry whose route starts with prefix and
// returns how many were removed.
func (c *Cache) InvalidatePrefix(prefix string) int {
	if !c.Enabled() {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.epoch++
	c.invalidated[prefix] = c.epoch
	removed := 0
	for k := range c.entries {
		if strings.HasPrefix(k.Route, prefix) {
			delete(c.entries, k)
			removed++
		}
	}
	metrics.CacheInvalidationsTotal.Add(float64(removed))
	return removed
}

// Len returns the number of stored entries, expired ones included.
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
