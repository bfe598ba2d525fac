// Package cache provides the short-lived in-memory caches the report engine
// sits behind: a value is valid while now-insertedAt < TTL, stale entries
// are treated as misses and only reclaimed when overwritten or when the
// optional janitor runs. Growth across distinct credential sets is accepted.
package cache

import (
	"strings"
	"sync"
	"time"
)

// DefaultTTL is the freshness window shared by the user, report, project
// and board caches.
const DefaultTTL = 5 * time.Minute

type entry[V any] struct {
	value      V
	insertedAt time.Time
}

// Cache is a TTL-bounded map from string keys to values of type V.
// The zero value is not usable; construct with New.
type Cache[V any] struct {
	mu      sync.RWMutex
	ttl     time.Duration
	clock   func() time.Time
	entries map[string]entry[V]
}

// Option configures cache construction.
type Option func(*settings)

type settings struct {
	clock func() time.Time
}

// WithClock replaces the time source, enabling deterministic TTL tests.
func WithClock(clock func() time.Time) Option {
	return func(s *settings) {
		s.clock = clock
	}
}

// New creates a cache whose entries expire ttl after insertion.
func New[V any](ttl time.Duration, opts ...Option) *Cache[V] {
	s := &settings{clock: time.Now}
	for _, opt := range opts {
		opt(s)
	}

	return &Cache[V]{
		ttl:     ttl,
		clock:   s.clock,
		entries: make(map[string]entry[V]),
	}
}

// Get returns the cached value when present and still fresh. A stale entry
// is reported as a miss but left in place; the next Set overwrites it.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok || c.clock().Sub(e.insertedAt) >= c.ttl {
		var zero V
		return zero, false
	}
	return e.value, true
}

// Set stores value under key, resetting its freshness window.
func (c *Cache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry[V]{value: value, insertedAt: c.clock()}
}

// Len reports the number of stored entries, fresh or stale.
func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

// DeleteExpired removes every stale entry and reports how many were removed.
func (c *Cache[V]) DeleteExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock()
	removed := 0
	for key, e := range c.entries {
		if now.Sub(e.insertedAt) >= c.ttl {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

// StartJanitor launches a background sweep of expired entries every
// interval and returns a handle that stops it. Stopping twice is safe.
func (c *Cache[V]) StartJanitor(interval time.Duration) (stop func()) {
	done := make(chan struct{})
	ticker := time.NewTicker(interval)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				c.DeleteExpired()
			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() { close(done) })
	}
}

// Key derives the cache key for credential-scoped lookups.
func Key(baseURL, identity string) string {
	return baseURL + ":" + identity
}

// ReportKey derives the cache key for a ranged report, scoped by credential
// identity, report type, report scope and date range.
func ReportKey(baseURL, identity, reportType, scopeID, startDate, endDate string) string {
	return strings.Join([]string{baseURL, identity, reportType, scopeID, startDate, endDate}, ":")
}
