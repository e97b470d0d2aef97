package cache

import (
	"sync"
	"time"
)

// Entry is one cached value and the moment it was stored
type Entry[V any] struct {
	Value      V
	InsertedAt time.Time
}

// IsExpired reports whether the entry is outside its validity window at now
func (e Entry[V]) IsExpired(now time.Time, ttl time.Duration) bool {
	return now.Sub(e.InsertedAt) >= ttl
}

// Clock returns the current time; tests substitute a fake
type Clock func() time.Time

// Memory is an in-process TTL cache keyed by string
// Concurrent writers for one key overwrite each other (last write wins)
type Memory[V any] struct {
	mu      sync.RWMutex
	entries map[string]Entry[V]
	ttl     time.Duration
	now     Clock
}

// NewMemory creates a cache whose entries live for ttl
func NewMemory[V any](ttl time.Duration) *Memory[V] {
	return &Memory[V]{
		entries: make(map[string]Entry[V]),
		ttl:     ttl,
		now:     time.Now,
	}
}

// WithClock replaces the time source
func (c *Memory[V]) WithClock(now Clock) *Memory[V] {
	c.now = now
	return c
}

// TTL returns the validity window
func (c *Memory[V]) TTL() time.Duration {
	return c.ttl
}

// Get returns a live value; expired entries are reported as misses
func (c *Memory[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || entry.IsExpired(c.now(), c.ttl) {
		var zero V
		return zero, false
	}

	return entry.Value, true
}

// Set stores value under key, stamped with the current time
func (c *Memory[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = Entry[V]{Value: value, InsertedAt: c.now()}
}

// Delete removes key
func (c *Memory[V]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
}

// Purge drops every expired entry and returns how many were removed
func (c *Memory[V]) Purge() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for key, entry := range c.entries {
		if entry.IsExpired(now, c.ttl) {
			delete(c.entries, key)
			removed++
		}
	}

	return removed
}

// Len returns the number of stored entries, expired ones included
func (c *Memory[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}
