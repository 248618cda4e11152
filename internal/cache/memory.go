package cache

import (
	"sync"
	"time"
)

type entry struct {
	value     interface{}
	expiresAt time.Time
}

func (e entry) expired() bool {
	return time.Now().After(e.expiresAt)
}

// MemoryCache is a TTL map used for probe results and other small lookups.
// Expired entries are invisible to Get immediately and reaped in the
// background every few minutes.
type MemoryCache struct {
	mu    sync.RWMutex
	items map[string]entry
	ttl   time.Duration
}

// NewMemoryCache creates a cache whose entries live for ttl.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	c := &MemoryCache{
		items: make(map[string]entry),
		ttl:   ttl,
	}
	go c.reapLoop()
	return c
}

// Set stores a value under key, resetting its TTL.
func (c *MemoryCache) Set(key string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = entry{value: value, expiresAt: time.Now().Add(c.ttl)}
}

// Get returns the live value for key.
func (c *MemoryCache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.items[key]
	if !ok || e.expired() {
		return nil, false
	}
	return e.value, true
}

// Delete removes key.
func (c *MemoryCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

// Clear drops every entry.
func (c *MemoryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]entry)
}

// Size counts stored entries, expired ones included until the next reap.
func (c *MemoryCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

func (c *MemoryCache) reapLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		c.mu.Lock()
		for key, e := range c.items {
			if e.expired() {
				delete(c.items, key)
			}
		}
		c.mu.Unlock()
	}
}

// DurationCache caches probed audio durations keyed by source URL, so
// repeated saves of the same item skip the download.
type DurationCache struct {
	*MemoryCache
}

// NewDurationCache creates a duration cache with the given TTL.
func NewDurationCache(ttl time.Duration) *DurationCache {
	return &DurationCache{MemoryCache: NewMemoryCache(ttl)}
}

// SetDuration caches the duration in seconds for a URL.
func (dc *DurationCache) SetDuration(url string, seconds int) {
	dc.Set(url, seconds)
}

// GetDuration returns the cached duration for a URL.
func (dc *DurationCache) GetDuration(url string) (int, bool) {
	value, ok := dc.Get(url)
	if !ok {
		return 0, false
	}
	seconds, ok := value.(int)
	return seconds, ok
}
