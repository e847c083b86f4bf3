package poi

import (
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/tripdesk/berlin-cli/internal/model"
)

// Cache memoizes search results per canonical request key for the lifetime
// of the process (no eviction; the key space is bounded by the UI's small
// set of category/filter combinations). Concurrent misses on the same key
// compute once via singleflight.
type Cache struct {
	mu      sync.RWMutex
	entries map[string][]model.PlaceRecord
	group   singleflight.Group
}

// NewCache creates an empty result cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string][]model.PlaceRecord)}
}

// Get returns the cached records for key, if present.
func (c *Cache) Get(key string) ([]model.PlaceRecord, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	records, ok := c.entries[key]
	return records, ok
}

// Do returns the cached records for key or computes and stores them. Only
// successful computations are cached; errors are returned to every waiter.
func (c *Cache) Do(key string, compute func() ([]model.PlaceRecord, error)) ([]model.PlaceRecord, error) {
	if records, ok := c.Get(key); ok {
		return records, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		if records, ok := c.Get(key); ok {
			return records, nil
		}
		records, err := compute()
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.entries[key] = records
		c.mu.Unlock()
		return records, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]model.PlaceRecord), nil
}

// Len reports the number of cached keys.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Keys returns the cached request keys, for inspection.
func (c *Cache) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	return keys
}
