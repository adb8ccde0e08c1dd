package renderer

import "sync"

// Cache is a bounded memo table. When it grows past maxEntries the oldest
// half of the entries is dropped. A Cache belongs to one render session.
type Cache[K comparable, V any] struct {
	mu         sync.Mutex
	maxEntries int
	entries    map[K]V
	order      []K
}

// NewCache creates a cache holding up to maxEntries values
func NewCache[K comparable, V any](maxEntries int) *Cache[K, V] {
	if maxEntries < 2 {
		maxEntries = 2
	}
	return &Cache[K, V]{
		maxEntries: maxEntries,
		entries:    make(map[K]V),
	}
}

// Get returns the cached value for key
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[key]
	return v, ok
}

// Put stores value under key, evicting the oldest half when full
func (c *Cache[K, V]) Put(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; exists {
		c.entries[key] = value
		return
	}
	c.entries[key] = value
	c.order = append(c.order, key)

	if len(c.order) > c.maxEntries {
		half := len(c.order) / 2
		for _, k := range c.order[:half] {
			delete(c.entries, k)
		}
		c.order = append(c.order[:0:0], c.order[half:]...)
	}
}

// Len reports the number of cached entries
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
