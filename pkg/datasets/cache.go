package datasets

import (
	"sync"
)

// Key computes the cache key for a dataset load: the dataset name and the
// subset (empty when absent) joined by a fixed separator.
func Key(name, subset string) string {
	return name + "::" + subset
}

// Cache memoizes dataset summaries by load key. A zero capacity leaves the
// cache unbounded, which is the gateway's default: repeated loads of distinct
// datasets grow the map for the life of the process. A positive capacity turns
// the cache into a FIFO of that many entries.
type Cache struct {
	// mu guards entries and order.
	mu sync.RWMutex
	// capacity is the maximum number of entries, zero for unbounded.
	capacity int
	// entries maps load keys to summaries.
	entries map[string]*Summary
	// order records insertion order for capacity eviction.
	order []string
}

// NewCache creates a new summary cache with the given capacity. Zero means
// unbounded.
func NewCache(capacity int) *Cache {
	return &Cache{
		capacity: capacity,
		entries:  make(map[string]*Summary),
	}
}

// Get returns the cached summary for key, if any.
func (c *Cache) Get(key string) (*Summary, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	summary, ok := c.entries[key]
	return summary, ok
}

// Put stores a summary under key, evicting the oldest entry if the cache is at
// capacity.
func (c *Cache) Put(key string, summary *Summary) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[key]; !ok {
		c.order = append(c.order, key)
		if c.capacity > 0 && len(c.order) > c.capacity {
			oldest := c.order[0]
			c.order = c.order[1:]
			delete(c.entries, oldest)
		}
	}
	c.entries[key] = summary
}

// Len returns the number of cached summaries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
