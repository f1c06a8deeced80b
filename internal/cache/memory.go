package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache keeps raw documents in process memory
type MemoryCache struct {
	items *gocache.Cache
	keys  *LRU[struct{}]
}

// NewMemoryCache creates a memory tier. A zero ttl keeps entries until they
// are evicted. A positive maxItems caps the tier, dropping the least recently
// used document first; zero leaves it unbounded.
func NewMemoryCache(ttl time.Duration, maxItems int) *MemoryCache {
	expiry := gocache.NoExpiration
	cleanup := time.Duration(0)
	if ttl > 0 {
		expiry = ttl
		cleanup = ttl
	}

	c := &MemoryCache{
		items: gocache.New(expiry, cleanup),
	}
	if maxItems > 0 {
		c.keys = NewLRU[struct{}](maxItems)
		c.keys.OnEvict(func(key string, _ struct{}) {
			c.items.Delete(key)
		})
		// expiry and explicit deletes release the slot
		c.items.OnEvicted(func(key string, _ interface{}) {
			c.keys.Remove(key)
		})
	}
	return c
}

// Get returns the cached document for an IRI
func (c *MemoryCache) Get(key string) ([]byte, bool) {
	val, found := c.items.Get(key)
	if !found {
		return nil, false
	}
	if c.keys != nil {
		c.keys.Get(key)
	}
	data, ok := val.([]byte)
	return data, ok
}

// Set stores a document with the tier's default expiry
func (c *MemoryCache) Set(key string, value []byte) error {
	c.items.Set(key, value, gocache.DefaultExpiration)
	if c.keys != nil {
		c.keys.Add(key, struct{}{})
	}
	return nil
}

// Delete drops one document
func (c *MemoryCache) Delete(key string) error {
	c.items.Delete(key)
	return nil
}

// Clear drops every document
func (c *MemoryCache) Clear() error {
	if c.keys == nil {
		c.items.Flush()
		return nil
	}
	for key := range c.items.Items() {
		c.items.Delete(key)
	}
	return nil
}

// Len returns the number of cached documents, expired ones included until cleanup
func (c *MemoryCache) Len() int {
	return c.items.ItemCount()
}
