package cache

import (
	"container/list"
	"sync"
)

// LRU is a size-bounded, concurrency-safe least-recently-used cache.
// A capacity of zero or less disables it: Add is a no-op and Get always misses.
type LRU[V any] struct {
	mu       sync.Mutex
	capacity int
	items    map[string]*list.Element
	order    *list.List
	onEvict  func(key string, value V)
}

type lruEntry[V any] struct {
	key   string
	value V
}

// NewLRU creates an LRU holding at most capacity entries
func NewLRU[V any](capacity int) *LRU[V] {
	return &LRU[V]{
		capacity: capacity,
		items:    make(map[string]*list.Element),
		order:    list.New(),
	}
}

// OnEvict registers a callback for every eviction. It runs after the lock
// is released, so it may call back into the cache.
func (c *LRU[V]) OnEvict(fn func(key string, value V)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onEvict = fn
}

// Get returns the value for key and marks it most recently used
func (c *LRU[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		var zero V
		return zero, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*lruEntry[V]).value, true
}

// Add inserts or replaces a value, evicting the oldest entry when full.
// It reports whether an eviction happened.
func (c *LRU[V]) Add(key string, value V) bool {
	if c.capacity <= 0 {
		return false
	}

	c.mu.Lock()

	if el, ok := c.items[key]; ok {
		el.Value.(*lruEntry[V]).value = value
		c.order.MoveToFront(el)
		c.mu.Unlock()
		return false
	}

	c.items[key] = c.order.PushFront(&lruEntry[V]{key: key, value: value})
	if c.order.Len() <= c.capacity {
		c.mu.Unlock()
		return false
	}

	oldest := c.order.Back()
	entry := oldest.Value.(*lruEntry[V])
	c.order.Remove(oldest)
	delete(c.items, entry.key)
	onEvict := c.onEvict
	c.mu.Unlock()

	if onEvict != nil {
		onEvict(entry.key, entry.value)
	}
	return true
}

// Remove drops a key
func (c *LRU[V]) Remove(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		c.order.Remove(el)
		delete(c.items, key)
	}
}

// Len returns the number of entries
func (c *LRU[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
