package cache

// LayeredCache checks a fast tier before a persistent one and promotes hits
type LayeredCache struct {
	front Store
	back  Store
}

// NewLayeredCache stacks front (usually memory) over back (usually disk)
func NewLayeredCache(front, back Store) *LayeredCache {
	return &LayeredCache{
		front: front,
		back:  back,
	}
}

// Get returns a document from the first tier that has it
func (c *LayeredCache) Get(key string) ([]byte, bool) {
	if val, found := c.front.Get(key); found {
		return val, true
	}

	val, found := c.back.Get(key)
	if !found {
		return nil, false
	}
	_ = c.front.Set(key, val)
	return val, true
}

// Set writes through to both tiers. A failing back tier is reported, but
// the front tier still holds the document.
func (c *LayeredCache) Set(key string, value []byte) error {
	if err := c.front.Set(key, value); err != nil {
		return err
	}
	return c.back.Set(key, value)
}

// Delete removes a document from both tiers
func (c *LayeredCache) Delete(key string) error {
	_ = c.front.Delete(key)
	return c.back.Delete(key)
}

// Clear empties both tiers
func (c *LayeredCache) Clear() error {
	_ = c.front.Clear()
	return c.back.Clear()
}
