package geocode

import (
	"sync"
	"time"
)

// cache is a TTL cache for lookup outcomes. Both successful results and
// not-found outcomes are cached; wire failures are not.
type cache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	ttl     time.Duration
}

type cacheEntry struct {
	expires time.Time
	result  Result
	found   bool
}

// newCache returns a disabled cache for non-positive TTLs.
func newCache(ttl time.Duration) *cache {
	return &cache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
	}
}

// get returns the cached outcome for a normalized postcode.
// ok reports whether a live entry exists, found whether it was a hit upstream.
func (c *cache) get(key string) (res Result, found, ok bool) {
	if c.ttl <= 0 {
		return Result{}, false, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	e, exists := c.entries[key]
	if !exists {
		return Result{}, false, false
	}
	if time.Now().After(e.expires) {
		delete(c.entries, key)
		return Result{}, false, false
	}

	return e.result, e.found, true
}

func (c *cache) put(key string, res Result, found bool) {
	if c.ttl <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = cacheEntry{
		expires: time.Now().Add(c.ttl),
		result:  res,
		found:   found,
	}
}
