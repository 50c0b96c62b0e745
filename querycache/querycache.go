// Package querycache implements an ARC-backed cache of query results
// keyed by filter fingerprint, purged wholesale on every write; a
// generation counter records how many invalidations have run. Grounded on
// vechain-thor's chain/cache.go GetOrLoad pattern, adapted to
// golang-lru/v2's generic ARC cache.
package querycache

import (
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/radmakr/nostr/events"
)

// Cache holds recent query results keyed by filter.HashFilters fingerprint.
// It is safe for concurrent use: golang-lru/v2's ARC cache is internally
// locked.
type Cache struct {
	arc        *lru.ARCCache[uint64, *events.Events]
	generation atomic.Uint64
}

// New creates a Cache holding at most size query results.
func New(size int) (*Cache, error) {
	arc, err := lru.NewARC[uint64, *events.Events](size)
	if err != nil {
		return nil, err
	}
	return &Cache{arc: arc}, nil
}

// GetOrLoad returns the cached Events for key, calling load to populate
// the cache on a miss or after the cache has been Invalidated since the
// entry was stored.
func (c *Cache) GetOrLoad(key uint64, load func() (*events.Events, error)) (*events.Events, error) {
	if entry, ok := c.get(key); ok {
		return entry, nil
	}
	value, err := load()
	if err != nil {
		return nil, err
	}
	c.put(key, value)
	return value, nil
}

func (c *Cache) get(key uint64) (*events.Events, bool) {
	return c.arc.Get(key)
}

func (c *Cache) put(key uint64, value *events.Events) {
	c.arc.Add(key, value)
}

// Invalidate bumps the generation counter, discarding every cached entry:
// called after any write (save_event, delete) since cached query results
// may no longer reflect the store's state.
func (c *Cache) Invalidate() {
	c.generation.Add(1)
	c.arc.Purge()
}

// Len returns the number of entries currently cached.
func (c *Cache) Len() int { return c.arc.Len() }

// Generation returns the number of times Invalidate has run, for callers
// that want to detect a concurrent invalidation around a load.
func (c *Cache) Generation() uint64 { return c.generation.Load() }
