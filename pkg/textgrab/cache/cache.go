// Package cache memoizes text-vs-binary verdicts so repeated or large
// scans amortize classification cost. The primary layer is a bounded
// in-memory LRU; an optional badger-backed store persists verdicts
// across process runs.
//
// Entries are never invalidated automatically: if a file's content type
// changes between scans without an explicit Clear, a stale verdict may
// be returned. This is an accepted tradeoff, not a bug.
package cache

import (
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultMaxEntries bounds the in-memory verdict cache when no size is
// configured.
const DefaultMaxEntries = 1000

// Stats describes cache effectiveness for diagnostics.
type Stats struct {
	// Hits is the number of lookups answered from the cache.
	Hits int64 `json:"hits"`

	// Misses is the number of lookups that required a fresh sniff.
	Misses int64 `json:"misses"`

	// Size is the current number of in-memory entries.
	Size int64 `json:"size"`
}

// Cache maps absolute paths to boolean text verdicts. All methods are
// safe for concurrent use by scan workers.
type Cache struct {
	verdicts *lru.Cache[string, bool]
	store    *Store

	hits   atomic.Int64
	misses atomic.Int64
}

// New creates a verdict cache bounded to maxEntries. Values below 1 fall
// back to DefaultMaxEntries.
func New(maxEntries int) (*Cache, error) {
	if maxEntries < 1 {
		maxEntries = DefaultMaxEntries
	}
	verdicts, err := lru.New[string, bool](maxEntries)
	if err != nil {
		return nil, err
	}
	return &Cache{verdicts: verdicts}, nil
}

// WithStore attaches a persistent store consulted on in-memory misses.
// Verdicts found in the store are promoted back into memory.
func (c *Cache) WithStore(store *Store) *Cache {
	c.store = store
	return c
}

// Get returns the cached verdict for a path and whether one was present.
func (c *Cache) Get(path string) (verdict, ok bool) {
	if verdict, ok := c.verdicts.Get(path); ok {
		c.hits.Add(1)
		return verdict, true
	}

	if c.store != nil {
		if verdict, err := c.store.Get(path); err == nil {
			c.verdicts.Add(path, verdict)
			c.hits.Add(1)
			return verdict, true
		}
	}

	c.misses.Add(1)
	return false, false
}

// Put records a verdict for a path in memory and, when attached, in the
// persistent store. Store write failures are ignored: persistence is an
// optimization, never a correctness requirement.
func (c *Cache) Put(path string, verdict bool) {
	c.verdicts.Add(path, verdict)
	if c.store != nil {
		_ = c.store.Put(path, verdict)
	}
}

// Clear drops all in-memory entries, persisted entries, and resets the
// hit/miss counters.
func (c *Cache) Clear() error {
	c.verdicts.Purge()
	c.hits.Store(0)
	c.misses.Store(0)
	if c.store != nil {
		return c.store.Clear()
	}
	return nil
}

// Stats returns a snapshot of cache effectiveness counters.
func (c *Cache) Stats() Stats {
	return Stats{
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
		Size:   int64(c.verdicts.Len()),
	}
}

// Close releases the persistent store, if any.
func (c *Cache) Close() error {
	if c.store != nil {
		return c.store.Close()
	}
	return nil
}
