package stats

import "sync/atomic"

// Cache holds the most recent Snapshot and a dirty flag.
//
// Get and the snapshot are owned by the session goroutine; Invalidate may be
// called from any goroutine.
type Cache struct {
	snap  *Snapshot
	dirty atomic.Bool
}

// NewCache returns an empty, dirty cache.
func NewCache() *Cache {
	c := &Cache{}
	c.dirty.Store(true)
	return c
}

// Invalidate marks the cached snapshot stale.
func (c *Cache) Invalidate() {
	c.dirty.Store(true)
}

// Dirty reports whether the next Get will recompute.
func (c *Cache) Dirty() bool {
	return c.dirty.Load() || c.snap == nil
}

// Get returns the cached snapshot, calling compute only when the cache is
// dirty. A failed compute leaves the cache dirty.
func (c *Cache) Get(compute func() (Snapshot, error)) (Snapshot, error) {
	if !c.dirty.Swap(false) && c.snap != nil {
		return *c.snap, nil
	}
	snap, err := compute()
	if err != nil {
		c.dirty.Store(true)
		return Snapshot{}, err
	}
	c.snap = &snap
	return snap, nil
}
