// Package baseline implements the Baseline Cache and its periodic
// Refresher (§4.6). The cache is a copy-on-write snapshot (REDESIGN
// FLAGS): readers hold an immutable reference to the current snapshot
// and never block on a refresh; the refresher builds the next snapshot
// off-path and atomically swaps the pointer in.
package baseline

import "sync/atomic"

// DeviceBaselines holds the red/green duty-rate → average-current-per-unit
// maps for one device. An empty map on either channel means "no baseline
// yet" — classification is skipped for that device (§3 invariant).
type DeviceBaselines struct {
	Red   map[string]float64
	Green map[string]float64
}

// Cache is the shared, read-mostly baseline snapshot. The zero value is
// ready to use (empty snapshot, every lookup misses).
type Cache struct {
	snapshot atomic.Pointer[map[string]DeviceBaselines]
}

// New returns a Cache with an empty snapshot.
func New() *Cache {
	c := &Cache{}
	empty := map[string]DeviceBaselines{}
	c.snapshot.Store(&empty)
	return c
}

// Get returns the red/green maps for canonicalID and whether a non-empty
// baseline exists for BOTH channels — the precondition for the
// tolerance-window check in §4.3 step 7.
func (c *Cache) Get(canonicalID string) (red, green map[string]float64, ok bool) {
	snap := *c.snapshot.Load()
	d, found := snap[canonicalID]
	if !found {
		return nil, nil, false
	}
	return d.Red, d.Green, len(d.Red) > 0 && len(d.Green) > 0
}

// Swap atomically replaces the entire snapshot. Called by the Refresher
// once per cycle after building the full next-generation map off-lock.
func (c *Cache) Swap(next map[string]DeviceBaselines) {
	c.snapshot.Store(&next)
}
