package service

import (
	"sync"
	"time"
)

// workingAreaFreshness is how long a recorded success may bias future
// candidate ordering. Past this window the booking that proved the
// unit free is too old to trust.
const workingAreaFreshness = 300 * time.Second

// workingKey identifies one cache entry. All four fields match
// exactly: an entry for one date range never answers a query for a
// different range, even an overlapping one, because a success only
// proves availability inside the booked window.
type workingKey struct {
	CategoryID int
	RatePlanID int
	Arrival    string
	Departure  string
}

type workingEntry struct {
	areaIDs   []int
	updatedAt time.Time
}

// WorkingAreaCache remembers, per (category, rate plan, date range),
// which units recently produced a successful booking. It is shared
// mutable state across concurrent requests; updates are atomic per key
// under the mutex, and reads tolerate staleness bounded by the
// freshness window. Entries are never deleted explicitly — they simply
// stop being returned once stale and are overwritten by later
// successes.
type WorkingAreaCache struct {
	mu      sync.Mutex
	now     func() time.Time
	entries map[workingKey]*workingEntry
}

// NewWorkingAreaCache returns an empty cache using the wall clock.
func NewWorkingAreaCache() *WorkingAreaCache {
	return &WorkingAreaCache{now: time.Now, entries: map[workingKey]*workingEntry{}}
}

// newWorkingAreaCacheAt is the test constructor with an injected clock.
func newWorkingAreaCacheAt(now func() time.Time) *WorkingAreaCache {
	return &WorkingAreaCache{now: now, entries: map[workingKey]*workingEntry{}}
}

// RecordSuccess appends areaID to the entry's list if absent and
// refreshes the entry timestamp.
func (c *WorkingAreaCache) RecordSuccess(categoryID, ratePlanID int, arrival, departure string, areaID int) {
	key := workingKey{CategoryID: categoryID, RatePlanID: ratePlanID, Arrival: arrival, Departure: departure}
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[key]
	if !ok {
		entry = &workingEntry{}
		c.entries[key] = entry
	}
	for _, id := range entry.areaIDs {
		if id == areaID {
			entry.updatedAt = c.now()
			return
		}
	}
	entry.areaIDs = append(entry.areaIDs, areaID)
	entry.updatedAt = c.now()
}

// CandidatesFor returns the recorded unit ids for the exact key, or
// nil when there is no entry or the entry is older than the freshness
// window. The returned slice is a copy; callers may reorder it freely.
func (c *WorkingAreaCache) CandidatesFor(categoryID, ratePlanID int, arrival, departure string) []int {
	key := workingKey{CategoryID: categoryID, RatePlanID: ratePlanID, Arrival: arrival, Departure: departure}
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[key]
	if !ok || c.now().Sub(entry.updatedAt) >= workingAreaFreshness {
		return nil
	}
	out := make([]int, len(entry.areaIDs))
	copy(out, entry.areaIDs)
	return out
}
