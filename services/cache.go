package services

import (
	"sync"
	"time"
)

// DefaultCacheTTL matches the dashboard's 30-minute report staleness budget.
const DefaultCacheTTL = 30 * time.Minute

// ReportSnapshot is one consistent load of the report source data plus the
// analytics derived from it. Aggregation functions treat the slices as
// immutable; a refresh replaces the whole snapshot.
type ReportSnapshot struct {
	Projects   []Project
	Activities []Activity
	KPIs       []KPI
	Analytics  []ProjectAnalytics
	FetchedAt  time.Time
}

// records counts every entry in the snapshot, the measure used against the
// cache's size budget.
func (s *ReportSnapshot) records() int {
	return len(s.Projects) + len(s.Activities) + len(s.KPIs) + len(s.Analytics)
}

// SnapshotCache holds the latest report snapshot with a TTL. An expired or
// absent timestamp invalidates the whole entry — the slices are only
// meaningful together, so partial reads are never served.
//
// When a snapshot exceeds the record budget the write degrades instead of
// failing: activities are shed first (the largest payload), then analytics
// (cheap to recompute), always preserving projects, KPIs and the timestamp.
type SnapshotCache struct {
	mu         sync.Mutex
	ttl        time.Duration
	maxRecords int // 0 means unlimited
	snap       *ReportSnapshot
}

// NewSnapshotCache creates a cache with the given TTL; ttl <= 0 selects
// DefaultCacheTTL.
func NewSnapshotCache(ttl time.Duration) *SnapshotCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &SnapshotCache{ttl: ttl}
}

// SetMaxRecords sets the record budget applied on Put.
func (c *SnapshotCache) SetMaxRecords(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.maxRecords = n
}

// Get returns the cached snapshot when it is still fresh at the given
// instant. A stale snapshot is dropped on the spot.
func (c *SnapshotCache) Get(now time.Time) (*ReportSnapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.snap == nil {
		return nil, false
	}
	if c.snap.FetchedAt.IsZero() || now.Sub(c.snap.FetchedAt) > c.ttl {
		c.snap = nil
		return nil, false
	}
	return c.snap, true
}

// Put stores a snapshot, shedding payloads as needed to fit the budget.
func (c *SnapshotCache) Put(snap *ReportSnapshot) {
	if snap == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.maxRecords > 0 && snap.records() > c.maxRecords {
		trimmed := *snap
		trimmed.Activities = nil
		if trimmed.records() > c.maxRecords {
			trimmed.Analytics = nil
		}
		snap = &trimmed
	}
	c.snap = snap
}

// Invalidate drops the cached snapshot.
func (c *SnapshotCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snap = nil
}
