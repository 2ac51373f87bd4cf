package cache

import "sync/atomic"

// Metrics tracks coordinator message counters. Safe for concurrent use.
type Metrics struct {
	enqueued atomic.Int64
	applied  atomic.Int64
	rejected atomic.Int64
}

// MetricsSnapshot is a point-in-time copy of the counters.
type MetricsSnapshot struct {
	Enqueued int64
	Applied  int64
	Rejected int64
}

func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		Enqueued: m.enqueued.Load(),
		Applied:  m.applied.Load(),
		Rejected: m.rejected.Load(),
	}
}
