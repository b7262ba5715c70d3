package refcollect

import (
	"sync/atomic"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems; see package
// promcollector for a Prometheus implementation.
type MetricsCollector interface {
	// RecordAllocate is called after each object allocation.
	RecordAllocate(err error)

	// RecordMark is called after each MarkUnreachable call.
	RecordMark(err error)

	// RecordSweep is called after each sweep pass.
	RecordSweep(stats SweepStats, err error)

	// RecordTeardown is called once when the arena is closed.
	// reclaimed is zero when the arena was leaked.
	RecordTeardown(reclaimed int, leaked bool)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordAllocate(error)          {}
func (NoopMetricsCollector) RecordMark(error)              {}
func (NoopMetricsCollector) RecordSweep(SweepStats, error) {}
func (NoopMetricsCollector) RecordTeardown(int, bool)      {}

// BasicMetricsCollector provides simple in-memory metrics collection.
type BasicMetricsCollector struct {
	AllocCount      atomic.Int64
	AllocErrors     atomic.Int64
	MarkCount       atomic.Int64
	MarkErrors      atomic.Int64
	SweepCount      atomic.Int64
	SweepErrors     atomic.Int64
	SweepReclaimed  atomic.Int64
	SweepTotalNanos atomic.Int64
	Teardowns       atomic.Int64
	TeardownLeaked  atomic.Int64
	TeardownFreed   atomic.Int64
}

// RecordAllocate implements MetricsCollector.
func (b *BasicMetricsCollector) RecordAllocate(err error) {
	b.AllocCount.Add(1)
	if err != nil {
		b.AllocErrors.Add(1)
	}
}

// RecordMark implements MetricsCollector.
func (b *BasicMetricsCollector) RecordMark(err error) {
	b.MarkCount.Add(1)
	if err != nil {
		b.MarkErrors.Add(1)
	}
}

// RecordSweep implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSweep(stats SweepStats, err error) {
	b.SweepCount.Add(1)
	b.SweepReclaimed.Add(int64(stats.Reclaimed))
	b.SweepTotalNanos.Add(stats.Duration.Nanoseconds())
	if err != nil {
		b.SweepErrors.Add(1)
	}
}

// RecordTeardown implements MetricsCollector.
func (b *BasicMetricsCollector) RecordTeardown(reclaimed int, leaked bool) {
	b.Teardowns.Add(1)
	b.TeardownFreed.Add(int64(reclaimed))
	if leaked {
		b.TeardownLeaked.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		AllocCount:     b.AllocCount.Load(),
		AllocErrors:    b.AllocErrors.Load(),
		MarkCount:      b.MarkCount.Load(),
		MarkErrors:     b.MarkErrors.Load(),
		SweepCount:     b.SweepCount.Load(),
		SweepErrors:    b.SweepErrors.Load(),
		SweepReclaimed: b.SweepReclaimed.Load(),
		SweepAvgNanos:  b.getAvgSweepNanos(),
		Teardowns:      b.Teardowns.Load(),
		TeardownLeaked: b.TeardownLeaked.Load(),
		TeardownFreed:  b.TeardownFreed.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgSweepNanos() int64 {
	count := b.SweepCount.Load()
	if count == 0 {
		return 0
	}
	return b.SweepTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	AllocCount     int64
	AllocErrors    int64
	MarkCount      int64
	MarkErrors     int64
	SweepCount     int64
	SweepErrors    int64
	SweepReclaimed int64
	SweepAvgNanos  int64
	Teardowns      int64
	TeardownLeaked int64
	TeardownFreed  int64
}
