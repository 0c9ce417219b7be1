package batch

import (
	"sync"
	"sync/atomic"
	"time"
)

// StatsCollector defines the interface for collecting metrics from an
// accumulator. Implementations can store metrics in memory or export them to
// a monitoring system. The StatsCollector is optional - if not provided, no
// statistics are collected.
type StatsCollector interface {
	// RecordItem is called for every item absorbed from the upstream.
	RecordItem(weight uint64)

	// RecordBatch is called for every emitted batch.
	RecordBatch(size int, weight uint64, reason CutReason)

	// RecordDiscarded is called when buffered items are dropped because of a
	// failure or because the accumulator was closed early.
	RecordDiscarded(size int, weight uint64)

	// RecordUpstreamError is called when the upstream fails.
	RecordUpstreamError()

	// RecordWeightError is called when the weigher fails.
	RecordWeightError()

	// GetStats returns a snapshot of the current statistics.
	GetStats() Stats
}

// Stats holds aggregated statistics about batching.
type Stats struct {
	// ItemsAbsorbed is the total number of items pulled from the upstream.
	ItemsAbsorbed uint64

	// WeightAbsorbed is the total weight of all absorbed items.
	WeightAbsorbed uint64

	// BatchesEmitted is the total number of emitted batches.
	BatchesEmitted uint64

	// ItemsEmitted is the total number of items in emitted batches.
	ItemsEmitted uint64

	// WeightEmitted is the total weight of all emitted batches.
	WeightEmitted uint64

	// ThresholdBatches, DrainBatches and StallBatches break BatchesEmitted
	// down by cut reason.
	ThresholdBatches uint64
	DrainBatches     uint64
	StallBatches     uint64

	// ItemsDiscarded is the number of buffered items dropped on failure or close.
	ItemsDiscarded uint64

	// UpstreamErrors is the total number of upstream failures.
	UpstreamErrors uint64

	// WeightErrors is the total number of weigher failures.
	WeightErrors uint64

	// MinBatchSize is the smallest emitted batch, in items.
	MinBatchSize int

	// MaxBatchSize is the largest emitted batch, in items.
	MaxBatchSize int

	// MaxBatchWeight is the heaviest emitted batch.
	MaxBatchWeight uint64

	// StartTime is when statistics collection began.
	StartTime time.Time

	// LastUpdateTime is when statistics were last updated.
	LastUpdateTime time.Time
}

// AverageBatchSize returns the average number of items per emitted batch.
// Returns 0 if no batches have been emitted.
func (s *Stats) AverageBatchSize() float64 {
	if s.BatchesEmitted == 0 {
		return 0
	}
	return float64(s.ItemsEmitted) / float64(s.BatchesEmitted)
}

// AverageBatchWeight returns the average weight per emitted batch.
// Returns 0 if no batches have been emitted.
func (s *Stats) AverageBatchWeight() float64 {
	if s.BatchesEmitted == 0 {
		return 0
	}
	return float64(s.WeightEmitted) / float64(s.BatchesEmitted)
}

// Pending returns the number of absorbed items that have been neither emitted
// nor discarded.
func (s *Stats) Pending() uint64 {
	return s.ItemsAbsorbed - s.ItemsEmitted - s.ItemsDiscarded
}

// Duration returns the total duration since statistics collection started.
func (s *Stats) Duration() time.Duration {
	return s.LastUpdateTime.Sub(s.StartTime)
}

// NoOpStatsCollector is a stats collector that discards all metrics.
// This is the default stats collector when none is specified.
type NoOpStatsCollector struct{}

// RecordItem implements the StatsCollector interface.
func (n *NoOpStatsCollector) RecordItem(weight uint64) {}

// RecordBatch implements the StatsCollector interface.
func (n *NoOpStatsCollector) RecordBatch(size int, weight uint64, reason CutReason) {}

// RecordDiscarded implements the StatsCollector interface.
func (n *NoOpStatsCollector) RecordDiscarded(size int, weight uint64) {}

// RecordUpstreamError implements the StatsCollector interface.
func (n *NoOpStatsCollector) RecordUpstreamError() {}

// RecordWeightError implements the StatsCollector interface.
func (n *NoOpStatsCollector) RecordWeightError() {}

// GetStats implements the StatsCollector interface.
func (n *NoOpStatsCollector) GetStats() Stats {
	return Stats{}
}

// BasicStatsCollector is a simple in-memory implementation of StatsCollector.
// All operations are thread-safe, so one collector can be shared by several
// accumulators.
type BasicStatsCollector struct {
	mu    sync.RWMutex
	stats Stats

	// Atomic counters for lock-free updates
	itemsAbsorbed  uint64
	weightAbsorbed uint64
	upstreamErrors uint64
	weightErrors   uint64
}

// NewBasicStatsCollector creates a new BasicStatsCollector.
func NewBasicStatsCollector() *BasicStatsCollector {
	now := time.Now()
	return &BasicStatsCollector{
		stats: Stats{
			StartTime:      now,
			LastUpdateTime: now,
		},
	}
}

// RecordItem implements the StatsCollector interface.
func (b *BasicStatsCollector) RecordItem(weight uint64) {
	atomic.AddUint64(&b.itemsAbsorbed, 1)
	atomic.AddUint64(&b.weightAbsorbed, weight)
}

// RecordBatch implements the StatsCollector interface.
func (b *BasicStatsCollector) RecordBatch(size int, weight uint64, reason CutReason) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.stats.LastUpdateTime = time.Now()
	b.stats.BatchesEmitted++
	b.stats.ItemsEmitted += uint64(size)
	b.stats.WeightEmitted += weight

	switch reason {
	case CutThreshold:
		b.stats.ThresholdBatches++
	case CutDrain:
		b.stats.DrainBatches++
	case CutStall:
		b.stats.StallBatches++
	}

	if size < b.stats.MinBatchSize || b.stats.MinBatchSize == 0 {
		b.stats.MinBatchSize = size
	}
	if size > b.stats.MaxBatchSize {
		b.stats.MaxBatchSize = size
	}
	if weight > b.stats.MaxBatchWeight {
		b.stats.MaxBatchWeight = weight
	}
}

// RecordDiscarded implements the StatsCollector interface.
func (b *BasicStatsCollector) RecordDiscarded(size int, weight uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.stats.LastUpdateTime = time.Now()
	b.stats.ItemsDiscarded += uint64(size)
}

// RecordUpstreamError implements the StatsCollector interface.
func (b *BasicStatsCollector) RecordUpstreamError() {
	atomic.AddUint64(&b.upstreamErrors, 1)
}

// RecordWeightError implements the StatsCollector interface.
func (b *BasicStatsCollector) RecordWeightError() {
	atomic.AddUint64(&b.weightErrors, 1)
}

// GetStats implements the StatsCollector interface.
// It returns a snapshot of the current statistics.
func (b *BasicStatsCollector) GetStats() Stats {
	b.mu.RLock()
	defer b.mu.RUnlock()

	stats := b.stats
	stats.ItemsAbsorbed = atomic.LoadUint64(&b.itemsAbsorbed)
	stats.WeightAbsorbed = atomic.LoadUint64(&b.weightAbsorbed)
	stats.UpstreamErrors = atomic.LoadUint64(&b.upstreamErrors)
	stats.WeightErrors = atomic.LoadUint64(&b.weightErrors)

	return stats
}
