package processor

import (
	"context"
	"sync"
	"time"

	"github.com/MasterOfBinary/minbatch/batch"
)

// StatsRecorder receives processing metrics from a StatsProcessor.
type StatsRecorder interface {
	// RecordProcessed is called after a batch was processed successfully.
	RecordProcessed(size int, weight uint64, duration time.Duration)

	// RecordProcessorError is called when the wrapped processor fails.
	RecordProcessorError()
}

// StatsProcessor wraps another processor and collects statistics about its
// execution.
type StatsProcessor[T any] struct {
	// Processor is the wrapped processor that does the actual work.
	Processor Processor[T]

	// Stats is used to collect processing metrics.
	// If nil, no statistics are collected.
	Stats StatsRecorder
}

// Process implements the Processor interface by delegating to the wrapped
// processor and recording the outcome.
func (p *StatsProcessor[T]) Process(ctx context.Context, b batch.Batch[T]) error {
	if p.Processor == nil {
		return nil
	}

	if p.Stats == nil {
		return p.Processor.Process(ctx, b)
	}

	startTime := time.Now()
	err := p.Processor.Process(ctx, b)
	if err != nil {
		p.Stats.RecordProcessorError()
		return err
	}

	p.Stats.RecordProcessed(len(b.Items), b.Weight, time.Since(startTime))
	return nil
}

// WrapWithStats wraps a processor with statistics collection.
//
// Example:
//
//	stats := &processor.BasicStats{}
//	wrapped := processor.WrapWithStats[Block](sink, stats)
//
//	// Later, get statistics
//	fmt.Println(stats.Snapshot().Batches)
func WrapWithStats[T any](proc Processor[T], stats StatsRecorder) *StatsProcessor[T] {
	return &StatsProcessor[T]{
		Processor: proc,
		Stats:     stats,
	}
}

// ProcessStats is a snapshot of BasicStats.
type ProcessStats struct {
	Batches       uint64
	Items         uint64
	Weight        uint64
	Errors        uint64
	TotalDuration time.Duration
	MaxDuration   time.Duration
}

// AverageDuration returns the mean processing time per successful batch.
func (s ProcessStats) AverageDuration() time.Duration {
	if s.Batches == 0 {
		return 0
	}
	return s.TotalDuration / time.Duration(s.Batches)
}

// BasicStats is an in-memory StatsRecorder. It is safe for concurrent use.
type BasicStats struct {
	mu    sync.Mutex
	stats ProcessStats
}

// RecordProcessed implements the StatsRecorder interface.
func (s *BasicStats) RecordProcessed(size int, weight uint64, duration time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stats.Batches++
	s.stats.Items += uint64(size)
	s.stats.Weight += weight
	s.stats.TotalDuration += duration
	if duration > s.stats.MaxDuration {
		s.stats.MaxDuration = duration
	}
}

// RecordProcessorError implements the StatsRecorder interface.
func (s *BasicStats) RecordProcessorError() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stats.Errors++
}

// Snapshot returns the current statistics.
func (s *BasicStats) Snapshot() ProcessStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.stats
}
