package processor

import (
	"context"
	"sync"

	"github.com/MasterOfBinary/minbatch/batch"
)

// Collector is a processor that collects emitted batches. It can be used as
// the final processor in a chain to inspect results after a run.
//
// All methods are safe for concurrent use. Results(false), Items and Count
// take a read lock, so they can run alongside each other while the pipeline
// is still processing.
//
// Collector keeps the Items slice of each batch it receives; the slices are
// not copied.
//
// Example usage:
//
//	collector := &processor.Collector[string]{}
//	err := pipeline.Run(ctx, acc, collector)
//
//	for _, b := range collector.Results(false) {
//		fmt.Println(b.Seq, b.Items, b.Weight)
//	}
type Collector[T any] struct {
	// Filter determines which batches to collect.
	// If nil, all batches are collected.
	Filter func(b batch.Batch[T]) bool

	// MaxBatches limits the number of batches collected (0 for unlimited).
	MaxBatches int

	mu      sync.RWMutex
	results []batch.Batch[T]
}

// Process implements the Processor interface.
func (c *Collector[T]) Process(_ context.Context, b batch.Batch[T]) error {
	if c.Filter != nil && !c.Filter(b) {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.MaxBatches > 0 && len(c.results) >= c.MaxBatches {
		return nil
	}
	c.results = append(c.results, b)
	return nil
}

// Results returns the collected batches and optionally resets the collection.
func (c *Collector[T]) Results(reset bool) []batch.Batch[T] {
	if reset {
		c.mu.Lock()
		defer c.mu.Unlock()
	} else {
		c.mu.RLock()
		defer c.mu.RUnlock()
	}

	result := make([]batch.Batch[T], len(c.results))
	copy(result, c.results)

	if reset {
		c.results = nil
	}
	return result
}

// Items returns the items of all collected batches, flattened in order.
func (c *Collector[T]) Items() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var items []T
	for _, b := range c.results {
		items = append(items, b.Items...)
	}
	return items
}

// Weights returns the weight of each collected batch.
func (c *Collector[T]) Weights() []uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	weights := make([]uint64, len(c.results))
	for i, b := range c.results {
		weights[i] = b.Weight
	}
	return weights
}

// Reset clears all collected batches.
func (c *Collector[T]) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.results = nil
}

// Count returns the number of batches collected so far.
func (c *Collector[T]) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.results)
}
