package batch

import (
	"context"
	"iter"
)

// MinBatch emits plain batches: each call to Next returns the items of one
// batch whose weight reached the minimum, or the final remainder.
//
// Example:
//
//	mb := batch.MustMinBatch(batch.NewMinBatch[Block](up, 3, batch.WeightFunc[Block](func(b Block) uint64 {
//		return uint64(b.TxCount)
//	})))
//	for {
//		blocks, err := mb.Next(ctx)
//		if batch.IsDone(err) {
//			break
//		}
//		...
//	}
type MinBatch[T any] struct {
	acc *Accumulator[T]
}

// NewMinBatch creates a MinBatch that pulls from up.
func NewMinBatch[T any](up Upstream[T], minWeight uint64, w Weigher[T]) (*MinBatch[T], error) {
	acc, err := New(up, minWeight, w)
	if err != nil {
		return nil, err
	}
	return &MinBatch[T]{acc: acc}, nil
}

// WrapMinBatch exposes an existing Accumulator as a MinBatch.
func WrapMinBatch[T any](acc *Accumulator[T]) *MinBatch[T] {
	return &MinBatch[T]{acc: acc}
}

// MustMinBatch panics if err is non-nil and otherwise returns m.
func MustMinBatch[T any](m *MinBatch[T], err error) *MinBatch[T] {
	if err != nil {
		panic(err)
	}
	return m
}

// Accumulator returns the underlying Accumulator, e.g. to attach a logger.
func (m *MinBatch[T]) Accumulator() *Accumulator[T] {
	return m.acc
}

// Next returns the items of the next batch, or ErrDone at the end of the
// stream. See Accumulator.Advance for error semantics.
func (m *MinBatch[T]) Next(ctx context.Context) ([]T, error) {
	b, err := m.acc.Advance(ctx)
	if err != nil {
		return nil, err
	}
	return b.Items, nil
}

// IsTerminated reports whether the upstream is exhausted and the buffer is empty.
func (m *MinBatch[T]) IsTerminated() bool {
	return m.acc.IsTerminated()
}

// Close discards buffered items and closes the upstream if possible.
func (m *MinBatch[T]) Close() error {
	return m.acc.Close()
}

// All returns an iterator over the remaining batches. See Accumulator.All.
func (m *MinBatch[T]) All(ctx context.Context) iter.Seq2[[]T, error] {
	return func(yield func([]T, error) bool) {
		for b, err := range m.acc.All(ctx) {
			if !yield(b.Items, err) {
				return
			}
		}
	}
}

// MinBatchWithWeight emits each batch together with its exact total weight.
// This matters for the final batch, which may weigh less than the minimum.
type MinBatchWithWeight[T any] struct {
	acc *Accumulator[T]
	err error
}

// NewMinBatchWithWeight creates a MinBatchWithWeight that pulls from up.
func NewMinBatchWithWeight[T any](up Upstream[T], minWeight uint64, w Weigher[T]) (*MinBatchWithWeight[T], error) {
	acc, err := New(up, minWeight, w)
	if err != nil {
		return nil, err
	}
	return &MinBatchWithWeight[T]{acc: acc}, nil
}

// WrapMinBatchWithWeight exposes an existing Accumulator as a MinBatchWithWeight.
func WrapMinBatchWithWeight[T any](acc *Accumulator[T]) *MinBatchWithWeight[T] {
	return &MinBatchWithWeight[T]{acc: acc}
}

// MustMinBatchWithWeight panics if err is non-nil and otherwise returns m.
func MustMinBatchWithWeight[T any](m *MinBatchWithWeight[T], err error) *MinBatchWithWeight[T] {
	if err != nil {
		panic(err)
	}
	return m
}

// Accumulator returns the underlying Accumulator.
func (m *MinBatchWithWeight[T]) Accumulator() *Accumulator[T] {
	return m.acc
}

// Next returns the items of the next batch and their total weight, or ErrDone
// at the end of the stream.
func (m *MinBatchWithWeight[T]) Next(ctx context.Context) ([]T, uint64, error) {
	b, err := m.acc.Advance(ctx)
	if err != nil {
		return nil, 0, err
	}
	return b.Items, b.Weight, nil
}

// IsTerminated reports whether the upstream is exhausted and the buffer is empty.
func (m *MinBatchWithWeight[T]) IsTerminated() bool {
	return m.acc.IsTerminated()
}

// Close discards buffered items and closes the upstream if possible.
func (m *MinBatchWithWeight[T]) Close() error {
	return m.acc.Close()
}

// All returns an iterator over the remaining batches and their weights.
// An error ends the iteration; check Err afterwards.
//
//	for items, weight := range mb.All(ctx) {
//		...
//	}
//	if err := mb.Err(); err != nil {
//		...
//	}
func (m *MinBatchWithWeight[T]) All(ctx context.Context) iter.Seq2[[]T, uint64] {
	return func(yield func([]T, uint64) bool) {
		for b, err := range m.acc.All(ctx) {
			if err != nil {
				m.err = err
				return
			}
			if !yield(b.Items, b.Weight) {
				return
			}
		}
	}
}

// Err returns the error that ended the last All iteration, if any.
func (m *MinBatchWithWeight[T]) Err() error {
	return m.err
}
