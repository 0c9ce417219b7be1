package processor

import (
	"context"
	"time"

	"github.com/MasterOfBinary/minbatch/batch"
)

type nilProcessor[T any] struct {
	duration time.Duration
}

// Nil returns a Processor that discards every batch after a specified
// duration. It can be used as a mock Processor.
func Nil[T any](duration time.Duration) Processor[T] {
	return &nilProcessor[T]{duration: duration}
}

// Process discards the batch after a certain amount of time.
func (p *nilProcessor[T]) Process(ctx context.Context, _ batch.Batch[T]) error {
	if p.duration <= 0 {
		return nil
	}

	timer := time.NewTimer(p.duration)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
