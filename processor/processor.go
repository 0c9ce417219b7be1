package processor

import (
	"context"

	"github.com/MasterOfBinary/minbatch/batch"
)

// Processor consumes emitted batches. Returning an error stops the pipeline
// that drives it.
type Processor[T any] interface {
	Process(ctx context.Context, b batch.Batch[T]) error
}

// Func adapts an ordinary function to the Processor interface.
type Func[T any] func(ctx context.Context, b batch.Batch[T]) error

// Process calls f(ctx, b).
func (f Func[T]) Process(ctx context.Context, b batch.Batch[T]) error {
	return f(ctx, b)
}

// Chain returns a Processor that runs procs in order on every batch and stops
// at the first error.
func Chain[T any](procs ...Processor[T]) Processor[T] {
	return Func[T](func(ctx context.Context, b batch.Batch[T]) error {
		for _, p := range procs {
			if err := p.Process(ctx, b); err != nil {
				return err
			}
		}
		return nil
	})
}
