package pipeline

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/MasterOfBinary/minbatch/batch"
	"github.com/MasterOfBinary/minbatch/processor"
)

// Run advances acc until the stream ends and passes every batch through procs
// in order. It returns nil once the upstream is exhausted and the final batch
// was processed. Any other error stops the run: upstream and weigher errors
// as returned by Advance, processor failures as *ProcessorError, and the
// context error if ctx is done.
func Run[T any](ctx context.Context, acc *batch.Accumulator[T], procs ...processor.Processor[T]) error {
	for {
		b, err := acc.Advance(ctx)
		if batch.IsDone(err) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := process(ctx, b, procs); err != nil {
			return err
		}
	}
}

// RunAll runs every accumulator in its own goroutine with the same processors
// and waits for all of them. The first error cancels the others and is
// returned. Processors must be safe for concurrent use; batches of different
// accumulators interleave, while each accumulator's batches stay in order.
func RunAll[T any](ctx context.Context, accs []*batch.Accumulator[T], procs ...processor.Processor[T]) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, acc := range accs {
		g.Go(func() error {
			return Run(ctx, acc, procs...)
		})
	}
	return g.Wait()
}

func process[T any](ctx context.Context, b batch.Batch[T], procs []processor.Processor[T]) error {
	for _, p := range procs {
		if p == nil {
			continue
		}
		if err := p.Process(ctx, b); err != nil {
			return &ProcessorError{Seq: b.Seq, Err: err}
		}
	}
	return nil
}
