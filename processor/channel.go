package processor

import (
	"context"

	"github.com/MasterOfBinary/minbatch/batch"
)

// Channel is a Processor that sends the items of each batch to an output
// channel.
//
// Ownership of the output channel remains with the caller. Because the
// processor is unaware of when the overall pipeline has finished, it does not
// close the channel.
type Channel[T any] struct {
	// Output receives the Items slice of each batch.
	// If nil, the processor does nothing.
	Output chan<- []T
}

// Process implements the Processor interface. It blocks until the batch is
// sent or ctx is done.
func (p *Channel[T]) Process(ctx context.Context, b batch.Batch[T]) error {
	if p.Output == nil {
		return nil
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case p.Output <- b.Items:
		return nil
	}
}
