package processor

import (
	"context"

	"github.com/MasterOfBinary/minbatch/batch"
)

// Error is a Processor that fails with Err once a batch with sequence number
// FailAt or later arrives. A zero FailAt fails on the first batch.
type Error[T any] struct {
	Err    error
	FailAt uint64
}

// Process implements the Processor interface.
func (p *Error[T]) Process(_ context.Context, b batch.Batch[T]) error {
	if b.Seq >= p.FailAt {
		return p.Err
	}
	return nil
}
