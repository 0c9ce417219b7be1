package source

import (
	"context"

	g "github.com/anacrolix/generics"

	"github.com/MasterOfBinary/minbatch/batch"
)

// Error is an Upstream that emits Items and then fails with Err. It is useful
// for testing error handling in batch pipelines. If Err is nil the upstream
// is simply exhausted after the last item.
//
// The failure is reported on every call after the items run out.
type Error[T any] struct {
	// Items are emitted before the failure.
	Items []T

	// Err is returned once Items are exhausted.
	Err error

	pos int
}

var _ batch.Upstream[int] = (*Error[int])(nil)

// Next implements the batch.Upstream interface.
func (s *Error[T]) Next(ctx context.Context) (g.Option[T], error) {
	if err := ctx.Err(); err != nil {
		return g.None[T](), err
	}
	if s.pos < len(s.Items) {
		item := s.Items[s.pos]
		s.pos++
		return g.Some(item), nil
	}
	return g.None[T](), s.Err
}
