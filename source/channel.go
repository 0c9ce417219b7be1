package source

import (
	"context"

	g "github.com/anacrolix/generics"

	"github.com/MasterOfBinary/minbatch/batch"
)

// Channel is an Upstream that reads from a channel until it is closed.
// Closing Input signals exhaustion. A nil Input is treated as an already
// exhausted upstream.
//
// Channel never closes Input; that is left to the producer.
type Channel[T any] struct {
	// Input is the channel from which this source will read data.
	Input <-chan T
}

var (
	_ batch.Upstream[int] = (*Channel[int])(nil)
	_ batch.Poller[int]   = (*Channel[int])(nil)
)

// Next implements the batch.Upstream interface. It blocks until an item is
// received, Input is closed, or ctx is done.
func (s *Channel[T]) Next(ctx context.Context) (g.Option[T], error) {
	if s.Input == nil {
		return g.None[T](), nil
	}

	select {
	case <-ctx.Done():
		return g.None[T](), ctx.Err()
	case item, ok := <-s.Input:
		if !ok {
			return g.None[T](), nil
		}
		return g.Some(item), nil
	}
}

// TryNext implements the batch.Poller interface.
func (s *Channel[T]) TryNext() (g.Option[T], bool, error) {
	if s.Input == nil {
		return g.None[T](), true, nil
	}

	select {
	case item, ok := <-s.Input:
		if !ok {
			return g.None[T](), true, nil
		}
		return g.Some(item), true, nil
	default:
		return g.None[T](), false, nil
	}
}
