package source

import (
	"context"
	"time"

	g "github.com/anacrolix/generics"

	"github.com/MasterOfBinary/minbatch/batch"
)

// Nil is an Upstream that doesn't produce any data. Instead it reports
// exhaustion after the specified duration. It can be used as a mock
// Upstream.
type Nil[T any] struct {
	Duration time.Duration
}

var _ batch.Upstream[int] = (*Nil[int])(nil)

// Next waits for Duration and reports exhaustion.
func (s *Nil[T]) Next(ctx context.Context) (g.Option[T], error) {
	if s.Duration <= 0 {
		return g.None[T](), ctx.Err()
	}

	timer := time.NewTimer(s.Duration)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return g.None[T](), ctx.Err()
	case <-timer.C:
		return g.None[T](), nil
	}
}
