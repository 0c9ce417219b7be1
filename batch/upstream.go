package batch

import (
	"context"

	g "github.com/anacrolix/generics"
)

// Upstream produces the items that are grouped into batches.
//
// Next blocks until an item is available, the upstream is exhausted, the
// upstream fails, or ctx is done. It returns g.Some(item) for an item and
// g.None for permanent exhaustion. Once exhausted, Next is not called again.
//
// If ctx is done while Next is waiting, Next should return ctx.Err(). The
// accumulator treats that as a suspension rather than a failure, so the
// upstream must remain usable for a later call with a fresh context.
//
// Example:
//
//	type counter struct{ n, max int }
//
//	func (c *counter) Next(ctx context.Context) (g.Option[int], error) {
//		if c.n == c.max {
//			return g.None[int](), nil
//		}
//		c.n++
//		return g.Some(c.n), nil
//	}
type Upstream[T any] interface {
	Next(ctx context.Context) (g.Option[T], error)
}

// Poller is implemented by upstreams that can report, without blocking,
// whether an item is ready. It is only used when FlushOnStall is enabled.
//
// TryNext returns ready == false when no item is currently available and the
// upstream is neither exhausted nor failed. Otherwise it behaves like Next.
type Poller[T any] interface {
	TryNext() (item g.Option[T], ready bool, err error)
}

// UpstreamFunc adapts an ordinary function to the Upstream interface.
type UpstreamFunc[T any] func(ctx context.Context) (g.Option[T], error)

// Next implements the Upstream interface.
func (f UpstreamFunc[T]) Next(ctx context.Context) (g.Option[T], error) {
	return f(ctx)
}
