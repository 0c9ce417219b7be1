package source

import (
	"context"

	g "github.com/anacrolix/generics"

	"github.com/MasterOfBinary/minbatch/batch"
)

// Slice is an Upstream over an in-memory slice. It is never suspended.
type Slice[T any] struct {
	items []T
	pos   int
}

var (
	_ batch.Upstream[int] = (*Slice[int])(nil)
	_ batch.Poller[int]   = (*Slice[int])(nil)
)

// FromSlice returns a Slice that yields items in order. The slice is not copied.
func FromSlice[T any](items []T) *Slice[T] {
	return &Slice[T]{items: items}
}

// Of returns a Slice that yields the given items.
func Of[T any](items ...T) *Slice[T] {
	return FromSlice(items)
}

// Next implements the batch.Upstream interface.
func (s *Slice[T]) Next(ctx context.Context) (g.Option[T], error) {
	if err := ctx.Err(); err != nil {
		return g.None[T](), err
	}
	item, _, err := s.TryNext()
	return item, err
}

// TryNext implements the batch.Poller interface. A Slice is always ready.
func (s *Slice[T]) TryNext() (g.Option[T], bool, error) {
	if s.pos >= len(s.items) {
		return g.None[T](), true, nil
	}
	item := s.items[s.pos]
	s.pos++
	return g.Some(item), true, nil
}

// Remaining returns the number of items that have not been read yet.
func (s *Slice[T]) Remaining() int {
	return len(s.items) - s.pos
}
