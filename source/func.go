package source

import (
	"context"
	"iter"

	g "github.com/anacrolix/generics"

	"github.com/MasterOfBinary/minbatch/batch"
)

// Func is an Upstream backed by a pull function. The function returns
// g.None once the sequence is exhausted and is not called again after that.
//
//	i := 0
//	up := source.FromFunc(func() g.Option[int] {
//		if i == 10 {
//			return g.None[int]()
//		}
//		i++
//		return g.Some(i)
//	})
type Func[T any] struct {
	fn   func() g.Option[T]
	done bool
}

var _ batch.Upstream[int] = (*Func[int])(nil)

// FromFunc returns a Func upstream that calls fn for every item.
func FromFunc[T any](fn func() g.Option[T]) *Func[T] {
	return &Func[T]{fn: fn}
}

// Next implements the batch.Upstream interface.
func (s *Func[T]) Next(ctx context.Context) (g.Option[T], error) {
	if err := ctx.Err(); err != nil {
		return g.None[T](), err
	}
	if s.done || s.fn == nil {
		return g.None[T](), nil
	}
	item := s.fn()
	if !item.Ok {
		s.done = true
	}
	return item, nil
}

// Seq is an Upstream over a range-over-func iterator. Call Close to release
// the iterator if the sequence is not read to the end.
type Seq[T any] struct {
	next func() (T, bool)
	stop func()
}

var _ batch.Upstream[int] = (*Seq[int])(nil)

// FromSeq returns a Seq upstream that pulls from seq.
func FromSeq[T any](seq iter.Seq[T]) *Seq[T] {
	next, stop := iter.Pull(seq)
	return &Seq[T]{next: next, stop: stop}
}

// Next implements the batch.Upstream interface. The context is checked before
// each pull; a pull that is already in progress cannot be interrupted.
func (s *Seq[T]) Next(ctx context.Context) (g.Option[T], error) {
	if err := ctx.Err(); err != nil {
		return g.None[T](), err
	}
	item, ok := s.next()
	if !ok {
		return g.None[T](), nil
	}
	return g.Some(item), nil
}

// Close stops the underlying iterator. It is safe to call more than once.
func (s *Seq[T]) Close() error {
	s.stop()
	return nil
}
