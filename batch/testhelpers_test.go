package batch_test

import (
	"context"
	"testing"

	g "github.com/anacrolix/generics"
	"github.com/stretchr/testify/require"

	"github.com/MasterOfBinary/minbatch/batch"
)

// identity weighs an int as its own value.
var identity = batch.WeightFunc[int](func(n int) uint64 { return uint64(n) })

// collect advances acc until ErrDone and returns every batch.
func collect[T any](t *testing.T, acc *batch.Accumulator[T]) []batch.Batch[T] {
	t.Helper()
	var batches []batch.Batch[T]
	for {
		b, err := acc.Advance(context.Background())
		if batch.IsDone(err) {
			return batches
		}
		require.NoError(t, err)
		batches = append(batches, b)
	}
}

// closableUpstream yields items and records whether Close was called.
type closableUpstream struct {
	items  []int
	closed bool
}

func (u *closableUpstream) Next(context.Context) (g.Option[int], error) {
	if len(u.items) == 0 {
		return g.None[int](), nil
	}
	item := u.items[0]
	u.items = u.items[1:]
	return g.Some(item), nil
}

func (u *closableUpstream) Close() error {
	u.closed = true
	return nil
}
