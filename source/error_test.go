package source

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError(t *testing.T) {
	boom := errors.New("boom")
	s := &Error[int]{Items: []int{1, 2}, Err: boom}

	for _, want := range []int{1, 2} {
		item, err := s.Next(context.Background())
		require.NoError(t, err)
		assert.Equal(t, want, item.Value)
	}

	for i := 0; i < 2; i++ {
		item, err := s.Next(context.Background())
		assert.ErrorIs(t, err, boom)
		assert.False(t, item.Ok)
	}
}

func TestError_NilErr(t *testing.T) {
	s := &Error[int]{Items: []int{1}}
	assert.Equal(t, []int{1}, drain(t, s.Next))
}

func TestNil(t *testing.T) {
	s := NewNil[int](10 * time.Millisecond)

	start := time.Now()
	item, err := s.Next(context.Background())
	require.NoError(t, err)
	assert.False(t, item.Ok)
	assert.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond)
}

func TestNil_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewNil[int](time.Hour).Next(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
