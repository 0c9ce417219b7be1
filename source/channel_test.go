package source

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannel_Next(t *testing.T) {
	ctx := context.Background()
	input := make(chan int, 10)
	for i := 0; i < 10; i++ {
		input <- i
	}
	close(input)

	s := &Channel[int]{Input: input}
	for i := 0; i < 10; i++ {
		item, err := s.Next(ctx)
		require.NoError(t, err)
		require.True(t, item.Ok)
		assert.Equal(t, i, item.Value)
	}

	item, err := s.Next(ctx)
	require.NoError(t, err)
	assert.False(t, item.Ok, "closed channel should report exhaustion")
}

func TestChannel_NilInput(t *testing.T) {
	s := &Channel[int]{}

	item, err := s.Next(context.Background())
	require.NoError(t, err)
	assert.False(t, item.Ok)

	item, ready, err := s.TryNext()
	require.NoError(t, err)
	assert.True(t, ready)
	assert.False(t, item.Ok)
}

func TestChannel_NextCanceled(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	s := &Channel[int]{Input: make(chan int)}
	item, err := s.Next(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, item.Ok)
}

func TestChannel_TryNext(t *testing.T) {
	input := make(chan string, 1)
	s := &Channel[string]{Input: input}

	_, ready, err := s.TryNext()
	require.NoError(t, err)
	assert.False(t, ready, "empty channel should not be ready")

	input <- "a"
	item, ready, err := s.TryNext()
	require.NoError(t, err)
	assert.True(t, ready)
	assert.Equal(t, "a", item.Value)

	close(input)
	item, ready, err = s.TryNext()
	require.NoError(t, err)
	assert.True(t, ready)
	assert.False(t, item.Ok)
}

func TestNewChannel(t *testing.T) {
	_, err := NewChannel(ChannelConfig[int]{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid channel config")

	input := make(chan int)
	s, err := NewChannel(ChannelConfig[int]{Input: input})
	require.NoError(t, err)
	assert.NotNil(t, s)
}
