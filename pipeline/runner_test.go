package pipeline_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MasterOfBinary/minbatch/batch"
	"github.com/MasterOfBinary/minbatch/pipeline"
	"github.com/MasterOfBinary/minbatch/processor"
	"github.com/MasterOfBinary/minbatch/source"
)

func TestRunner_Go(t *testing.T) {
	c := &processor.Collector[int]{}
	r := pipeline.NewRunner(newAcc(t, 1, 3, 2, 2, 5, 1), nil, c)

	var errs []error
	for err := range r.Go(context.Background()) {
		errs = append(errs, err)
	}
	<-r.Done()

	assert.Empty(t, errs)
	assert.Equal(t, []uint64{4, 4, 5, 1}, c.Weights())
}

func TestRunner_ProcessorErrorsContinue(t *testing.T) {
	boom := errors.New("boom")
	c := &processor.Collector[int]{}
	r := pipeline.NewRunner(newAcc(t, 4, 4, 4), &processor.Error[int]{Err: boom, FailAt: 2}, c)

	var seqs []uint64
	for err := range r.Go(context.Background()) {
		var perr *pipeline.ProcessorError
		require.ErrorAs(t, err, &perr)
		seqs = append(seqs, perr.Seq)
	}

	assert.Equal(t, []uint64{2, 3}, seqs)
	assert.Equal(t, 1, c.Count(), "a failed batch skips the remaining processors")
}

func TestRunner_UpstreamErrorEnds(t *testing.T) {
	boom := errors.New("boom")
	acc := batch.Must(batch.New[int](&source.Error[int]{Items: []int{4, 1}, Err: boom}, 4, batch.WeightFunc[int](identity)))
	c := &processor.Collector[int]{}
	r := pipeline.NewRunner(acc, c)

	var errs []error
	for err := range r.Go(context.Background()) {
		errs = append(errs, err)
	}

	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], boom)
	assert.Equal(t, []int{4}, c.Items())
}

func TestRunner_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	acc := batch.Must(batch.New[int](&source.Channel[int]{Input: make(chan int)}, 4, batch.WeightFunc[int](identity)))
	r := pipeline.NewRunner[int](acc)

	errs := r.Go(ctx)
	cancel()

	select {
	case err := <-errs:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("runner did not stop after cancel")
	}
	<-r.Done()
}

func TestRunner_NilAccumulator(t *testing.T) {
	r := pipeline.NewRunner[int](nil)
	errs := r.Go(context.Background())

	err, ok := <-errs
	require.True(t, ok)
	assert.ErrorIs(t, err, batch.ErrNilUpstream)
	<-r.Done()
}

func TestRunner_DoneBeforeGo(t *testing.T) {
	r := pipeline.NewRunner[int](newAcc(t))
	select {
	case <-r.Done():
	default:
		t.Fatal("Done should be closed before Go")
	}
}

func TestRunner_IgnoreErrors(t *testing.T) {
	boom := errors.New("boom")
	r := pipeline.NewRunner(newAcc(t, 4, 4), &processor.Error[int]{Err: boom})

	pipeline.IgnoreErrors(r.Go(context.Background()))

	select {
	case <-r.Done():
	case <-time.After(time.Second):
		t.Fatal("runner did not finish")
	}
}

func TestRunner_WithLoggerWhileRunning(t *testing.T) {
	acc := batch.Must(batch.New[int](&source.Channel[int]{Input: make(chan int)}, 4, batch.WeightFunc[int](identity)))
	r := pipeline.NewRunner[int](acc)

	ctx, cancel := context.WithCancel(context.Background())
	errs := r.Go(ctx)

	assert.Panics(t, func() { r.WithLogger(nil) })

	cancel()
	for range errs {
	}
}
