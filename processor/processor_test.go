package processor_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/MasterOfBinary/minbatch/batch"
	"github.com/MasterOfBinary/minbatch/processor"
)

func testBatch(seq uint64, items ...int) batch.Batch[int] {
	var w uint64
	for _, n := range items {
		w += uint64(n)
	}
	return batch.Batch[int]{Seq: seq, Items: items, Weight: w, Reason: batch.CutThreshold}
}

func TestChain(t *testing.T) {
	var calls []string
	first := processor.Func[int](func(context.Context, batch.Batch[int]) error {
		calls = append(calls, "first")
		return nil
	})
	boom := errors.New("boom")
	failing := processor.Func[int](func(context.Context, batch.Batch[int]) error {
		calls = append(calls, "failing")
		return boom
	})
	last := processor.Func[int](func(context.Context, batch.Batch[int]) error {
		calls = append(calls, "last")
		return nil
	})

	err := processor.Chain[int](first, failing, last).Process(context.Background(), testBatch(1, 1))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"first", "failing"}, calls)
}

func TestCollector(t *testing.T) {
	c := &processor.Collector[int]{}
	ctx := context.Background()

	require.NoError(t, c.Process(ctx, testBatch(1, 1, 2)))
	require.NoError(t, c.Process(ctx, testBatch(2, 3)))

	assert.Equal(t, 2, c.Count())
	assert.Equal(t, []int{1, 2, 3}, c.Items())
	assert.Equal(t, []uint64{3, 3}, c.Weights())

	results := c.Results(true)
	require.Len(t, results, 2)
	assert.Equal(t, uint64(2), results[1].Seq)
	assert.Equal(t, 0, c.Count(), "Results(true) should reset")
}

func TestCollector_FilterAndMax(t *testing.T) {
	c, err := processor.NewCollector(processor.CollectorConfig[int]{
		Filter:     func(b batch.Batch[int]) bool { return b.Weight > 1 },
		MaxBatches: 2,
	})
	require.NoError(t, err)

	ctx := context.Background()
	for seq, items := range [][]int{{1}, {2}, {3}, {4}} {
		require.NoError(t, c.Process(ctx, testBatch(uint64(seq+1), items...)))
	}

	assert.Equal(t, []int{2, 3}, c.Items())

	c.Reset()
	assert.Equal(t, 0, c.Count())

	_, err = processor.NewCollector(processor.CollectorConfig[int]{MaxBatches: -1})
	assert.Error(t, err)
}

func TestChannel(t *testing.T) {
	out := make(chan []int, 1)
	p, err := processor.NewChannel(processor.ChannelConfig[int]{Output: out})
	require.NoError(t, err)

	require.NoError(t, p.Process(context.Background(), testBatch(1, 4, 5)))
	assert.Equal(t, []int{4, 5}, <-out)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	blocked := &processor.Channel[int]{Output: make(chan []int)}
	assert.ErrorIs(t, blocked.Process(ctx, testBatch(2, 1)), context.Canceled)

	_, err = processor.NewChannel(processor.ChannelConfig[int]{})
	assert.Error(t, err)
}

func TestNil(t *testing.T) {
	p := processor.Nil[int](5 * time.Millisecond)
	start := time.Now()
	require.NoError(t, p.Process(context.Background(), testBatch(1, 1)))
	assert.GreaterOrEqual(t, time.Since(start), 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, processor.Nil[int](time.Hour).Process(ctx, testBatch(1, 1)), context.Canceled)
}

func TestError(t *testing.T) {
	boom := errors.New("boom")
	p := &processor.Error[int]{Err: boom, FailAt: 2}

	assert.NoError(t, p.Process(context.Background(), testBatch(1, 1)))
	assert.ErrorIs(t, p.Process(context.Background(), testBatch(2, 1)), boom)
}

func TestLoggingProcessor(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := batch.NewZapLogger(zap.New(core))

	boom := errors.New("boom")
	p := processor.WrapWithLogging[int](&processor.Error[int]{Err: boom, FailAt: 2}, logger, "sink")

	require.NoError(t, p.Process(context.Background(), testBatch(1, 3)))
	assert.ErrorIs(t, p.Process(context.Background(), testBatch(2, 3)), boom)

	assert.Equal(t, 1, logs.FilterMessageSnippet("Processor 'sink' starting batch 1 with 1 items (weight 3)").Len())
	assert.Equal(t, 1, logs.FilterMessageSnippet("Processor 'sink' completed batch 1").Len())

	errs := logs.FilterLevelExact(zapcore.ErrorLevel).All()
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message, "failed on batch 2")
}

func TestLoggingProcessor_NoLogger(t *testing.T) {
	c := &processor.Collector[int]{}
	p := processor.WrapWithLogging[int](c, nil, "")

	require.NoError(t, p.Process(context.Background(), testBatch(1, 1)))
	assert.Equal(t, 1, c.Count())

	assert.NoError(t, (&processor.LoggingProcessor[int]{}).Process(context.Background(), testBatch(1, 1)))
}

func TestStatsProcessor(t *testing.T) {
	stats := &processor.BasicStats{}
	boom := errors.New("boom")
	p := processor.WrapWithStats[int](&processor.Error[int]{Err: boom, FailAt: 3}, stats)

	ctx := context.Background()
	require.NoError(t, p.Process(ctx, testBatch(1, 1, 2)))
	require.NoError(t, p.Process(ctx, testBatch(2, 5)))
	assert.ErrorIs(t, p.Process(ctx, testBatch(3, 1)), boom)

	s := stats.Snapshot()
	assert.Equal(t, uint64(2), s.Batches)
	assert.Equal(t, uint64(3), s.Items)
	assert.Equal(t, uint64(8), s.Weight)
	assert.Equal(t, uint64(1), s.Errors)
	assert.GreaterOrEqual(t, s.TotalDuration, s.MaxDuration)
	assert.Equal(t, time.Duration(0), processor.ProcessStats{}.AverageDuration())
}
