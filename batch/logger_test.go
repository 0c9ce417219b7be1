package batch_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/MasterOfBinary/minbatch/batch"
	"github.com/MasterOfBinary/minbatch/source"
)

func TestLogLevel_String(t *testing.T) {
	tests := []struct {
		level batch.LogLevel
		want  string
	}{
		{batch.LogLevelDebug, "DEBUG"},
		{batch.LogLevelInfo, "INFO"},
		{batch.LogLevelWarn, "WARN"},
		{batch.LogLevelError, "ERROR"},
		{batch.LogLevel(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.level.String())
	}
}

func TestNoOpLogger(t *testing.T) {
	logger := &batch.NoOpLogger{}

	// These should not panic
	logger.Log(batch.LogLevelInfo, "test %d", 1)
	logger.Debug("test")
	logger.Info("test")
	logger.Warn("test")
	logger.Error("test")
}

func TestZapLogger_Levels(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := batch.NewZapLogger(zap.New(core)).With("component", "test")

	logger.Debug("debug %d", 1)
	logger.Info("info %d", 2)
	logger.Warn("warn %d", 3)
	logger.Error("error %d", 4)
	logger.Log(batch.LogLevelWarn, "log %s", "five")

	entries := logs.All()
	require.Len(t, entries, 5)
	assert.Equal(t, "debug 1", entries[0].Message)
	assert.Equal(t, zapcore.InfoLevel, entries[1].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[3].Level)
	assert.Equal(t, "log five", entries[4].Message)
	assert.Equal(t, zapcore.WarnLevel, entries[4].Level)
	assert.Equal(t, "test", entries[0].ContextMap()["component"])
}

func TestZapLogger_Nil(t *testing.T) {
	logger := batch.NewZapLogger(nil)
	logger.Info("dropped")
	assert.NoError(t, logger.Sync())
}

func TestNewDevelopmentLogger(t *testing.T) {
	logger, err := batch.NewDevelopmentLogger(batch.LogLevelWarn)
	require.NoError(t, err)
	assert.NotNil(t, logger)
}

func TestAccumulator_Logging(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	acc := batch.Must(batch.New[int](source.Of(1, 2, 3, 4, 1), 3, identity)).
		WithLogger(batch.NewZapLogger(zap.New(core)))

	batches := collect(t, acc)
	require.Len(t, batches, 4)

	assert.Equal(t, 1, logs.FilterMessage("Batch 1 cut (threshold): 2 items, weight 3").Len())
	assert.Equal(t, 1, logs.FilterMessage("Batch 4 cut (drain): 1 items, weight 1").Len())

	infos := logs.FilterLevelExact(zapcore.InfoLevel).All()
	require.Len(t, infos, 1)
	assert.Equal(t, "Upstream exhausted after 5 items, draining final batch 4 (weight 1 of 3)", infos[0].Message)
}

func TestAccumulator_LoggingOnFailure(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	acc := batch.Must(batch.New[int](&source.Error[int]{Items: []int{1}, Err: assert.AnError}, 3, identity)).
		WithLogger(batch.NewZapLogger(zap.New(core)))

	_, err := acc.Advance(context.Background())
	require.Error(t, err)

	assert.Equal(t, 1, logs.FilterLevelExact(zapcore.ErrorLevel).FilterMessageSnippet("Upstream failed after 1 items").Len())
	assert.Equal(t, 1, logs.FilterLevelExact(zapcore.WarnLevel).FilterMessage("Discarding 1 buffered items (weight 1) on failure").Len())
}
