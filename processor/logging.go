package processor

import (
	"context"
	"fmt"
	"time"

	"github.com/MasterOfBinary/minbatch/batch"
)

// LoggingProcessor wraps another processor and adds logging capabilities.
// It logs when processing starts and completes, along with any errors encountered.
type LoggingProcessor[T any] struct {
	// Processor is the wrapped processor that does the actual work.
	Processor Processor[T]

	// Logger is used to log processing events.
	// If nil, no logging occurs.
	Logger batch.Logger

	// Name is an optional name for this processor used in log messages.
	// If empty, the type of the wrapped processor is used.
	Name string
}

// Process implements the Processor interface by delegating to the wrapped
// processor and logging the operation.
func (p *LoggingProcessor[T]) Process(ctx context.Context, b batch.Batch[T]) error {
	if p.Processor == nil {
		return nil
	}

	if p.Logger == nil {
		return p.Processor.Process(ctx, b)
	}

	name := p.Name
	if name == "" {
		name = fmt.Sprintf("%T", p.Processor)
	}

	startTime := time.Now()
	p.Logger.Debug("Processor '%s' starting batch %d with %d items (weight %d)", name, b.Seq, len(b.Items), b.Weight)

	err := p.Processor.Process(ctx, b)

	duration := time.Since(startTime)
	if err != nil {
		p.Logger.Error("Processor '%s' failed on batch %d after %v: %v", name, b.Seq, duration, err)
	} else {
		p.Logger.Debug("Processor '%s' completed batch %d in %v", name, b.Seq, duration)
	}

	return err
}

// WrapWithLogging wraps a processor with logging capabilities.
//
// Example:
//
//	logger, _ := batch.NewDevelopmentLogger(batch.LogLevelDebug)
//	wrapped := processor.WrapWithLogging[Block](sink, logger, "sink")
func WrapWithLogging[T any](proc Processor[T], logger batch.Logger, name string) *LoggingProcessor[T] {
	return &LoggingProcessor[T]{
		Processor: proc,
		Logger:    logger,
		Name:      name,
	}
}
