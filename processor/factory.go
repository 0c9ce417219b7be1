package processor

import (
	"github.com/pkg/errors"

	"github.com/MasterOfBinary/minbatch/batch"
)

// ChannelConfig provides configuration options for creating a Channel processor.
type ChannelConfig[T any] struct {
	// Output receives the items of each batch. This field is required.
	Output chan<- []T
}

// Validate checks if the ChannelConfig is valid.
func (c ChannelConfig[T]) Validate() error {
	if c.Output == nil {
		return errors.New("output channel cannot be nil")
	}
	return nil
}

// NewChannel creates a new Channel processor with the given configuration.
//
// Example:
//
//	out := make(chan []Block, 4)
//	proc, err := processor.NewChannel(processor.ChannelConfig[Block]{Output: out})
//	if err != nil {
//		// handle error
//	}
func NewChannel[T any](config ChannelConfig[T]) (*Channel[T], error) {
	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid channel config")
	}
	return &Channel[T]{Output: config.Output}, nil
}

// CollectorConfig provides configuration options for creating a Collector.
type CollectorConfig[T any] struct {
	// Filter determines which batches to collect. Optional.
	Filter func(b batch.Batch[T]) bool

	// MaxBatches limits the number of collected batches (0 for unlimited).
	MaxBatches int
}

// Validate checks if the CollectorConfig is valid.
func (c CollectorConfig[T]) Validate() error {
	if c.MaxBatches < 0 {
		return errors.New("max batches cannot be negative")
	}
	return nil
}

// NewCollector creates a new Collector with the given configuration.
func NewCollector[T any](config CollectorConfig[T]) (*Collector[T], error) {
	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid collector config")
	}
	return &Collector[T]{
		Filter:     config.Filter,
		MaxBatches: config.MaxBatches,
	}, nil
}
