// Package processor contains the Processor interface that consumes emitted
// batches, and several implementations for common scenarios, including:
//
// - Func: For using an ordinary function as a processor
// - Collector: For collecting batches in memory
// - Channel: For forwarding batch items to an output channel
// - Logging and Stats: For wrapping another processor with logging and metrics
// - Error: For simulating processor failures
// - Nil: For testing timing behavior without consuming data
//
// Processors receive each batch exactly once, in emission order, and must not
// retain the Items slice unless they own it from then on.
//
// Basic usage of the Collector processor:
//
//	c := &processor.Collector[int]{}
//	err := pipeline.Run(ctx, acc, c)
//	fmt.Println(c.Items())
//
// Output:
//
//	[1 2 3]
package processor
