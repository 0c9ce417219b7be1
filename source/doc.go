// Package source contains several implementations of the batch.Upstream
// interface for common data source scenarios, including:
//
// - Channel: For using existing channels as upstreams
// - Slice: For batching an in-memory slice
// - Func and Seq: For pull functions and range-over-func iterators
// - Lines: For reading newline-delimited input such as stdin
// - Redis: For popping items off a Redis list
// - Error: For simulating a failing upstream
// - Nil: For testing timing behavior without emitting data
//
// Channel, Slice and Redis also implement batch.Poller, so they can be used
// with FlushOnStall.
//
// Basic usage of the Channel source:
//
//	input := make(chan string, 2)
//	input <- "a"
//	input <- "bc"
//	close(input)
//
//	mb := batch.MustMinBatch(batch.NewMinBatch[string](&source.Channel[string]{Input: input}, 3, batch.Bytes[string]()))
//	items, _ := mb.Next(ctx)
//	fmt.Println(items)
//
// Output:
//
//	[a bc]
package source
