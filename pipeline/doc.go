// Package pipeline drives an accumulator and hands every emitted batch to a
// chain of processors.
//
// Run is the synchronous form and stops at the first error:
//
//	acc := batch.Must(batch.New[Block](up, 100, txCount))
//	if err := pipeline.Run(ctx, acc, sink); err != nil {
//		return err
//	}
//
// Runner runs the same loop in the background and reports errors on a
// channel, in the style of an asynchronous batch job:
//
//	r := pipeline.NewRunner(acc, sink)
//	for err := range r.Go(ctx) {
//		log.Print(err)
//	}
//	// Now processing is done
//
// RunAll drives several independent accumulators concurrently and returns
// the first error.
package pipeline
