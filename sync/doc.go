// Package sync provides a synchronous, blocking API for batched writes built
// on top of the minbatch accumulator.
//
// BatchWriter.Write blocks until the batch containing the item has been
// written. Concurrent writes are grouped until their combined weight reaches
// the minimum; whenever no further write is queued, the partial batch is
// written right away, so a lone caller is never left waiting for company.
//
// Basic usage:
//
//	// Define a function that performs batched writes
//	writeFunc := func(ctx context.Context, rows []Row) error {
//		return db.BulkInsert(ctx, rows)
//	}
//
//	// Create a batch writer that groups rows into batches of at least 64 KiB
//	writer, err := sync.NewBatchWriter(batch.Config{MinWeight: 64 << 10}, rowSize, writeFunc)
//	if err != nil {
//		return err
//	}
//	defer writer.Close()
//
//	// Make synchronous calls that are batched behind the scenes
//	err = writer.Write(ctx, row)
//
// The sync package handles:
//   - Per-request context cancellation
//   - Request queuing and batching
//   - Error propagation to every caller in a failed batch
//   - Graceful shutdown
package sync
