// Package batch contains the weight-threshold batching core. The main type is
// Accumulator, which can be created using New. It pulls items from an Upstream
// implementation, weighs each one with a Weigher, and cuts a Batch as soon as
// the accumulated weight reaches the configured minimum. Some Upstream
// implementations are provided in the source package, or you can create your
// own.
//
// MinBatch and MinBatchWithWeight wrap an Accumulator and differ only in what
// they return: the plain item slice, or the item slice together with its
// total weight.
//
// Batches are cut by the following rules, in order:
//
//	weight >= MinWeight > EOF > stall (FlushOnStall only)
//
// A few examples with MinWeight = 3:
//
// - Weights 1, 2, 3, 4 produce [1 2], [3] and [4].
// - An item that weighs 3 or more on its own is emitted alone.
// - Weights 1, 1 followed by the end of the upstream produce [1 1], a final
// batch that weighs less than MinWeight.
// - Zero-weight items are kept in order but never trigger a cut; a stream of
// only zero-weight items is emitted as one batch at the end.
//
// While the upstream has no item ready, the partial batch is held. Items are
// never reordered, dropped or duplicated, with one exception: items that are
// still buffered when the upstream or the weigher fails, or when the
// accumulator is closed, are discarded. Drain the accumulator to ErrDone if
// every item must be delivered.
package batch
