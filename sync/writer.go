package sync

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/MasterOfBinary/minbatch/batch"
	"github.com/MasterOfBinary/minbatch/pipeline"
	"github.com/MasterOfBinary/minbatch/source"
)

// DefaultQueueSize is the number of writes that can be queued before Write
// blocks.
const DefaultQueueSize = 100

// ErrClosed is returned by Write after Close.
var ErrClosed = errors.New("batch writer is closed")

// WriteFunc is a user-provided function that performs a batched write
// operation. It receives the items of one batch in submission order. A
// returned error is reported to every caller in the batch.
type WriteFunc[T any] func(ctx context.Context, items []T) error

// writeRequest represents a single write operation in the batch.
type writeRequest[T any] struct {
	ctx      context.Context
	item     T
	response chan error
}

func (r *writeRequest[T]) respond(err error) {
	select {
	case r.response <- err:
	default:
	}
}

// BatchWriter provides synchronous write operations that are batched behind
// the scenes. It is safe for concurrent use.
type BatchWriter[T any] struct {
	input  chan *writeRequest[T]
	runner *pipeline.Runner[*writeRequest[T]]

	mu     sync.RWMutex
	closed bool
}

// NewBatchWriter creates a BatchWriter that weighs items with w and passes
// each batch to writeFunc. FlushOnStall is always enabled.
func NewBatchWriter[T any](config batch.Config, w batch.Weigher[T], writeFunc WriteFunc[T]) (*BatchWriter[T], error) {
	if w == nil {
		return nil, batch.ErrNilWeigher
	}
	if writeFunc == nil {
		return nil, errors.New("write function cannot be nil")
	}

	input := make(chan *writeRequest[T], DefaultQueueSize)
	weigh := batch.WeightFunc[*writeRequest[T]](func(r *writeRequest[T]) uint64 {
		return w.Weight(r.item)
	})

	config.FlushOnStall = true
	acc, err := batch.NewFromConfig[*writeRequest[T]](&source.Channel[*writeRequest[T]]{Input: input}, batch.Checked(weigh), config)
	if err != nil {
		return nil, err
	}

	runner := pipeline.NewRunner[*writeRequest[T]](acc, &writeProcessor[T]{writeFunc: writeFunc})
	pipeline.IgnoreErrors(runner.Go(context.Background()))

	return &BatchWriter[T]{
		input:  input,
		runner: runner,
	}, nil
}

// Write submits item and blocks until its batch has been written or ctx is
// done.
func (w *BatchWriter[T]) Write(ctx context.Context, item T) error {
	if ctx == nil {
		ctx = context.Background()
	}

	req := &writeRequest[T]{
		ctx:      ctx,
		item:     item,
		response: make(chan error, 1),
	}

	w.mu.RLock()
	if w.closed {
		w.mu.RUnlock()
		return ErrClosed
	}
	select {
	case w.input <- req:
		w.mu.RUnlock()
	case <-ctx.Done():
		w.mu.RUnlock()
		return ctx.Err()
	}

	select {
	case err := <-req.response:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close gracefully shuts down the BatchWriter and waits for pending writes to
// complete. It can be called multiple times.
func (w *BatchWriter[T]) Close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	close(w.input)
	w.mu.Unlock()

	<-w.runner.Done()
}

// writeProcessor passes the live requests of a batch to the write function.
type writeProcessor[T any] struct {
	writeFunc WriteFunc[T]
}

func (p *writeProcessor[T]) Process(ctx context.Context, b batch.Batch[*writeRequest[T]]) error {
	active := make([]*writeRequest[T], 0, len(b.Items))
	items := make([]T, 0, len(b.Items))

	for _, req := range b.Items {
		// Skip callers that gave up while queued
		if err := req.ctx.Err(); err != nil {
			req.respond(err)
			continue
		}
		active = append(active, req)
		items = append(items, req.item)
	}

	if len(items) == 0 {
		return nil
	}

	err := p.writeFunc(ctx, items)
	for _, req := range active {
		req.respond(err)
	}
	return err
}
