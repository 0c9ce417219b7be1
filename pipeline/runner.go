package pipeline

import (
	"context"
	"sync"

	"github.com/MasterOfBinary/minbatch/batch"
	"github.com/MasterOfBinary/minbatch/processor"
)

// DefaultErrorBufferSize is the capacity of the error channel returned by Go.
const DefaultErrorBufferSize = 10

var closedDone = func() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}()

// Runner drives an accumulator in the background. Errors are reported on the
// channel returned from Go; when processing is complete, that channel is
// closed and so is the channel returned from Done.
//
// Unlike Run, a processor failure does not stop a Runner: the error is
// reported as *ProcessorError and the next batch is processed. Upstream and
// weigher failures end the stream, and so does ctx being done.
//
// If errors don't need to be handled, IgnoreErrors can be used:
//
//	pipeline.IgnoreErrors(r.Go(ctx))
//	<-r.Done()
type Runner[T any] struct {
	acc    *batch.Accumulator[T]
	procs  []processor.Processor[T]
	logger batch.Logger

	mu      sync.Mutex
	running bool
	errs    chan error
	done    chan struct{}
}

// NewRunner creates a Runner that passes each batch of acc through procs.
// Nil processors are skipped.
func NewRunner[T any](acc *batch.Accumulator[T], procs ...processor.Processor[T]) *Runner[T] {
	filtered := make([]processor.Processor[T], 0, len(procs))
	for _, p := range procs {
		if p != nil {
			filtered = append(filtered, p)
		}
	}
	return &Runner[T]{
		acc:    acc,
		procs:  filtered,
		logger: &batch.NoOpLogger{},
	}
}

// WithLogger sets a custom logger for the Runner.
//
// Panics if called while the Runner is running.
func (r *Runner[T]) WithLogger(logger batch.Logger) *Runner[T] {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.running {
		panic("pipeline: WithLogger cannot be called while running")
	}
	if logger == nil {
		logger = &batch.NoOpLogger{}
	}
	r.logger = logger
	return r
}

// Go starts processing in a new goroutine and returns the error channel.
//
// Go must only be called once at a time. Calling Go again while the Runner is
// running will cause a panic.
func (r *Runner[T]) Go(ctx context.Context) <-chan error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.running {
		panic("pipeline: concurrent calls to Runner.Go are not allowed")
	}
	r.running = true
	r.errs = make(chan error, DefaultErrorBufferSize)
	r.done = make(chan struct{})

	if r.acc == nil {
		r.errs <- batch.ErrNilUpstream
		r.finish()
		return r.errs
	}

	r.logger.Info("Starting pipeline with %d processor(s)", len(r.procs))
	go r.loop(ctx)

	return r.errs
}

// Done returns a channel that is closed when processing is complete.
// Before Go is called, the returned channel is already closed.
func (r *Runner[T]) Done() <-chan struct{} {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.done == nil {
		return closedDone
	}
	return r.done
}

func (r *Runner[T]) loop(ctx context.Context) {
	defer func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.finish()
	}()

	var batches int
	for {
		b, err := r.acc.Advance(ctx)
		if batch.IsDone(err) {
			r.logger.Info("Pipeline finished after %d batches", batches)
			return
		}
		if err != nil {
			r.logger.Warn("Pipeline stopped: %v", err)
			r.errs <- err
			return
		}

		batches++
		if err := process(ctx, b, r.procs); err != nil {
			r.logger.Error("%v", err)
			select {
			case r.errs <- err:
			case <-ctx.Done():
				return
			}
		}
	}
}

// finish closes the channels. r.mu must be held.
func (r *Runner[T]) finish() {
	close(r.errs)
	close(r.done)
	r.running = false
}

// IgnoreErrors starts a goroutine that reads errs and discards them.
func IgnoreErrors(errs <-chan error) {
	go func() {
		for range errs {
		}
	}()
}
