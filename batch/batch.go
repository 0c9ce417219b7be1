package batch

import (
	"context"
	"io"
	"iter"

	g "github.com/anacrolix/generics"
	"github.com/pkg/errors"
)

// CutReason tells why a batch was emitted.
type CutReason int

const (
	// CutThreshold means the accumulated weight reached MinWeight.
	CutThreshold CutReason = iota
	// CutDrain means the upstream was exhausted and the remainder was emitted.
	// The batch may weigh less than MinWeight.
	CutDrain
	// CutStall means FlushOnStall is enabled and the upstream had no item ready.
	CutStall
)

// String returns the string representation of the cut reason.
func (r CutReason) String() string {
	switch r {
	case CutThreshold:
		return "threshold"
	case CutDrain:
		return "drain"
	case CutStall:
		return "stall"
	default:
		return "unknown"
	}
}

// Batch is a non-empty, ordered group of consecutive upstream items.
// The accumulator gives up ownership of Items when the batch is emitted.
type Batch[T any] struct {
	// Seq is the 1-based emission number of the batch.
	Seq uint64

	// Items holds the batched items in upstream order.
	Items []T

	// Weight is the exact sum of the item weights.
	Weight uint64

	// Reason tells why the batch was cut.
	Reason CutReason
}

// Len returns the number of items in the batch.
func (b Batch[T]) Len() int {
	return len(b.Items)
}

// Accumulator regroups the items of an Upstream into batches whose cumulative
// weight is at least MinWeight. Items are absorbed in upstream order and every
// item ends up in exactly one batch, except for items that are still buffered
// when the accumulator fails or is closed.
//
// An Accumulator is driven by repeated calls to Advance and has a single
// owner: Advance must not be called concurrently.
//
// The only point where Advance blocks is the upstream pull. A partial batch
// is held across that wait; it is emitted once more items push it over
// MinWeight or the upstream is exhausted. If the context passed to Advance is
// done while waiting, Advance returns the context error and the buffered
// items stay in place for the next call.
//
//	acc := batch.Must(batch.New[int](up, 100, batch.Count[int]()))
//	for {
//		b, err := acc.Advance(ctx)
//		if batch.IsDone(err) {
//			break
//		}
//		if err != nil {
//			return err
//		}
//		handle(b.Items)
//	}
type Accumulator[T any] struct {
	upstream Upstream[T]
	weigher  CheckedWeigher[T]
	config   Config
	logger   Logger
	stats    StatsCollector

	items      []T
	weight     uint64
	absorbed   uint64
	seq        uint64
	exhausted  bool
	terminated bool
	started    bool
}

// New creates an Accumulator that pulls from up and cuts a batch whenever the
// accumulated weight reaches minWeight.
func New[T any](up Upstream[T], minWeight uint64, w Weigher[T]) (*Accumulator[T], error) {
	if w == nil {
		return nil, ErrNilWeigher
	}
	return NewFromConfig[T](up, checked[T]{w: w}, Config{MinWeight: minWeight})
}

// NewChecked is like New but takes a weigher that can fail.
func NewChecked[T any](up Upstream[T], minWeight uint64, w CheckedWeigher[T]) (*Accumulator[T], error) {
	return NewFromConfig[T](up, w, Config{MinWeight: minWeight})
}

// NewFromConfig creates an Accumulator from a Config.
//
// Example:
//
//	acc, err := batch.NewFromConfig[string](up, batch.CheckedWeightFunc[string](weigh), batch.Config{
//		MinWeight:    64 << 10,
//		FlushOnStall: true,
//	})
func NewFromConfig[T any](up Upstream[T], w CheckedWeigher[T], config Config) (*Accumulator[T], error) {
	if up == nil {
		return nil, ErrNilUpstream
	}
	if w == nil {
		return nil, ErrNilWeigher
	}
	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &Accumulator[T]{
		upstream: up,
		weigher:  w,
		config:   config,
		logger:   &NoOpLogger{},
		stats:    &NoOpStatsCollector{},
	}, nil
}

// Must panics if err is non-nil and otherwise returns acc. It is intended for
// initializations with known-good arguments.
func Must[T any](acc *Accumulator[T], err error) *Accumulator[T] {
	if err != nil {
		panic(err)
	}
	return acc
}

// WithLogger sets a custom logger for the Accumulator.
// This must be called before the first call to Advance.
//
// Panics if called after Advance to prevent confusion about which events were logged.
func (a *Accumulator[T]) WithLogger(logger Logger) *Accumulator[T] {
	if a.started {
		panic("batch: WithLogger cannot be called after Advance")
	}
	if logger == nil {
		logger = &NoOpLogger{}
	}
	a.logger = logger
	return a
}

// WithStats sets a custom stats collector for the Accumulator.
// This must be called before the first call to Advance.
//
// Panics if called after Advance.
func (a *Accumulator[T]) WithStats(stats StatsCollector) *Accumulator[T] {
	if a.started {
		panic("batch: WithStats cannot be called after Advance")
	}
	if stats == nil {
		stats = &NoOpStatsCollector{}
	}
	a.stats = stats
	return a
}

// WithFlushOnStall enables or disables flushing a partial batch whenever the
// upstream has no item ready. It has no effect unless the upstream
// implements Poller.
//
// Panics if called after Advance.
func (a *Accumulator[T]) WithFlushOnStall(enabled bool) *Accumulator[T] {
	if a.started {
		panic("batch: WithFlushOnStall cannot be called after Advance")
	}
	a.config.FlushOnStall = enabled
	return a
}

// Config returns the configuration the Accumulator was built with.
func (a *Accumulator[T]) Config() Config {
	return a.config
}

// MinWeight returns the batch weight threshold.
func (a *Accumulator[T]) MinWeight() uint64 {
	return a.config.MinWeight
}

// Buffered returns the number of items and the weight currently held in the
// partial batch.
func (a *Accumulator[T]) Buffered() (items int, weight uint64) {
	return len(a.items), a.weight
}

// IsTerminated reports whether the upstream is exhausted and nothing is left
// in the buffer, i.e. no further batch can be produced.
func (a *Accumulator[T]) IsTerminated() bool {
	return a.exhausted && len(a.items) == 0
}

// Advance returns the next batch.
//
// It returns ErrDone once the upstream has been exhausted and the final
// partial batch (if any) has been emitted. Upstream failures are returned as
// *UpstreamError and weigher failures as *WeightError; both discard the
// buffered items and end the stream, so subsequent calls return ErrDone.
// If ctx is done while waiting on the upstream, the context error is
// returned and the accumulator remains usable.
func (a *Accumulator[T]) Advance(ctx context.Context) (Batch[T], error) {
	a.started = true

	if a.terminated {
		return Batch[T]{}, ErrDone
	}

	for {
		opt, stalled, err := a.pull(ctx)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
				a.logger.Debug("Advance suspended with %d buffered items: %v", len(a.items), err)
				return Batch[T]{}, err
			}
			a.logger.Error("Upstream failed after %d items: %v", a.absorbed, err)
			a.stats.RecordUpstreamError()
			a.fail()
			return Batch[T]{}, &UpstreamError{Err: err}
		}

		if stalled {
			a.logger.Debug("Upstream stalled, flushing %d buffered items", len(a.items))
			return a.cut(CutStall), nil
		}

		if !opt.Ok {
			a.exhausted = true
			a.terminated = true
			if len(a.items) == 0 {
				a.logger.Info("Upstream exhausted after %d items, %d batches emitted", a.absorbed, a.seq)
				return Batch[T]{}, ErrDone
			}
			b := a.cut(CutDrain)
			a.logger.Info("Upstream exhausted after %d items, draining final batch %d (weight %d of %d)",
				a.absorbed, b.Seq, b.Weight, a.config.MinWeight)
			return b, nil
		}

		if err := a.absorb(opt.Value); err != nil {
			return Batch[T]{}, err
		}

		if a.weight >= a.config.MinWeight {
			return a.cut(CutThreshold), nil
		}
	}
}

// pull requests the next item. stalled is true only in FlushOnStall mode,
// when the upstream has nothing ready and a partial batch is buffered.
func (a *Accumulator[T]) pull(ctx context.Context) (opt g.Option[T], stalled bool, err error) {
	if a.config.FlushOnStall && len(a.items) > 0 {
		if p, ok := a.upstream.(Poller[T]); ok {
			item, ready, err := p.TryNext()
			if err != nil || ready {
				return item, false, err
			}
			return item, true, nil
		}
	}

	if err := ctx.Err(); err != nil {
		return opt, false, err
	}

	opt, err = a.upstream.Next(ctx)
	return opt, false, err
}

// absorb weighs item and appends it to the buffer.
func (a *Accumulator[T]) absorb(item T) error {
	w, err := a.weigher.Weight(item)
	if err != nil {
		a.logger.Error("Failed to weigh item %d: %v", a.absorbed, err)
		a.stats.RecordWeightError()
		index := a.absorbed
		a.fail()
		return &WeightError{Index: index, Err: err}
	}

	if a.items == nil {
		a.items = make([]T, 0, a.config.capacity())
	}
	a.items = append(a.items, item)
	a.weight += w
	a.absorbed++
	a.stats.RecordItem(w)
	return nil
}

// cut hands the buffer over as a batch and resets the state.
func (a *Accumulator[T]) cut(reason CutReason) Batch[T] {
	a.seq++
	b := Batch[T]{
		Seq:    a.seq,
		Items:  a.items,
		Weight: a.weight,
		Reason: reason,
	}
	a.items = nil
	a.weight = 0

	a.stats.RecordBatch(len(b.Items), b.Weight, reason)
	a.logger.Debug("Batch %d cut (%s): %d items, weight %d", b.Seq, reason, len(b.Items), b.Weight)
	return b
}

// fail terminates the stream and discards the buffer.
func (a *Accumulator[T]) fail() {
	a.discard("failure")
	a.exhausted = true
	a.terminated = true
}

func (a *Accumulator[T]) discard(cause string) {
	if len(a.items) == 0 {
		return
	}
	a.logger.Warn("Discarding %d buffered items (weight %d) on %s", len(a.items), a.weight, cause)
	a.stats.RecordDiscarded(len(a.items), a.weight)
	a.items = nil
	a.weight = 0
}

// Close ends the stream early. Buffered items that have not been emitted are
// discarded; callers that need them must call Advance until ErrDone first.
// If the upstream implements io.Closer it is closed too.
func (a *Accumulator[T]) Close() error {
	if !a.terminated {
		a.discard("close")
		a.terminated = true
		a.exhausted = true
	}
	if c, ok := a.upstream.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// All returns an iterator over the remaining batches. Iteration stops at the
// end of the stream or after the first error, which is yielded with a zero
// Batch. ErrDone is never yielded.
func (a *Accumulator[T]) All(ctx context.Context) iter.Seq2[Batch[T], error] {
	return func(yield func(Batch[T], error) bool) {
		for {
			b, err := a.Advance(ctx)
			if IsDone(err) {
				return
			}
			if !yield(b, err) || err != nil {
				return
			}
		}
	}
}
