package batch

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrDone is returned by Advance and Next once no further batches will be
	// produced. It is not a failure.
	ErrDone = errors.New("no more batches")

	// ErrInvalidMinWeight is returned when the minimum batch weight is zero.
	ErrInvalidMinWeight = errors.New("min weight must be greater than zero")

	// ErrNilUpstream is returned when an accumulator is created without an upstream.
	ErrNilUpstream = errors.New("upstream cannot be nil")

	// ErrNilWeigher is returned when an accumulator is created without a weigher.
	ErrNilWeigher = errors.New("weigher cannot be nil")
)

// UpstreamError is returned when the upstream fails. Any items buffered at the
// time of the failure are discarded.
type UpstreamError struct {
	Err error
}

func (e UpstreamError) Error() string {
	return fmt.Sprintf("upstream error: %v", e.Err)
}

func (e UpstreamError) Unwrap() error {
	return e.Err
}

// WeightError is returned when a CheckedWeigher fails to weigh an item. Index
// is the zero-based position of the item in the upstream sequence.
type WeightError struct {
	Index uint64
	Err   error
}

func (e WeightError) Error() string {
	return fmt.Sprintf("weight error at item %d: %v", e.Index, e.Err)
}

func (e WeightError) Unwrap() error {
	return e.Err
}

// IsDone reports whether err marks the normal end of a batch stream.
func IsDone(err error) bool {
	return errors.Is(err, ErrDone)
}
