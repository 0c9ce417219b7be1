package batch

import "unicode/utf8"

// Weigher assigns a non-negative cost to an item. Weight must be pure: it may
// be called at any point relative to upstream suspension and must not have
// observable side effects.
type Weigher[T any] interface {
	Weight(item T) uint64
}

// WeightFunc adapts an ordinary function to the Weigher interface.
type WeightFunc[T any] func(item T) uint64

// Weight implements the Weigher interface.
func (f WeightFunc[T]) Weight(item T) uint64 {
	return f(item)
}

// CheckedWeigher is a Weigher that can fail. A failure terminates the batch
// stream and discards the buffered items.
type CheckedWeigher[T any] interface {
	Weight(item T) (uint64, error)
}

// CheckedWeightFunc adapts an ordinary function to the CheckedWeigher interface.
type CheckedWeightFunc[T any] func(item T) (uint64, error)

// Weight implements the CheckedWeigher interface.
func (f CheckedWeightFunc[T]) Weight(item T) (uint64, error) {
	return f(item)
}

// checked lifts a Weigher into a CheckedWeigher that never fails.
type checked[T any] struct {
	w Weigher[T]
}

func (c checked[T]) Weight(item T) (uint64, error) {
	return c.w.Weight(item), nil
}

// Checked adapts a Weigher for use with NewChecked and NewFromConfig.
func Checked[T any](w Weigher[T]) CheckedWeigher[T] {
	if w == nil {
		return nil
	}
	return checked[T]{w: w}
}

// Count weighs every item as 1, so MinWeight becomes a minimum item count.
func Count[T any]() Weigher[T] {
	return WeightFunc[T](func(T) uint64 { return 1 })
}

// Len weighs a slice item by its number of elements.
func Len[S ~[]E, E any]() Weigher[S] {
	return WeightFunc[S](func(s S) uint64 { return uint64(len(s)) })
}

// Bytes weighs a string or byte slice item by its length in bytes.
func Bytes[S ~string | ~[]byte]() Weigher[S] {
	return WeightFunc[S](func(s S) uint64 { return uint64(len(s)) })
}

// Runes weighs a string item by its number of UTF-8 runes.
func Runes[S ~string]() Weigher[S] {
	return WeightFunc[S](func(s S) uint64 { return uint64(utf8.RuneCountInString(string(s))) })
}
