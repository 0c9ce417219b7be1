package batch

import "github.com/pkg/errors"

// Config contains the accumulator settings. It can be loaded from JSON or YAML.
type Config struct {
	// MinWeight is the minimum cumulative weight of every batch except the
	// last one. It must be greater than zero.
	MinWeight uint64 `json:"minWeight" yaml:"min_weight"`

	// FlushOnStall cuts a partial batch whenever the upstream has no item
	// ready. It only takes effect for upstreams that implement Poller; the
	// default is to hold partial batches until MinWeight is reached or the
	// upstream is exhausted.
	FlushOnStall bool `json:"flushOnStall" yaml:"flush_on_stall"`

	// CapacityHint is the initial capacity of each new batch buffer.
	// If zero, DefaultCapacityHint is used (bounded by MinWeight).
	CapacityHint int `json:"capacityHint" yaml:"capacity_hint"`
}

// Validate checks if the Config is valid.
func (c Config) Validate() error {
	if c.MinWeight == 0 {
		return ErrInvalidMinWeight
	}
	if c.CapacityHint < 0 {
		return errors.New("capacity hint cannot be negative")
	}
	return nil
}

// capacity returns the buffer capacity to reserve for a new batch.
func (c Config) capacity() int {
	if c.CapacityHint > 0 {
		return c.CapacityHint
	}
	if c.MinWeight < DefaultCapacityHint {
		return int(c.MinWeight)
	}
	return DefaultCapacityHint
}
