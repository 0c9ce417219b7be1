package batch

// DefaultCapacityHint caps the capacity reserved for a fresh batch buffer when
// Config.CapacityHint is not set. Reserving MinWeight slots outright would
// allocate huge buffers for byte-size weights.
const DefaultCapacityHint = 1024
