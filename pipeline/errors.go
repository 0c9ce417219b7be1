package pipeline

import "fmt"

// ProcessorError is returned when a processor fails on a batch.
type ProcessorError struct {
	// Seq is the sequence number of the failed batch.
	Seq uint64
	Err error
}

func (e ProcessorError) Error() string {
	return fmt.Sprintf("processor error on batch %d: %v", e.Seq, e.Err)
}

func (e ProcessorError) Unwrap() error {
	return e.Err
}
