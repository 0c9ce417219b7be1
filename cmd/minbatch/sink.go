package main

import (
	"context"
	"encoding/json"
	"io"
	"strconv"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/MasterOfBinary/minbatch/batch"
)

// record is the JSON form of one emitted batch.
type record struct {
	ID     string   `json:"id"`
	Run    string   `json:"run"`
	Seq    uint64   `json:"seq"`
	Weight uint64   `json:"weight"`
	Reason string   `json:"reason"`
	Items  []string `json:"items"`
}

// jsonSink writes each batch as a JSON line.
type jsonSink struct {
	enc *json.Encoder
	run uuid.UUID
}

func newJSONSink(w io.Writer, run uuid.UUID) *jsonSink {
	return &jsonSink{enc: json.NewEncoder(w), run: run}
}

// Process implements processor.Processor. Batch IDs are derived from the run
// ID and the sequence number, so they are stable for a given run.
func (s *jsonSink) Process(_ context.Context, b batch.Batch[string]) error {
	id := uuid.NewSHA1(s.run, []byte(strconv.FormatUint(b.Seq, 10)))
	err := s.enc.Encode(record{
		ID:     id.String(),
		Run:    s.run.String(),
		Seq:    b.Seq,
		Weight: b.Weight,
		Reason: b.Reason.String(),
		Items:  b.Items,
	})
	return errors.Wrapf(err, "write batch %d", b.Seq)
}
