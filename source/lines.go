package source

import (
	"bufio"
	"context"
	"io"

	g "github.com/anacrolix/generics"
	"github.com/pkg/errors"

	"github.com/MasterOfBinary/minbatch/batch"
)

// MaxLineSize is the longest line Lines accepts.
const MaxLineSize = 1 << 20

// Lines is an Upstream that yields the lines of a reader without their line
// endings. A read that is in progress is not interrupted when ctx is done;
// the context is only checked between lines.
//
// If the reader implements io.Closer, Close closes it.
type Lines struct {
	r       io.Reader
	scanner *bufio.Scanner
}

var _ batch.Upstream[string] = (*Lines)(nil)

// FromReader returns a Lines upstream over r.
func FromReader(r io.Reader) *Lines {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxLineSize)
	return &Lines{r: r, scanner: scanner}
}

// Next implements the batch.Upstream interface.
func (s *Lines) Next(ctx context.Context) (g.Option[string], error) {
	if err := ctx.Err(); err != nil {
		return g.None[string](), err
	}
	if s.scanner.Scan() {
		return g.Some(s.scanner.Text()), nil
	}
	if err := s.scanner.Err(); err != nil {
		return g.None[string](), errors.Wrap(err, "read line")
	}
	return g.None[string](), nil
}

// Close closes the underlying reader if it is an io.Closer.
func (s *Lines) Close() error {
	if c, ok := s.r.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
