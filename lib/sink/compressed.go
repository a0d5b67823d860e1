package sink

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"

	"github.com/DataDog/zstd"
)

// Compressed writes compressed text to a file.
type Compressed struct {
	state
	codec Codec
	f     *os.File
	zw    io.WriteCloser
	wr    *bufio.Writer
}

// NewCompressed creates (or truncates) the file at path and compresses
// everything written to it with codec. None is treated as Gzip.
func NewCompressed(path string, codec Codec) (*Compressed, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("could not open output file %s: %w", path, err)
	}

	var zw io.WriteCloser
	switch codec {
	case Zstd:
		zw = zstd.NewWriterLevel(f, zstd.DefaultCompression)
	default:
		codec = Gzip
		zw = gzip.NewWriter(f)
	}

	return &Compressed{
		state: state{name: path}, codec: codec,
		f: f, zw: zw, wr: bufio.NewWriter(zw),
	}, nil
}

// Codec returns the compression format used by the sink.
func (c *Compressed) Codec() Codec { return c.codec }

func (c *Compressed) WriteString(s string) (int, error) {
	if err := c.check(); err != nil {
		return 0, err
	}
	n, err := c.wr.WriteString(s)
	return n, c.record(err)
}

// Close flushes the buffer, finishes the compressed stream, and closes the
// file, in that order. The first failure is reported.
func (c *Compressed) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true

	errs := []error{c.wr.Flush(), c.zw.Close(), c.f.Close()}
	for _, err := range errs {
		if err != nil {
			return c.record(err)
		}
	}
	return nil
}
