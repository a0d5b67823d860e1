/*package sink contains the writable text destinations used by the soft hadron
writers. There are two variants, Plain and Compressed, and callers should only
ever need the Sink interface.

Errors are sticky. Once a write fails the sink stays unhealthy, later writes
do nothing and return the same error. Writing after Close returns ErrClosed.
*/
package sink

import (
	"errors"
	"strings"
)

// ErrClosed is returned by writes to a sink that has been closed.
var ErrClosed = errors.New("sink: write to closed sink")

// Sink is a writable text destination.
type Sink interface {
	// WriteString appends s to the sink.
	WriteString(s string) (int, error)
	// Good reports whether the sink is open and has not seen an error.
	Good() bool
	// Err returns the first error the sink encountered, or nil.
	Err() error
	// Close flushes buffered data and releases the underlying file. It is
	// safe to call more than once.
	Close() error
	// Name returns the path the sink writes to.
	Name() string
}

// Type assertions
var (
	_ Sink = &Plain{}
	_ Sink = &Compressed{}
)

// Codec identifies a compression format.
type Codec int

const (
	None Codec = iota
	Gzip
	Zstd
)

func (c Codec) String() string {
	switch c {
	case Gzip:
		return "gzip"
	case Zstd:
		return "zstd"
	}
	return "none"
}

// CodecFor picks a codec from a file name's extension: ".gz" is gzip, ".zst"
// is zstd, and anything else is uncompressed.
func CodecFor(path string) Codec {
	switch {
	case strings.HasSuffix(path, ".gz"):
		return Gzip
	case strings.HasSuffix(path, ".zst"):
		return Zstd
	}
	return None
}

// state holds the bookkeeping shared by both variants.
type state struct {
	name   string
	err    error
	closed bool
}

func (s *state) Name() string { return s.name }
func (s *state) Err() error   { return s.err }
func (s *state) Good() bool   { return !s.closed && s.err == nil }

// check returns the error a write should report before touching the file.
func (s *state) check() error {
	if s.closed {
		return ErrClosed
	}
	return s.err
}

// record keeps the first error seen.
func (s *state) record(err error) error {
	if err != nil && s.err == nil {
		s.err = err
	}
	return err
}
