package sink

import (
	"bufio"
	"fmt"
	"os"
)

// Plain writes uncompressed text to a file.
type Plain struct {
	state
	f  *os.File
	wr *bufio.Writer
}

// NewPlain creates (or truncates) the file at path.
func NewPlain(path string) (*Plain, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("could not open output file %s: %w", path, err)
	}
	return &Plain{state: state{name: path}, f: f, wr: bufio.NewWriter(f)}, nil
}

func (p *Plain) WriteString(s string) (int, error) {
	if err := p.check(); err != nil {
		return 0, err
	}
	n, err := p.wr.WriteString(s)
	return n, p.record(err)
}

func (p *Plain) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true

	flushErr := p.wr.Flush()
	closeErr := p.f.Close()
	if flushErr != nil {
		return p.record(flushErr)
	}
	return p.record(closeErr)
}
