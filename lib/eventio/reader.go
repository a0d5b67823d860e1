/*package eventio reads the text written by lib/writer back into events. Files
may be plain, gzip-compressed, or zstd-compressed. The compression is detected
from the first bytes of the file, not the file name.
*/
package eventio

import (
	"bufio"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/DataDog/zstd"

	"github.com/jetscape/softhadron/lib"
	"github.com/jetscape/softhadron/lib/event"
	"github.com/jetscape/softhadron/lib/hadron"
)

// ErrFormat is wrapped by every error caused by malformed input.
var ErrFormat = errors.New("malformed soft hadron file")

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// Config controls how text is split up. Most users want DefaultConfig.
type Config struct {
	MaxLineSize int // Largest possible line size.
}

// DefaultConfig can read any file written by lib/writer.
var DefaultConfig = Config{
	MaxLineSize: 1 << 20,
}

// Header contains the information in a file's header block.
type Header struct {
	Version  int
	RunID    string
	Columns  []string
	Comments []string
}

// Reader reads events one at a time. Unlike Writer, it will need to be closed
// after use if it was created with Open.
type Reader struct {
	hd      Header
	sc      *bufio.Scanner
	closer  io.Closer
	line    int
	pending string
	hasPend bool
	between []string
}

// OpenDecoded opens path and returns its decompressed contents.
func OpenDecoded(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	rd, err := decode(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("could not decompress %s: %w", path, err)
	}
	return rd, nil
}

// decoded closes the decompressor and then the file under it.
type decoded struct {
	io.Reader
	closers []io.Closer
}

func (d *decoded) Close() error {
	var first error
	for _, c := range d.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// decode sniffs the compression format of f.
func decode(f io.ReadCloser) (io.ReadCloser, error) {
	br := bufio.NewReader(f)
	magic, _ := br.Peek(len(zstdMagic))

	switch {
	case hasPrefix(magic, gzipMagic):
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, err
		}
		return &decoded{zr, []io.Closer{zr, f}}, nil
	case hasPrefix(magic, zstdMagic):
		zr := zstd.NewReader(br)
		return &decoded{zr, []io.Closer{zr, f}}, nil
	}
	return &decoded{br, []io.Closer{f}}, nil
}

func hasPrefix(b, prefix []byte) bool {
	if len(b) < len(prefix) {
		return false
	}
	for i := range prefix {
		if b[i] != prefix[i] {
			return false
		}
	}
	return true
}

// Open creates a Reader for the file at path.
func Open(path string, config ...Config) (*Reader, error) {
	rd, err := OpenDecoded(path)
	if err != nil {
		return nil, err
	}
	r, err := newReader(rd, config...)
	if err != nil {
		rd.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	r.closer = rd
	return r, nil
}

// New creates a Reader for already-decompressed text.
func New(rd io.Reader, config ...Config) (*Reader, error) {
	return newReader(rd, config...)
}

// ReadAll reads every event in the file at path.
func ReadAll(path string) (Header, []*event.Event, error) {
	r, err := Open(path)
	if err != nil {
		return Header{}, nil, err
	}
	defer r.Close()

	var evs []*event.Event
	for {
		ev, err := r.Next()
		if err == io.EOF {
			return r.Header(), evs, nil
		} else if err != nil {
			return r.Header(), evs, err
		}
		evs = append(evs, ev)
	}
}

func newReader(rd io.Reader, config ...Config) (*Reader, error) {
	c := DefaultConfig
	if len(config) > 0 {
		c = config[0]
	}

	sc := bufio.NewScanner(rd)
	sc.Buffer(make([]byte, 0, 64*1024), c.MaxLineSize)
	r := &Reader{sc: sc}
	if err := r.readHeader(); err != nil {
		return nil, err
	}
	return r, nil
}

// Header returns the file's header block.
func (r *Reader) Header() Header { return r.hd }

// Close closes the underlying file, if the Reader opened one.
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}

// readHeader consumes lines up to the first event line, which is left
// pending for Next.
func (r *Reader) readHeader() error {
	for {
		text, ok, err := r.nextLine()
		if err != nil {
			return err
		} else if !ok {
			return nil
		}

		tok, isComment := commentTokens(text)
		if !isComment {
			if strings.TrimSpace(text) == "" {
				continue
			}
			return r.errorf("hadron line outside of an event")
		}

		switch {
		case isEventLine(tok):
			r.pending, r.hasPend = text, true
			return nil
		case len(tok) == 3 && tok[0]+" "+tok[1] == lib.FormatName:
			v, err := strconv.Atoi(tok[2])
			if err != nil {
				return r.errorf("format version '%s' is not an integer", tok[2])
			}
			if v > lib.FormatVersion {
				return r.errorf("file has format version %d, but this "+
					"reader only understands up to version %d",
					v, lib.FormatVersion)
			}
			r.hd.Version = v
		case len(tok) == 2 && tok[0] == lib.RunKeyword:
			r.hd.RunID = tok[1]
		case len(tok) > 1 && tok[0] == lib.ColumnsKeyword:
			r.hd.Columns = append([]string{}, tok[1:]...)
		default:
			r.hd.Comments = append(r.hd.Comments, commentText(text))
		}
	}
}

// Next returns the next event, or io.EOF when there are no more.
func (r *Reader) Next() (*event.Event, error) {
	ev, n, err := r.startEvent()
	if err != nil {
		return nil, err
	}

	for {
		text, ok, err := r.nextLine()
		if err != nil {
			return nil, err
		} else if !ok {
			return nil, r.errorf("file ends inside event %d", ev.Number)
		}

		tok, isComment := commentTokens(text)
		if isComment {
			if len(tok) == 2 && tok[0] == lib.EndKeyword {
				return r.endEvent(ev, n, tok[1])
			}
			if isEventLine(tok) {
				return nil, r.errorf("event %d has no end line", ev.Number)
			}
			continue
		}

		h, err := r.parseHadron(text, ev.Hadrons.Len())
		if err != nil {
			return nil, err
		}
		ev.Hadrons.Append(h)
	}
}

// startEvent finds the next event line. Comments on the way are kept for
// Comments.
func (r *Reader) startEvent() (*event.Event, int, error) {
	r.between = r.between[:0]
	for {
		text, ok, err := r.nextLine()
		if err != nil {
			return nil, 0, err
		} else if !ok {
			return nil, 0, io.EOF
		}

		tok, isComment := commentTokens(text)
		if !isComment {
			if strings.TrimSpace(text) == "" {
				continue
			}
			return nil, 0, r.errorf("hadron line outside of an event")
		}
		if isEventLine(tok) {
			return r.parseEventLine(tok)
		}
		r.between = append(r.between, commentText(text))
	}
}

// Comments returns the comment lines that came between the previous event
// (or the header) and the event last returned by Next. After Next returns
// io.EOF, they are the comments that follow the last event. Comments inside
// an event block are not kept. The slice is reused by the next call to Next.
func (r *Reader) Comments() []string { return r.between }

func (r *Reader) endEvent(ev *event.Event, n int, num string) (*event.Event, error) {
	end, err := strconv.Atoi(num)
	if err != nil || end != ev.Number {
		return nil, r.errorf("end line '%s' doesn't match event %d",
			num, ev.Number)
	}
	if ev.Hadrons.Len() != n {
		return nil, r.errorf("event %d says it has %d hadrons, but has %d",
			ev.Number, n, ev.Hadrons.Len())
	}
	return ev, nil
}

// parseEventLine parses "event <n> weight <w> sigma <s> hadrons <N>".
func (r *Reader) parseEventLine(tok []string) (*event.Event, int, error) {
	num, err1 := strconv.Atoi(tok[1])
	weight, err2 := strconv.ParseFloat(tok[3], 64)
	sigma, err3 := strconv.ParseFloat(tok[5], 64)
	n, err4 := strconv.Atoi(tok[7])
	if err := errors.Join(err1, err2, err3, err4); err != nil || n < 0 {
		return nil, 0, r.errorf("bad event line '%s'", strings.Join(tok, " "))
	}

	ev := event.New(num)
	ev.Weight, ev.CrossSection = weight, sigma
	return ev, n, nil
}

// parseHadron parses a hadron line and checks that its index is i.
func (r *Reader) parseHadron(text string, i int) (hadron.Hadron, error) {
	fields := strings.Fields(text)
	if len(fields) != len(lib.Columns) {
		return hadron.Hadron{}, r.errorf("hadron line has %d columns, "+
			"expected %d", len(fields), len(lib.Columns))
	}

	index, err := strconv.Atoi(fields[0])
	if err != nil || index != i {
		return hadron.Hadron{}, r.errorf("hadron index '%s', expected %d",
			fields[0], i)
	}

	h := hadron.Hadron{}
	if h.PID, err = strconv.Atoi(fields[1]); err != nil {
		return h, r.errorf("pid '%s' is not an integer", fields[1])
	}
	if h.Status, err = strconv.Atoi(fields[2]); err != nil {
		return h, r.errorf("status '%s' is not an integer", fields[2])
	}
	for j := 0; j < 4; j++ {
		if h.P[j], err = strconv.ParseFloat(fields[3+j], 64); err != nil {
			return h, r.errorf("%s '%s' is not a number",
				lib.Columns[3+j], fields[3+j])
		}
		if h.X[j], err = strconv.ParseFloat(fields[7+j], 64); err != nil {
			return h, r.errorf("%s '%s' is not a number",
				lib.Columns[7+j], fields[7+j])
		}
	}
	return h, nil
}

// nextLine returns the pending line if there is one, then scanner lines.
func (r *Reader) nextLine() (string, bool, error) {
	if r.hasPend {
		r.hasPend = false
		return r.pending, true, nil
	}
	if !r.sc.Scan() {
		if err := r.sc.Err(); err != nil {
			return "", false, fmt.Errorf("line %d: %w", r.line+1, err)
		}
		return "", false, nil
	}
	r.line++
	return r.sc.Text(), true, nil
}

func (r *Reader) errorf(format string, a ...interface{}) error {
	return fmt.Errorf("%w: line %d: %s", ErrFormat, r.line,
		fmt.Sprintf(format, a...))
}

// commentTokens splits a comment line into tokens after the comment marker.
func commentTokens(text string) ([]string, bool) {
	if !strings.HasPrefix(text, "#") {
		return nil, false
	}
	return strings.Fields(text[1:]), true
}

func commentText(text string) string {
	return strings.TrimPrefix(strings.TrimPrefix(text, "#"), " ")
}

func isEventLine(tok []string) bool {
	return len(tok) == 8 && tok[0] == lib.EventKeyword &&
		tok[2] == "weight" && tok[4] == "sigma" && tok[6] == "hadrons"
}
