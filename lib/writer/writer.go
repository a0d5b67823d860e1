/*package writer contains the soft hadron writer, which turns the hadrons in an
event into line-oriented text. The writer is generic over the sink it writes
to, so the same code produces plain and compressed files:

   # softhadron ascii 1
   # run <run id>
   # columns: index pid status E px py pz t x y z
   # event <n> weight <w> sigma <s> hadrons <N>
   <index> <pid> <status> <E> <px> <py> <pz> <t> <x> <y> <z>
   ...
   # end <n>

The "# run" line only appears if the writer was given a run ID. Floats use
the shortest representation that round-trips.

Write errors are not returned. They are sticky in the sink and show up
through GetStatus and Err, and the caller decides whether to stop.
*/
package writer

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/jetscape/softhadron/lib"
	"github.com/jetscape/softhadron/lib/event"
	"github.com/jetscape/softhadron/lib/hadron"
	"github.com/jetscape/softhadron/lib/sink"
	"github.com/jetscape/softhadron/lib/task"
)

// Writer writes soft hadron output to a sink of type S.
type Writer[S sink.Sink] struct {
	out         S
	runID       string
	active      bool
	initialized bool
	skipped     int
	log         *slog.Logger
}

// Ascii writes uncompressed text.
type Ascii = Writer[*sink.Plain]

// AsciiGZ writes compressed text.
type AsciiGZ = Writer[*sink.Compressed]

// Type assertions
var (
	_ task.Writer = &Ascii{}
	_ task.Writer = &AsciiGZ{}
)

// Option configures a Writer.
type Option func(*options)

type options struct {
	runID  string
	active bool
	log    *slog.Logger
}

// WithRunID adds a "# run" line with the given ID to the header block. The ID
// has to be a single token: whitespace and control characters are replaced
// with '_' and a warning is logged.
func WithRunID(id string) Option { return func(o *options) { o.runID = id } }

// WithActive sets whether Exec writes anything. Writers start active.
func WithActive(active bool) Option { return func(o *options) { o.active = active } }

// WithLogger sets the logger used for warnings. Defaults to slog.Default().
func WithLogger(log *slog.Logger) Option { return func(o *options) { o.log = log } }

// New creates a writer around an already-open sink.
func New[S sink.Sink](out S, opts ...Option) *Writer[S] {
	o := options{active: true}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = slog.Default()
	}
	log := o.log.With("file", out.Name())

	runID := o.runID
	if err := lib.CheckRunID(runID); err != nil {
		runID = lib.CleanRunID(runID)
		log.Warn("replacing characters in run ID", "error", err, "run", runID)
	}
	return &Writer[S]{out: out, runID: runID, active: o.active, log: log}
}

// NewAscii creates an uncompressed writer for path.
func NewAscii(path string, opts ...Option) (*Ascii, error) {
	out, err := sink.NewPlain(path)
	if err != nil {
		return nil, err
	}
	return New(out, opts...), nil
}

// NewAsciiGZ creates a compressed writer for path. The codec comes from the
// file extension, and is gzip if the extension doesn't name one.
func NewAsciiGZ(path string, opts ...Option) (*AsciiGZ, error) {
	out, err := sink.NewCompressed(path, sink.CodecFor(path))
	if err != nil {
		return nil, err
	}
	return New(out, opts...), nil
}

// Open creates a writer for path, compressed if the extension is ".gz" or
// ".zst" and plain otherwise.
func Open(path string, opts ...Option) (task.Writer, error) {
	if sink.CodecFor(path) == sink.None {
		w, err := NewAscii(path, opts...)
		if err != nil {
			return nil, err
		}
		return w, nil
	}
	w, err := NewAsciiGZ(path, opts...)
	if err != nil {
		return nil, err
	}
	return w, nil
}

// Init writes the header block. It only does anything the first time it is
// called.
func (w *Writer[S]) Init() {
	if w.initialized {
		w.log.Debug("writer already initialized")
		return
	}
	w.initialized = true
	w.WriteHeaderToFile()
	w.log.Info("soft hadron writer initialized", "run", w.runID)
}

// Exec writes ev if the writer is active.
func (w *Writer[S]) Exec(ev *event.Event) {
	if w.active {
		w.WriteEvent(ev)
	}
}

// GetStatus reports whether the sink is open and error-free.
func (w *Writer[S]) GetStatus() bool { return w.out.Good() }

// Err returns the first write error, or nil.
func (w *Writer[S]) Err() error { return w.out.Err() }

// Close releases the sink. Later writes are dropped.
func (w *Writer[S]) Close() error { return w.out.Close() }

// Skipped returns the number of stale hadron references that were dropped.
func (w *Writer[S]) Skipped() int { return w.skipped }

// Write writes s as a line.
func (w *Writer[S]) Write(s string) { w.put(s + "\n") }

// WriteComment writes s as comment lines, one per line of s. A line whose
// first word is one of the format's keywords (event, end, run, columns:, or
// the format name) gets a second comment marker, "# # event ...", so readers
// never take it for a delimiter or header line.
func (w *Writer[S]) WriteComment(s string) {
	for _, line := range strings.Split(s, "\n") {
		if isReserved(line) {
			line = lib.CommentPrefix + line
		}
		w.comment(line)
	}
}

func (w *Writer[S]) comment(s string) { w.put(lib.CommentPrefix + s + "\n") }

// isReserved reports whether a comment line would read as format syntax.
func isReserved(line string) bool {
	tok := strings.Fields(line)
	if len(tok) == 0 {
		return false
	}
	switch tok[0] {
	case lib.EventKeyword, lib.EndKeyword, lib.RunKeyword, lib.ColumnsKeyword,
		strings.Fields(lib.FormatName)[0]:
		return true
	}
	return false
}

// WriteWhiteSpace writes s followed by a space and no line break, for
// building up a line one token at a time.
func (w *Writer[S]) WriteWhiteSpace(s string) { w.put(s + " ") }

// WriteHeaderToFile writes the format header block.
func (w *Writer[S]) WriteHeaderToFile() {
	w.comment(fmt.Sprintf("%s %d", lib.FormatName, lib.FormatVersion))
	if w.runID != "" {
		w.comment(lib.RunKeyword + " " + w.runID)
	}
	w.comment(lib.ColumnsKeyword + " " + strings.Join(lib.Columns, " "))
}

// WriteHadron writes the hadron behind ref as a single line with index 0.
// Stale references are dropped with a warning.
//
// The line is not part of an event block, so lib/eventio rejects files that
// contain one. Use WriteEvent or WriteEventRefs for output that has to be
// read back.
func (w *Writer[S]) WriteHadron(ref hadron.Ref) {
	h, ok := ref.Get()
	if !ok {
		w.skip()
		return
	}
	w.put(FormatHadron(0, h))
}

// WriteEvent writes ev's hadrons in order between an event line and an end
// line. Stale references are dropped before the event line is written, so
// its hadron count always matches the number of lines that follow.
func (w *Writer[S]) WriteEvent(ev *event.Event) {
	w.WriteEventRefs(ev, ev.Refs())
}

// WriteEventRefs writes an event block with ev's header and the hadrons
// behind refs, in the order given.
func (w *Writer[S]) WriteEventRefs(ev *event.Event, refs []hadron.Ref) {
	live := make([]*hadron.Hadron, 0, len(refs))
	for _, ref := range refs {
		if h, ok := ref.Get(); ok {
			live = append(live, h)
		} else {
			w.skip()
		}
	}

	w.put(FormatEventLine(ev, len(live)))
	for i, h := range live {
		w.put(FormatHadron(i, h))
	}
	w.put(fmt.Sprintf("%s%s %d\n", lib.CommentPrefix, lib.EndKeyword, ev.Number))
}

func (w *Writer[S]) skip() {
	w.skipped++
	w.log.Warn("skipping stale hadron reference", "skipped", w.skipped)
}

// put writes s to the sink. Failures are kept by the sink.
func (w *Writer[S]) put(s string) {
	_, _ = w.out.WriteString(s)
}

// FormatEventLine returns the line that opens an event block with n hadrons.
func FormatEventLine(ev *event.Event, n int) string {
	return fmt.Sprintf("%s%s %d weight %s sigma %s hadrons %d\n",
		lib.CommentPrefix, lib.EventKeyword, ev.Number,
		formatFloat(ev.Weight), formatFloat(ev.CrossSection), n)
}

// FormatHadron returns the line for h with the given index.
func FormatHadron(index int, h *hadron.Hadron) string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(index))
	b.WriteByte(' ')
	b.WriteString(strconv.Itoa(h.PID))
	b.WriteByte(' ')
	b.WriteString(strconv.Itoa(h.Status))
	for _, x := range h.P {
		b.WriteByte(' ')
		b.WriteString(formatFloat(x))
	}
	for _, x := range h.X {
		b.WriteByte(' ')
		b.WriteString(formatFloat(x))
	}
	b.WriteByte('\n')
	return b.String()
}

func formatFloat(x float64) string {
	return strconv.FormatFloat(x, 'g', -1, 64)
}
