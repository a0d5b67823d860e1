package particlization

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/jetscape/softhadron/lib/config"
	"github.com/jetscape/softhadron/lib/eventio"
	"github.com/jetscape/softhadron/lib/hadron"
)

func init() {
	Register("replay", func() Engine { return &Replay{} })
}

// Replay re-emits the events stored in a soft hadron file, one per Run, in
// file order. The file is given by the <input> key and may be compressed.
// Running past the last stored event fails unless <loop> is on, in which
// case the file is started again from the top.
type Replay struct {
	path    string
	loop    bool
	rd      *eventio.Reader
	hadrons []hadron.Hadron
	log     *slog.Logger
}

// SetLogger sets the logger for problems that don't stop the run. The
// adapter passes its own logger here.
func (r *Replay) SetLogger(log *slog.Logger) { r.log = log }

func (r *Replay) logger() *slog.Logger {
	if r.log == nil {
		return slog.Default()
	}
	return r.log
}

func (r *Replay) Init(cfg *config.Element) error {
	path, err := cfg.RequireString("input")
	if err != nil {
		return err
	}
	if r.loop, err = cfg.Bool("loop", false); err != nil {
		return err
	}
	r.path = path
	return r.open()
}

func (r *Replay) open() error {
	if r.rd != nil {
		if err := r.rd.Close(); err != nil {
			r.logger().Warn("error closing replay input", "file", r.path, "error", err)
		}
	}
	rd, err := eventio.Open(r.path)
	if err != nil {
		return err
	}
	r.rd = rd
	return nil
}

func (r *Replay) Run(event int) error {
	r.hadrons = r.hadrons[:0]

	ev, err := r.rd.Next()
	if err == io.EOF && r.loop {
		if err = r.open(); err != nil {
			return err
		}
		ev, err = r.rd.Next()
	}
	if err == io.EOF {
		return fmt.Errorf("%s has no events left", r.path)
	} else if err != nil {
		return err
	}

	for i := 0; i < ev.Hadrons.Len(); i++ {
		r.hadrons = append(r.hadrons, ev.Hadrons.At(i))
	}
	return nil
}

func (r *Replay) Hadrons() []hadron.Hadron { return r.hadrons }
func (r *Replay) Clear()                   { r.hadrons = r.hadrons[:0] }

// Close closes the input file.
func (r *Replay) Close() error {
	if r.rd == nil {
		return nil
	}
	err := r.rd.Close()
	r.rd = nil
	return err
}
