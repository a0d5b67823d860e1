package task

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/jetscape/softhadron/lib/event"
)

// ErrWriterUnhealthy is returned by Runner.Run when a writer's GetStatus
// turns false.
var ErrWriterUnhealthy = errors.New("writer is no longer healthy")

// Runner drives modules and writers through a run of events. The call
// order is:
//
//	InitTask on every task, Init on every writer, then per event:
//	Exec on every task, WriteTask(w) for every task and writer,
//	GetStatus on every writer, Clear on every task.
//
// Writers that implement io.Closer are closed when Run returns, however it
// returns.
type Runner struct {
	Tasks   []interface{}
	Writers []EventWriter
	Events  int
	// First is the number given to the first event.
	First int
	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Run runs all events. Cancelling ctx stops the run at the next event
// boundary; an event that has started is always finished.
func (r *Runner) Run(ctx context.Context) (err error) {
	log := r.Logger
	if log == nil {
		log = slog.Default()
	}

	defer func() {
		for _, w := range r.Writers {
			c, ok := w.(io.Closer)
			if !ok {
				continue
			}
			if cerr := c.Close(); cerr != nil {
				log.Error("error closing writer", "error", cerr)
				if err == nil {
					err = fmt.Errorf("closing writer: %w", cerr)
				}
			}
		}
	}()

	for _, t := range r.Tasks {
		if it, ok := t.(Initializer); ok {
			if err := it.InitTask(); err != nil {
				return fmt.Errorf("task initialization failed: %w", err)
			}
		}
	}
	for _, w := range r.Writers {
		if iw, ok := w.(interface{ Init() }); ok {
			iw.Init()
		}
	}

	ev := event.New(r.First)
	for i := 0; i < r.Events; i++ {
		if err := ctx.Err(); err != nil {
			log.Info("run cancelled", "events_done", i)
			return err
		}

		n := r.First + i
		ev.Reset(n)
		if err := r.runEvent(ev); err != nil {
			return fmt.Errorf("event %d: %w", n, err)
		}
		log.Debug("event finished", "event", n, "hadrons", ev.Hadrons.Len())
	}

	log.Info("run finished", "events", r.Events)
	return nil
}

func (r *Runner) runEvent(ev *event.Event) error {
	for _, t := range r.Tasks {
		if ex, ok := t.(Executor); ok {
			if err := ex.Exec(ev); err != nil {
				return err
			}
		}
	}

	for _, w := range r.Writers {
		for _, t := range r.Tasks {
			if wt, ok := t.(WriterTask); ok {
				wt.WriteTask(w)
			}
		}
		if !w.GetStatus() {
			if ew, ok := w.(interface{ Err() error }); ok && ew.Err() != nil {
				return fmt.Errorf("%w: %v", ErrWriterUnhealthy, ew.Err())
			}
			return ErrWriterUnhealthy
		}
	}

	for _, t := range r.Tasks {
		if c, ok := t.(Clearer); ok {
			c.Clear()
		}
	}
	return nil
}
