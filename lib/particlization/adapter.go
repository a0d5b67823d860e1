package particlization

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/jetscape/softhadron/lib/config"
	"github.com/jetscape/softhadron/lib/event"
	"github.com/jetscape/softhadron/lib/task"
)

var (
	// ErrNotConfigured is returned by Exec before InitTask has succeeded.
	ErrNotConfigured = errors.New("particlization adapter is not configured")
	// ErrAlreadyPassed is returned by PassHadronList if the current
	// results were already handed to an event.
	ErrAlreadyPassed = errors.New("hadron list was already passed on for this event")
	// ErrNotComputed is returned by PassHadronList before Exec has run the
	// engine for the current event.
	ErrNotComputed = errors.New("no particlization results for this event")
)

// State is where the adapter is in its lifecycle.
type State int

const (
	Uninitialized State = iota
	Configured
	Computed
	Cleared
)

func (s State) String() string {
	switch s {
	case Configured:
		return "configured"
	case Computed:
		return "computed"
	case Cleared:
		return "cleared"
	}
	return "uninitialized"
}

// Type assertions
var (
	_ task.Initializer = &Adapter{}
	_ task.Executor    = &Adapter{}
	_ task.Clearer     = &Adapter{}
	_ task.WriterTask  = &Adapter{}
)

// Adapter runs a particlization engine as a framework task. Configuration
// is read once, in InitTask, and survives Clear.
type Adapter struct {
	xml        *config.Element
	engineName string
	engine     Engine
	state      State
	ev         *event.Event
	passed     bool
	log        *slog.Logger
}

// NewAdapter creates an adapter that will read its settings from xml, the
// engine's block in the configuration file.
func NewAdapter(xml *config.Element) *Adapter {
	return &Adapter{xml: xml, log: slog.Default()}
}

// SetLogger replaces the adapter's logger.
func (a *Adapter) SetLogger(log *slog.Logger) { a.log = log }

// State returns the adapter's lifecycle state.
func (a *Adapter) State() State { return a.state }

// InitTask creates and configures the engine.
func (a *Adapter) InitTask() error {
	if a.xml == nil {
		return fmt.Errorf("particlization adapter has no configuration block")
	}
	name, err := a.xml.RequireString("engine")
	if err != nil {
		return err
	}
	engine, err := newEngine(name)
	if err != nil {
		return err
	}
	if l, ok := engine.(interface{ SetLogger(*slog.Logger) }); ok {
		l.SetLogger(a.log.With("engine", name))
	}
	if err := engine.Init(a.xml); err != nil {
		return fmt.Errorf("could not configure particlization engine '%s': %w",
			name, err)
	}

	a.engineName, a.engine, a.state = name, engine, Configured
	a.log.Info("particlization engine initialized", "engine", name)
	return nil
}

// Exec runs the engine for ev and appends the hadrons it produced to ev's
// hadron list. If the engine fails, nothing is appended. An engine that
// produces no hadrons gives an empty event, which is not an error.
func (a *Adapter) Exec(ev *event.Event) error {
	switch a.state {
	case Uninitialized:
		return ErrNotConfigured
	case Computed:
		return fmt.Errorf("exec called twice without Clear (event %d)",
			ev.Number)
	}

	if err := a.engine.Run(ev.Number); err != nil {
		return &EngineError{Engine: a.engineName, Event: ev.Number, Err: err}
	}
	a.ev, a.passed, a.state = ev, false, Computed

	if err := a.PassHadronList(ev); err != nil {
		return err
	}
	a.log.Debug("particlization finished",
		"event", ev.Number, "hadrons", len(a.engine.Hadrons()))
	return nil
}

// PassHadronList appends copies of the engine's hadrons to ev. It may only
// be called once per Exec, and Exec already calls it.
func (a *Adapter) PassHadronList(ev *event.Event) error {
	if a.state != Computed {
		return ErrNotComputed
	}
	if a.passed {
		return ErrAlreadyPassed
	}
	ev.Hadrons.Append(a.engine.Hadrons()...)
	a.passed = true
	return nil
}

// Clear resets the per-event state of the adapter and the engine.
func (a *Adapter) Clear() {
	if a.state == Uninitialized {
		return
	}
	a.engine.Clear()
	a.ev, a.passed, a.state = nil, false, Cleared
}

// WriteTask hands the current event to w. It does nothing if w is nil or no
// event has been computed since the last Clear.
func (a *Adapter) WriteTask(w task.EventWriter) {
	if w == nil || a.state != Computed || a.ev == nil {
		return
	}
	w.WriteEvent(a.ev)
}

// Close releases anything the engine holds open, such as input files.
func (a *Adapter) Close() error {
	if c, ok := a.engine.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
