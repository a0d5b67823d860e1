/*package task contains the lifecycle hooks that the framework's scheduler
calls on its modules, and Runner, the scheduler itself.

There is no module base type. A module implements whichever of the small
capability interfaces below it needs, and Runner checks for each of them.
*/
package task

import (
	"github.com/jetscape/softhadron/lib/event"
	"github.com/jetscape/softhadron/lib/hadron"
)

// Initializer is implemented by modules that need one-time setup before the
// first event.
type Initializer interface {
	InitTask() error
}

// Executor is implemented by modules that do work once per event.
type Executor interface {
	Exec(ev *event.Event) error
}

// Clearer is implemented by modules with per-event state that has to be
// reset between events.
type Clearer interface {
	Clear()
}

// WriterTask is implemented by modules that hand their results to writers.
type WriterTask interface {
	WriteTask(w EventWriter)
}

// EventWriter is the part of a writer that modules need in WriteTask.
type EventWriter interface {
	WriteEvent(ev *event.Event)
	GetStatus() bool
}

// Writer is the full surface of a soft hadron writer, whatever kind of sink
// it writes to.
type Writer interface {
	EventWriter
	Init()
	Exec(ev *event.Event)
	Write(s string)
	WriteComment(s string)
	WriteWhiteSpace(s string)
	WriteHadron(ref hadron.Ref)
	WriteHeaderToFile()
	Err() error
	Close() error
}
