/*package event contains the per-event context shared by the particlization
adapter, which fills it, and the writers, which read it.
*/
package event

import (
	"github.com/jetscape/softhadron/lib/hadron"
)

// Event is one simulated collision: header metadata plus the hadron list
// that owns the event's particles.
type Event struct {
	Number       int
	Weight       float64
	CrossSection float64
	Hadrons      *hadron.List
}

// New creates event n with unit weight, zero cross-section, and an empty
// hadron list.
func New(n int) *Event {
	return &Event{Number: n, Weight: 1, Hadrons: hadron.NewList(0)}
}

// Reset prepares ev to be reused as event n. Refs into the old hadron list
// go stale.
func (ev *Event) Reset(n int) {
	ev.Number = n
	ev.Weight = 1
	ev.CrossSection = 0
	ev.Hadrons.Clear()
}

// Refs returns handles to the event's hadrons in order.
func (ev *Event) Refs() []hadron.Ref { return ev.Hadrons.Refs() }
