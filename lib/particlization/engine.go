/*package particlization contains the adapter that plugs a particlization
engine into the framework's task lifecycle. The engines themselves are
opaque: the adapter configures one, runs it once per event, and copies the
hadrons it produced into the event.

Engines are looked up by the name given in the <engine> key of the adapter's
XML block. Two engines are built in: "static", which emits a fixed list of
hadrons given in the XML, and "replay", which re-emits the events stored in
a soft hadron file.
*/
package particlization

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/jetscape/softhadron/lib/config"
	"github.com/jetscape/softhadron/lib/hadron"
)

// Engine is a particlization engine.
type Engine interface {
	// Init configures the engine from its XML block.
	Init(cfg *config.Element) error
	// Run does the computation for one event.
	Run(event int) error
	// Hadrons returns the hadrons produced by the last Run. The adapter
	// copies them, so the engine may reuse the slice.
	Hadrons() []hadron.Hadron
	// Clear drops the results of the last Run.
	Clear()
}

// Factory creates an unconfigured engine.
type Factory func() Engine

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{}
)

// ErrUnknownEngine is returned when the configuration names an engine that
// was never registered.
var ErrUnknownEngine = errors.New("unknown particlization engine")

// Register makes an engine available under name. Registering the same name
// twice panics.
func Register(name string, f Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, ok := registry[name]; ok {
		panic(fmt.Sprintf("particlization engine '%s' registered twice", name))
	}
	registry[name] = f
}

// Engines returns the names of all registered engines, sorted.
func Engines() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func newEngine(name string) (Engine, error) {
	registryMu.RLock()
	f, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w '%s', the known engines are %v",
			ErrUnknownEngine, name, Engines())
	}
	return f(), nil
}

// EngineError is a failure inside an engine. It is always fatal for the run.
type EngineError struct {
	Engine string
	Event  int
	Err    error
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("particlization engine '%s' failed on event %d: %v",
		e.Engine, e.Event, e.Err)
}

func (e *EngineError) Unwrap() error { return e.Err }

// IsEngineError returns true if err is, or wraps, an EngineError.
func IsEngineError(err error) bool {
	var ee *EngineError
	return errors.As(err, &ee)
}
