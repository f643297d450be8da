package canvas

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

// ErrUnknownSink is returned by New for a name nobody registered.
var ErrUnknownSink = errors.New("canvas: unknown sink")

// Factory creates a sink of the given pixel size.
type Factory func(width, height int) (Canvas, error)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Factory)
)

// Register makes a sink available by name. It panics if factory is nil or
// the name is taken, like database/sql.Register.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if factory == nil {
		panic("canvas: Register factory is nil")
	}
	if _, dup := registry[name]; dup {
		panic("canvas: Register called twice for sink " + name)
	}
	registry[name] = factory
}

// Unregister removes a sink. Mostly useful in tests.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(registry, name)
}

// New creates a sink by name.
func New(name string, width, height int) (Canvas, error) {
	registryMu.RLock()
	factory, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w %q (have %v)", ErrUnknownSink, name, Names())
	}
	c, err := factory(width, height)
	if err != nil {
		return nil, fmt.Errorf("canvas: create %s sink: %w", name, err)
	}
	return c, nil
}

// Names returns the registered sink names in sorted order.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
