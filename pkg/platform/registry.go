package platform

import (
	"runtime"
	"sort"
	"sync"

	"github.com/desklab-dev/uidriver/pkg/core"
)

// Factory constructs an Adapter. Constructing the adapter is expensive
// (native engine initialization), so factories run once per Desktop,
// never per locator.
type Factory func() (Adapter, error)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Factory)
)

// Register makes an adapter factory available under a name. OS adapter
// packages register themselves under their GOOS value ("windows",
// "darwin", "linux") from an init function; auxiliary adapters such as
// the mock use their own names.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = factory
}

// New constructs the adapter registered under name.
func New(name string) (Adapter, error) {
	registryMu.RLock()
	factory, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, core.ErrUnsupportedPlatform.WithMessagef("no adapter registered for %q (available: %v)", name, Registered())
	}
	return factory()
}

// Detect constructs the adapter for the current OS.
func Detect() (Adapter, error) {
	return New(runtime.GOOS)
}

// Registered returns the names of all registered adapters, sorted.
func Registered() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
