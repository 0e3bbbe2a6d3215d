package overlay

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ErrUnknownBackend is wrapped by NewBackend when no backend has the
// requested name.
var ErrUnknownBackend = errors.New("overlay: unknown backend")

// BackendFactory creates a fresh backend for one playback.
type BackendFactory func() Backend

var (
	registryMu sync.RWMutex
	backends   = make(map[string]BackendFactory)
)

// Register makes a backend available to NewBackend under name. Backend
// packages call it from init, so importing the package for its side
// effect is enough:
//
//	import _ "github.com/gogpu/beautify/overlay/raster"
//
// Register panics on a nil factory or a name that is already taken.
func Register(name string, factory BackendFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if factory == nil {
		panic("overlay: nil factory for backend " + name)
	}
	if _, dup := backends[name]; dup {
		panic("overlay: backend " + name + " registered twice")
	}
	backends[name] = factory
}

// NewBackend creates a backend by name. The error wraps ErrUnknownBackend
// and lists the names that are registered.
func NewBackend(name string) (Backend, error) {
	registryMu.RLock()
	factory, ok := backends[name]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w %q (registered: %s; forgotten import?)",
			ErrUnknownBackend, name, strings.Join(Backends(), ", "))
	}
	return factory(), nil
}

// Backends returns the registered names in sorted order.
func Backends() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsRegistered reports whether name can be passed to NewBackend.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := backends[name]
	return ok
}
