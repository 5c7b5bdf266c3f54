package binding

import (
	"fmt"
	"sort"
	"sync"
)

// Registry holds every binding exposed to this process. It is populated once
// by the host at startup and read concurrently by the probe and drivers.
type Registry struct {
	mu       sync.RWMutex
	bindings map[string]Binding
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		bindings: make(map[string]Binding),
	}
}

// Register adds a binding. Registering a second binding under the same name
// is a host wiring bug and returns an error rather than silently replacing.
func (r *Registry) Register(b Binding) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := b.Name()
	if _, exists := r.bindings[name]; exists {
		return fmt.Errorf("binding %q already registered", name)
	}
	r.bindings[name] = b
	return nil
}

// Get returns the binding registered under name.
func (r *Registry) Get(name string) (Binding, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.bindings[name]
	return b, ok
}

// Names returns all registered binding names, sorted for deterministic
// enumeration.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.bindings))
	for name := range r.bindings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered bindings.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.bindings)
}
