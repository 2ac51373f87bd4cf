package table

import (
	"fmt"
	"sort"
	"sync"
)

// NameRegistry is the contract the engine consumes to map a symbolic name
// to a live table reference. A name is unique within a registry at any time.
//
// The core only calls this interface; richer registries (process-backed,
// distributed) can be supplied by the embedding system.
type NameRegistry interface {
	// Register binds name to ref. Fails with ErrNameConflict if the name
	// already resolves.
	Register(name string, ref any) error
	// Resolve returns the ref bound to name, or ErrTableNotFound.
	Resolve(name string) (any, error)
	// Unregister removes the binding if present. Idempotent.
	Unregister(name string)
}

// Registry is the default in-process NameRegistry. Safe for concurrent use.
type Registry struct {
	mu   sync.RWMutex
	refs map[string]any
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{refs: make(map[string]any)}
}

// Register binds name to ref, rejecting duplicates.
func (r *Registry) Register(name string, ref any) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.refs[name]; exists {
		return fmt.Errorf("%w: %s", ErrNameConflict, name)
	}

	r.refs[name] = ref
	return nil
}

// Resolve returns the ref bound to name.
func (r *Registry) Resolve(name string) (any, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ref, exists := r.refs[name]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrTableNotFound, name)
	}
	return ref, nil
}

// Unregister removes the binding for name if present.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.refs, name)
}

// Names returns all registered names, sorted. Used by diagnostics and tests.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.refs))
	for name := range r.refs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
