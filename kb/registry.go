// Package kb holds the explicit body registry that replaces process-wide
// orientation/ephemeris factories: built once at startup, frozen, then
// queried concurrently.
package kb

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/signalsfoundry/bodygeom/core"
)

// ErrFrozen is returned when a mutation is attempted after Freeze.
var ErrFrozen = errors.New("registry is frozen")

// ErrNotFound is returned when a body is not registered.
var ErrNotFound = errors.New("body not registered")

// BodyDefinition bundles everything the registry knows about one body. Any
// of the three members may be nil when the corresponding data source is not
// configured.
type BodyDefinition struct {
	Name        string
	Orientation *core.IAUOrientation
	Shape       *core.FacetBodyShape
	Ephemeris   core.PVProvider
}

// Registry is the build-freeze-query store for body definitions. Mutations
// are rejected once frozen; queries after Freeze need no locking from the
// caller's side and are safe concurrently.
type Registry struct {
	mu     sync.RWMutex
	frozen bool
	bodies map[string]*BodyDefinition
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{bodies: make(map[string]*BodyDefinition)}
}

// AddBody registers a new body definition. It returns an error if the name
// already exists or the registry is frozen.
func (r *Registry) AddBody(def *BodyDefinition) error {
	if def == nil || def.Name == "" {
		return fmt.Errorf("AddBody: missing body name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return fmt.Errorf("AddBody %q: %w", def.Name, ErrFrozen)
	}
	if _, exists := r.bodies[def.Name]; exists {
		return fmt.Errorf("body with name %q already registered", def.Name)
	}
	r.bodies[def.Name] = def
	return nil
}

// AddShape attaches a faceted shape to an already-registered body.
func (r *Registry) AddShape(name string, shape *core.FacetBodyShape) error {
	return r.mutate("AddShape", name, func(def *BodyDefinition) {
		def.Shape = shape
	})
}

// AddProvider attaches a position/velocity provider to an already-registered
// body.
func (r *Registry) AddProvider(name string, p core.PVProvider) error {
	return r.mutate("AddProvider", name, func(def *BodyDefinition) {
		def.Ephemeris = p
	})
}

func (r *Registry) mutate(op, name string, apply func(*BodyDefinition)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return fmt.Errorf("%s %q: %w", op, name, ErrFrozen)
	}
	def, ok := r.bodies[name]
	if !ok {
		return fmt.Errorf("%s: body %q: %w", op, name, ErrNotFound)
	}
	apply(def)
	return nil
}

// Freeze ends the build phase. Idempotent.
func (r *Registry) Freeze() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frozen = true
}

// Frozen reports whether the registry has been frozen.
func (r *Registry) Frozen() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.frozen
}

// Body returns a copy of the definition registered under name. Mutating the
// copy does not reach the registry.
func (r *Registry) Body(name string) (*BodyDefinition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.bodies[name]
	if !ok {
		return nil, fmt.Errorf("body %q: %w", name, ErrNotFound)
	}
	cp := *def
	return &cp, nil
}

// Orientation returns the orientation model of the named body.
func (r *Registry) Orientation(name string) (*core.IAUOrientation, error) {
	def, err := r.Body(name)
	if err != nil {
		return nil, err
	}
	if def.Orientation == nil {
		return nil, fmt.Errorf("body %q has no orientation model", name)
	}
	return def.Orientation, nil
}

// Names returns the registered body names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.bodies))
	for n := range r.bodies {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
