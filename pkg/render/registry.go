package render

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

// Registry stores renderers by name, in registration order.
type Registry struct {
	mu        sync.RWMutex
	renderers map[string]Renderer
	order     []string
}

// NewRegistry creates a registry holding the given renderers. It panics on
// duplicate or unnamed renderers.
func NewRegistry(renderers ...Renderer) *Registry {
	r := &Registry{renderers: make(map[string]Renderer)}
	for _, renderer := range renderers {
		r.MustRegister(renderer)
	}
	return r
}

// Register adds a renderer by its Name(). Duplicate names return an error.
func (r *Registry) Register(renderer Renderer) error {
	if renderer == nil {
		return errors.New("render: renderer is required")
	}
	name := renderer.Name()
	if name == "" {
		return errors.New("render: renderer name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.renderers[name]; exists {
		return fmt.Errorf("render: renderer %q already registered", name)
	}
	r.renderers[name] = renderer
	r.order = append(r.order, name)
	return nil
}

// MustRegister panics on registration failure.
func (r *Registry) MustRegister(renderer Renderer) {
	if err := r.Register(renderer); err != nil {
		panic(err)
	}
}

// Names lists the registered renderers in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// Resolve picks the renderer for a run. An explicit request must exist.
// Otherwise the fallback is used when registered, then the first renderer
// registered.
func (r *Registry) Resolve(requested, fallback string) (Renderer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if requested != "" {
		renderer, ok := r.renderers[requested]
		if !ok {
			return nil, fmt.Errorf("render: renderer %q not found (available: %s)", requested, strings.Join(r.order, ", "))
		}
		return renderer, nil
	}
	if renderer, ok := r.renderers[fallback]; ok {
		return renderer, nil
	}
	if len(r.order) == 0 {
		return nil, errors.New("render: no renderers registered")
	}
	return r.renderers[r.order[0]], nil
}
