package generator

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/goliatone/go-podgen/pkg/plan"
	"github.com/goliatone/go-podgen/pkg/schema"
)

// Func adapts a function to the Generator interface for a single kind.
type Func func(ctx context.Context, record schema.RecordSpec) (plan.Plan, error)

// Registry stores one Generator per kind, so callers can replace or add
// generators without touching the engine.
type Registry struct {
	mu         sync.RWMutex
	generators map[schema.Kind]Generator
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{generators: make(map[schema.Kind]Generator)}
}

// DefaultRegistry registers gen for every built-in kind.
func DefaultRegistry(gen Generator) *Registry {
	r := NewRegistry()
	for _, kind := range schema.Kinds() {
		r.MustRegister(kind, gen)
	}
	return r
}

// Register binds a generator to kind. Duplicate kinds return an error.
func (r *Registry) Register(kind schema.Kind, gen Generator) error {
	if gen == nil {
		return fmt.Errorf("generator: generator is required")
	}
	if kind == "" {
		return fmt.Errorf("generator: kind is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.generators[kind]; exists {
		return fmt.Errorf("generator: kind %q already registered", kind)
	}
	r.generators[kind] = gen
	return nil
}

// RegisterFunc binds fn to kind.
func (r *Registry) RegisterFunc(kind schema.Kind, fn Func) error {
	if fn == nil {
		return fmt.Errorf("generator: generator is required")
	}
	return r.Register(kind, funcGenerator{kind: kind, fn: fn})
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(kind schema.Kind, gen Generator) {
	if err := r.Register(kind, gen); err != nil {
		panic(err)
	}
}

// Replace binds gen to kind, overriding any previous registration.
func (r *Registry) Replace(kind schema.Kind, gen Generator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.generators[kind] = gen
}

// Get retrieves the generator bound to kind.
func (r *Registry) Get(kind schema.Kind) (Generator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	gen, ok := r.generators[kind]
	if !ok {
		return nil, fmt.Errorf("generator: kind %q not registered", kind)
	}
	return gen, nil
}

// Kinds returns the built-in kinds in canonical order, then custom kinds
// sorted by name.
func (r *Registry) Kinds() []schema.Kind {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []schema.Kind
	seen := make(map[schema.Kind]struct{})
	for _, kind := range schema.Kinds() {
		if _, ok := r.generators[kind]; ok {
			out = append(out, kind)
			seen[kind] = struct{}{}
		}
	}
	var custom []schema.Kind
	for kind := range r.generators {
		if _, ok := seen[kind]; !ok {
			custom = append(custom, kind)
		}
	}
	slices.Sort(custom)
	return append(out, custom...)
}

// Generate dispatches to the generator bound to kind.
func (r *Registry) Generate(ctx context.Context, kind schema.Kind, record schema.RecordSpec) (plan.Plan, error) {
	gen, err := r.Get(kind)
	if err != nil {
		return plan.Plan{}, err
	}
	return gen.Generate(ctx, kind, record)
}

type funcGenerator struct {
	kind schema.Kind
	fn   Func
}

func (g funcGenerator) Generate(ctx context.Context, kind schema.Kind, record schema.RecordSpec) (plan.Plan, error) {
	if kind != g.kind {
		return plan.Plan{}, fmt.Errorf("generator: %q generator invoked for %q", g.kind, kind)
	}
	return g.fn(ctx, record)
}
