// Package podgen generates builders, getters, setters, field accessors and
// constructors for plain Go structs from their field tags.
//
// Most callers run the podgen command from go:generate. The functions here
// expose the same pipeline to programs and tests.
package podgen

import (
	"context"

	"github.com/goliatone/go-podgen/pkg/diag"
	"github.com/goliatone/go-podgen/pkg/orchestrator"
	"github.com/goliatone/go-podgen/pkg/schema"
)

// Request describes one generation run.
type Request = orchestrator.Request

// Result collects plans, rendered files and diagnostics.
type Result = orchestrator.Result

// Diagnostic is a single finding tied to a record, generator and field.
type Diagnostic = diag.Diagnostic

// Buildable is implemented by records that have a generated builder:
// `Builder()` returns a builder pre-filled with the record's values.
type Buildable[B any] interface {
	Builder() B
}

// Builder is implemented by generated builders.
type Builder[T any] interface {
	Build() T
}

// Rebuild copies v through its builder, letting edit change some fields.
func Rebuild[T any, B Builder[T]](v Buildable[B], edit func(B) B) T {
	b := v.Builder()
	if edit != nil {
		b = edit(b)
	}
	return b.Build()
}

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// Generate reads src, runs the requested generators (or the ones the marker
// comments ask for) and renders Go files without writing them.
func Generate(ctx context.Context, src schema.Source, kinds []schema.Kind, options ...orchestrator.Option) (Result, error) {
	return orchestrator.New(options...).Generate(ctx, Request{
		Source:     src,
		Generators: kinds,
	})
}
