package generator

import (
	"context"

	"github.com/go-logr/logr"

	"github.com/goliatone/go-podgen/internal/generator"
	"github.com/goliatone/go-podgen/pkg/plan"
	"github.com/goliatone/go-podgen/pkg/render/template"
	"github.com/goliatone/go-podgen/pkg/schema"
	"github.com/goliatone/go-podgen/pkg/typeshape"
)

type (
	// Naming derives the identifiers of generated operations.
	Naming = generator.Naming
	// DocTemplates overrides documentation templates per operation kind.
	DocTemplates = generator.DocTemplates
	// DocRenderer produces documentation text for an operation.
	DocRenderer = generator.DocRenderer
)

// DefaultNaming returns the stock naming policy.
func DefaultNaming() Naming {
	return generator.DefaultNaming()
}

// Generator produces a plan of the given kind for a record.
type Generator interface {
	Generate(ctx context.Context, kind schema.Kind, record schema.RecordSpec) (plan.Plan, error)
}

// Option configures the generator behaviour.
type Option func(*options)

type options struct {
	wrappers  []typeshape.Wrapper
	naming    Naming
	docs      DocRenderer
	templates DocTemplates
	engine    template.Engine
	logger    logr.Logger
}

// WithWrappers replaces the optional wrapper set used to classify field
// types.
func WithWrappers(wrappers ...typeshape.Wrapper) Option {
	return func(o *options) {
		o.wrappers = append([]typeshape.Wrapper(nil), wrappers...)
	}
}

// WithNaming overrides the naming policy. Empty fields keep their defaults.
func WithNaming(naming Naming) Option {
	return func(o *options) {
		o.naming = naming
	}
}

// WithDocRenderer replaces the documentation renderer of the Fields
// generator.
func WithDocRenderer(docs DocRenderer) Option {
	return func(o *options) {
		o.docs = docs
	}
}

// WithDocTemplates overrides individual documentation templates.
func WithDocTemplates(templates DocTemplates) Option {
	return func(o *options) {
		o.templates = templates
	}
}

// WithTemplateEngine renders documentation through a custom engine; named
// templates are looked up as "fields/<kind>".
func WithTemplateEngine(engine template.Engine) Option {
	return func(o *options) {
		o.engine = engine
	}
}

// WithLogger sets the logger receiving the directive trace. Without it the
// logger carried by the context is used.
func WithLogger(logger logr.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// New returns a Generator backed by the internal implementation.
func New(opts ...Option) Generator {
	cfg := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return generator.New(generator.Options{
		Classifier:     typeshape.New(cfg.wrappers...),
		Naming:         cfg.naming,
		Docs:           cfg.docs,
		DocTemplates:   cfg.templates,
		TemplateEngine: cfg.engine,
		Logger:         cfg.logger,
	})
}
