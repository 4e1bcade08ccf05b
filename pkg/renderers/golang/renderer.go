// Package golang renders plans as Go source with jennifer.
package golang

import (
	"bytes"
	"context"
	"fmt"
	"go/format"
	goparser "go/parser"
	"go/token"

	"golang.org/x/tools/go/ast/astutil"

	"github.com/goliatone/go-podgen/pkg/render"
)

// DefaultSuffix names generated files: data.go becomes data_podgen.go.
const DefaultSuffix = "_podgen.go"

type Option func(*config)

type config struct {
	suffix string
}

// WithSuffix overrides DefaultSuffix.
func WithSuffix(suffix string) Option {
	return func(cfg *config) {
		if suffix != "" {
			cfg.suffix = suffix
		}
	}
}

type Renderer struct {
	suffix string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the Go renderer applying any provided options.
func New(options ...Option) *Renderer {
	cfg := config{suffix: DefaultSuffix}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	return &Renderer{suffix: cfg.suffix}
}

func (r *Renderer) Name() string {
	return "go"
}

func (r *Renderer) ContentType() string {
	return "text/x-go; charset=utf-8"
}

// Render emits one Go file holding every plan of the unit.
func (r *Renderer) Render(ctx context.Context, unit render.Unit, options render.Options) (render.Output, error) {
	if err := ctx.Err(); err != nil {
		return render.Output{}, err
	}
	if unit.Package == "" {
		return render.Output{}, fmt.Errorf("go renderer: package name is required")
	}

	e := newEmitter(unit)
	e.file.HeaderComment(options.HeaderOr())
	for _, p := range unit.Plans {
		if err := e.plan(p); err != nil {
			return render.Output{}, fmt.Errorf("go renderer: %s %s: %w", p.Record, p.Generator, err)
		}
	}

	var buf bytes.Buffer
	if err := e.file.Render(&buf); err != nil {
		return render.Output{}, fmt.Errorf("go renderer: %w", err)
	}
	data, err := addImports(buf.Bytes(), e.needed)
	if err != nil {
		return render.Output{}, fmt.Errorf("go renderer: %w", err)
	}

	suffix := r.suffix
	if options.Suffix != "" {
		suffix = options.Suffix
	}
	return render.Output{Name: render.OutputName(unit.File, suffix), Data: data}, nil
}

// addImports declares the packages referenced only from verbatim
// expressions, which jennifer cannot see, and reformats the file.
func addImports(src []byte, needed []importSpec) ([]byte, error) {
	if len(needed) == 0 {
		return src, nil
	}
	fset := token.NewFileSet()
	file, err := goparser.ParseFile(fset, "", src, goparser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("parse rendered file: %w", err)
	}
	for _, imp := range needed {
		astutil.AddNamedImport(fset, file, imp.alias, imp.path)
	}
	var out bytes.Buffer
	if err := format.Node(&out, fset, file); err != nil {
		return nil, fmt.Errorf("format rendered file: %w", err)
	}
	return out.Bytes(), nil
}
