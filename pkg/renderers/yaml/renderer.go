// Package yaml renders plans as a YAML document for inspection and tooling.
package yaml

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-podgen/pkg/plan"
	"github.com/goliatone/go-podgen/pkg/render"
)

// DefaultSuffix names generated files: data.go becomes data_podgen.yaml.
const DefaultSuffix = "_podgen.yaml"

type Renderer struct{}

var _ render.Renderer = (*Renderer)(nil)

func New() *Renderer {
	return &Renderer{}
}

func (r *Renderer) Name() string {
	return "yaml"
}

func (r *Renderer) ContentType() string {
	return "application/yaml"
}

type document struct {
	Header  string     `yaml:"header"`
	Package string     `yaml:"package"`
	PkgPath string     `yaml:"pkg_path,omitempty"`
	File    string     `yaml:"file"`
	Plans   []planView `yaml:"plans"`
}

type planView struct {
	Record     string         `yaml:"record"`
	Generator  string         `yaml:"generator"`
	Builder    *companionView `yaml:"builder,omitempty"`
	Operations []opView       `yaml:"operations"`
	Trace      []traceView    `yaml:"trace,omitempty"`
	Warnings   []string       `yaml:"warnings,omitempty"`
}

type companionView struct {
	Name  string     `yaml:"name"`
	Slots []slotView `yaml:"slots"`
}

type slotView struct {
	Name    string `yaml:"name"`
	Type    string `yaml:"type"`
	Wrapped bool   `yaml:"wrapped,omitempty"`
}

type opView struct {
	Name      string `yaml:"name"`
	Kind      string `yaml:"kind"`
	Field     string `yaml:"field,omitempty"`
	Signature string `yaml:"signature"`
	Body      string `yaml:"body"`
	Doc       string `yaml:"doc,omitempty"`
}

type traceView struct {
	Field     string `yaml:"field"`
	Directive string `yaml:"directive"`
	Value     string `yaml:"value,omitempty"`
}

// Render encodes the unit's plans.
func (r *Renderer) Render(ctx context.Context, unit render.Unit, options render.Options) (render.Output, error) {
	if err := ctx.Err(); err != nil {
		return render.Output{}, err
	}

	doc := document{
		Header:  options.HeaderOr(),
		Package: unit.Package,
		PkgPath: unit.PkgPath,
		File:    unit.File,
		Plans:   make([]planView, 0, len(unit.Plans)),
	}
	for _, p := range unit.Plans {
		doc.Plans = append(doc.Plans, view(p))
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return render.Output{}, fmt.Errorf("yaml renderer: encode: %w", err)
	}
	if err := enc.Close(); err != nil {
		return render.Output{}, fmt.Errorf("yaml renderer: encode: %w", err)
	}

	suffix := DefaultSuffix
	if options.Suffix != "" {
		suffix = options.Suffix
	}
	return render.Output{Name: render.OutputName(unit.File, suffix), Data: buf.Bytes()}, nil
}

func view(p plan.Plan) planView {
	out := planView{
		Record:     p.Record,
		Generator:  string(p.Generator),
		Operations: make([]opView, 0, len(p.Operations)),
	}
	if c := p.Builder; c != nil {
		cv := &companionView{Name: c.Name}
		for _, slot := range c.Slots {
			cv.Slots = append(cv.Slots, slotView{Name: slot.Name, Type: slot.Type.String(), Wrapped: slot.Wrapped})
		}
		out.Builder = cv
	}
	for _, op := range p.Operations {
		out.Operations = append(out.Operations, opView{
			Name:      op.Name,
			Kind:      string(op.Kind),
			Field:     op.Field,
			Signature: signature(p, op),
			Body:      string(op.Body.Kind),
			Doc:       op.Doc,
		})
	}
	for _, t := range p.Trace {
		out.Trace = append(out.Trace, traceView{Field: t.Field, Directive: t.Directive, Value: t.Value})
	}
	for _, w := range p.Warnings {
		out.Warnings = append(out.Warnings, w.Error())
	}
	return out
}

func signature(p plan.Plan, op plan.Operation) string {
	var b strings.Builder
	b.WriteString("func ")
	if op.Owner != "" {
		b.WriteString("(")
		if op.Receiver == plan.ReceiverPointer {
			b.WriteString("*")
		}
		b.WriteString(p.SelfType(op.Owner).String())
		b.WriteString(") ")
	}
	b.WriteString(op.Name)
	params := make([]string, len(op.Params))
	for i, param := range op.Params {
		params[i] = param.Name + " " + param.Type.String()
	}
	b.WriteString("(" + strings.Join(params, ", ") + ")")

	results := make([]string, len(op.Results))
	for i, r := range op.Results {
		results[i] = r.String()
	}
	if len(results) > 0 {
		b.WriteString(" " + strings.Join(results, ", "))
	}
	return b.String()
}
