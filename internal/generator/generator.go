// Package generator turns validated records into plans. Each generator is a
// pure function of the record and the options: it validates the shape,
// resolves the directives of every field, and either returns a complete plan
// or every diagnostic that prevented one.
package generator

import (
	"context"
	"fmt"
	"go/token"
	"slices"

	"github.com/go-logr/logr"

	"github.com/goliatone/go-podgen/internal/directive"
	"github.com/goliatone/go-podgen/internal/validate"
	"github.com/goliatone/go-podgen/pkg/diag"
	"github.com/goliatone/go-podgen/pkg/plan"
	"github.com/goliatone/go-podgen/pkg/schema"
	"github.com/goliatone/go-podgen/pkg/typeshape"
)

// Generator produces plans for records.
type Generator struct {
	opts Options
}

// New creates a Generator with the supplied options.
func New(options Options) *Generator {
	opts := defaultOptions()
	if options.Classifier != nil {
		opts.Classifier = options.Classifier
	}
	opts.Naming = options.Naming.withDefaults()
	opts.Docs = options.Docs
	opts.DocTemplates = options.DocTemplates
	opts.TemplateEngine = options.TemplateEngine
	opts.Logger = options.Logger
	return &Generator{opts: opts}
}

// Generate runs the generator of the given kind.
func (g *Generator) Generate(ctx context.Context, kind schema.Kind, record schema.RecordSpec) (plan.Plan, error) {
	switch kind {
	case schema.KindBuilder:
		return g.Builder(ctx, record)
	case schema.KindGetters:
		return g.Getters(ctx, record)
	case schema.KindSetters:
		return g.Setters(ctx, record)
	case schema.KindFields:
		return g.Fields(ctx, record)
	case schema.KindCtor:
		return g.Ctor(ctx, record)
	}
	return plan.Plan{}, fmt.Errorf("generator: unknown generator %q", kind)
}

// field is a record field with its resolved directive and classification.
type field struct {
	schema.FieldSpec
	directive directive.Directive
	shape     typeshape.Shape
}

func (f field) skipped() bool {
	switch f.directive.(type) {
	case directive.Skip, directive.SkipWithValue:
		return true
	}
	return false
}

// invocation holds the state of one (record, generator) run.
type invocation struct {
	g      *Generator
	record schema.RecordSpec
	kind   schema.Kind
	fields []field
	log    logr.Logger
	plan   plan.Plan
}

func (g *Generator) prepare(ctx context.Context, record schema.RecordSpec, kind schema.Kind) (*invocation, error) {
	specs, err := validate.Validate(record, kind)
	if err != nil {
		return nil, err
	}

	var diags diag.List
	fields := make([]field, 0, len(specs))
	for _, spec := range specs {
		d, err := directive.Parse(kind, spec)
		if err != nil {
			diags.Add(diag.Collect(err)...)
			continue
		}
		shape, warnings := g.opts.Classifier.ClassifyField(spec)
		for i := range warnings {
			warnings[i].Generator = kind
		}
		diags.Add(warnings...)
		fields = append(fields, field{FieldSpec: spec, directive: d, shape: shape})
	}
	diags = diags.ForRecord(record.Name)
	if diags.HasErrors() {
		return nil, diags.Err()
	}

	log := g.opts.Logger
	if log.GetSink() == nil {
		log = logr.FromContextOrDiscard(ctx)
	}

	return &invocation{
		g:      g,
		record: record,
		kind:   kind,
		fields: fields,
		log:    log.WithValues("record", record.Name, "generator", string(kind)),
		plan: plan.Plan{
			Generator:  kind,
			Record:     record.Name,
			Package:    record.Package,
			File:       record.File,
			TypeParams: record.TypeParams,
			Imports:    record.Imports,
			Warnings:   diags.Warnings(),
		},
	}, nil
}

func (inv *invocation) naming() Naming {
	return inv.g.opts.Naming
}

func (inv *invocation) self() schema.TypeDescriptor {
	return inv.plan.SelfType(inv.record.Name)
}

// trace records an applied directive and logs it.
func (inv *invocation) trace(f field) {
	value, _ := directive.Value(f.directive)
	inv.plan.Trace = append(inv.plan.Trace, plan.TraceEntry{
		Record:    inv.record.Name,
		Field:     f.Name,
		Directive: f.directive.Name(),
		Value:     value,
	})
	inv.log.V(1).Info("directive applied", "field", f.Name, "directive", f.directive.Name(), "value", value)
}

func (inv *invocation) add(op plan.Operation) {
	if op.Visibility == "" {
		op.Visibility = visibilityOf(op.Name)
	}
	inv.plan.Operations = append(inv.plan.Operations, op)
}

// receivers picks one receiver name per owner that shadows no parameter,
// import qualifier or type parameter.
func (inv *invocation) receivers() map[string]string {
	inUse := inv.reserved()
	owners := make([]string, 0, 2)
	for _, op := range inv.plan.Operations {
		for _, p := range op.Params {
			inUse[p.Name] = struct{}{}
		}
		if op.Owner != "" && !slices.Contains(owners, op.Owner) {
			owners = append(owners, op.Owner)
		}
	}
	if len(owners) == 0 {
		return nil
	}
	out := make(map[string]string, len(owners))
	for _, owner := range owners {
		out[owner] = ReceiverName(owner, inUse)
	}
	return out
}

// finish checks the operations for name clashes and returns the plan.
func (inv *invocation) finish() (plan.Plan, error) {
	var diags diag.List

	members := map[string]map[string]struct{}{inv.record.Name: {}}
	for _, f := range inv.record.Fields {
		members[inv.record.Name][f.Name] = struct{}{}
	}
	if companion := inv.plan.Builder; companion != nil {
		members[companion.Name] = make(map[string]struct{}, len(companion.Slots))
		for _, slot := range companion.Slots {
			members[companion.Name][slot.Name] = struct{}{}
		}
	}

	seen := make(map[string]struct{})
	for _, op := range inv.plan.Operations {
		key := op.Owner + "." + op.Name
		if _, dup := seen[key]; dup {
			diags.Add(conflict(inv, op, fmt.Sprintf("operation %s is generated twice", describeOp(op))))
			continue
		}
		seen[key] = struct{}{}
		if _, clash := members[op.Owner][op.Name]; clash && op.Owner != "" {
			diags.Add(conflict(inv, op, fmt.Sprintf("method %s clashes with a field of the same name", describeOp(op))))
		}
	}
	if err := diags.Err(); err != nil {
		return plan.Plan{}, err
	}

	inv.plan.Receivers = inv.receivers()
	inv.log.V(1).Info("plan ready", "operations", len(inv.plan.Operations), "warnings", len(inv.plan.Warnings))
	return inv.plan, nil
}

func conflict(inv *invocation, op plan.Operation, msg string) diag.Diagnostic {
	pos := inv.record.Pos
	if f, ok := inv.record.Field(op.Field); ok && f.Pos.IsValid() {
		pos = f.Pos
	}
	return diag.New(diag.ConflictingOperation, pos, "%s", msg).For(inv.record.Name, inv.kind).OnField(op.Field)
}

func describeOp(op plan.Operation) string {
	if op.Owner == "" {
		return op.Name
	}
	return op.Owner + "." + op.Name
}

func visibilityOf(name string) schema.Visibility {
	if token.IsExported(name) {
		return schema.Public
	}
	return schema.Private
}

func importQualifier(imp schema.Import) string {
	if imp.Name != "" {
		return imp.Name
	}
	return schema.ImportName(imp.Path)
}
