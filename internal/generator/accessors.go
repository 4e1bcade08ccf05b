package generator

import (
	"context"

	"github.com/goliatone/go-podgen/pkg/plan"
	"github.com/goliatone/go-podgen/pkg/schema"
)

// Getters plans one read accessor per field not marked `getters:"skip"`.
func (g *Generator) Getters(ctx context.Context, record schema.RecordSpec) (plan.Plan, error) {
	inv, err := g.prepare(ctx, record, schema.KindGetters)
	if err != nil {
		return plan.Plan{}, err
	}
	for _, f := range inv.fields {
		if f.skipped() {
			inv.trace(f)
			continue
		}
		inv.add(inv.getter(f))
	}
	return inv.finish()
}

// Setters plans the Mut, Set and With mutators of every field not marked
// `setters:"skip"`.
func (g *Generator) Setters(ctx context.Context, record schema.RecordSpec) (plan.Plan, error) {
	inv, err := g.prepare(ctx, record, schema.KindSetters)
	if err != nil {
		return plan.Plan{}, err
	}
	for _, f := range inv.fields {
		if f.skipped() {
			inv.trace(f)
			continue
		}
		for _, op := range inv.mutators(f) {
			inv.add(op)
		}
	}
	return inv.finish()
}

// Fields plans getters and mutators together, each documented through the
// configured DocRenderer.
func (g *Generator) Fields(ctx context.Context, record schema.RecordSpec) (plan.Plan, error) {
	inv, err := g.prepare(ctx, record, schema.KindFields)
	if err != nil {
		return plan.Plan{}, err
	}
	docs := g.opts.Docs
	if docs == nil {
		if docs, err = NewTemplateDocs(g.opts.TemplateEngine, g.opts.DocTemplates); err != nil {
			return plan.Plan{}, err
		}
	}
	for _, f := range inv.fields {
		if f.skipped() {
			inv.trace(f)
			continue
		}
		ops := append([]plan.Operation{inv.getter(f)}, inv.mutators(f)...)
		for _, op := range ops {
			if op.Doc, err = docs.Doc(record, op); err != nil {
				return plan.Plan{}, err
			}
			inv.add(op)
		}
	}
	return inv.finish()
}

// getter returns T for plain fields and the comma-ok pair (U, bool) for
// wrapped ones.
func (inv *invocation) getter(f field) plan.Operation {
	name := inv.naming().Getter(f.FieldSpec)
	op := plan.Operation{
		Kind:       plan.OpGet,
		Name:       name,
		Field:      f.Name,
		Owner:      inv.record.Name,
		Visibility: visibilityOf(name),
		Receiver:   plan.ReceiverPointer,
		Results:    []plan.TypeRef{plan.Value(f.Type)},
		Body:       plan.Body{Kind: plan.BodyReturnField, Field: f.Name},
	}
	if f.shape.Wrapped {
		op.Results = []plan.TypeRef{{Ref: plan.RefOptional, Type: f.shape.Inner}}
		op.Body = plan.Body{Kind: plan.BodyReturnUnwrapped, Field: f.Name, Getter: f.shape.Wrapper.Get}
	}
	return op
}

// mutators returns Mut, Set and With. Parameters always carry the declared
// type; wrapped fields are never unwrapped here.
func (inv *invocation) mutators(f field) []plan.Operation {
	param := plan.Param{Name: ParamName(f.Name, inv.reserved()), Type: plan.Value(f.Type)}
	self := inv.self()
	ops := []plan.Operation{
		{
			Kind:     plan.OpMut,
			Name:     inv.naming().Mut(f.FieldSpec),
			Field:    f.Name,
			Owner:    inv.record.Name,
			Receiver: plan.ReceiverPointer,
			Results:  []plan.TypeRef{plan.Mutable(f.Type)},
			Body:     plan.Body{Kind: plan.BodyReturnFieldAddr, Field: f.Name},
		},
		{
			Kind:     plan.OpSet,
			Name:     inv.naming().Set(f.FieldSpec),
			Field:    f.Name,
			Owner:    inv.record.Name,
			Receiver: plan.ReceiverPointer,
			Params:   []plan.Param{param},
			Results:  []plan.TypeRef{plan.Mutable(self)},
			Body:     plan.Body{Kind: plan.BodyAssignReturnSelf, Field: f.Name, Param: param.Name},
		},
		{
			Kind:     plan.OpWith,
			Name:     inv.naming().With(f.FieldSpec),
			Field:    f.Name,
			Owner:    inv.record.Name,
			Receiver: plan.ReceiverValue,
			Params:   []plan.Param{param},
			Results:  []plan.TypeRef{plan.Value(self)},
			Body:     plan.Body{Kind: plan.BodyAssignReturnSelf, Field: f.Name, Param: param.Name},
		},
	}
	for i := range ops {
		ops[i].Visibility = visibilityOf(ops[i].Name)
	}
	return ops
}

// reserved lists the identifiers a parameter name must not take: import
// qualifiers and type parameters.
func (inv *invocation) reserved() map[string]struct{} {
	out := make(map[string]struct{}, len(inv.record.Imports)+len(inv.record.TypeParams))
	for _, imp := range inv.record.Imports {
		out[importQualifier(imp)] = struct{}{}
	}
	for _, tp := range inv.record.TypeParams {
		out[tp.Name] = struct{}{}
	}
	return out
}
