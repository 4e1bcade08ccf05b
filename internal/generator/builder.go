package generator

import (
	"context"

	"github.com/goliatone/go-podgen/internal/directive"
	"github.com/goliatone/go-podgen/pkg/plan"
	"github.com/goliatone/go-podgen/pkg/schema"
)

// Builder plans the companion builder type: one presence slot per field, an
// empty constructor, the record's Builder entry method, per-slot accessors and
// Build.
func (g *Generator) Builder(ctx context.Context, record schema.RecordSpec) (plan.Plan, error) {
	inv, err := g.prepare(ctx, record, schema.KindBuilder)
	if err != nil {
		return plan.Plan{}, err
	}

	naming := inv.naming()
	name := naming.BuilderType(record.Name)
	builder := inv.plan.SelfType(name)

	companion := &plan.Companion{Name: name}
	for _, f := range inv.fields {
		companion.Slots = append(companion.Slots, plan.Slot{
			Name:       f.Name,
			Type:       f.Type,
			Visibility: f.Visibility,
			Wrapped:    f.shape.Wrapped,
		})
	}
	inv.plan.Builder = companion

	inv.add(plan.Operation{
		Kind:    plan.OpNew,
		Name:    naming.BuilderCtor(record.Name),
		Results: []plan.TypeRef{plan.Value(builder)},
		Body:    plan.Body{Kind: plan.BodyReturnZero},
	})
	inv.add(plan.Operation{
		Kind:     plan.OpBuilderEntry,
		Name:     naming.BuilderMethod,
		Owner:    record.Name,
		Receiver: plan.ReceiverValue,
		Results:  []plan.TypeRef{plan.Value(builder)},
		Body:     plan.Body{Kind: plan.BodyReturnZero},
	})

	reserved := inv.reserved()
	resolutions := make([]plan.Resolution, 0, len(inv.fields))
	for _, f := range inv.fields {
		param := plan.Param{Name: ParamName(f.Name, reserved), Type: plan.Value(f.Type)}
		inv.add(plan.Operation{
			Kind:     plan.OpWith,
			Name:     naming.With(f.FieldSpec),
			Field:    f.Name,
			Owner:    name,
			Receiver: plan.ReceiverValue,
			Params:   []plan.Param{param},
			Results:  []plan.TypeRef{plan.Value(builder)},
			Body:     plan.Body{Kind: plan.BodyAssignPresenceReturnSelf, Field: f.Name, Param: param.Name},
		})
		inv.add(plan.Operation{
			Kind:     plan.OpGet,
			Name:     naming.Getter(f.FieldSpec),
			Field:    f.Name,
			Owner:    name,
			Receiver: plan.ReceiverPointer,
			Results:  []plan.TypeRef{{Ref: plan.RefPresence, Type: f.Type}},
			Body:     plan.Body{Kind: plan.BodyReturnField, Field: f.Name},
		})
		inv.add(plan.Operation{
			Kind:     plan.OpMut,
			Name:     naming.Mut(f.FieldSpec),
			Field:    f.Name,
			Owner:    name,
			Receiver: plan.ReceiverPointer,
			Results:  []plan.TypeRef{{Ref: plan.RefPresenceMutable, Type: f.Type}},
			Body:     plan.Body{Kind: plan.BodyReturnFieldAddr, Field: f.Name},
		})
		inv.add(plan.Operation{
			Kind:     plan.OpSet,
			Name:     naming.Set(f.FieldSpec),
			Field:    f.Name,
			Owner:    name,
			Receiver: plan.ReceiverPointer,
			Params:   []plan.Param{param},
			Results:  []plan.TypeRef{plan.Mutable(builder)},
			Body:     plan.Body{Kind: plan.BodyAssignPresenceReturnSelf, Field: f.Name, Param: param.Name},
		})
		resolutions = append(resolutions, inv.resolve(f))
	}

	inv.add(plan.Operation{
		Kind:     plan.OpBuild,
		Name:     naming.BuildMethod,
		Owner:    name,
		Receiver: plan.ReceiverValue,
		Results:  []plan.TypeRef{plan.Value(inv.self())},
		Body:     plan.Body{Kind: plan.BodyBuild, Resolutions: resolutions},
	})

	return inv.finish()
}

// resolve decides how Build fills a slot that was never supplied.
func (inv *invocation) resolve(f field) plan.Resolution {
	def, ok := f.directive.(directive.Default)
	if !ok {
		return plan.Resolution{Field: f.Name, Fallback: plan.FallbackZero}
	}
	inv.trace(f)
	if !f.shape.Wrapped {
		return plan.Resolution{Field: f.Name, Fallback: plan.FallbackDefault, Expr: def.Expr}
	}
	return plan.Resolution{
		Field:    f.Name,
		Fallback: plan.FallbackWrappedDefault,
		Expr:     def.Expr,
		Wrap: &plan.WrapCall{
			Qualifier: f.shape.Outer.Qualifier,
			PkgPath:   f.shape.Outer.PkgPath,
			Func:      f.shape.Wrapper.Some,
			TypeArg:   f.shape.Inner,
		},
	}
}
