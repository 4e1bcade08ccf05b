package generator

import (
	"context"
	"strconv"

	"github.com/goliatone/go-podgen/internal/directive"
	"github.com/goliatone/go-podgen/pkg/plan"
	"github.com/goliatone/go-podgen/pkg/schema"
)

// Ctor plans New<Record>: one parameter per field in declaration order, except
// fields marked `ctor:"skip=<expr>"`, which are initialised with the
// expression verbatim.
func (g *Generator) Ctor(ctx context.Context, record schema.RecordSpec) (plan.Plan, error) {
	inv, err := g.prepare(ctx, record, schema.KindCtor)
	if err != nil {
		return plan.Plan{}, err
	}

	reserved := inv.reserved()
	taken := make(map[string]struct{}, len(inv.fields))
	var (
		params []plan.Param
		inits  []plan.Init
	)
	for _, f := range inv.fields {
		if skip, ok := f.directive.(directive.SkipWithValue); ok {
			inv.trace(f)
			inits = append(inits, plan.Init{Field: f.Name, Expr: skip.Expr})
			continue
		}
		name := uniqueParam(ParamName(f.Name, reserved), taken)
		params = append(params, plan.Param{Name: name, Type: plan.Value(f.Type)})
		inits = append(inits, plan.Init{Field: f.Name, Param: name})
	}

	inv.add(plan.Operation{
		Kind:    plan.OpNew,
		Name:    inv.naming().Ctor(record.Name),
		Params:  params,
		Results: []plan.TypeRef{plan.Mutable(inv.self())},
		Body:    plan.Body{Kind: plan.BodyConstruct, Inits: inits},
	})
	return inv.finish()
}

// uniqueParam suffixes name until it is unused, then marks it taken.
func uniqueParam(name string, taken map[string]struct{}) string {
	candidate := name
	for i := 2; ; i++ {
		if _, dup := taken[candidate]; !dup {
			break
		}
		candidate = name + strconv.Itoa(i)
	}
	taken[candidate] = struct{}{}
	return candidate
}
