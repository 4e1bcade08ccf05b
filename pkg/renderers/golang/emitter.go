package golang

import (
	"fmt"
	"go/ast"
	goparser "go/parser"
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/goliatone/go-podgen/pkg/plan"
	"github.com/goliatone/go-podgen/pkg/render"
	"github.com/goliatone/go-podgen/pkg/schema"
)

type importSpec struct {
	alias string
	path  string
}

// emitter accumulates the declarations of one unit.
type emitter struct {
	unit  render.Unit
	file  *jen.File
	quals map[string]importSpec
	// needed lists imports referenced from verbatim expressions.
	needed []importSpec
	seen   map[string]struct{}
}

func newEmitter(unit render.Unit) *emitter {
	file := jen.NewFile(unit.Package)
	if unit.PkgPath != "" {
		file = jen.NewFilePathName(unit.PkgPath, unit.Package)
	}
	e := &emitter{
		unit:  unit,
		file:  file,
		quals: make(map[string]importSpec),
		seen:  make(map[string]struct{}),
	}
	for _, p := range unit.Plans {
		for _, imp := range p.Imports {
			e.register(imp)
		}
	}
	return e
}

// register keeps the qualifiers of the source file so generated code and
// verbatim expressions agree on them.
func (e *emitter) register(imp schema.Import) {
	name := imp.Name
	if name == "" {
		name = schema.ImportName(imp.Path)
	}
	if _, ok := e.quals[name]; ok {
		return
	}
	e.quals[name] = importSpec{alias: imp.Name, path: imp.Path}
	if imp.Name != "" {
		e.file.ImportAlias(imp.Path, imp.Name)
	} else {
		e.file.ImportName(imp.Path, name)
	}
}

// raw splices a source expression verbatim and records the imports it uses.
func (e *emitter) raw(expr string) *jen.Statement {
	if parsed, err := goparser.ParseExpr(expr); err == nil {
		ast.Inspect(parsed, func(n ast.Node) bool {
			sel, ok := n.(*ast.SelectorExpr)
			if !ok {
				return true
			}
			if x, ok := sel.X.(*ast.Ident); ok {
				e.require(x.Name)
			}
			return true
		})
	}
	return jen.Id(expr)
}

func (e *emitter) require(qualifier string) {
	imp, ok := e.quals[qualifier]
	if !ok {
		return
	}
	if _, dup := e.seen[imp.path]; dup {
		return
	}
	e.seen[imp.path] = struct{}{}
	e.needed = append(e.needed, imp)
}

func (e *emitter) typ(t schema.TypeDescriptor) *jen.Statement {
	switch t.Kind {
	case schema.TypeNamed:
		var s *jen.Statement
		switch {
		case t.Qualifier == "":
			s = jen.Id(t.Name)
		case t.PkgPath != "":
			s = jen.Qual(t.PkgPath, t.Name)
		default:
			e.require(t.Qualifier)
			s = jen.Id(t.Qualifier + "." + t.Name)
		}
		if len(t.Args) > 0 {
			args := make([]jen.Code, len(t.Args))
			for i, arg := range t.Args {
				args[i] = e.typ(arg)
			}
			s = s.Types(args...)
		}
		return s
	case schema.TypePointer:
		return jen.Op("*").Add(e.typ(*t.Elem))
	case schema.TypeSlice:
		return jen.Index().Add(e.typ(*t.Elem))
	case schema.TypeArray:
		return jen.Index(e.raw(t.Len)).Add(e.typ(*t.Elem))
	case schema.TypeMap:
		return jen.Map(e.typ(*t.Key)).Add(e.typ(*t.Elem))
	}
	return e.raw(t.Expr)
}

func (e *emitter) ref(r plan.TypeRef) []jen.Code {
	switch r.Ref {
	case plan.RefOptional:
		return []jen.Code{e.typ(r.Type), jen.Bool()}
	case plan.RefMutable, plan.RefPresence:
		return []jen.Code{jen.Op("*").Add(e.typ(r.Type))}
	case plan.RefPresenceMutable:
		return []jen.Code{jen.Op("**").Add(e.typ(r.Type))}
	}
	return []jen.Code{e.typ(r.Type)}
}

func (e *emitter) typeParams(p plan.Plan) []jen.Code {
	out := make([]jen.Code, len(p.TypeParams))
	for i, tp := range p.TypeParams {
		out[i] = jen.Id(tp.Name).Add(e.typ(tp.Constraint))
	}
	return out
}

func withTypes(s *jen.Statement, params []jen.Code) *jen.Statement {
	if len(params) == 0 {
		return s
	}
	return s.Types(params...)
}

func (e *emitter) comment(doc string) {
	for _, line := range strings.Split(strings.TrimSpace(doc), "\n") {
		e.file.Comment(line)
	}
}

func (e *emitter) plan(p plan.Plan) error {
	if c := p.Builder; c != nil {
		doc := c.Doc
		if doc == "" {
			doc = fmt.Sprintf("%s accumulates the fields of %s until Build.", c.Name, p.Record)
		}
		slots := make([]jen.Code, len(c.Slots))
		for i, slot := range c.Slots {
			slots[i] = jen.Id(slot.Name).Op("*").Add(e.typ(slot.Type))
		}
		e.comment(doc)
		e.file.Add(withTypes(jen.Type().Id(c.Name), e.typeParams(p)).Struct(slots...))
		e.file.Line()
	}

	for _, op := range p.Operations {
		decl, err := e.operation(p, op)
		if err != nil {
			return err
		}
		if op.Doc != "" {
			e.comment(op.Doc)
		}
		e.file.Add(decl)
		e.file.Line()
	}
	return nil
}

func (e *emitter) operation(p plan.Plan, op plan.Operation) (*jen.Statement, error) {
	s := jen.Func()
	if op.Owner != "" {
		rcv := jen.Id(p.Receivers[op.Owner])
		if op.Receiver == plan.ReceiverPointer {
			rcv = rcv.Op("*")
		}
		s = s.Params(rcv.Add(e.typ(p.SelfType(op.Owner)))).Id(op.Name)
	} else {
		s = withTypes(s.Id(op.Name), e.typeParams(p))
	}

	params := make([]jen.Code, len(op.Params))
	for i, param := range op.Params {
		params[i] = jen.Id(param.Name).Add(e.ref(param.Type)...)
	}
	s = s.Params(params...)

	var results []jen.Code
	for _, r := range op.Results {
		results = append(results, e.ref(r)...)
	}
	switch len(results) {
	case 0:
	case 1:
		s = s.Add(results[0])
	default:
		s = s.Params(results...)
	}

	body, err := e.body(p, op)
	if err != nil {
		return nil, err
	}
	return s.Block(body...), nil
}

func (e *emitter) body(p plan.Plan, op plan.Operation) ([]jen.Code, error) {
	name := p.Receivers[op.Owner]
	rcv := func() *jen.Statement { return jen.Id(name) }
	b := op.Body

	switch b.Kind {
	case plan.BodyReturnField:
		return []jen.Code{jen.Return(rcv().Dot(b.Field))}, nil
	case plan.BodyReturnUnwrapped:
		return []jen.Code{jen.Return(rcv().Dot(b.Field).Dot(b.Getter).Call())}, nil
	case plan.BodyReturnFieldAddr:
		return []jen.Code{jen.Return(jen.Op("&").Add(rcv().Dot(b.Field)))}, nil
	case plan.BodyAssignReturnSelf:
		return []jen.Code{
			rcv().Dot(b.Field).Op("=").Id(b.Param),
			jen.Return(rcv()),
		}, nil
	case plan.BodyAssignPresenceReturnSelf:
		return []jen.Code{
			rcv().Dot(b.Field).Op("=").Op("&").Id(b.Param),
			jen.Return(rcv()),
		}, nil
	case plan.BodyReturnZero:
		if len(op.Results) != 1 {
			return nil, fmt.Errorf("%s: zero return needs exactly one result", op.Name)
		}
		return []jen.Code{jen.Return(e.typ(op.Results[0].Type).Values())}, nil
	case plan.BodyBuild:
		return e.build(p, op, rcv)
	case plan.BodyConstruct:
		if len(op.Results) != 1 {
			return nil, fmt.Errorf("%s: constructor needs exactly one result", op.Name)
		}
		items := make([]jen.Code, len(b.Inits))
		for i, init := range b.Inits {
			value := jen.Id(init.Param)
			if init.Param == "" {
				value = e.raw(init.Expr)
			}
			items[i] = jen.Id(init.Field).Op(":").Add(value)
		}
		return []jen.Code{jen.Return(jen.Op("&").Add(e.typ(op.Results[0].Type)).Values(items...))}, nil
	}
	return nil, fmt.Errorf("%s: unsupported body %q", op.Name, b.Kind)
}

// build copies every supplied slot into the record and applies the fallback
// of the others.
func (e *emitter) build(p plan.Plan, op plan.Operation, rcv func() *jen.Statement) ([]jen.Code, error) {
	if len(op.Results) != 1 {
		return nil, fmt.Errorf("%s: build needs exactly one result", op.Name)
	}
	out := "out"
	if _, taken := e.quals[out]; taken || p.Receivers[op.Owner] == out {
		out = "built"
	}

	stmts := []jen.Code{jen.Var().Id(out).Add(e.typ(op.Results[0].Type))}
	for _, res := range op.Body.Resolutions {
		supplied := jen.If(rcv().Dot(res.Field).Op("!=").Nil()).Block(
			jen.Id(out).Dot(res.Field).Op("=").Op("*").Add(rcv().Dot(res.Field)),
		)
		switch res.Fallback {
		case plan.FallbackZero:
		case plan.FallbackDefault:
			supplied = supplied.Else().Block(jen.Id(out).Dot(res.Field).Op("=").Add(e.raw(res.Expr)))
		case plan.FallbackWrappedDefault:
			if res.Wrap == nil {
				return nil, fmt.Errorf("%s: wrapped default of %s has no constructor", op.Name, res.Field)
			}
			supplied = supplied.Else().Block(jen.Id(out).Dot(res.Field).Op("=").Add(e.wrap(*res.Wrap, res.Expr)))
		default:
			return nil, fmt.Errorf("%s: unsupported fallback %q", op.Name, res.Fallback)
		}
		stmts = append(stmts, supplied)
	}
	return append(stmts, jen.Return(jen.Id(out))), nil
}

func (e *emitter) wrap(w plan.WrapCall, expr string) *jen.Statement {
	var fn *jen.Statement
	switch {
	case w.Qualifier == "":
		fn = jen.Id(w.Func)
	case w.PkgPath != "":
		fn = jen.Qual(w.PkgPath, w.Func)
	default:
		e.require(w.Qualifier)
		fn = jen.Id(w.Qualifier + "." + w.Func)
	}
	return fn.Types(e.typ(w.TypeArg)).Call(e.raw(expr))
}
