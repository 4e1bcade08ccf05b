// Package directive resolves the per-field attributes of each generator into
// closed directive values.
package directive

import (
	"fmt"
	"go/parser"

	"github.com/goliatone/go-podgen/pkg/diag"
	"github.com/goliatone/go-podgen/pkg/schema"
)

// Directive is the resolved instruction of one generator for one field. The
// set of implementations is closed: None, Skip, SkipWithValue and Default.
type Directive interface {
	Name() string
	directive()
}

// None means no attribute applies; the generator uses its default policy.
type None struct{}

// Skip omits every accessor the generator would produce for the field.
type Skip struct {
	Pos schema.Position
}

// SkipWithValue omits the constructor parameter and initialises the field with
// Expr verbatim.
type SkipWithValue struct {
	Expr string
	Pos  schema.Position
}

// Default initialises a builder slot with Expr when it was never supplied.
type Default struct {
	Expr string
	Pos  schema.Position
}

func (None) Name() string          { return "none" }
func (Skip) Name() string          { return "skip" }
func (SkipWithValue) Name() string { return "skip" }
func (Default) Name() string       { return "default" }

func (None) directive()          {}
func (Skip) directive()          {}
func (SkipWithValue) directive() {}
func (Default) directive()       {}

// Value returns the expression carried by d, if any.
func Value(d Directive) (string, bool) {
	switch v := d.(type) {
	case SkipWithValue:
		return v.Expr, true
	case Default:
		return v.Expr, true
	}
	return "", false
}

// Parse dispatches to the parser owning kind.
func Parse(kind schema.Kind, field schema.FieldSpec) (Directive, error) {
	switch kind {
	case schema.KindBuilder:
		return ParseBuilder(field)
	case schema.KindGetters:
		return ParseGetters(field)
	case schema.KindSetters:
		return ParseSetters(field)
	case schema.KindFields:
		return ParseFields(field)
	case schema.KindCtor:
		return ParseCtor(field)
	}
	return None{}, fmt.Errorf("directive: unknown generator %q", kind)
}

// ParseBuilder recognises `default=<expr>`.
func ParseBuilder(field schema.FieldSpec) (Directive, error) {
	var (
		diags  diag.List
		result Directive = None{}
	)
	for _, attr := range field.Namespace(schema.KindBuilder) {
		if attr.Form == schema.FormMalformed {
			diags.Add(malformedDiag(field, attr))
			continue
		}
		if attr.Name != "default" {
			continue
		}
		switch {
		case attr.Form != schema.FormNameValue:
			diags.Add(fieldDiag(field, attr, diag.MalformedAttributeSyntax,
				"`default` attribute on `Builder` generator must be written as default=<expression>"))
		case !validExpr(attr.Value):
			diags.Add(fieldDiag(field, attr, diag.MalformedAttributeSyntax,
				fmt.Sprintf("`default` value %q is not a valid expression", attr.Value)))
		default:
			if _, dup := result.(Default); dup {
				diags.Add(fieldDiag(field, attr, diag.MalformedAttributeSyntax,
					"duplicate `default` attribute on `Builder` generator"))
				continue
			}
			result = Default{Expr: attr.Value, Pos: attr.Pos}
		}
	}
	return finish(result, diags)
}

// ParseGetters recognises the bare `skip` marker.
func ParseGetters(field schema.FieldSpec) (Directive, error) {
	return parseSkipMarker(schema.KindGetters, field)
}

// ParseSetters recognises the bare `skip` marker.
func ParseSetters(field schema.FieldSpec) (Directive, error) {
	return parseSkipMarker(schema.KindSetters, field)
}

// ParseFields recognises the bare `skip` marker.
func ParseFields(field schema.FieldSpec) (Directive, error) {
	return parseSkipMarker(schema.KindFields, field)
}

// ParseCtor recognises `skip=<expr>`.
func ParseCtor(field schema.FieldSpec) (Directive, error) {
	var (
		diags  diag.List
		result Directive = None{}
	)
	for _, attr := range field.Namespace(schema.KindCtor) {
		if attr.Form == schema.FormMalformed {
			diags.Add(malformedDiag(field, attr))
			continue
		}
		if attr.Name != "skip" {
			continue
		}
		switch {
		case attr.Form != schema.FormNameValue:
			diags.Add(fieldDiag(field, attr, diag.SkipMustHaveValue,
				"`skip` attribute on `Ctor` generator must have a value: the default value of the skipped field"))
		case !validExpr(attr.Value):
			diags.Add(fieldDiag(field, attr, diag.MalformedAttributeSyntax,
				fmt.Sprintf("`skip` value %q is not a valid expression", attr.Value)))
		default:
			if _, dup := result.(SkipWithValue); dup {
				diags.Add(fieldDiag(field, attr, diag.MalformedAttributeSyntax,
					"duplicate `skip` attribute on `Ctor` generator"))
				continue
			}
			result = SkipWithValue{Expr: attr.Value, Pos: attr.Pos}
		}
	}
	return finish(result, diags)
}

func parseSkipMarker(kind schema.Kind, field schema.FieldSpec) (Directive, error) {
	var (
		diags  diag.List
		result Directive = None{}
	)
	for _, attr := range field.Namespace(kind) {
		if attr.Form == schema.FormMalformed {
			diags.Add(malformedDiag(field, attr))
			continue
		}
		if attr.Name != "skip" {
			continue
		}
		if attr.HasValue() {
			diags.Add(fieldDiag(field, attr, diag.SkipMustNotHaveValue,
				fmt.Sprintf("`skip` attribute on `%s` generator cannot have a value", kind.Title())))
			continue
		}
		result = Skip{Pos: attr.Pos}
	}
	return finish(result, diags)
}

func finish(result Directive, diags diag.List) (Directive, error) {
	if err := diags.Err(); err != nil {
		return None{}, err
	}
	return result, nil
}

func malformedDiag(field schema.FieldSpec, attr schema.Attribute) diag.Diagnostic {
	return fieldDiag(field, attr, diag.MalformedAttributeSyntax,
		fmt.Sprintf("malformed `%s` attribute %q: %s", attr.Namespace, attr.Raw, attr.Err))
}

func fieldDiag(field schema.FieldSpec, attr schema.Attribute, kind diag.Kind, msg string) diag.Diagnostic {
	pos := attr.Pos
	if !pos.IsValid() {
		pos = field.Pos
	}
	d := diag.New(kind, pos, "%s", msg).OnField(field.Name)
	d.Generator = attr.Namespace
	return d
}

func validExpr(expr string) bool {
	_, err := parser.ParseExpr(expr)
	return err == nil
}
