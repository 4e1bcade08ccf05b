package directive_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-podgen/internal/directive"
	"github.com/goliatone/go-podgen/pkg/diag"
	"github.com/goliatone/go-podgen/pkg/schema"
)

func field(name string, tags map[schema.Kind]string) schema.FieldSpec {
	f := schema.FieldSpec{
		Name:       name,
		Type:       schema.Named("uint"),
		Visibility: schema.Public,
		Pos:        schema.Position{File: "data.go", Line: 10},
	}
	for _, kind := range schema.Kinds() {
		if text, ok := tags[kind]; ok {
			f.Attributes = append(f.Attributes, directive.Tokenize(kind, text, f.Pos)...)
		}
	}
	return f
}

func TestParseBuilder(t *testing.T) {
	got, err := directive.ParseBuilder(field("Field2", map[schema.Kind]string{
		schema.KindBuilder: "default=42",
		schema.KindCtor:    "skip",
	}))
	if err != nil {
		t.Fatalf("parse builder: %v", err)
	}
	want := directive.Default{Expr: "42", Pos: schema.Position{File: "data.go", Line: 10}}
	if diff := cmp.Diff(directive.Directive(want), got); diff != "" {
		t.Fatalf("directive mismatch (-want +got):\n%s", diff)
	}

	got, err = directive.ParseBuilder(field("Field0", nil))
	if err != nil {
		t.Fatalf("parse builder without attributes: %v", err)
	}
	if _, ok := got.(directive.None); !ok {
		t.Fatalf("expected None, got %T", got)
	}
}

func TestParseBuilderRejectsNonValueForms(t *testing.T) {
	for _, text := range []string{"default", "default(42)", "default=42,default=43", "default=)("} {
		t.Run(text, func(t *testing.T) {
			_, err := directive.ParseBuilder(field("Field0", map[schema.Kind]string{schema.KindBuilder: text}))
			if !errors.Is(err, diag.MalformedAttributeSyntax) {
				t.Fatalf("expected MalformedAttributeSyntax, got %v", err)
			}
		})
	}
}

func TestParseBuilderIgnoresUnknownNames(t *testing.T) {
	got, err := directive.ParseBuilder(field("Field0", map[schema.Kind]string{schema.KindBuilder: "future(x), other=1"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := got.(directive.None); !ok {
		t.Fatalf("expected None, got %T", got)
	}
}

func TestParseSkipMarker(t *testing.T) {
	parsers := map[schema.Kind]func(schema.FieldSpec) (directive.Directive, error){
		schema.KindGetters: directive.ParseGetters,
		schema.KindSetters: directive.ParseSetters,
		schema.KindFields:  directive.ParseFields,
	}
	for kind, parse := range parsers {
		t.Run(string(kind), func(t *testing.T) {
			got, err := parse(field("Field1", map[schema.Kind]string{kind: "skip"}))
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if _, ok := got.(directive.Skip); !ok {
				t.Fatalf("expected Skip, got %T", got)
			}

			for _, text := range []string{`skip="x"`, "skip(a)"} {
				_, err := parse(field("Field1", map[schema.Kind]string{kind: text}))
				if !errors.Is(err, diag.SkipMustNotHaveValue) {
					t.Fatalf("%s: expected SkipMustNotHaveValue, got %v", text, err)
				}
				var d diag.Diagnostic
				if !errors.As(err, &d) || d.Field != "Field1" || d.Generator != kind {
					t.Fatalf("%s: unexpected diagnostic %+v", text, d)
				}
			}
		})
	}
}

func TestParseCtor(t *testing.T) {
	got, err := directive.ParseCtor(field("Field2", map[schema.Kind]string{schema.KindCtor: `skip="hello from 42"`}))
	if err != nil {
		t.Fatalf("parse ctor: %v", err)
	}
	skip, ok := got.(directive.SkipWithValue)
	if !ok || skip.Expr != `"hello from 42"` {
		t.Fatalf("unexpected directive %#v", got)
	}
	if value, ok := directive.Value(got); !ok || value != `"hello from 42"` {
		t.Fatalf("Value() = %q, %v", value, ok)
	}

	for _, text := range []string{"skip", "skip(1)"} {
		_, err := directive.ParseCtor(field("Field2", map[schema.Kind]string{schema.KindCtor: text}))
		if !errors.Is(err, diag.SkipMustHaveValue) {
			t.Fatalf("%s: expected SkipMustHaveValue, got %v", text, err)
		}
	}
}

func TestParseCollectsEveryError(t *testing.T) {
	_, err := directive.ParseGetters(field("Field0", map[schema.Kind]string{schema.KindGetters: `skip=1, skip(2)`}))
	if got := len(diag.Collect(err)); got != 2 {
		t.Fatalf("collected %d diagnostics, want 2: %v", got, err)
	}
}

func TestParseDispatch(t *testing.T) {
	f := field("Field0", map[schema.Kind]string{schema.KindSetters: "skip"})
	got, err := directive.Parse(schema.KindSetters, f)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got.Name() != "skip" {
		t.Fatalf("Name() = %q, want skip", got.Name())
	}
	if _, err := directive.Parse(schema.Kind("debug"), f); err == nil {
		t.Fatalf("expected error for unknown generator")
	}
}
