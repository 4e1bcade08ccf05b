package schema_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-podgen/pkg/schema"
)

func TestParseKinds(t *testing.T) {
	kinds, err := schema.ParseKinds("Builder, getters,,ctor,getters")
	if err != nil {
		t.Fatalf("parse kinds: %v", err)
	}
	want := []schema.Kind{schema.KindBuilder, schema.KindGetters, schema.KindCtor}
	if diff := cmp.Diff(want, kinds); diff != "" {
		t.Fatalf("kinds mismatch (-want +got):\n%s", diff)
	}

	if _, err := schema.ParseKinds("builder,debug"); err == nil {
		t.Fatalf("expected error for unknown generator")
	}
}

func TestKindTitle(t *testing.T) {
	if got := schema.KindCtor.Title(); got != "Ctor" {
		t.Fatalf("title = %q, want Ctor", got)
	}
}

func TestTypeDescriptorRendering(t *testing.T) {
	tests := []struct {
		name string
		typ  schema.TypeDescriptor
		want string
	}{
		{name: "named", typ: schema.Named("uint"), want: "uint"},
		{
			name: "qualified generic",
			typ:  schema.Qualified("mo", "github.com/samber/mo", "Option", schema.Named("uint")),
			want: "mo.Option[uint]",
		},
		{name: "pointer", typ: schema.PointerTo(schema.Named("Data")), want: "*Data"},
		{name: "slice", typ: schema.SliceOf(schema.Named("string")), want: "[]string"},
		{name: "array", typ: schema.ArrayOf("4", schema.Named("byte")), want: "[4]byte"},
		{
			name: "map",
			typ:  schema.MapOf(schema.Named("string"), schema.SliceOf(schema.Qualified("time", "time", "Duration"))),
			want: "map[string][]time.Duration",
		},
		{name: "raw", typ: schema.Raw(schema.TypeFunc, "func() error"), want: "func() error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.typ.String(); got != tt.want {
				t.Fatalf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTypeDescriptorQualifiers(t *testing.T) {
	typ := schema.MapOf(
		schema.Qualified("uuid", "github.com/google/uuid", "UUID"),
		schema.Qualified("mo", "github.com/samber/mo", "Option", schema.Qualified("time", "time", "Time")),
	)
	want := []string{"uuid", "mo", "time"}
	if diff := cmp.Diff(want, typ.Qualifiers()); diff != "" {
		t.Fatalf("qualifiers mismatch (-want +got):\n%s", diff)
	}
	if !schema.Named("int").Predeclared() {
		t.Fatalf("int should be predeclared")
	}
	if schema.Named("Data").Predeclared() {
		t.Fatalf("Data should not be predeclared")
	}
}

func TestImportName(t *testing.T) {
	cases := map[string]string{
		"time":                             "time",
		"github.com/samber/mo":             "mo",
		"github.com/AlecAivazis/survey/v2": "survey",
		"gopkg.in/yaml.v3":                 "yaml",
		"github.com/go-logr/logr":          "logr",
		"github.com/goliatone/go-theme":    "theme",
		"example.com/some-lib":             "some_lib",
	}
	for path, want := range cases {
		if got := schema.ImportName(path); got != want {
			t.Errorf("ImportName(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestRecordImportPath(t *testing.T) {
	record := schema.RecordSpec{
		Imports: []schema.Import{
			{Path: "github.com/samber/mo"},
			{Name: "opt", Path: "example.com/option"},
		},
	}
	if path, ok := record.ImportPath("mo"); !ok || path != "github.com/samber/mo" {
		t.Fatalf("ImportPath(mo) = %q, %v", path, ok)
	}
	if path, ok := record.ImportPath("opt"); !ok || path != "example.com/option" {
		t.Fatalf("ImportPath(opt) = %q, %v", path, ok)
	}
	if _, ok := record.ImportPath("option"); ok {
		t.Fatalf("aliased import should not resolve by path element")
	}
}

func TestPositionString(t *testing.T) {
	cases := []struct {
		pos  schema.Position
		want string
	}{
		{pos: schema.Position{}, want: "-"},
		{pos: schema.Position{File: "data.go"}, want: "data.go"},
		{pos: schema.Position{File: "data.go", Line: 4}, want: "data.go:4"},
		{pos: schema.Position{File: "data.go", Line: 4, Column: 2}, want: "data.go:4:2"},
	}
	for _, tc := range cases {
		if got := tc.pos.String(); got != tc.want {
			t.Errorf("String() = %q, want %q", got, tc.want)
		}
	}
}

func TestFieldNamespace(t *testing.T) {
	field := schema.FieldSpec{
		Name: "Field0",
		Attributes: []schema.Attribute{
			{Namespace: schema.KindBuilder, Name: "default", Form: schema.FormNameValue, Value: "42"},
			{Namespace: schema.KindGetters, Name: "skip", Form: schema.FormMarker},
			{Namespace: schema.KindBuilder, Name: "note", Form: schema.FormList, Args: []string{"a", "b"}},
		},
	}
	got := field.Namespace(schema.KindBuilder)
	if len(got) != 2 || got[0].String() != "default=42" || got[1].String() != "note(a, b)" {
		t.Fatalf("unexpected builder attributes: %+v", got)
	}
}

func TestSourceFromPackages(t *testing.T) {
	src := schema.SourceFromPackages("./...", " ", "example.com/pkg")
	patterns, ok := schema.PackagePatterns(src)
	if !ok {
		t.Fatalf("expected package source")
	}
	if diff := cmp.Diff([]string{"./...", "example.com/pkg"}, patterns); diff != "" {
		t.Fatalf("patterns mismatch (-want +got):\n%s", diff)
	}
	if _, ok := schema.PackagePatterns(schema.SourceFromDir(".")); ok {
		t.Fatalf("dir source should not expose patterns")
	}
}

func TestDocument(t *testing.T) {
	src := schema.SourceFromFile("data.go")
	if _, err := schema.NewDocument(src, "data.go", []byte("  \n")); err == nil {
		t.Fatalf("expected blank document to fail")
	}
	if _, err := schema.NewDocument(nil, "data.go", []byte("package data")); err == nil {
		t.Fatalf("expected missing source to fail")
	}

	raw := []byte("package data\n")
	doc := schema.MustNewDocument(src, "data.go", raw)
	raw[0] = 'X'
	if got := string(doc.Raw()); got != "package data\n" {
		t.Fatalf("document shares caller bytes: %q", got)
	}
	if doc.Generated() {
		t.Fatalf("plain file reported as generated")
	}

	cases := map[string]bool{
		"// Code generated by podgen. DO NOT EDIT.\n\npackage data\n":           true,
		"//go:build linux\n\n// Code generated by x. DO NOT EDIT.\npackage p\n": true,
		"package data\n\n// Code generated by podgen. DO NOT EDIT.\n":           false,
		"// Code generated by hand.\npackage data\n":                            false,
	}
	for text, want := range cases {
		doc := schema.MustNewDocument(src, "data.go", []byte(text))
		if got := doc.Generated(); got != want {
			t.Errorf("Generated(%q) = %v, want %v", text, got, want)
		}
	}
}
