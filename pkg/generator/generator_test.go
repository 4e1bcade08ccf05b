package generator_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-podgen/pkg/diag"
	"github.com/goliatone/go-podgen/pkg/generator"
	"github.com/goliatone/go-podgen/pkg/plan"
	"github.com/goliatone/go-podgen/pkg/schema"
	"github.com/goliatone/go-podgen/pkg/typeshape"
)

func maybeRecord() schema.RecordSpec {
	return schema.RecordSpec{
		Name:  "Settings",
		Shape: schema.ShapeStruct,
		Fields: []schema.FieldSpec{
			{Name: "Port", Type: schema.Named("int"), Visibility: schema.Public},
			{Name: "Host", Type: schema.Named("Maybe", schema.Named("string")), Visibility: schema.Public},
		},
	}
}

func TestNewWithWrappers(t *testing.T) {
	gen := generator.New(generator.WithWrappers(typeshape.Wrapper{Name: "Maybe", Get: "Value"}))
	p, err := gen.Generate(context.Background(), schema.KindGetters, maybeRecord())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	host, ok := p.Operation("Settings", "GetHost")
	if !ok {
		t.Fatalf("missing GetHost in %v", p.Names())
	}
	if host.Body.Kind != plan.BodyReturnUnwrapped || host.Body.Getter != "Value" {
		t.Fatalf("unexpected body %+v", host.Body)
	}
}

func TestNewWithNamingAndDocs(t *testing.T) {
	gen := generator.New(
		generator.WithNaming(generator.Naming{GetterPrefix: "Read"}),
		generator.WithDocTemplates(generator.DocTemplates{plan.OpGet: "{{ name }} reads {{ field }}."}),
	)
	p, err := gen.Generate(context.Background(), schema.KindFields, maybeRecord())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	op, ok := p.Operation("Settings", "ReadPort")
	if !ok {
		t.Fatalf("missing ReadPort in %v", p.Names())
	}
	if op.Doc != "ReadPort reads Port." {
		t.Fatalf("doc = %q", op.Doc)
	}
	if _, ok := p.Operation("Settings", "SetPort"); !ok {
		t.Fatalf("default setter prefix lost: %v", p.Names())
	}
}

type staticDocs string

func (s staticDocs) Doc(_ schema.RecordSpec, op plan.Operation) (string, error) {
	return op.Name + " " + string(s), nil
}

func TestWithDocRenderer(t *testing.T) {
	gen := generator.New(generator.WithDocRenderer(staticDocs("is generated.")))
	p, err := gen.Generate(context.Background(), schema.KindFields, maybeRecord())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	for _, op := range p.Operations {
		if !strings.HasSuffix(op.Doc, " is generated.") {
			t.Fatalf("doc = %q", op.Doc)
		}
	}
}

func TestRegistry(t *testing.T) {
	reg := generator.DefaultRegistry(generator.New())
	if diff := cmp.Diff(schema.Kinds(), reg.Kinds()); diff != "" {
		t.Fatalf("kinds mismatch (-want +got):\n%s", diff)
	}
	if err := reg.Register(schema.KindBuilder, generator.New()); err == nil {
		t.Fatalf("expected duplicate registration error")
	}

	custom := schema.Kind("stringer")
	err := reg.RegisterFunc(custom, func(_ context.Context, record schema.RecordSpec) (plan.Plan, error) {
		return plan.Plan{Generator: custom, Record: record.Name}, nil
	})
	if err != nil {
		t.Fatalf("register func: %v", err)
	}
	p, err := reg.Generate(context.Background(), custom, maybeRecord())
	if err != nil || p.Record != "Settings" {
		t.Fatalf("custom generate = %+v, %v", p, err)
	}
	if kinds := reg.Kinds(); kinds[len(kinds)-1] != custom {
		t.Fatalf("custom kind not listed: %v", kinds)
	}

	if _, err := generator.NewRegistry().Get(schema.KindCtor); err == nil {
		t.Fatalf("expected missing kind error")
	}
}

func TestRegistryReplace(t *testing.T) {
	reg := generator.DefaultRegistry(generator.New())
	sentinel := errors.New("disabled")
	reg.Replace(schema.KindCtor, failing{err: sentinel})

	if _, err := reg.Generate(context.Background(), schema.KindCtor, maybeRecord()); !errors.Is(err, sentinel) {
		t.Fatalf("expected replaced generator, got %v", err)
	}
	if _, err := reg.Generate(context.Background(), schema.KindBuilder, schema.RecordSpec{Name: "Unit", Shape: schema.ShapeUnit}); !errors.Is(err, diag.UnsupportedUnitStruct) {
		t.Fatalf("expected structural error, got %v", err)
	}
}

type failing struct{ err error }

func (f failing) Generate(context.Context, schema.Kind, schema.RecordSpec) (plan.Plan, error) {
	return plan.Plan{}, f.err
}
