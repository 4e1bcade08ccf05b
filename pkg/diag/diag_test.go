package diag_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/multierr"

	"github.com/goliatone/go-podgen/pkg/diag"
	"github.com/goliatone/go-podgen/pkg/schema"
)

func TestDiagnosticError(t *testing.T) {
	d := diag.New(diag.SkipMustNotHaveValue, schema.Position{File: "data.go", Line: 7, Column: 2},
		"`skip` attribute on `Getters` generator cannot have a value").
		For("Data", schema.KindGetters).
		OnField("Field1")

	want := "data.go:7:2: getters: Field1: `skip` attribute on `Getters` generator cannot have a value"
	if got := d.Error(); got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(d, diag.SkipMustNotHaveValue) {
		t.Fatalf("expected errors.Is to match the kind")
	}
	if d.Severity != diag.SeverityError {
		t.Fatalf("severity = %q, want error", d.Severity)
	}
}

func TestListErrPartitionsSeverity(t *testing.T) {
	var list diag.List
	list.Add(
		diag.New(diag.UnresolvedWrapper, schema.Position{}, "wrapper not resolved"),
	)
	if err := list.Err(); err != nil {
		t.Fatalf("warnings only should not fail: %v", err)
	}

	list.Add(diag.New(diag.UnsupportedEnum, schema.Position{File: "kind.go", Line: 3}, "Builder generator only available for structs"))
	err := list.Err()
	if err == nil {
		t.Fatalf("expected error")
	}
	if !errors.Is(err, diag.UnsupportedEnum) {
		t.Fatalf("expected UnsupportedEnum in %v", err)
	}
	if errors.Is(err, diag.UnresolvedWrapper) {
		t.Fatalf("warnings must not be part of the error")
	}

	var target diag.Diagnostic
	if !errors.As(err, &target) || target.Kind != diag.UnsupportedEnum {
		t.Fatalf("errors.As = %+v", target)
	}
	if diff := cmp.Diff([]diag.Kind{diag.UnresolvedWrapper}, list.Warnings().Kinds()); diff != "" {
		t.Fatalf("warnings mismatch (-want +got):\n%s", diff)
	}
}

func TestCollectThroughWrappingAndMultierr(t *testing.T) {
	first := diag.List{diag.New(diag.SkipMustHaveValue, schema.Position{Line: 1}, "a")}.Err()
	second := diag.List{
		diag.New(diag.MalformedAttributeSyntax, schema.Position{Line: 2}, "b"),
		diag.New(diag.UnsupportedUnion, schema.Position{Line: 3}, "c"),
	}.Err()

	combined := multierr.Combine(fmt.Errorf("record A: %w", first), second, errors.New("plain"))
	got := diag.Collect(combined).Kinds()
	want := []diag.Kind{diag.SkipMustHaveValue, diag.MalformedAttributeSyntax, diag.UnsupportedUnion}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("collected kinds mismatch (-want +got):\n%s", diff)
	}
}

func TestSort(t *testing.T) {
	list := diag.List{
		{Kind: diag.UnsupportedType, Pos: schema.Position{File: "b.go", Line: 1}},
		{Kind: diag.UnsupportedEnum, Pos: schema.Position{File: "a.go", Line: 9}},
		{Kind: diag.UnsupportedUnion, Pos: schema.Position{File: "a.go", Line: 2}},
	}
	list.Sort()
	want := []diag.Kind{diag.UnsupportedUnion, diag.UnsupportedEnum, diag.UnsupportedType}
	if diff := cmp.Diff(want, list.Kinds()); diff != "" {
		t.Fatalf("sorted kinds mismatch (-want +got):\n%s", diff)
	}
}

func TestErrorMessageAggregates(t *testing.T) {
	err := diag.List{
		diag.New(diag.SkipMustHaveValue, schema.Position{File: "x.go", Line: 1}, "first"),
		diag.New(diag.SkipMustHaveValue, schema.Position{File: "x.go", Line: 2}, "second"),
	}.Err()
	want := "2 errors:\n  x.go:1: first\n  x.go:2: second"
	if err.Error() != want {
		t.Fatalf("Error() = %q, want %q", err.Error(), want)
	}
}
