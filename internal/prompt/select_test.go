package prompt

import (
	"context"
	"errors"
	"testing"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-podgen/pkg/schema"
	pkgsource "github.com/goliatone/go-podgen/pkg/source"
)

type stubDriver struct {
	multi    [][]int
	confirm  []bool
	asked    []SelectConfig
	multiPos int
}

func (s *stubDriver) MultiSelect(_ context.Context, cfg SelectConfig) ([]int, error) {
	s.asked = append(s.asked, cfg)
	if s.multiPos >= len(s.multi) {
		return nil, errors.New("no multi-select scripted")
	}
	val := s.multi[s.multiPos]
	s.multiPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, _ ConfirmConfig) (bool, error) {
	if len(s.confirm) == 0 {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[0]
	s.confirm = s.confirm[1:]
	return val, nil
}

func discovered() []pkgsource.Package {
	return []pkgsource.Package{{
		Name: "examples",
		Records: []schema.RecordSpec{
			{Name: "Data", Shape: schema.ShapeStruct, File: "data.go", Pos: schema.Position{Line: 4}},
			{Name: "Level", Shape: schema.ShapeEnum, File: "data.go", Pos: schema.Position{Line: 10}},
			{Name: "Pair", Shape: schema.ShapeStruct, File: "pair.go", Pos: schema.Position{Line: 3}},
		},
	}}
}

func TestChoose(t *testing.T) {
	driver := &stubDriver{multi: [][]int{{1}, {0, 4}}}

	got, err := Choose(context.Background(), driver, discovered())
	if err != nil {
		t.Fatalf("Choose: %v", err)
	}

	want := Choice{
		Types:      []string{"Pair"},
		Generators: []schema.Kind{schema.KindBuilder, schema.KindCtor},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("choice mismatch (-want +got):\n%s", diff)
	}

	wantOptions := []string{"examples.Data (data.go:4)", "examples.Pair (pair.go:3)"}
	if diff := cmp.Diff(wantOptions, driver.asked[0].Options); diff != "" {
		t.Fatalf("record options mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{0, 1, 2, 3, 4}, driver.asked[1].Defaults); diff != "" {
		t.Fatalf("generator defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestChooseNothingPicked(t *testing.T) {
	driver := &stubDriver{multi: [][]int{{}}}

	_, err := Choose(context.Background(), driver, discovered())
	if !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
}

func TestChooseNoStructs(t *testing.T) {
	pkgs := []pkgsource.Package{{Name: "p", Records: []schema.RecordSpec{{Name: "Level", Shape: schema.ShapeEnum}}}}

	_, err := Choose(context.Background(), &stubDriver{}, pkgs)
	if !errors.Is(err, ErrNoCandidates) {
		t.Fatalf("expected ErrNoCandidates, got %v", err)
	}
}

func TestChooseDriverError(t *testing.T) {
	driver := &stubDriver{multi: [][]int{{0}}}

	_, err := Choose(context.Background(), driver, discovered())
	if err == nil || err.Error() != "no multi-select scripted" {
		t.Fatalf("expected driver error, got %v", err)
	}
}

func TestConfirmWrite(t *testing.T) {
	ok, err := ConfirmWrite(context.Background(), &stubDriver{}, nil)
	if err != nil || ok {
		t.Fatalf("expected no prompt for empty paths, got %v %v", ok, err)
	}

	ok, err = ConfirmWrite(context.Background(), &stubDriver{confirm: []bool{true}}, []string{"a_podgen.go"})
	if err != nil || !ok {
		t.Fatalf("expected confirmation, got %v %v", ok, err)
	}
}

func TestSurveyDriverHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	driver := NewSurveyDriver()
	if _, err := driver.MultiSelect(ctx, SelectConfig{Options: []string{"a"}}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if _, err := driver.Confirm(ctx, ConfirmConfig{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestIndexHelpers(t *testing.T) {
	options := []string{"a", "b", "c"}
	if diff := cmp.Diff([]int{0, 2}, positions(options, []string{"c", "a"})); diff != "" {
		t.Fatalf("positions mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"b"}, pick(options, []int{1, 7})); diff != "" {
		t.Fatalf("pick mismatch (-want +got):\n%s", diff)
	}
}

type interruptPrompt struct{}

func (interruptPrompt) Prompt(*survey.PromptConfig) (interface{}, error) {
	return nil, terminal.InterruptErr
}
func (interruptPrompt) Cleanup(*survey.PromptConfig, interface{}) error { return nil }
func (interruptPrompt) Error(*survey.PromptConfig, error) error         { return nil }

func TestAskTranslatesInterrupt(t *testing.T) {
	d := &surveyDriver{}
	var answer string
	if err := d.ask(context.Background(), interruptPrompt{}, &answer); !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
}
