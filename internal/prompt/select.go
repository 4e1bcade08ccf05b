package prompt

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-podgen/pkg/schema"
	pkgsource "github.com/goliatone/go-podgen/pkg/source"
)

// ErrNoCandidates is returned when no struct declarations were discovered.
var ErrNoCandidates = errors.New("prompt: no struct types found")

// Choice is the outcome of Choose.
type Choice struct {
	Types      []string
	Generators []schema.Kind
}

// Choose offers every struct record of pkgs, then every generator. Records
// not shaped as structs are left out; no generator accepts them. Every
// generator starts selected. Picking nothing aborts.
func Choose(ctx context.Context, driver Driver, pkgs []pkgsource.Package) (Choice, error) {
	var (
		options []string
		names   []string
	)
	for _, pkg := range pkgs {
		for _, record := range pkg.Records {
			if record.Shape != schema.ShapeStruct {
				continue
			}
			options = append(options, label(pkg, record))
			names = append(names, record.Name)
		}
	}
	if len(options) == 0 {
		return Choice{}, ErrNoCandidates
	}

	picked, err := driver.MultiSelect(ctx, SelectConfig{
		Message:  "Types to generate for:",
		Options:  options,
		Help:     "space toggles a type, enter confirms",
		PageSize: 15,
	})
	if err != nil {
		return Choice{}, err
	}
	if len(picked) == 0 {
		return Choice{}, fmt.Errorf("prompt: %w", ErrAborted)
	}

	var choice Choice
	for _, idx := range picked {
		choice.Types = append(choice.Types, names[idx])
	}

	kinds := schema.Kinds()
	kindOptions := make([]string, len(kinds))
	defaults := make([]int, 0, len(kinds))
	for i, kind := range kinds {
		kindOptions[i] = string(kind)
		defaults = append(defaults, i)
	}
	picked, err = driver.MultiSelect(ctx, SelectConfig{
		Message:  "Generators:",
		Options:  kindOptions,
		Defaults: defaults,
	})
	if err != nil {
		return Choice{}, err
	}
	if len(picked) == 0 {
		return Choice{}, fmt.Errorf("prompt: %w", ErrAborted)
	}
	for _, idx := range picked {
		choice.Generators = append(choice.Generators, kinds[idx])
	}
	return choice, nil
}

// ConfirmWrite asks before files are written.
func ConfirmWrite(ctx context.Context, driver Driver, paths []string) (bool, error) {
	if len(paths) == 0 {
		return false, nil
	}
	message := fmt.Sprintf("Write %d files?", len(paths))
	if len(paths) == 1 {
		message = fmt.Sprintf("Write %s?", paths[0])
	}
	return driver.Confirm(ctx, ConfirmConfig{Message: message, Default: true})
}

func label(pkg pkgsource.Package, record schema.RecordSpec) string {
	name := pkg.Name + "." + record.Name
	if record.File == "" {
		return name
	}
	return fmt.Sprintf("%s (%s:%d)", name, record.File, record.Pos.Line)
}
