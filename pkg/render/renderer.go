// Package render defines the contract between plans and emitted files, plus a
// name-keyed registry of renderers.
package render

import (
	"context"
	"strings"

	"github.com/goliatone/go-podgen/pkg/plan"
)

// DefaultHeader is the leading comment of generated files.
const DefaultHeader = "Code generated by podgen. DO NOT EDIT."

// Unit is the input of one render: the plans generated for the records of one
// source file, in record then generator order.
type Unit struct {
	Package string
	// PkgPath is the import path of the package, when the semantic loader
	// resolved it.
	PkgPath string
	Dir     string
	// File is the base name of the source file declaring the records.
	File  string
	Plans []plan.Plan
}

// Options carry per-request output settings.
type Options struct {
	// Header overrides DefaultHeader.
	Header string
	// Suffix replaces the .go extension of the source file name. Empty keeps
	// the renderer's default.
	Suffix string
}

// HeaderOr returns the configured header or DefaultHeader.
func (o Options) HeaderOr() string {
	if strings.TrimSpace(o.Header) == "" {
		return DefaultHeader
	}
	return o.Header
}

// Output is one rendered file, named relative to the unit's Dir.
type Output struct {
	Name string
	Data []byte
}

// Renderer converts a Unit into file contents (Go source, YAML, ...).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, unit Unit, options Options) (Output, error)
}

// OutputName derives the generated file name from the source file name:
// data.go with suffix _podgen.go becomes data_podgen.go.
func OutputName(file, suffix string) string {
	return strings.TrimSuffix(file, ".go") + suffix
}
