package source

import (
	"context"
	"io/fs"

	"github.com/goliatone/go-podgen/pkg/diag"
	"github.com/goliatone/go-podgen/pkg/schema"
)

// MarkerPrefix introduces the comment marker selecting a type for
// generation: `// +podgen:generate=builder,getters`.
const MarkerPrefix = "+podgen:generate"

// Package groups the records declared by one Go package.
type Package struct {
	Name string
	// Path is the import path, when known.
	Path string
	// Dir is the directory holding the files, relative to the loader's
	// filesystem for fs sources.
	Dir      string
	Records  []schema.RecordSpec
	Warnings diag.List
}

// Record looks up a record by name.
func (p Package) Record(name string) (schema.RecordSpec, bool) {
	for _, record := range p.Records {
		if record.Name == name {
			return record, true
		}
	}
	return schema.RecordSpec{}, false
}

// Selection decides which declared types become records and which
// generators run for them.
type Selection struct {
	// Types selects declarations by name. When empty, types carrying the
	// marker comment are selected.
	Types []string
	// All selects every type declaration; used to discover candidates.
	All bool
	// Generators overrides the generators requested by markers. When both are
	// empty every generator runs.
	Generators []schema.Kind
}

// Loader fetches the Go files of a file, directory or fs.FS source.
type Loader interface {
	Load(ctx context.Context, src schema.Source) ([]schema.Document, error)
}

// Parser extracts records from the documents of one package.
type Parser interface {
	Parse(ctx context.Context, docs []schema.Document, sel Selection) (Package, error)
}

// PackageLoader resolves package patterns with full type information.
type PackageLoader interface {
	LoadPackages(ctx context.Context, patterns []string, sel Selection) ([]Package, error)
}

// LoaderOptions configures the loaders.
type LoaderOptions struct {
	// FileSystem serves fs sources.
	FileSystem fs.FS
	// IncludeTests keeps _test.go files.
	IncludeTests bool
	// SkipSuffixes lists file name suffixes never read, typically the
	// generated output suffix.
	SkipSuffixes []string
	// BuildTags are passed to go/packages.
	BuildTags []string
	// Dir is the working directory for go/packages.
	Dir string
}

// LoaderOption mutates LoaderOptions prior to construction.
type LoaderOption func(*LoaderOptions)

// WithFileSystem injects an fs.FS for fs sources.
func WithFileSystem(files fs.FS) LoaderOption {
	return func(opts *LoaderOptions) {
		opts.FileSystem = files
	}
}

// WithTests includes _test.go files.
func WithTests() LoaderOption {
	return func(opts *LoaderOptions) {
		opts.IncludeTests = true
	}
}

// WithSkipSuffixes ignores files ending with any of the suffixes.
func WithSkipSuffixes(suffixes ...string) LoaderOption {
	return func(opts *LoaderOptions) {
		opts.SkipSuffixes = append(opts.SkipSuffixes, suffixes...)
	}
}

// WithBuildTags forwards build tags to go/packages.
func WithBuildTags(tags ...string) LoaderOption {
	return func(opts *LoaderOptions) {
		opts.BuildTags = append(opts.BuildTags, tags...)
	}
}

// WithDir sets the go/packages working directory.
func WithDir(dir string) LoaderOption {
	return func(opts *LoaderOptions) {
		opts.Dir = dir
	}
}

// NewLoaderOptions applies a set of LoaderOption values.
func NewLoaderOptions(options ...LoaderOption) LoaderOptions {
	cfg := LoaderOptions{}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
