package podgen

import (
	"context"
	"errors"
	"io/fs"

	internalLoader "github.com/goliatone/go-podgen/internal/source/loader"
	internalPackages "github.com/goliatone/go-podgen/internal/source/packages"
	internalParser "github.com/goliatone/go-podgen/internal/source/parser"
	"github.com/goliatone/go-podgen/pkg/schema"
	pkgsource "github.com/goliatone/go-podgen/pkg/source"
)

// NewLoader constructs a file loader using the internal implementation while
// keeping the concrete type hidden from consumers.
func NewLoader(options ...pkgsource.LoaderOption) pkgsource.Loader {
	return internalLoader.New(pkgsource.NewLoaderOptions(options...))
}

// NewParser constructs the syntactic parser.
func NewParser() pkgsource.Parser {
	return internalParser.New()
}

// NewPackageLoader constructs the go/packages backed loader.
func NewPackageLoader(options ...pkgsource.LoaderOption) pkgsource.PackageLoader {
	return internalPackages.New(pkgsource.NewLoaderOptions(options...))
}

// ParseSource reads the records of a file, directory or fs source without
// type checking. Package pattern sources are delegated to LoadPackages and
// must resolve to a single package.
func ParseSource(ctx context.Context, src schema.Source, sel pkgsource.Selection, options ...pkgsource.LoaderOption) (pkgsource.Package, error) {
	if patterns, ok := schema.PackagePatterns(src); ok {
		pkgs, err := LoadPackages(ctx, patterns, sel, options...)
		if err != nil {
			return pkgsource.Package{}, err
		}
		if len(pkgs) != 1 {
			return pkgsource.Package{}, errors.New("podgen: package patterns must match exactly one package with records")
		}
		return pkgs[0], nil
	}
	docs, err := NewLoader(options...).Load(ctx, src)
	if err != nil {
		return pkgsource.Package{}, err
	}
	return NewParser().Parse(ctx, docs, sel)
}

// ParseFile reads the records of one Go file.
func ParseFile(ctx context.Context, path string, sel pkgsource.Selection) (pkgsource.Package, error) {
	return ParseSource(ctx, schema.SourceFromFile(path), sel)
}

// ParseDir reads the records of the package in dir.
func ParseDir(ctx context.Context, dir string, sel pkgsource.Selection, options ...pkgsource.LoaderOption) (pkgsource.Package, error) {
	return ParseSource(ctx, schema.SourceFromDir(dir), sel, options...)
}

// ParseFS reads the records of a file or directory inside fsys.
func ParseFS(ctx context.Context, fsys fs.FS, name string, sel pkgsource.Selection) (pkgsource.Package, error) {
	return ParseSource(ctx, schema.SourceFromFS(name), sel, pkgsource.WithFileSystem(fsys))
}

// LoadPackages resolves package patterns with go/packages, giving records
// fully resolved field types.
func LoadPackages(ctx context.Context, patterns []string, sel pkgsource.Selection, options ...pkgsource.LoaderOption) ([]pkgsource.Package, error) {
	return NewPackageLoader(options...).LoadPackages(ctx, patterns, sel)
}
