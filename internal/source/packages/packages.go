package packages

import (
	"context"
	"errors"
	"fmt"
	"go/ast"
	"go/types"
	"strconv"
	"strings"

	"go.uber.org/multierr"
	gopackages "golang.org/x/tools/go/packages"

	"github.com/goliatone/go-podgen/internal/source/parser"
	"github.com/goliatone/go-podgen/pkg/diag"
	"github.com/goliatone/go-podgen/pkg/schema"
	pkgsource "github.com/goliatone/go-podgen/pkg/source"
)

const loadMode = gopackages.NeedName |
	gopackages.NeedFiles |
	gopackages.NeedCompiledGoFiles |
	gopackages.NeedSyntax |
	gopackages.NeedTypes |
	gopackages.NeedTypesInfo

// Loader implements pkgsource.PackageLoader on golang.org/x/tools/go/packages.
type Loader struct {
	dir          string
	tags         []string
	tests        bool
	skipSuffixes []string
}

var _ pkgsource.PackageLoader = (*Loader)(nil)

// New constructs a Loader from pre-resolved options.
func New(options pkgsource.LoaderOptions) *Loader {
	return &Loader{
		dir:          options.Dir,
		tags:         append([]string(nil), options.BuildTags...),
		tests:        options.IncludeTests,
		skipSuffixes: append([]string(nil), options.SkipSuffixes...),
	}
}

// LoadPackages type-checks the packages matching patterns and extracts their
// selected records. Package load errors are aggregated.
func (l *Loader) LoadPackages(ctx context.Context, patterns []string, sel pkgsource.Selection) ([]pkgsource.Package, error) {
	if len(patterns) == 0 {
		return nil, errors.New("packages loader: no patterns")
	}
	cfg := &gopackages.Config{
		Context: ctx,
		Mode:    loadMode,
		Dir:     l.dir,
		Tests:   l.tests,
	}
	if len(l.tags) > 0 {
		cfg.BuildFlags = []string{"-tags=" + strings.Join(l.tags, ",")}
	}

	loaded, err := gopackages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("packages loader: %w", err)
	}

	var errs error
	for _, pkg := range loaded {
		for _, perr := range pkg.Errors {
			errs = multierr.Append(errs, fmt.Errorf("packages loader: %s", perr))
		}
	}
	if errs != nil {
		return nil, errs
	}

	var (
		out      []pkgsource.Package
		problems diag.List
	)
	for _, pkg := range variants(loaded) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		result := pkgsource.Package{Name: pkg.Name, Path: pkg.PkgPath}
		for i, file := range pkg.Syntax {
			name := pkg.Fset.Position(file.Package).Filename
			if l.skipped(name) {
				continue
			}
			if result.Dir == "" && i < len(pkg.CompiledGoFiles) {
				result.Dir = dirOf(pkg.CompiledGoFiles[i])
			}
			records, diags := parser.Extract(pkg.Fset, file, pkg.PkgPath, sel, newResolver(pkg.Types, pkg.TypesInfo, file))
			result.Records = append(result.Records, records...)
			problems.Add(diags...)
		}
		if len(result.Records) == 0 {
			continue
		}
		schema.SortRecords(result.Records)
		for _, w := range problems.Warnings() {
			if _, ok := result.Record(w.Record); ok {
				result.Warnings.Add(w)
			}
		}
		out = append(out, result)
	}

	if missing := parser.MissingTypes(out, sel); len(missing) > 0 {
		return nil, fmt.Errorf("packages loader: type %s not found in %s", strings.Join(missing, ", "), strings.Join(patterns, " "))
	}
	if err := problems.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (l *Loader) skipped(name string) bool {
	if !l.tests && strings.HasSuffix(name, "_test.go") {
		return true
	}
	for _, suffix := range l.skipSuffixes {
		if suffix != "" && strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}

// variants keeps one package per import path. With tests enabled go/packages
// reports a package twice; the test variant is a superset and wins.
func variants(loaded []*gopackages.Package) []*gopackages.Package {
	index := make(map[string]int)
	var out []*gopackages.Package
	for _, pkg := range loaded {
		if strings.HasSuffix(pkg.PkgPath, ".test") {
			continue
		}
		key := pkg.PkgPath + "\x00" + pkg.Name
		if i, ok := index[key]; ok {
			if len(pkg.Syntax) > len(out[i].Syntax) {
				out[i] = pkg
			}
			continue
		}
		index[key] = len(out)
		out = append(out, pkg)
	}
	return out
}

func dirOf(file string) string {
	if i := strings.LastIndexAny(file, `/\`); i >= 0 {
		return file[:i]
	}
	return "."
}

// resolver answers type questions for one file of a type-checked package.
type resolver struct {
	pkg   *types.Package
	info  *types.Info
	names map[string]string
}

func newResolver(pkg *types.Package, info *types.Info, file *ast.File) *resolver {
	names := make(map[string]string, len(file.Imports))
	for _, spec := range file.Imports {
		path, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			continue
		}
		if spec.Name != nil {
			if spec.Name.Name != "_" && spec.Name.Name != "." {
				names[path] = spec.Name.Name
			}
			continue
		}
		if obj, ok := info.Implicits[spec].(*types.PkgName); ok {
			names[path] = obj.Name()
		}
	}
	return &resolver{pkg: pkg, info: info, names: names}
}

func (r *resolver) Type(expr ast.Expr) (schema.TypeDescriptor, bool) {
	t := r.info.TypeOf(expr)
	if t == nil {
		return schema.TypeDescriptor{}, false
	}
	return r.describe(t), true
}

func (r *resolver) Shape(expr ast.Expr) (schema.Shape, bool) {
	t := r.info.TypeOf(expr)
	if t == nil {
		return "", false
	}
	switch t.Underlying().(type) {
	case *types.Basic:
		return schema.ShapeEnum, true
	case *types.Interface:
		return schema.ShapeUnion, true
	default:
		return schema.ShapeOther, true
	}
}

func (r *resolver) describe(t types.Type) schema.TypeDescriptor {
	switch t := t.(type) {
	case *types.Alias:
		return r.named(t.Obj(), t.TypeArgs())
	case *types.Named:
		return r.named(t.Obj(), t.TypeArgs())
	case *types.Basic:
		if t.Kind() == types.UnsafePointer {
			return schema.Qualified("unsafe", "unsafe", "Pointer")
		}
		return schema.Named(t.Name())
	case *types.TypeParam:
		return schema.Named(t.Obj().Name())
	case *types.Pointer:
		return schema.PointerTo(r.describe(t.Elem()))
	case *types.Slice:
		return schema.SliceOf(r.describe(t.Elem()))
	case *types.Array:
		return schema.ArrayOf(strconv.FormatInt(t.Len(), 10), r.describe(t.Elem()))
	case *types.Map:
		return schema.MapOf(r.describe(t.Key()), r.describe(t.Elem()))
	case *types.Signature:
		return schema.Raw(schema.TypeFunc, types.TypeString(t, r.qualify))
	case *types.Chan:
		return schema.Raw(schema.TypeChan, types.TypeString(t, r.qualify))
	}
	return schema.Raw(schema.TypeOther, types.TypeString(t, r.qualify))
}

func (r *resolver) named(obj *types.TypeName, list *types.TypeList) schema.TypeDescriptor {
	var args []schema.TypeDescriptor
	for i := 0; i < list.Len(); i++ {
		args = append(args, r.describe(list.At(i)))
	}
	pkg := obj.Pkg()
	switch {
	case pkg == nil:
		return schema.Named(obj.Name(), args...)
	case pkg == r.pkg:
		return schema.Qualified("", pkg.Path(), obj.Name(), args...)
	}
	return schema.Qualified(r.qualify(pkg), pkg.Path(), obj.Name(), args...)
}

func (r *resolver) qualify(pkg *types.Package) string {
	if pkg == r.pkg {
		return ""
	}
	if name, ok := r.names[pkg.Path()]; ok {
		return name
	}
	return pkg.Name()
}
