package parser

import (
	"context"
	"fmt"
	"go/ast"
	goparser "go/parser"
	"go/token"
	"path/filepath"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/goliatone/go-podgen/internal/directive"
	"github.com/goliatone/go-podgen/pkg/diag"
	"github.com/goliatone/go-podgen/pkg/schema"
	pkgsource "github.com/goliatone/go-podgen/pkg/source"
)

// Resolver supplies type information the syntax tree alone lacks. The
// semantic loader backs it with go/types; the syntactic parser runs without
// one.
type Resolver interface {
	// Type describes the type denoted by expr.
	Type(expr ast.Expr) (schema.TypeDescriptor, bool)
	// Shape classifies the underlying type denoted by expr.
	Shape(expr ast.Expr) (schema.Shape, bool)
}

// Parser implements pkgsource.Parser with go/parser.
type Parser struct{}

var _ pkgsource.Parser = (*Parser)(nil)

// New constructs a syntactic Parser.
func New() *Parser {
	return &Parser{}
}

// Parse extracts the selected records of one package from its documents.
func (p *Parser) Parse(ctx context.Context, docs []schema.Document, sel pkgsource.Selection) (pkgsource.Package, error) {
	if len(docs) == 0 {
		return pkgsource.Package{}, fmt.Errorf("source parser: no documents")
	}

	fset := token.NewFileSet()
	pkg := pkgsource.Package{Dir: filepath.Dir(docs[0].Name())}
	var problems diag.List
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return pkgsource.Package{}, err
		}
		file, err := goparser.ParseFile(fset, doc.Name(), doc.Raw(), goparser.ParseComments|goparser.SkipObjectResolution)
		if err != nil {
			return pkgsource.Package{}, fmt.Errorf("source parser: %w", err)
		}
		if pkg.Name == "" {
			pkg.Name = file.Name.Name
		} else if pkg.Name != file.Name.Name {
			return pkgsource.Package{}, fmt.Errorf("source parser: %s declares package %s, expected %s", doc.Name(), file.Name.Name, pkg.Name)
		}

		records, diags := Extract(fset, file, "", sel, nil)
		pkg.Records = append(pkg.Records, records...)
		problems.Add(diags...)
	}

	if missing := MissingTypes([]pkgsource.Package{pkg}, sel); len(missing) > 0 {
		return pkgsource.Package{}, fmt.Errorf("source parser: type %s not found in package %s", strings.Join(missing, ", "), pkg.Name)
	}
	if err := problems.Err(); err != nil {
		return pkgsource.Package{}, err
	}
	pkg.Warnings = problems.Warnings()
	schema.SortRecords(pkg.Records)
	return pkg, nil
}

// MissingTypes lists the explicitly selected types no package declares.
func MissingTypes(pkgs []pkgsource.Package, sel pkgsource.Selection) []string {
	var missing []string
	for _, name := range sel.Types {
		found := false
		for _, pkg := range pkgs {
			if _, ok := pkg.Record(name); ok {
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, name)
		}
	}
	return missing
}

// Extract builds the selected records declared in one file. Marker errors are
// returned as error diagnostics; ignored embedded fields as warnings.
func Extract(fset *token.FileSet, file *ast.File, pkgPath string, sel pkgsource.Selection, res Resolver) ([]schema.RecordSpec, diag.List) {
	imps, specs := fileImports(file)
	x := extractor{fset: fset, imps: imps, res: res}

	var (
		records []schema.RecordSpec
		diags   diag.List
	)
	for _, decl := range file.Decls {
		gen, ok := decl.(*ast.GenDecl)
		if !ok || gen.Tok != token.TYPE {
			continue
		}
		for _, spec := range gen.Specs {
			ts := spec.(*ast.TypeSpec)
			pos := x.position(ts.Name.Pos())

			docs := []*ast.CommentGroup{ts.Doc}
			if len(gen.Specs) == 1 {
				docs = append(docs, gen.Doc)
			}
			kinds, marked, err := findMarker(docs...)
			if err != nil {
				diags.Add(diag.New(diag.MalformedAttributeSyntax, pos, "%v", err).For(ts.Name.Name, ""))
				continue
			}
			generators, selected := choose(ts.Name.Name, marked, kinds, sel)
			if !selected {
				continue
			}

			record := schema.RecordSpec{
				Name:       ts.Name.Name,
				Package:    file.Name.Name,
				PkgPath:    pkgPath,
				File:       filepath.Base(x.position(file.Package).File),
				Imports:    specs,
				Generators: generators,
				Doc:        strings.TrimSpace(commentText(ts.Doc, gen.Doc, len(gen.Specs) == 1)),
				Pos:        pos,
			}
			if ts.TypeParams != nil {
				for _, field := range ts.TypeParams.List {
					constraint := x.describe(field.Type)
					for _, name := range field.Names {
						record.TypeParams = append(record.TypeParams, schema.TypeParam{Name: name.Name, Constraint: constraint})
					}
				}
			}
			diags.Add(x.fill(&record, ts)...)
			records = append(records, record)
		}
	}
	return records, diags
}

func choose(name string, marked bool, kinds []schema.Kind, sel pkgsource.Selection) ([]schema.Kind, bool) {
	switch {
	case len(sel.Types) > 0:
		if !slices.Contains(sel.Types, name) {
			return nil, false
		}
	case sel.All:
	case !marked:
		return nil, false
	}
	switch {
	case len(sel.Generators) > 0:
		return append([]schema.Kind(nil), sel.Generators...), true
	case len(kinds) > 0:
		return kinds, true
	default:
		return schema.Kinds(), true
	}
}

type extractor struct {
	fset *token.FileSet
	imps imports
	res  Resolver
}

func (x extractor) position(pos token.Pos) schema.Position {
	p := x.fset.Position(pos)
	return schema.Position{File: p.Filename, Line: p.Line, Column: p.Column}
}

func (x extractor) describe(expr ast.Expr) schema.TypeDescriptor {
	if x.res != nil {
		if t, ok := x.res.Type(expr); ok {
			return t
		}
	}
	return describe(expr, x.imps)
}

// fill sets the shape of the record and, for structs, its fields.
func (x extractor) fill(record *schema.RecordSpec, ts *ast.TypeSpec) diag.List {
	st, ok := ts.Type.(*ast.StructType)
	if !ok || ts.Assign.IsValid() {
		record.Underlying = x.describe(ts.Type)
		record.Shape = syntacticShape(ts.Type)
		if x.res != nil {
			if shape, ok := x.res.Shape(ts.Type); ok {
				record.Shape = shape
			}
		}
		return nil
	}

	for _, field := range st.Fields.List {
		typ := x.describe(field.Type)
		if len(field.Names) == 0 {
			record.Embedded = append(record.Embedded, typ)
			continue
		}
		tag := ""
		if field.Tag != nil {
			tag, _ = strconv.Unquote(field.Tag.Value)
		}
		doc := strings.TrimSpace(field.Doc.Text())
		if doc == "" {
			doc = strings.TrimSpace(field.Comment.Text())
		}
		for _, name := range field.Names {
			if name.Name == "_" {
				continue
			}
			spec := schema.FieldSpec{
				Name:       name.Name,
				Type:       typ,
				Visibility: schema.Private,
				Doc:        doc,
				Pos:        x.position(name.Pos()),
			}
			if name.IsExported() {
				spec.Visibility = schema.Public
			}
			spec.Attributes = tagAttributes(tag, spec.Pos)
			record.Fields = append(record.Fields, spec)
		}
	}

	switch {
	case len(record.Fields) == 0 && len(record.Embedded) == 0:
		record.Shape = schema.ShapeUnit
	case len(record.Fields) == 0:
		record.Shape = schema.ShapeTuple
	default:
		record.Shape = schema.ShapeStruct
	}

	if record.Shape != schema.ShapeStruct {
		return nil
	}
	var warnings diag.List
	for _, embedded := range record.Embedded {
		warnings.Add(diag.New(diag.IgnoredEmbeddedField, record.Pos,
			"embedded field %s of %s is not part of the generated accessors", embedded, record.Name).For(record.Name, ""))
	}
	return warnings
}

// tagAttributes tokenizes every generator namespace present in a struct tag.
func tagAttributes(tag string, pos schema.Position) []schema.Attribute {
	if tag == "" {
		return nil
	}
	var attrs []schema.Attribute
	st := reflect.StructTag(tag)
	for _, kind := range schema.Kinds() {
		if value, ok := st.Lookup(string(kind)); ok {
			attrs = append(attrs, directive.Tokenize(kind, value, pos)...)
		}
	}
	return attrs
}

func commentText(spec, decl *ast.CommentGroup, single bool) string {
	if spec != nil {
		return spec.Text()
	}
	if single && decl != nil {
		return decl.Text()
	}
	return ""
}
