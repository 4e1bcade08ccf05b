package parser

import (
	"go/ast"
	"go/types"

	"github.com/goliatone/go-podgen/pkg/schema"
)

// imports maps the qualifiers of one file to import paths.
type imports map[string]string

func fileImports(file *ast.File) (imports, []schema.Import) {
	byName := make(imports, len(file.Imports))
	specs := make([]schema.Import, 0, len(file.Imports))
	for _, spec := range file.Imports {
		path := unquote(spec.Path.Value)
		imp := schema.Import{Path: path}
		name := schema.ImportName(path)
		if spec.Name != nil {
			switch spec.Name.Name {
			case "_", ".":
				continue
			}
			imp.Name = spec.Name.Name
			name = spec.Name.Name
		}
		byName[name] = path
		specs = append(specs, imp)
	}
	return byName, specs
}

func unquote(lit string) string {
	if len(lit) >= 2 {
		return lit[1 : len(lit)-1]
	}
	return lit
}

// describe converts a type expression into a descriptor. Qualified names
// resolve through the file imports; unqualified names keep an empty PkgPath.
func describe(expr ast.Expr, imps imports) schema.TypeDescriptor {
	t := describeExpr(expr, imps)
	t.Expr = types.ExprString(expr)
	return t
}

func describeExpr(expr ast.Expr, imps imports) schema.TypeDescriptor {
	switch e := expr.(type) {
	case *ast.ParenExpr:
		return describeExpr(e.X, imps)
	case *ast.Ident:
		return schema.Named(e.Name)
	case *ast.SelectorExpr:
		if x, ok := e.X.(*ast.Ident); ok {
			return schema.Qualified(x.Name, imps[x.Name], e.Sel.Name)
		}
	case *ast.IndexExpr:
		return withArgs(describeExpr(e.X, imps), imps, e.Index)
	case *ast.IndexListExpr:
		return withArgs(describeExpr(e.X, imps), imps, e.Indices...)
	case *ast.StarExpr:
		return schema.PointerTo(describe(e.X, imps))
	case *ast.ArrayType:
		if e.Len == nil {
			return schema.SliceOf(describe(e.Elt, imps))
		}
		if _, ok := e.Len.(*ast.Ellipsis); ok {
			break
		}
		return schema.ArrayOf(types.ExprString(e.Len), describe(e.Elt, imps))
	case *ast.MapType:
		return schema.MapOf(describe(e.Key, imps), describe(e.Value, imps))
	case *ast.FuncType:
		return schema.Raw(schema.TypeFunc, types.ExprString(e))
	case *ast.ChanType:
		return schema.Raw(schema.TypeChan, types.ExprString(e))
	}
	return schema.Raw(schema.TypeOther, types.ExprString(expr))
}

func withArgs(base schema.TypeDescriptor, imps imports, args ...ast.Expr) schema.TypeDescriptor {
	if base.Kind != schema.TypeNamed {
		return base
	}
	described := make([]schema.TypeDescriptor, len(args))
	for i, arg := range args {
		described[i] = describe(arg, imps)
	}
	return schema.Qualified(base.Qualifier, base.PkgPath, base.Name, described...)
}

// syntacticShape classifies the right-hand side of a type declaration
// without type information.
func syntacticShape(expr ast.Expr) schema.Shape {
	switch e := expr.(type) {
	case *ast.ParenExpr:
		return syntacticShape(e.X)
	case *ast.StructType:
		return schema.ShapeStruct
	case *ast.InterfaceType:
		return schema.ShapeUnion
	case *ast.Ident:
		switch {
		case e.Name == "any" || e.Name == "error" || e.Name == "comparable":
			return schema.ShapeUnion
		case schema.IsPredeclared(e.Name):
			return schema.ShapeEnum
		}
	}
	return schema.ShapeOther
}
