package schema

import (
	"fmt"
	"sort"
	"strings"
)

// Kind names a generator. It doubles as the struct tag namespace that carries
// the generator's directives.
type Kind string

const (
	KindBuilder Kind = "builder"
	KindGetters Kind = "getters"
	KindSetters Kind = "setters"
	KindFields  Kind = "fields"
	KindCtor    Kind = "ctor"
)

// Kinds lists every generator in canonical order.
func Kinds() []Kind {
	return []Kind{KindBuilder, KindGetters, KindSetters, KindFields, KindCtor}
}

// ParseKind resolves a generator name, case-insensitively.
func ParseKind(raw string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(raw))) {
	case KindBuilder:
		return KindBuilder, nil
	case KindGetters:
		return KindGetters, nil
	case KindSetters:
		return KindSetters, nil
	case KindFields:
		return KindFields, nil
	case KindCtor:
		return KindCtor, nil
	}
	return "", fmt.Errorf("schema: unknown generator %q", raw)
}

// ParseKinds resolves a comma separated generator list, dropping duplicates
// while keeping the first occurrence order.
func ParseKinds(raw string) ([]Kind, error) {
	var kinds []Kind
	seen := make(map[Kind]struct{})
	for _, part := range strings.Split(raw, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		kind, err := ParseKind(part)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[kind]; ok {
			continue
		}
		seen[kind] = struct{}{}
		kinds = append(kinds, kind)
	}
	return kinds, nil
}

// Title returns the display name used in messages ("Builder", "Ctor", ...).
func (k Kind) Title() string {
	if k == "" {
		return ""
	}
	return strings.ToUpper(string(k[:1])) + string(k[1:])
}

// Visibility is the export status of a field, propagated verbatim into the
// generated signatures.
type Visibility string

const (
	Private Visibility = "private"
	Public  Visibility = "public"
)

// Position locates a declaration in its source file. Line and Column are
// 1-based; the zero value means "unknown".
type Position struct {
	File   string `json:"file,omitempty" yaml:"file,omitempty"`
	Line   int    `json:"line,omitempty" yaml:"line,omitempty"`
	Column int    `json:"column,omitempty" yaml:"column,omitempty"`
}

// IsValid reports whether the position carries a line.
func (p Position) IsValid() bool {
	return p.Line > 0
}

func (p Position) String() string {
	switch {
	case p.File == "" && !p.IsValid():
		return "-"
	case !p.IsValid():
		return p.File
	case p.Column > 0:
		return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
	default:
		return fmt.Sprintf("%s:%d", p.File, p.Line)
	}
}

// Shape is the structural category of a declared type.
type Shape string

const (
	ShapeStruct Shape = "struct"
	// ShapeUnit is a struct without fields.
	ShapeUnit Shape = "unit"
	// ShapeTuple is a struct whose only fields are embedded (positional).
	ShapeTuple Shape = "tuple"
	// ShapeEnum is a defined type over a basic type, the Go rendition of a
	// closed set of constants.
	ShapeEnum Shape = "enum"
	// ShapeUnion is an interface or type-set declaration.
	ShapeUnion Shape = "union"
	ShapeOther Shape = "other"
)

// FieldSpec describes one named field of a record.
type FieldSpec struct {
	Name       string
	Type       TypeDescriptor
	Visibility Visibility
	Attributes []Attribute
	Doc        string
	Pos        Position
}

// Namespace returns the attributes of a single namespace in source order.
func (f FieldSpec) Namespace(kind Kind) []Attribute {
	var out []Attribute
	for _, attr := range f.Attributes {
		if attr.Namespace == kind {
			out = append(out, attr)
		}
	}
	return out
}

// Exported reports whether the field is public.
func (f FieldSpec) Exported() bool {
	return f.Visibility == Public
}

// TypeParam is one type parameter of a generic record.
type TypeParam struct {
	Name       string
	Constraint TypeDescriptor
}

// Import is an import spec of the file declaring a record.
type Import struct {
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
	Path string `json:"path" yaml:"path"`
}

// RecordSpec is the structural description of one declared type.
type RecordSpec struct {
	Name    string
	Package string
	PkgPath string
	// File is the base name of the declaring file.
	File  string
	Shape Shape
	// Underlying is the type expression of non-struct declarations.
	Underlying TypeDescriptor
	Fields     []FieldSpec
	Embedded   []TypeDescriptor
	TypeParams []TypeParam
	Imports    []Import
	Generators []Kind
	Doc        string
	Pos        Position
}

// Field looks up a field by name.
func (r RecordSpec) Field(name string) (FieldSpec, bool) {
	for _, field := range r.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return FieldSpec{}, false
}

// Wants reports whether the generator was requested for the record.
func (r RecordSpec) Wants(kind Kind) bool {
	for _, candidate := range r.Generators {
		if candidate == kind {
			return true
		}
	}
	return false
}

// Generic reports whether the record declares type parameters.
func (r RecordSpec) Generic() bool {
	return len(r.TypeParams) > 0
}

// ImportPath resolves a qualifier to the import path declared by the record's
// file. Unaliased imports match on their last path element.
func (r RecordSpec) ImportPath(qualifier string) (string, bool) {
	for _, imp := range r.Imports {
		if imp.Name == qualifier {
			return imp.Path, true
		}
	}
	for _, imp := range r.Imports {
		if imp.Name == "" && ImportName(imp.Path) == qualifier {
			return imp.Path, true
		}
	}
	return "", false
}

// ImportName guesses the package name of an import path: the last element
// with a major version suffix (`/v2`) or a `.vN` suffix (`yaml.v3`) removed.
func ImportName(path string) string {
	elems := strings.Split(path, "/")
	name := elems[len(elems)-1]
	if len(elems) > 1 && isMajorVersion(name) {
		name = elems[len(elems)-2]
	}
	if idx := strings.Index(name, ".v"); idx > 0 && isDigits(name[idx+2:]) {
		name = name[:idx]
	}
	name = strings.TrimPrefix(name, "go-")
	return strings.ReplaceAll(name, "-", "_")
}

func isMajorVersion(elem string) bool {
	return len(elem) > 1 && elem[0] == 'v' && isDigits(elem[1:])
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// SortRecords orders records by file, then declaration line, then name.
func SortRecords(records []RecordSpec) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Pos.Line != b.Pos.Line {
			return a.Pos.Line < b.Pos.Line
		}
		return a.Name < b.Name
	})
}
