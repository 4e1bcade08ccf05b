package schema

import "strings"

// TypeKind is the outermost constructor of a type expression.
type TypeKind string

const (
	TypeNamed   TypeKind = "named"
	TypePointer TypeKind = "pointer"
	TypeSlice   TypeKind = "slice"
	TypeArray   TypeKind = "array"
	TypeMap     TypeKind = "map"
	TypeFunc    TypeKind = "func"
	TypeChan    TypeKind = "chan"
	// TypeOther covers literal types kept as source text only (interfaces,
	// anonymous structs, ...).
	TypeOther TypeKind = "other"
)

// TypeDescriptor is the structural description of a field type. Expr always
// holds the source text; the remaining fields decompose it where the front end
// could.
type TypeDescriptor struct {
	Kind TypeKind
	Expr string
	// Qualifier is the package qualifier as written (`mo` in `mo.Option[T]`).
	Qualifier string
	// PkgPath is the resolved import path of a named type, empty when unknown
	// or predeclared.
	PkgPath string
	Name    string
	Args    []TypeDescriptor
	Elem    *TypeDescriptor
	Key     *TypeDescriptor
	// Len is the array length expression.
	Len string
}

// Named returns a descriptor for an unqualified named type.
func Named(name string, args ...TypeDescriptor) TypeDescriptor {
	return Qualified("", "", name, args...)
}

// Qualified returns a descriptor for a named type imported from pkgPath.
func Qualified(qualifier, pkgPath, name string, args ...TypeDescriptor) TypeDescriptor {
	t := TypeDescriptor{
		Kind:      TypeNamed,
		Qualifier: qualifier,
		PkgPath:   pkgPath,
		Name:      name,
		Args:      args,
	}
	t.Expr = t.render()
	return t
}

// PointerTo returns a descriptor for *elem.
func PointerTo(elem TypeDescriptor) TypeDescriptor {
	return compose(TypePointer, elem, nil, "")
}

// SliceOf returns a descriptor for []elem.
func SliceOf(elem TypeDescriptor) TypeDescriptor {
	return compose(TypeSlice, elem, nil, "")
}

// ArrayOf returns a descriptor for [n]elem.
func ArrayOf(n string, elem TypeDescriptor) TypeDescriptor {
	return compose(TypeArray, elem, nil, n)
}

// MapOf returns a descriptor for map[key]elem.
func MapOf(key, elem TypeDescriptor) TypeDescriptor {
	return compose(TypeMap, elem, &key, "")
}

// Raw returns a descriptor kept as source text only.
func Raw(kind TypeKind, expr string) TypeDescriptor {
	return TypeDescriptor{Kind: kind, Expr: expr}
}

func compose(kind TypeKind, elem TypeDescriptor, key *TypeDescriptor, n string) TypeDescriptor {
	e := elem
	t := TypeDescriptor{Kind: kind, Elem: &e, Key: key, Len: n}
	t.Expr = t.render()
	return t
}

// String returns the source text of the type.
func (t TypeDescriptor) String() string {
	if t.Expr != "" {
		return t.Expr
	}
	return t.render()
}

// IsZero reports whether the descriptor is empty.
func (t TypeDescriptor) IsZero() bool {
	return t.Kind == "" && t.Expr == ""
}

// Predeclared reports whether t names a predeclared type such as int or error.
func (t TypeDescriptor) Predeclared() bool {
	return t.Kind == TypeNamed && t.Qualifier == "" && t.PkgPath == "" && len(t.Args) == 0 && IsPredeclared(t.Name)
}

// Qualifiers returns every package qualifier referenced by the type, in
// first-seen order.
func (t TypeDescriptor) Qualifiers() []string {
	var out []string
	seen := make(map[string]struct{})
	var walk func(TypeDescriptor)
	walk = func(d TypeDescriptor) {
		if d.Qualifier != "" {
			if _, ok := seen[d.Qualifier]; !ok {
				seen[d.Qualifier] = struct{}{}
				out = append(out, d.Qualifier)
			}
		}
		if d.Key != nil {
			walk(*d.Key)
		}
		if d.Elem != nil {
			walk(*d.Elem)
		}
		for _, arg := range d.Args {
			walk(arg)
		}
	}
	walk(t)
	return out
}

func (t TypeDescriptor) render() string {
	switch t.Kind {
	case TypeNamed:
		var b strings.Builder
		if t.Qualifier != "" {
			b.WriteString(t.Qualifier)
			b.WriteByte('.')
		}
		b.WriteString(t.Name)
		if len(t.Args) > 0 {
			b.WriteByte('[')
			for i, arg := range t.Args {
				if i > 0 {
					b.WriteString(", ")
				}
				b.WriteString(arg.String())
			}
			b.WriteByte(']')
		}
		return b.String()
	case TypePointer:
		return "*" + t.elemString()
	case TypeSlice:
		return "[]" + t.elemString()
	case TypeArray:
		return "[" + t.Len + "]" + t.elemString()
	case TypeMap:
		key := ""
		if t.Key != nil {
			key = t.Key.String()
		}
		return "map[" + key + "]" + t.elemString()
	}
	return t.Expr
}

func (t TypeDescriptor) elemString() string {
	if t.Elem == nil {
		return ""
	}
	return t.Elem.String()
}

var predeclaredTypes = map[string]struct{}{
	"any": {}, "bool": {}, "byte": {}, "comparable": {}, "complex64": {},
	"complex128": {}, "error": {}, "float32": {}, "float64": {}, "int": {},
	"int8": {}, "int16": {}, "int32": {}, "int64": {}, "rune": {},
	"string": {}, "uint": {}, "uint8": {}, "uint16": {}, "uint32": {},
	"uint64": {}, "uintptr": {},
}

// IsPredeclared reports whether name is a predeclared Go type.
func IsPredeclared(name string) bool {
	_, ok := predeclaredTypes[name]
	return ok
}
