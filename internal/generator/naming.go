package generator

import (
	"go/token"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/goliatone/go-podgen/pkg/schema"
)

// Naming derives Go identifiers for generated operations.
type Naming struct {
	GetterPrefix  string
	SetterPrefix  string
	WithPrefix    string
	MutSuffix     string
	BuilderSuffix string
	BuilderMethod string
	BuildMethod   string
	CtorPrefix    string
	// FollowVisibility makes every operation of an unexported field
	// unexported.
	FollowVisibility bool
}

// DefaultNaming returns the stock naming policy.
func DefaultNaming() Naming {
	return Naming{
		GetterPrefix:  "Get",
		SetterPrefix:  "Set",
		WithPrefix:    "With",
		MutSuffix:     "Mut",
		BuilderSuffix: "Builder",
		BuilderMethod: "Builder",
		BuildMethod:   "Build",
		CtorPrefix:    "New",
	}
}

func (n Naming) withDefaults() Naming {
	d := DefaultNaming()
	if n.GetterPrefix == "" {
		n.GetterPrefix = d.GetterPrefix
	}
	if n.SetterPrefix == "" {
		n.SetterPrefix = d.SetterPrefix
	}
	if n.WithPrefix == "" {
		n.WithPrefix = d.WithPrefix
	}
	if n.MutSuffix == "" {
		n.MutSuffix = d.MutSuffix
	}
	if n.BuilderSuffix == "" {
		n.BuilderSuffix = d.BuilderSuffix
	}
	if n.BuilderMethod == "" {
		n.BuilderMethod = d.BuilderMethod
	}
	if n.BuildMethod == "" {
		n.BuildMethod = d.BuildMethod
	}
	if n.CtorPrefix == "" {
		n.CtorPrefix = d.CtorPrefix
	}
	return n
}

// Getter names the read accessor: GetField0 for exported fields, Count for an
// unexported `count` field (getCount when following visibility).
func (n Naming) Getter(field schema.FieldSpec) string {
	if field.Exported() {
		return n.GetterPrefix + field.Name
	}
	if n.FollowVisibility {
		return lowerFirst(n.GetterPrefix) + upperFirst(field.Name)
	}
	return upperFirst(field.Name)
}

// Mut names the accessor returning a pointer to the field.
func (n Naming) Mut(field schema.FieldSpec) string {
	return n.fieldName(field) + n.MutSuffix
}

// Set names the in-place mutator.
func (n Naming) Set(field schema.FieldSpec) string {
	return n.prefixed(n.SetterPrefix, field)
}

// With names the copying mutator.
func (n Naming) With(field schema.FieldSpec) string {
	return n.prefixed(n.WithPrefix, field)
}

// BuilderType names the companion builder type.
func (n Naming) BuilderType(record string) string {
	return record + n.BuilderSuffix
}

// BuilderCtor names the function returning an empty builder.
func (n Naming) BuilderCtor(record string) string {
	return n.CtorPrefix + upperFirst(record) + n.BuilderSuffix
}

// Ctor names the record constructor.
func (n Naming) Ctor(record string) string {
	return n.CtorPrefix + upperFirst(record)
}

func (n Naming) fieldName(field schema.FieldSpec) string {
	if !field.Exported() && n.FollowVisibility {
		return field.Name
	}
	return upperFirst(field.Name)
}

func (n Naming) prefixed(prefix string, field schema.FieldSpec) string {
	if !field.Exported() && n.FollowVisibility {
		return lowerFirst(prefix) + upperFirst(field.Name)
	}
	return prefix + upperFirst(field.Name)
}

// ParamName turns a field name into a parameter name: Field0 -> field0,
// ID -> id, URLPath -> urlPath. Go keywords, predeclared identifiers and
// names in reserved get a trailing underscore.
func ParamName(field string, reserved map[string]struct{}) string {
	name := lowerInitialism(field)
	if name == "" || name == "_" {
		name = "v"
	}
	if _, taken := reserved[name]; taken || token.IsKeyword(name) || isPredeclared(name) {
		name += "_"
	}
	return name
}

// ReceiverName picks a short receiver name for typeName that does not clash
// with any of the names in use.
func ReceiverName(typeName string, inUse map[string]struct{}) string {
	candidates := []string{lowerInitialism(firstRune(typeName))}
	if initials := initialsOf(typeName); initials != candidates[0] {
		candidates = append(candidates, initials)
	}
	candidates = append(candidates, "rcv")
	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		if _, clash := inUse[candidate]; clash || token.IsKeyword(candidate) || isPredeclared(candidate) {
			continue
		}
		return candidate
	}
	for i := 1; ; i++ {
		candidate := "rcv" + strconv.Itoa(i)
		if _, clash := inUse[candidate]; !clash {
			return candidate
		}
	}
}

func isPredeclared(name string) bool {
	if schema.IsPredeclared(name) {
		return true
	}
	switch name {
	case "true", "false", "iota", "nil", "append", "cap", "clear", "close",
		"complex", "copy", "delete", "imag", "len", "make", "max", "min",
		"new", "panic", "print", "println", "real", "recover":
		return true
	}
	return false
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}

func firstRune(s string) string {
	_, size := utf8.DecodeRuneInString(s)
	return s[:size]
}

// lowerInitialism lowercases the leading run of upper case letters, keeping
// the last one when it starts the next word (URLPath -> urlPath).
func lowerInitialism(s string) string {
	runes := []rune(s)
	i := 0
	for i < len(runes) && unicode.IsUpper(runes[i]) {
		i++
	}
	switch {
	case i == 0:
		return s
	case i > 1 && i < len(runes) && unicode.IsLower(runes[i]):
		i--
	}
	for j := 0; j < i; j++ {
		runes[j] = unicode.ToLower(runes[j])
	}
	return string(runes)
}

func initialsOf(s string) string {
	var b strings.Builder
	for i, r := range s {
		if i == 0 || unicode.IsUpper(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}
