// Package typeshape classifies field types as plain or wrapped in a
// single-argument optional container.
package typeshape

import (
	"fmt"

	"github.com/goliatone/go-podgen/pkg/diag"
	"github.com/goliatone/go-podgen/pkg/schema"
)

// Wrapper describes an optional container type and how generated code reads
// and builds it.
type Wrapper struct {
	// Name is the type name matched against the outermost named type.
	Name string `json:"name" yaml:"name" validate:"required"`
	// PkgPath pins the wrapper to an import path. Empty matches any package.
	PkgPath string `json:"pkg_path,omitempty" yaml:"pkg_path,omitempty"`
	// Get is the comma-ok accessor method: `func (o Option[T]) Get() (T, bool)`.
	Get string `json:"get,omitempty" yaml:"get,omitempty"`
	// Some is the constructor building a present value: `Some[T](v T)`.
	Some string `json:"some,omitempty" yaml:"some,omitempty"`
}

// DefaultWrapper matches `Option[T]` from any package.
func DefaultWrapper() Wrapper {
	return Wrapper{Name: "Option", Get: "Get", Some: "Some"}
}

func (w Wrapper) normalized() Wrapper {
	if w.Get == "" {
		w.Get = "Get"
	}
	if w.Some == "" {
		w.Some = "Some"
	}
	return w
}

// Shape is the result of classification.
type Shape struct {
	Wrapped bool
	// Outer is the declared type, always.
	Outer schema.TypeDescriptor
	// Inner is the first type argument of a wrapped type, the declared type
	// otherwise.
	Inner   schema.TypeDescriptor
	Wrapper Wrapper
}

// Plain returns the shape of an unwrapped type.
func Plain(t schema.TypeDescriptor) Shape {
	return Shape{Outer: t, Inner: t}
}

// Classifier matches field types against a configured wrapper set.
type Classifier struct {
	wrappers []Wrapper
}

// New builds a classifier. With no wrappers the default set is used.
func New(wrappers ...Wrapper) *Classifier {
	if len(wrappers) == 0 {
		wrappers = []Wrapper{DefaultWrapper()}
	}
	normalized := make([]Wrapper, len(wrappers))
	for i, w := range wrappers {
		normalized[i] = w.normalized()
	}
	return &Classifier{wrappers: normalized}
}

// Wrappers returns the configured wrapper set.
func (c *Classifier) Wrappers() []Wrapper {
	return append([]Wrapper(nil), c.wrappers...)
}

// Classify decides whether t is wrapped. It is pure: the same descriptor
// always yields the same shape and warnings.
func (c *Classifier) Classify(t schema.TypeDescriptor) (Shape, diag.List) {
	if t.Kind != schema.TypeNamed {
		return Plain(t), nil
	}

	var (
		warnings diag.List
		shadowed *Wrapper
	)
	for i := range c.wrappers {
		w := c.wrappers[i]
		if w.Name != t.Name {
			continue
		}
		switch {
		case w.PkgPath == "":
		case t.PkgPath == "":
			warnings.Add(diag.New(diag.UnresolvedWrapper, schema.Position{},
				"type %s matches wrapper %s by name only; import path %s could not be verified", t, w.Name, w.PkgPath))
		case t.PkgPath != w.PkgPath:
			if shadowed == nil {
				shadowed = &w
			}
			continue
		}
		return c.wrapped(t, w, warnings)
	}

	if shadowed != nil {
		warnings.Add(diag.New(diag.ShadowedWrapper, schema.Position{},
			"type %s is named like wrapper %s but comes from %s, not %s; treated as plain", t, shadowed.Name, t.PkgPath, shadowed.PkgPath))
	}
	return Plain(t), warnings
}

func (c *Classifier) wrapped(t schema.TypeDescriptor, w Wrapper, warnings diag.List) (Shape, diag.List) {
	switch len(t.Args) {
	case 0:
		warnings.Add(diag.New(diag.AmbiguousWrapper, schema.Position{},
			"type %s matches wrapper %s without a type argument; treated as plain", t, w.Name))
		return Plain(t), warnings
	case 1:
	default:
		warnings.Add(diag.New(diag.AmbiguousWrapper, schema.Position{},
			"type %s matches wrapper %s with %d type arguments; using the first", t, w.Name, len(t.Args)))
	}
	return Shape{Wrapped: true, Outer: t, Inner: t.Args[0], Wrapper: w}, warnings
}

// ClassifyField classifies a field and scopes the warnings to it.
func (c *Classifier) ClassifyField(field schema.FieldSpec) (Shape, diag.List) {
	shape, warnings := c.Classify(field.Type)
	for i := range warnings {
		warnings[i].Field = field.Name
		warnings[i].Pos = field.Pos
	}
	return shape, warnings
}

// Classify uses the default wrapper set.
func Classify(t schema.TypeDescriptor) (Shape, diag.List) {
	return New().Classify(t)
}

func (s Shape) String() string {
	if !s.Wrapped {
		return fmt.Sprintf("Plain(%s)", s.Outer)
	}
	return fmt.Sprintf("Wrapped(%s, %s)", s.Outer, s.Inner)
}
