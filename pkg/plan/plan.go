// Package plan describes generated code abstractly: operations with their
// signatures and bodies, the builder companion type and the trace of applied
// directives. Renderers turn plans into source.
package plan

import (
	"github.com/goliatone/go-podgen/pkg/diag"
	"github.com/goliatone/go-podgen/pkg/schema"
)

// OpKind is the abstract role of a generated operation.
type OpKind string

const (
	OpGet  OpKind = "get"
	OpMut  OpKind = "mut"
	OpSet  OpKind = "set"
	OpWith OpKind = "with"
	// OpBuild resolves a builder into its record.
	OpBuild OpKind = "build"
	// OpNew is a package level constructor.
	OpNew OpKind = "new"
	// OpBuilderEntry is the record method returning an empty builder.
	OpBuilderEntry OpKind = "builder"
)

// Receiver is how a method binds its owner.
type Receiver string

const (
	ReceiverNone    Receiver = ""
	ReceiverValue   Receiver = "value"
	ReceiverPointer Receiver = "pointer"
)

// Ref is the indirection applied to a type in a signature.
type Ref string

const (
	// RefValue is T.
	RefValue Ref = "value"
	// RefOptional is the comma-ok pair (T, bool).
	RefOptional Ref = "optional"
	// RefMutable is *T pointing into the owner.
	RefMutable Ref = "mutable"
	// RefPresence is *T used as a presence container: nil means absent.
	RefPresence Ref = "presence"
	// RefPresenceMutable is **T pointing at a presence container.
	RefPresenceMutable Ref = "presence_mutable"
)

// TypeRef is a type with its indirection.
type TypeRef struct {
	Ref  Ref
	Type schema.TypeDescriptor
}

// Value returns a RefValue type reference.
func Value(t schema.TypeDescriptor) TypeRef { return TypeRef{Ref: RefValue, Type: t} }

// Mutable returns a RefMutable type reference.
func Mutable(t schema.TypeDescriptor) TypeRef { return TypeRef{Ref: RefMutable, Type: t} }

func (r TypeRef) String() string {
	switch r.Ref {
	case RefOptional:
		return "(" + r.Type.String() + ", bool)"
	case RefMutable, RefPresence:
		return "*" + r.Type.String()
	case RefPresenceMutable:
		return "**" + r.Type.String()
	}
	return r.Type.String()
}

// Param is a named parameter.
type Param struct {
	Name string
	Type TypeRef
}

// BodyKind is the abstract statement list of an operation.
type BodyKind string

const (
	// BodyReturnField returns the field (or slot) as is.
	BodyReturnField BodyKind = "return_field"
	// BodyReturnUnwrapped returns the comma-ok read of a wrapped field.
	BodyReturnUnwrapped BodyKind = "return_unwrapped"
	// BodyReturnFieldAddr returns the address of the field (or slot).
	BodyReturnFieldAddr BodyKind = "return_field_addr"
	// BodyAssignReturnSelf assigns the parameter to the field and returns the
	// receiver.
	BodyAssignReturnSelf BodyKind = "assign_return_self"
	// BodyAssignPresenceReturnSelf stores the address of the parameter in a
	// builder slot and returns the receiver.
	BodyAssignPresenceReturnSelf BodyKind = "assign_presence_return_self"
	// BodyReturnZero returns the zero value of the result type.
	BodyReturnZero BodyKind = "return_zero"
	// BodyBuild resolves every builder slot.
	BodyBuild BodyKind = "build"
	// BodyConstruct allocates the record from parameters and fixed values.
	BodyConstruct BodyKind = "construct"
)

// Body describes what an operation does.
type Body struct {
	Kind  BodyKind
	Field string
	Param string
	// Getter is the comma-ok accessor used by BodyReturnUnwrapped.
	Getter      string
	Resolutions []Resolution
	Inits       []Init
}

// Fallback is how Build fills a slot that was never supplied.
type Fallback string

const (
	// FallbackZero leaves the zero value of the field type.
	FallbackZero Fallback = "zero"
	// FallbackDefault assigns the directive expression verbatim.
	FallbackDefault Fallback = "default"
	// FallbackWrappedDefault assigns the directive expression wrapped with the
	// optional container's constructor.
	FallbackWrappedDefault Fallback = "wrapped_default"
)

// Resolution is how Build fills one field.
type Resolution struct {
	Field    string
	Fallback Fallback
	Expr     string
	// Wrap is set for FallbackWrappedDefault.
	Wrap *WrapCall
}

// WrapCall is the constructor call re-wrapping a default value, e.g.
// `mo.Some[uint](42)`.
type WrapCall struct {
	Qualifier string
	PkgPath   string
	Func      string
	TypeArg   schema.TypeDescriptor
}

// Init initialises one field in a constructor, from a parameter or from a
// fixed expression.
type Init struct {
	Field string
	Param string
	Expr  string
}

// Operation is one generated function or method.
type Operation struct {
	Kind OpKind
	// Name is the Go identifier.
	Name  string
	Field string
	// Owner is the type the method is declared on; empty for functions.
	Owner      string
	Receiver   Receiver
	Params     []Param
	Results    []TypeRef
	Body       Body
	Doc        string
	Visibility schema.Visibility
}

// Slot is one field of the builder companion type.
type Slot struct {
	Name       string
	Type       schema.TypeDescriptor
	Visibility schema.Visibility
	Wrapped    bool
}

// Companion is the builder type generated next to a record.
type Companion struct {
	Name  string
	Slots []Slot
	Doc   string
}

// TraceEntry records one directive applied by a generator.
type TraceEntry struct {
	Record    string
	Field     string
	Directive string
	Value     string
}

// Plan is the output of one generator for one record.
type Plan struct {
	Generator  schema.Kind
	Record     string
	Package    string
	File       string
	TypeParams []schema.TypeParam
	Imports    []schema.Import
	Builder    *Companion
	Operations []Operation
	// Receivers maps each owner type to its receiver name.
	Receivers map[string]string
	Trace     []TraceEntry
	Warnings  diag.List
}

// Names returns the operation identifiers in plan order.
func (p Plan) Names() []string {
	if len(p.Operations) == 0 {
		return nil
	}
	out := make([]string, len(p.Operations))
	for i, op := range p.Operations {
		out[i] = op.Name
	}
	return out
}

// Operation looks up an operation by owner and name.
func (p Plan) Operation(owner, name string) (Operation, bool) {
	for _, op := range p.Operations {
		if op.Owner == owner && op.Name == name {
			return op, true
		}
	}
	return Operation{}, false
}

// Find returns the operations of a kind declared for a field.
func (p Plan) Find(kind OpKind, field string) []Operation {
	var out []Operation
	for _, op := range p.Operations {
		if op.Kind == kind && op.Field == field {
			out = append(out, op)
		}
	}
	return out
}

// SelfType returns the descriptor of a type declared with the plan's type
// parameters, e.g. `Data[T]`.
func (p Plan) SelfType(name string) schema.TypeDescriptor {
	if len(p.TypeParams) == 0 {
		return schema.Named(name)
	}
	args := make([]schema.TypeDescriptor, 0, len(p.TypeParams))
	for _, tp := range p.TypeParams {
		args = append(args, schema.Named(tp.Name))
	}
	return schema.Named(name, args...)
}
