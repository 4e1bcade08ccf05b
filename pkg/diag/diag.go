// Package diag defines the structured diagnostics produced while validating
// records, parsing directives and classifying field types.
package diag

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/goliatone/go-podgen/pkg/schema"
)

// Kind identifies a diagnostic. Kinds are comparable sentinels, so callers can
// match them with errors.Is on any Diagnostic, List or Error.
type Kind string

func (k Kind) Error() string {
	return string(k)
}

// Structural errors.
const (
	UnsupportedUnitStruct  Kind = "unsupported_unit_struct"
	UnsupportedTupleStruct Kind = "unsupported_tuple_struct"
	UnsupportedEnum        Kind = "unsupported_enum"
	UnsupportedUnion       Kind = "unsupported_union"
	UnsupportedType        Kind = "unsupported_type"
)

// Directive errors.
const (
	SkipMustNotHaveValue     Kind = "skip_must_not_have_value"
	SkipMustHaveValue        Kind = "skip_must_have_value"
	MalformedAttributeSyntax Kind = "malformed_attribute_syntax"
)

// ConflictingOperation reports two generators producing the same method on one
// record.
const ConflictingOperation Kind = "conflicting_operation"

// Warnings.
const (
	ShadowedWrapper      Kind = "shadowed_wrapper"
	UnresolvedWrapper    Kind = "unresolved_wrapper"
	AmbiguousWrapper     Kind = "ambiguous_wrapper"
	IgnoredEmbeddedField Kind = "ignored_embedded_field"
)

// Severity grades a diagnostic.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Severity returns the default severity of the kind.
func (k Kind) Severity() Severity {
	switch k {
	case ShadowedWrapper, UnresolvedWrapper, AmbiguousWrapper, IgnoredEmbeddedField:
		return SeverityWarning
	default:
		return SeverityError
	}
}

// Structural reports whether the kind rejects the record shape.
func (k Kind) Structural() bool {
	switch k {
	case UnsupportedUnitStruct, UnsupportedTupleStruct, UnsupportedEnum, UnsupportedUnion, UnsupportedType:
		return true
	}
	return false
}

// Diagnostic is a single finding tied to a record, generator and field.
type Diagnostic struct {
	Kind      Kind            `json:"kind" yaml:"kind"`
	Severity  Severity        `json:"severity" yaml:"severity"`
	Generator schema.Kind     `json:"generator,omitempty" yaml:"generator,omitempty"`
	Record    string          `json:"record,omitempty" yaml:"record,omitempty"`
	Field     string          `json:"field,omitempty" yaml:"field,omitempty"`
	Pos       schema.Position `json:"pos" yaml:"pos"`
	Message   string          `json:"message" yaml:"message"`
}

// New builds a diagnostic with the kind's default severity.
func New(kind Kind, pos schema.Position, format string, args ...any) Diagnostic {
	return Diagnostic{
		Kind:     kind,
		Severity: kind.Severity(),
		Pos:      pos,
		Message:  fmt.Sprintf(format, args...),
	}
}

// For scopes the diagnostic to a record and generator.
func (d Diagnostic) For(record string, generator schema.Kind) Diagnostic {
	d.Record = record
	d.Generator = generator
	return d
}

// OnField scopes the diagnostic to a field.
func (d Diagnostic) OnField(field string) Diagnostic {
	d.Field = field
	return d
}

// IsError reports whether the diagnostic blocks generation.
func (d Diagnostic) IsError() bool {
	return d.Severity != SeverityWarning
}

// Error renders `file:line:col: generator: field: message`, omitting the
// parts that are unknown.
func (d Diagnostic) Error() string {
	parts := make([]string, 0, 4)
	parts = append(parts, d.Pos.String())
	if d.Generator != "" {
		parts = append(parts, string(d.Generator))
	}
	if d.Field != "" {
		parts = append(parts, d.Field)
	}
	parts = append(parts, d.Message)
	return strings.Join(parts, ": ")
}

// Unwrap exposes the kind sentinel.
func (d Diagnostic) Unwrap() error {
	return d.Kind
}

// List is an ordered collection of diagnostics.
type List []Diagnostic

// Add appends diagnostics to the list.
func (l *List) Add(diags ...Diagnostic) {
	*l = append(*l, diags...)
}

// ForRecord scopes every diagnostic without a record to the named record.
func (l List) ForRecord(record string) List {
	if len(l) == 0 {
		return nil
	}
	out := make(List, len(l))
	for i, d := range l {
		if d.Record == "" {
			d.Record = record
		}
		out[i] = d
	}
	return out
}

// Errors returns the error-severity diagnostics.
func (l List) Errors() List {
	return l.filter(func(d Diagnostic) bool { return d.IsError() })
}

// Warnings returns the warning-severity diagnostics.
func (l List) Warnings() List {
	return l.filter(func(d Diagnostic) bool { return !d.IsError() })
}

// HasErrors reports whether any diagnostic blocks generation.
func (l List) HasErrors() bool {
	for _, d := range l {
		if d.IsError() {
			return true
		}
	}
	return false
}

// Kinds returns the kinds in list order.
func (l List) Kinds() []Kind {
	if len(l) == 0 {
		return nil
	}
	out := make([]Kind, len(l))
	for i, d := range l {
		out[i] = d.Kind
	}
	return out
}

// Sort orders diagnostics by file, line, column, then generator.
func (l List) Sort() {
	sort.SliceStable(l, func(i, j int) bool {
		a, b := l[i], l[j]
		if a.Pos.File != b.Pos.File {
			return a.Pos.File < b.Pos.File
		}
		if a.Pos.Line != b.Pos.Line {
			return a.Pos.Line < b.Pos.Line
		}
		if a.Pos.Column != b.Pos.Column {
			return a.Pos.Column < b.Pos.Column
		}
		return a.Generator < b.Generator
	})
}

// Err returns an *Error holding the error diagnostics, or nil when there are
// none.
func (l List) Err() error {
	errs := l.Errors()
	if len(errs) == 0 {
		return nil
	}
	return &Error{Diagnostics: errs}
}

func (l List) filter(keep func(Diagnostic) bool) List {
	var out List
	for _, d := range l {
		if keep(d) {
			out = append(out, d)
		}
	}
	return out
}

// Error aggregates the diagnostics that made an operation fail.
type Error struct {
	Diagnostics List
}

func (e *Error) Error() string {
	if e == nil || len(e.Diagnostics) == 0 {
		return "podgen: generation failed"
	}
	if len(e.Diagnostics) == 1 {
		return e.Diagnostics[0].Error()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d errors:", len(e.Diagnostics))
	for _, d := range e.Diagnostics {
		b.WriteString("\n  ")
		b.WriteString(d.Error())
	}
	return b.String()
}

// Unwrap exposes every diagnostic so errors.Is and errors.As match any of
// them.
func (e *Error) Unwrap() []error {
	if e == nil {
		return nil
	}
	out := make([]error, len(e.Diagnostics))
	for i, d := range e.Diagnostics {
		out[i] = d
	}
	return out
}

// Collect extracts the diagnostics carried by err, including those wrapped in
// joined or aggregated errors.
func Collect(err error) List {
	if err == nil {
		return nil
	}
	var out List
	var walk func(error)
	walk = func(e error) {
		switch v := e.(type) {
		case *Error:
			out = append(out, v.Diagnostics...)
			return
		case Diagnostic:
			out = append(out, v)
			return
		}
		if multi, ok := e.(interface{ Unwrap() []error }); ok {
			for _, inner := range multi.Unwrap() {
				walk(inner)
			}
			return
		}
		if inner := errors.Unwrap(e); inner != nil {
			walk(inner)
		}
	}
	walk(err)
	return out
}
