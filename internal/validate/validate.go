// Package validate rejects records whose shape cannot host generated
// accessors.
package validate

import (
	"fmt"

	"github.com/goliatone/go-podgen/pkg/diag"
	"github.com/goliatone/go-podgen/pkg/schema"
)

// Validate returns the fields of a struct record with named fields. Every
// other shape yields the matching structural diagnostic as an error.
func Validate(record schema.RecordSpec, generator schema.Kind) ([]schema.FieldSpec, error) {
	if d, ok := Check(record, generator); !ok {
		return nil, diag.List{d}.Err()
	}
	return append([]schema.FieldSpec(nil), record.Fields...), nil
}

// Check reports whether record is a struct with named fields, returning the
// structural diagnostic when it is not.
func Check(record schema.RecordSpec, generator schema.Kind) (diag.Diagnostic, bool) {
	title := generator.Title()
	var (
		kind diag.Kind
		msg  string
	)
	switch record.Shape {
	case schema.ShapeStruct:
		if len(record.Fields) > 0 {
			return diag.Diagnostic{}, true
		}
		kind = diag.UnsupportedUnitStruct
		msg = fmt.Sprintf("%s generator only available for structs with named fields; %s has no fields", title, record.Name)
	case schema.ShapeUnit:
		kind = diag.UnsupportedUnitStruct
		msg = fmt.Sprintf("%s generator only available for structs with named fields; %s has no fields", title, record.Name)
	case schema.ShapeTuple:
		kind = diag.UnsupportedTupleStruct
		msg = fmt.Sprintf("%s generator only available for structs with named fields; %s only has embedded fields", title, record.Name)
	case schema.ShapeEnum:
		kind = diag.UnsupportedEnum
		msg = fmt.Sprintf("%s generator only available for structs; %s is an enumeration over %s", title, record.Name, describe(record.Underlying))
	case schema.ShapeUnion:
		kind = diag.UnsupportedUnion
		msg = fmt.Sprintf("%s generator only available for structs; %s is an interface", title, record.Name)
	default:
		kind = diag.UnsupportedType
		msg = fmt.Sprintf("%s generator only available for structs; %s is %s", title, record.Name, describe(record.Underlying))
	}
	return diag.New(kind, record.Pos, "%s", msg).For(record.Name, generator), false
}

func describe(t schema.TypeDescriptor) string {
	if t.IsZero() {
		return "not a struct"
	}
	return t.String()
}
