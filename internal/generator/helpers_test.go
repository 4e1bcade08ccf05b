package generator_test

import (
	"reflect"

	"github.com/goliatone/go-podgen/internal/directive"
	"github.com/goliatone/go-podgen/pkg/schema"
)

// fieldOf builds a field whose struct tag is parsed the way the source front
// end does it.
func fieldOf(name string, typ schema.TypeDescriptor, tag string) schema.FieldSpec {
	visibility := schema.Private
	if name[0] >= 'A' && name[0] <= 'Z' {
		visibility = schema.Public
	}
	f := schema.FieldSpec{
		Name:       name,
		Type:       typ,
		Visibility: visibility,
		Pos:        schema.Position{File: "data.go", Line: 5},
	}
	for _, kind := range schema.Kinds() {
		if value, ok := reflect.StructTag(tag).Lookup(string(kind)); ok {
			f.Attributes = append(f.Attributes, directive.Tokenize(kind, value, f.Pos)...)
		}
	}
	return f
}

func record(name string, fields ...schema.FieldSpec) schema.RecordSpec {
	return schema.RecordSpec{
		Name:    name,
		Package: "example",
		File:    "data.go",
		Shape:   schema.ShapeStruct,
		Fields:  fields,
		Pos:     schema.Position{File: "data.go", Line: 3},
	}
}

func optionOf(inner schema.TypeDescriptor) schema.TypeDescriptor {
	return schema.Named("Option", inner)
}

// dataRecord mirrors the record used throughout the examples:
//
//	type Data struct {
//		Field0 uint
//		Field1 float32
//		Field2 Option[uint]
//	}
func dataRecord(tags ...string) schema.RecordSpec {
	tag := func(i int) string {
		if i < len(tags) {
			return tags[i]
		}
		return ""
	}
	return record("Data",
		fieldOf("Field0", schema.Named("uint"), tag(0)),
		fieldOf("Field1", schema.Named("float32"), tag(1)),
		fieldOf("Field2", optionOf(schema.Named("uint")), tag(2)),
	)
}
