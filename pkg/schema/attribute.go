package schema

import "strings"

// AttributeForm is the syntactic form of a tokenized attribute.
type AttributeForm string

const (
	// FormMarker is a bare name: `skip`.
	FormMarker AttributeForm = "marker"
	// FormNameValue is `name=value`; Value holds the unquoted value.
	FormNameValue AttributeForm = "name_value"
	// FormList is `name(a, b)`; Args holds the items.
	FormList AttributeForm = "list"
	// FormMalformed marks input the tokenizer could not split. Err explains
	// why and Raw keeps the offending text.
	FormMalformed AttributeForm = "malformed"
)

// Attribute is one tokenized directive item attached to a field.
type Attribute struct {
	Namespace Kind
	Name      string
	Form      AttributeForm
	Value     string
	Args      []string
	Raw       string
	Err       string
	Pos       Position
}

// HasValue reports whether the attribute carries any value, either as a
// name-value pair or as a list.
func (a Attribute) HasValue() bool {
	return a.Form == FormNameValue || a.Form == FormList
}

func (a Attribute) String() string {
	switch a.Form {
	case FormMarker:
		return a.Name
	case FormNameValue:
		return a.Name + "=" + a.Value
	case FormList:
		return a.Name + "(" + strings.Join(a.Args, ", ") + ")"
	}
	return a.Raw
}
