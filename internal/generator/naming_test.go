package generator

import (
	"testing"

	"github.com/goliatone/go-podgen/pkg/schema"
)

func TestParamName(t *testing.T) {
	reserved := map[string]struct{}{"mo": {}}
	cases := map[string]string{
		"Field0":  "field0",
		"ID":      "id",
		"URLPath": "urlPath",
		"Type":    "type_",
		"Len":     "len_",
		"String":  "string_",
		"Mo":      "mo_",
		"_":       "v",
		"count":   "count",
	}
	for field, want := range cases {
		if got := ParamName(field, reserved); got != want {
			t.Errorf("ParamName(%q) = %q, want %q", field, got, want)
		}
	}
}

func TestReceiverName(t *testing.T) {
	if got := ReceiverName("Data", nil); got != "d" {
		t.Fatalf("ReceiverName(Data) = %q", got)
	}
	if got := ReceiverName("DataBuilder", map[string]struct{}{"d": {}}); got != "db" {
		t.Fatalf("ReceiverName(DataBuilder) = %q", got)
	}
	if got := ReceiverName("Data", map[string]struct{}{"d": {}}); got != "rcv" {
		t.Fatalf("ReceiverName(Data) with d taken = %q", got)
	}
}

func TestNamingDefaults(t *testing.T) {
	n := Naming{BuilderSuffix: "Factory"}.withDefaults()
	field := schema.FieldSpec{Name: "Field0", Visibility: schema.Public}
	if n.Getter(field) != "GetField0" || n.Mut(field) != "Field0Mut" || n.Set(field) != "SetField0" || n.With(field) != "WithField0" {
		t.Fatalf("unexpected field names")
	}
	if n.BuilderType("Data") != "DataFactory" || n.BuilderCtor("Data") != "NewDataFactory" || n.Ctor("Data") != "NewData" {
		t.Fatalf("unexpected type names")
	}
}
