package examples

// +podgen:generate=builder
type BuilderData struct {
	Field0 uint
	Field1 float32
	Field2 Option[uint] `builder:"default=42"`
}

// +podgen:generate=getters
type GettersData struct {
	Field0 uint
	Field1 float32 `getters:"skip"`
	Field2 Option[uint]
}

// +podgen:generate=fields
type FieldsData struct {
	Field0 uint
	Field1 float32 `fields:"skip"`
	Field2 Option[uint]
}

// +podgen:generate=setters
type SettersData struct {
	Field0 uint
	Field1 float32
	Field2 Option[uint]
}

// +podgen:generate=ctor
type CtorData struct {
	Field0 uint
	Field1 float32
	Field2 string `ctor:"skip=\"hello from 42\""`
}
