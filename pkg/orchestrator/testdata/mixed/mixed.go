package mixed

// +podgen:generate=getters,ctor
type Broken struct {
	A int `getters:"skip=1"`
	B int `ctor:"skip"`
}

// +podgen:generate=ctor
type Level int

// +podgen:generate=getters,fields
type Overlap struct {
	Name string
}

// +podgen:generate=builder
type Fine struct {
	Name string `builder:"default=\"anonymous\""`
}
