package sample

import (
	"time"

	opt "example.com/sample/option"
)

type Level int

type Stamp = time.Time

// +podgen:generate
type Data struct {
	Field0 uint
	Field1 float32
	Field2 opt.Option[uint] `builder:"default=42"`
	Level  Level
	At     Stamp
}

// +podgen:generate
type Mode Level
