// Package generator exposes the plan generators. Each generator is a pure
// function of a record: it validates the record shape, resolves the
// directives of its struct tag namespace (`builder`, `getters`, `setters`,
// `fields`, `ctor`) and returns a plan describing the operations to emit. A
// generator either succeeds with a complete plan or fails with every
// diagnostic it found; it never returns partial output. Implementations live
// in internal/generator and return the plan types from pkg/plan.
package generator
