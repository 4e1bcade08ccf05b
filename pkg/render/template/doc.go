// Package template defines the text template contract used for generated
// documentation. The pongo subpackage provides the pongo2-backed engine.
package template

// Data is the context a documentation template is executed with.
type Data map[string]any

// Engine executes documentation templates. Named templates come from the
// engine's own template set; inline sources are user overrides.
type Engine interface {
	Execute(name string, data Data) (string, error)
	ExecuteString(src string, data Data) (string, error)
}
