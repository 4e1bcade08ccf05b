package generator

import (
	"github.com/go-logr/logr"

	"github.com/goliatone/go-podgen/pkg/render/template"
	"github.com/goliatone/go-podgen/pkg/typeshape"
)

// Options configures the behaviour of the Generator. Options are constructed
// by the public adapter in pkg/generator and passed into New.
type Options struct {
	Classifier *typeshape.Classifier
	Naming     Naming
	Docs       DocRenderer
	// DocTemplates and TemplateEngine configure the default DocRenderer when
	// Docs is nil.
	DocTemplates   DocTemplates
	TemplateEngine template.Engine
	// Logger receives the directive trace. When unset, the logger carried by
	// the context is used.
	Logger logr.Logger
}

func defaultOptions() Options {
	return Options{
		Classifier: typeshape.New(),
		Naming:     DefaultNaming(),
	}
}
