package generator

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"github.com/goliatone/go-podgen/pkg/plan"
	"github.com/goliatone/go-podgen/pkg/render/template"
	"github.com/goliatone/go-podgen/pkg/render/template/pongo"
	"github.com/goliatone/go-podgen/pkg/schema"
)

//go:embed templates
var embeddedTemplates embed.FS

// DocTemplates overrides the documentation templates per operation kind.
// Values are inline pongo2 templates; empty values keep the embedded default.
type DocTemplates map[plan.OpKind]string

// DocRenderer produces the documentation text of an operation.
type DocRenderer interface {
	Doc(record schema.RecordSpec, op plan.Operation) (string, error)
}

// TemplateDocs renders documentation through a template engine. Named
// templates live under "fields/<kind>".
type TemplateDocs struct {
	engine    template.Engine
	overrides DocTemplates
}

var (
	defaultEngineOnce sync.Once
	defaultEngine     *pongo.Engine
	defaultEngineErr  error
)

// DefaultTemplateEngine returns the shared engine loading the embedded
// documentation templates.
func DefaultTemplateEngine() (template.Engine, error) {
	defaultEngineOnce.Do(func() {
		sub, err := fs.Sub(embeddedTemplates, "templates")
		if err != nil {
			defaultEngineErr = fmt.Errorf("generator: templates fs: %w", err)
			return
		}
		defaultEngine, defaultEngineErr = pongo.New(pongo.WithFS(sub), pongo.WithName("podgen-docs"))
	})
	return defaultEngine, defaultEngineErr
}

// NewTemplateDocs builds a DocRenderer. A nil engine uses the embedded
// templates.
func NewTemplateDocs(engine template.Engine, overrides DocTemplates) (*TemplateDocs, error) {
	if engine == nil {
		var err error
		engine, err = DefaultTemplateEngine()
		if err != nil {
			return nil, err
		}
	}
	return &TemplateDocs{engine: engine, overrides: overrides}, nil
}

// Doc renders the documentation of op.
func (d *TemplateDocs) Doc(record schema.RecordSpec, op plan.Operation) (string, error) {
	data := template.Data{
		"name":      op.Name,
		"field":     op.Field,
		"record":    record.Name,
		"kind":      string(op.Kind),
		"package":   record.Package,
		"exported":  op.Visibility == schema.Public,
		"generator": "fields",
	}
	if field, ok := record.Field(op.Field); ok {
		data["type"] = field.Type.String()
		data["field_doc"] = strings.TrimSpace(field.Doc)
	}

	var (
		out string
		err error
	)
	if override := strings.TrimSpace(d.overrides[op.Kind]); override != "" {
		out, err = d.engine.ExecuteString(override, data)
	} else {
		out, err = d.engine.Execute("fields/"+string(op.Kind), data)
	}
	if err != nil {
		return "", fmt.Errorf("generator: render %s doc for %s.%s: %w", op.Kind, record.Name, op.Field, err)
	}
	return strings.TrimSpace(out), nil
}
