// Package config loads podgen settings from YAML or JSON files and merges them
// over the built-in defaults.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"go/token"
	"io/fs"
	"os"
	"strings"

	"dario.cat/mergo"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-podgen/pkg/generator"
	"github.com/goliatone/go-podgen/pkg/plan"
	"github.com/goliatone/go-podgen/pkg/render"
	"github.com/goliatone/go-podgen/pkg/typeshape"
)

// DefaultRenderer is the renderer used when none is configured.
const DefaultRenderer = "go"

// Config is the file representation of the generator settings.
type Config struct {
	// Wrappers replaces the default optional wrapper set when non-empty.
	Wrappers []typeshape.Wrapper `json:"wrappers" yaml:"wrappers" validate:"dive"`
	Naming   Naming              `json:"naming" yaml:"naming"`
	// Docs overrides the documentation templates of the fields generator,
	// keyed by operation kind.
	Docs map[string]string `json:"docs" yaml:"docs" validate:"dive,keys,oneof=get mut set with,endkeys,required"`
	// Generators restricts the generators run for marker-selected records.
	Generators  []string `json:"generators" yaml:"generators" validate:"dive,oneof=builder getters setters fields ctor"`
	Output      Output   `json:"output" yaml:"output"`
	Concurrency int      `json:"concurrency" yaml:"concurrency" validate:"gte=0,lte=1024"`
	Renderer    string   `json:"renderer" yaml:"renderer" validate:"required"`
}

// Naming mirrors generator.Naming. Empty entries keep their defaults.
type Naming struct {
	GetterPrefix     string `json:"getter_prefix" yaml:"getter_prefix" validate:"omitempty,goident"`
	SetterPrefix     string `json:"setter_prefix" yaml:"setter_prefix" validate:"omitempty,goident"`
	WithPrefix       string `json:"with_prefix" yaml:"with_prefix" validate:"omitempty,goident"`
	MutSuffix        string `json:"mut_suffix" yaml:"mut_suffix" validate:"omitempty,goident"`
	BuilderSuffix    string `json:"builder_suffix" yaml:"builder_suffix" validate:"omitempty,goident"`
	BuilderMethod    string `json:"builder_method" yaml:"builder_method" validate:"omitempty,goident"`
	BuildMethod      string `json:"build_method" yaml:"build_method" validate:"omitempty,goident"`
	CtorPrefix       string `json:"ctor_prefix" yaml:"ctor_prefix" validate:"omitempty,goident"`
	FollowVisibility bool   `json:"follow_visibility" yaml:"follow_visibility"`
}

// Output controls generated file naming.
type Output struct {
	// Suffix replaces the .go extension of the source file. Empty keeps the
	// renderer default.
	Suffix string `json:"suffix" yaml:"suffix" validate:"omitempty,excludesall=/\\"`
	Header string `json:"header" yaml:"header"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	n := generator.DefaultNaming()
	return Config{
		Wrappers: []typeshape.Wrapper{typeshape.DefaultWrapper()},
		Naming: Naming{
			GetterPrefix:  n.GetterPrefix,
			SetterPrefix:  n.SetterPrefix,
			WithPrefix:    n.WithPrefix,
			MutSuffix:     n.MutSuffix,
			BuilderSuffix: n.BuilderSuffix,
			BuilderMethod: n.BuilderMethod,
			BuildMethod:   n.BuildMethod,
			CtorPrefix:    n.CtorPrefix,
		},
		Output:   Output{Header: render.DefaultHeader},
		Renderer: DefaultRenderer,
	}
}

// Load reads a configuration file from disk.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data, path)
}

// LoadFS reads a configuration file from fsys.
func LoadFS(fsys fs.FS, name string) (Config, error) {
	if fsys == nil {
		return Config{}, errors.New("config: filesystem is nil")
	}
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", name, err)
	}
	return Parse(data, name)
}

// Parse decodes JSON or YAML, merges it over Defaults and validates the
// result. Unknown keys are rejected.
func Parse(data []byte, source string) (Config, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return Config{}, fmt.Errorf("config: file %s is empty", source)
	}

	var cfg Config
	if err := decodeJSON(data, &cfg); err != nil {
		cfg = Config{}
		if yerr := decodeYAML(data, &cfg); yerr != nil {
			return Config{}, fmt.Errorf("config: parse %s: invalid JSON or YAML: %w", source, yerr)
		}
	}

	if err := mergo.Merge(&cfg, Defaults()); err != nil {
		return Config{}, fmt.Errorf("config: merge defaults: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", source, err)
	}
	return cfg, nil
}

func decodeJSON(data []byte, out *Config) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(out)
}

func decodeYAML(data []byte, out *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	return dec.Decode(out)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("goident", func(fl validator.FieldLevel) bool {
		return isIdentPart(fl.Field().String())
	})
	return v
}

// isIdentPart reports whether s can be glued to an identifier: letters,
// digits and underscores only.
func isIdentPart(s string) bool {
	return token.IsIdentifier("X" + s)
}

// Validate checks the configuration against its struct rules.
func (c Config) Validate() error {
	return validate.Struct(c)
}

// GeneratorNaming converts the naming section.
func (c Config) GeneratorNaming() generator.Naming {
	return generator.Naming{
		GetterPrefix:     c.Naming.GetterPrefix,
		SetterPrefix:     c.Naming.SetterPrefix,
		WithPrefix:       c.Naming.WithPrefix,
		MutSuffix:        c.Naming.MutSuffix,
		BuilderSuffix:    c.Naming.BuilderSuffix,
		BuilderMethod:    c.Naming.BuilderMethod,
		BuildMethod:      c.Naming.BuildMethod,
		CtorPrefix:       c.Naming.CtorPrefix,
		FollowVisibility: c.Naming.FollowVisibility,
	}
}

// DocTemplates converts the docs section.
func (c Config) DocTemplates() generator.DocTemplates {
	if len(c.Docs) == 0 {
		return nil
	}
	out := make(generator.DocTemplates, len(c.Docs))
	for kind, tpl := range c.Docs {
		out[plan.OpKind(kind)] = tpl
	}
	return out
}

// GeneratorOptions returns the generator options described by the
// configuration.
func (c Config) GeneratorOptions() []generator.Option {
	opts := []generator.Option{
		generator.WithWrappers(c.Wrappers...),
		generator.WithNaming(c.GeneratorNaming()),
	}
	if templates := c.DocTemplates(); templates != nil {
		opts = append(opts, generator.WithDocTemplates(templates))
	}
	return opts
}

// RenderOptions returns the output settings handed to renderers.
func (c Config) RenderOptions() render.Options {
	return render.Options{Header: c.Output.Header, Suffix: c.Output.Suffix}
}
