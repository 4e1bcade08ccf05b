package pongo

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-podgen/pkg/render/template"
)

// DefaultExtension is appended to template names that carry none.
const DefaultExtension = ".tpl"

// Option configures the engine before construction.
type Option func(*Engine)

// WithFS reads named templates from files.
func WithFS(files fs.FS) Option {
	return func(e *Engine) {
		e.files = files
	}
}

// WithName sets the pongo2 template set name, shown in error messages.
func WithName(name string) Option {
	return func(e *Engine) {
		if name = strings.TrimSpace(name); name != "" {
			e.name = name
		}
	}
}

// WithExtension overrides DefaultExtension.
func WithExtension(ext string) Option {
	return func(e *Engine) {
		if ext = strings.TrimSpace(ext); ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		e.ext = ext
	}
}

// WithGlobals seeds values visible to every template.
func WithGlobals(values template.Data) Option {
	return func(e *Engine) {
		for key, value := range values {
			e.globals[key] = value
		}
	}
}

// Engine executes pongo2 templates. Parsed templates are cached; named ones
// by name, inline ones by source.
type Engine struct {
	name    string
	ext     string
	files   fs.FS
	globals pongo2.Context

	set   *pongo2.TemplateSet
	mu    sync.Mutex
	named map[string]*pongo2.Template
	adhoc map[string]*pongo2.Template
}

var _ template.Engine = (*Engine)(nil)

// New constructs an Engine. Without WithFS only inline templates can run.
func New(options ...Option) (*Engine, error) {
	e := &Engine{
		name:    "podgen",
		ext:     DefaultExtension,
		globals: pongo2.Context{},
		named:   make(map[string]*pongo2.Template),
		adhoc:   make(map[string]*pongo2.Template),
	}
	for _, opt := range options {
		if opt != nil {
			opt(e)
		}
	}
	if err := registerFilters(); err != nil {
		return nil, err
	}

	files := e.files
	if files == nil {
		files = noFiles{}
	}
	e.set = pongo2.NewSet(e.name, pongo2.NewFSLoader(files))
	e.set.Globals.Update(e.globals)
	return e, nil
}

// Execute runs the named template, appending the extension when missing.
func (e *Engine) Execute(name string, data template.Data) (string, error) {
	if e.files == nil {
		return "", fmt.Errorf("pongo: template %q requested but no template files are configured", name)
	}
	if !strings.HasSuffix(name, e.ext) {
		name += e.ext
	}
	tmpl, err := e.lookup(e.named, name, e.set.FromFile)
	if err != nil {
		return "", fmt.Errorf("pongo: load template %q: %w", name, err)
	}
	return execute(tmpl, data)
}

// ExecuteString runs inline template source.
func (e *Engine) ExecuteString(src string, data template.Data) (string, error) {
	tmpl, err := e.lookup(e.adhoc, src, e.set.FromString)
	if err != nil {
		return "", fmt.Errorf("pongo: parse template %q: %w", src, err)
	}
	return execute(tmpl, data)
}

// noFiles backs engines that only run inline templates; pongo2 requires a
// loader per set.
type noFiles struct{}

func (noFiles) Open(name string) (fs.File, error) {
	return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
}

func (e *Engine) lookup(cache map[string]*pongo2.Template, key string, load func(string) (*pongo2.Template, error)) (*pongo2.Template, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if tmpl, ok := cache[key]; ok {
		return tmpl, nil
	}
	tmpl, err := load(key)
	if err != nil {
		return nil, err
	}
	cache[key] = tmpl
	return tmpl, nil
}

func execute(tmpl *pongo2.Template, data template.Data) (string, error) {
	out, err := tmpl.Execute(pongo2.Context(data))
	if err != nil {
		return "", fmt.Errorf("pongo: execute: %w", err)
	}
	return out, nil
}

// RegisterFilter adds a filter to every engine. pongo2 filters are process
// wide; an existing name is an error.
func RegisterFilter(name string, fn pongo2.FilterFunction) error {
	if strings.TrimSpace(name) == "" || fn == nil {
		return errors.New("pongo: filter name and function required")
	}
	if pongo2.FilterExists(name) {
		return fmt.Errorf("pongo: filter %q already exists", name)
	}
	return pongo2.RegisterFilter(name, fn)
}

var (
	filtersOnce sync.Once
	filtersErr  error
)

// registerFilters installs the filters the documentation templates use:
// code wraps a Go expression in backticks, lowerfirst and upperfirst change
// the case of the first letter.
func registerFilters() error {
	filtersOnce.Do(func() {
		for name, fn := range map[string]pongo2.FilterFunction{
			"code":       filterCode,
			"lowerfirst": mapFirstRune(unicode.ToLower),
			"upperfirst": mapFirstRune(unicode.ToUpper),
		} {
			if pongo2.FilterExists(name) {
				continue
			}
			if err := pongo2.RegisterFilter(name, fn); err != nil {
				filtersErr = fmt.Errorf("pongo: register filter %q: %w", name, err)
				return
			}
		}
	})
	return filtersErr
}

// filterCode marks its output safe so type expressions such as
// map[string]int survive autoescaping.
func filterCode(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	return pongo2.AsSafeValue("`" + in.String() + "`"), nil
}

func mapFirstRune(mapping func(rune) rune) pongo2.FilterFunction {
	return func(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
		s := in.String()
		r, size := utf8.DecodeRuneInString(s)
		if size == 0 {
			return pongo2.AsValue(s), nil
		}
		return pongo2.AsValue(string(mapping(r)) + s[size:]), nil
	}
}
