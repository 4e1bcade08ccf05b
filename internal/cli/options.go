package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"

	"github.com/goliatone/go-podgen/internal/logging"
	"github.com/goliatone/go-podgen/pkg/schema"
)

// Options holds the parsed command line.
type Options struct {
	Types        []string
	Generators   []string
	ConfigPath   string
	OutputSuffix string
	Renderer     string
	Semantic     bool
	BuildTags    []string
	Concurrency  int
	DryRun       bool
	Interactive  bool
	LogLevel     string
	LogJSON      bool
}

// DefaultOptions returns the flag defaults.
func DefaultOptions() *Options {
	return &Options{LogLevel: string(logging.InfoLevel)}
}

// BindOptions registers the podgen flags on flags.
func BindOptions(opts *Options, flags *pflag.FlagSet) {
	flags.StringSliceVarP(&opts.Types, "type", "t", opts.Types, "type names to generate for; default is every type carrying a +podgen:generate marker")
	flags.StringSliceVarP(&opts.Generators, "generators", "g", opts.Generators, "generators to run: builder, getters, setters, fields, ctor")
	flags.StringVarP(&opts.ConfigPath, "config", "c", opts.ConfigPath, "YAML or JSON configuration file")
	flags.StringVar(&opts.OutputSuffix, "output-suffix", opts.OutputSuffix, "suffix of generated files")
	flags.StringVar(&opts.Renderer, "renderer", opts.Renderer, "output renderer: go or yaml")
	flags.BoolVar(&opts.Semantic, "semantic", opts.Semantic, "treat arguments as package patterns and resolve types with go/packages")
	flags.StringSliceVar(&opts.BuildTags, "tags", opts.BuildTags, "build tags for --semantic loading")
	flags.IntVar(&opts.Concurrency, "concurrency", opts.Concurrency, "records generated in parallel; 0 uses GOMAXPROCS")
	flags.BoolVar(&opts.DryRun, "dry-run", opts.DryRun, "print generated files instead of writing them")
	flags.BoolVarP(&opts.Interactive, "interactive", "i", opts.Interactive, "choose types and generators interactively")
	flags.StringVar(&opts.LogLevel, "log-level", opts.LogLevel, "log level: debug, info, warn, error")
	flags.BoolVar(&opts.LogJSON, "log-json", opts.LogJSON, "log as JSON")
}

// Kinds resolves the --generators values.
func (o *Options) Kinds() ([]schema.Kind, error) {
	if len(o.Generators) == 0 {
		return nil, nil
	}
	kinds, err := schema.ParseKinds(strings.Join(o.Generators, ","))
	if err != nil {
		return nil, fmt.Errorf("cli: --generators: %w", err)
	}
	return kinds, nil
}

// Source maps the positional arguments to a schema.Source. Without
// arguments the working directory is read. go:generate runs podgen from the
// package directory, so that is the common case.
func (o *Options) Source(args []string) (schema.Source, error) {
	if o.Semantic {
		if len(args) == 0 {
			args = []string{"."}
		}
		return schema.SourceFromPackages(args...), nil
	}
	switch len(args) {
	case 0:
		return schema.SourceFromDir("."), nil
	case 1:
	default:
		return nil, errors.New("cli: only one file or directory is accepted; use --semantic for package patterns")
	}

	path := args[0]
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("cli: %w", err)
	}
	if info.IsDir() {
		return schema.SourceFromDir(path), nil
	}
	if filepath.Ext(path) != ".go" {
		return nil, fmt.Errorf("cli: %s is not a Go file", path)
	}
	return schema.SourceFromFile(path), nil
}
