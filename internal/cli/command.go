// Package cli implements the podgen command.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/goliatone/go-podgen/internal/logging"
	"github.com/goliatone/go-podgen/internal/prompt"
	"github.com/goliatone/go-podgen/pkg/config"
	"github.com/goliatone/go-podgen/pkg/diag"
	"github.com/goliatone/go-podgen/pkg/orchestrator"
	pkgsource "github.com/goliatone/go-podgen/pkg/source"
)

// ErrDiagnostics is returned after error diagnostics were printed. Callers
// exit with status 1 without printing it again.
var ErrDiagnostics = errors.New("cli: generation reported errors")

// CommandOption customises NewCommand.
type CommandOption func(*runner)

// WithPromptDriver replaces the terminal used by --interactive.
func WithPromptDriver(driver prompt.Driver) CommandOption {
	return func(r *runner) {
		r.driver = driver
	}
}

// WithOrchestratorOptions appends options applied after the ones derived
// from flags.
func WithOrchestratorOptions(options ...orchestrator.Option) CommandOption {
	return func(r *runner) {
		r.extra = append(r.extra, options...)
	}
}

// WithLogger bypasses --log-level and --log-json.
func WithLogger(logger logr.Logger) CommandOption {
	return func(r *runner) {
		r.logger = &logger
	}
}

type runner struct {
	opts   *Options
	driver prompt.Driver
	extra  []orchestrator.Option
	logger *logr.Logger
}

// NewCommand builds the root podgen command.
func NewCommand(options ...CommandOption) *cobra.Command {
	r := &runner{opts: DefaultOptions()}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}

	cmd := &cobra.Command{
		Use:   "podgen [flags] [dir|file|patterns...]",
		Short: "Generate builders, accessors and constructors for Go structs",
		Long: `podgen reads struct declarations and writes the boilerplate their tags ask for.

Types are selected with --type or with a marker comment:

    // +podgen:generate=builder,getters
    type Data struct {
        Field2 Option[uint] ` + "`builder:\"default=42\"`" + `
    }

Add "//go:generate podgen" to a package and run go generate.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), args)
		},
	}
	BindOptions(r.opts, cmd.Flags())
	return cmd
}

// Execute runs the command with the process arguments.
func Execute(ctx context.Context) error {
	return NewCommand().ExecuteContext(ctx)
}

func (r *runner) run(ctx context.Context, stdout, stderr io.Writer, args []string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	log, err := r.log(stderr)
	if err != nil {
		return err
	}

	cfg, err := r.config()
	if err != nil {
		return err
	}
	src, err := r.opts.Source(args)
	if err != nil {
		return err
	}
	kinds, err := r.opts.Kinds()
	if err != nil {
		return err
	}

	var loaderOptions []pkgsource.LoaderOption
	if len(r.opts.BuildTags) > 0 {
		loaderOptions = append(loaderOptions, pkgsource.WithBuildTags(r.opts.BuildTags...))
	}
	engine := orchestrator.New(append([]orchestrator.Option{
		orchestrator.WithConfig(cfg),
		orchestrator.WithLogger(log),
		orchestrator.WithDryRun(r.opts.DryRun),
		orchestrator.WithConcurrency(r.opts.Concurrency),
		orchestrator.WithLoaderOptions(loaderOptions...),
	}, r.extra...)...)

	req := orchestrator.Request{
		Source:     src,
		Types:      r.opts.Types,
		Generators: kinds,
		Renderer:   r.opts.Renderer,
	}
	if r.opts.Interactive {
		if req, err = r.choose(ctx, engine, req); err != nil {
			return err
		}
	}

	result, err := engine.Generate(ctx, req)
	printDiagnostics(stderr, result.Diagnostics)
	if fatal := withoutDiagnostics(err); fatal != nil {
		return fatal
	}

	if r.opts.Interactive && !r.opts.DryRun {
		paths := make([]string, 0, len(result.Files))
		for _, file := range result.Files {
			paths = append(paths, file.Path)
		}
		ok, err := prompt.ConfirmWrite(ctx, r.promptDriver(), paths)
		if err != nil {
			return err
		}
		if !ok {
			return prompt.ErrAborted
		}
	}

	paths, err := engine.WriteFiles(ctx, result)
	if err != nil {
		return err
	}
	if engine.DryRun() {
		for _, file := range result.Files {
			fmt.Fprintf(stdout, "// %s\n%s", file.Path, file.Data)
		}
	} else {
		for _, path := range paths {
			log.Info("wrote", "path", path)
		}
	}

	if result.Diagnostics.HasErrors() {
		return ErrDiagnostics
	}
	return nil
}

func (r *runner) log(stderr io.Writer) (logr.Logger, error) {
	if r.logger != nil {
		return *r.logger, nil
	}
	level, err := logging.ParseLevel(r.opts.LogLevel)
	if err != nil {
		return logr.Logger{}, fmt.Errorf("cli: --log-level: %w", err)
	}
	return logging.NewLogr(logging.Config{
		Level:  level,
		Output: stderr,
		JSON:   r.opts.LogJSON,
	}), nil
}

func (r *runner) config() (config.Config, error) {
	cfg := config.Defaults()
	if r.opts.ConfigPath != "" {
		loaded, err := config.Load(r.opts.ConfigPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}
	if r.opts.OutputSuffix == "" {
		return cfg, nil
	}
	cfg.Output.Suffix = r.opts.OutputSuffix
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("cli: --output-suffix: %w", err)
	}
	return cfg, nil
}

func (r *runner) promptDriver() prompt.Driver {
	if r.driver == nil {
		r.driver = prompt.NewSurveyDriver()
	}
	return r.driver
}

// choose narrows req to what the user picks among the discovered structs.
func (r *runner) choose(ctx context.Context, engine *orchestrator.Orchestrator, req orchestrator.Request) (orchestrator.Request, error) {
	pkgs, err := engine.Discover(ctx, req.Source)
	if err != nil {
		return req, err
	}
	choice, err := prompt.Choose(ctx, r.promptDriver(), pkgs)
	if err != nil {
		return req, err
	}
	req.Types = choice.Types
	req.Generators = choice.Generators
	return req, nil
}

func printDiagnostics(w io.Writer, diags diag.List) {
	for _, d := range diags {
		if d.IsError() {
			fmt.Fprintln(w, d.Error())
			continue
		}
		fmt.Fprintf(w, "%s (warning)\n", d.Error())
	}
}

// withoutDiagnostics drops the diagnostics of a Generate error; what is left
// stops the run. multierr.Errors flattens a *diag.Error into its
// diag.Diagnostic values, so both forms are skipped.
func withoutDiagnostics(err error) error {
	var rest error
	for _, e := range multierr.Errors(err) {
		var (
			diagErr *diag.Error
			single  diag.Diagnostic
		)
		if errors.As(e, &diagErr) || errors.As(e, &single) {
			continue
		}
		rest = multierr.Append(rest, e)
	}
	return rest
}
