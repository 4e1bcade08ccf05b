package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"

	"github.com/go-logr/logr"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	internalLoader "github.com/goliatone/go-podgen/internal/source/loader"
	internalPackages "github.com/goliatone/go-podgen/internal/source/packages"
	internalParser "github.com/goliatone/go-podgen/internal/source/parser"
	"github.com/goliatone/go-podgen/pkg/config"
	"github.com/goliatone/go-podgen/pkg/diag"
	"github.com/goliatone/go-podgen/pkg/generator"
	"github.com/goliatone/go-podgen/pkg/plan"
	"github.com/goliatone/go-podgen/pkg/render"
	"github.com/goliatone/go-podgen/pkg/renderers/golang"
	"github.com/goliatone/go-podgen/pkg/renderers/yaml"
	"github.com/goliatone/go-podgen/pkg/schema"
	pkgsource "github.com/goliatone/go-podgen/pkg/source"
)

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithConfig applies a loaded configuration: wrappers, naming, doc templates,
// output naming, concurrency and the default renderer.
func WithConfig(cfg config.Config) Option {
	return func(o *Orchestrator) {
		o.config = cfg
	}
}

// WithLoader injects a custom file loader.
func WithLoader(loader pkgsource.Loader) Option {
	return func(o *Orchestrator) {
		o.loader = loader
	}
}

// WithParser injects a custom source parser.
func WithParser(parser pkgsource.Parser) Option {
	return func(o *Orchestrator) {
		o.parser = parser
	}
}

// WithPackageLoader injects the loader used for package pattern sources.
func WithPackageLoader(loader pkgsource.PackageLoader) Option {
	return func(o *Orchestrator) {
		o.packages = loader
	}
}

// WithLoaderOptions configures the built-in loaders.
func WithLoaderOptions(options ...pkgsource.LoaderOption) Option {
	return func(o *Orchestrator) {
		o.loaderOptions = append(o.loaderOptions, options...)
	}
}

// WithGenerators injects a generator registry.
func WithGenerators(registry *generator.Registry) Option {
	return func(o *Orchestrator) {
		o.generators = registry
	}
}

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits an
// explicit Renderer field.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithTransformer registers a Transformer applied to every record before
// generation.
func WithTransformer(t Transformer) Option {
	return func(o *Orchestrator) {
		o.transformer = t
	}
}

// WithLogger sets the logger. Without it the logger carried by the context is
// used.
func WithLogger(logger logr.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// WithConcurrency bounds the number of records generated in parallel. Zero
// means GOMAXPROCS.
func WithConcurrency(n int) Option {
	return func(o *Orchestrator) {
		o.concurrency = n
	}
}

// WithDryRun makes WriteFiles report files without touching the disk.
func WithDryRun(enabled bool) Option {
	return func(o *Orchestrator) {
		o.dryRun = enabled
	}
}

// Orchestrator coordinates the full pipeline from Go sources to generated
// files. It applies sensible defaults (syntactic parser, go renderer, default
// configuration) while remaining open to dependency injection.
type Orchestrator struct {
	config          config.Config
	loader          pkgsource.Loader
	parser          pkgsource.Parser
	packages        pkgsource.PackageLoader
	loaderOptions   []pkgsource.LoaderOption
	generators      *generator.Registry
	registry        *render.Registry
	defaultRenderer string
	transformer     Transformer
	logger          logr.Logger
	concurrency     int
	dryRun          bool
}

// New constructs an Orchestrator applying any provided options. Missing
// dependencies are initialised with the built-in implementations.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{config: config.Defaults()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

func (o *Orchestrator) applyDefaults() {
	generated := []string{golang.DefaultSuffix}
	if o.config.Output.Suffix != "" {
		generated = append(generated, o.config.Output.Suffix)
	}
	loaderOptions := pkgsource.NewLoaderOptions(append([]pkgsource.LoaderOption{
		pkgsource.WithSkipSuffixes(generated...),
	}, o.loaderOptions...)...)
	if o.loader == nil {
		o.loader = internalLoader.New(loaderOptions)
	}
	if o.parser == nil {
		o.parser = internalParser.New()
	}
	if o.packages == nil {
		o.packages = internalPackages.New(loaderOptions)
	}
	if o.generators == nil {
		o.generators = generator.DefaultRegistry(generator.New(o.config.GeneratorOptions()...))
	}
	if o.registry == nil {
		o.registry = render.NewRegistry(golang.New(), yaml.New())
	}
	if o.defaultRenderer == "" {
		o.defaultRenderer = o.config.Renderer
	}
	if o.concurrency == 0 {
		o.concurrency = o.config.Concurrency
	}
	if o.concurrency <= 0 {
		o.concurrency = runtime.GOMAXPROCS(0)
	}
}

// Request describes one generation run.
type Request struct {
	// Source identifies the Go files or packages to read. Optional when
	// Packages is supplied.
	Source schema.Source

	// Packages bypasses loading for callers that already parsed their
	// records.
	Packages []pkgsource.Package

	// Types selects declarations by name; empty selects marked types.
	Types []string

	// Generators overrides the generators requested by markers and by the
	// configuration.
	Generators []schema.Kind

	// Renderer names the renderer to use. If empty, the orchestrator falls back
	// to the configured default renderer.
	Renderer string
}

// File is one rendered output.
type File struct {
	// Path is the output location: the package directory joined with the
	// renderer's file name.
	Path     string
	Renderer string
	Records  []string
	Data     []byte
}

// Result collects everything a run produced. Records that failed contribute
// diagnostics only; the others still yield plans and files.
type Result struct {
	Packages    []pkgsource.Package
	Plans       []plan.Plan
	Files       []File
	Diagnostics diag.List
}

// Err returns the error diagnostics as a *diag.Error, or nil.
func (r Result) Err() error {
	return r.Diagnostics.Err()
}

// Discover loads the source and returns every type declaration as a record,
// regardless of markers.
func (o *Orchestrator) Discover(ctx context.Context, src schema.Source) ([]pkgsource.Package, error) {
	if ctx == nil {
		return nil, errors.New("orchestrator: context is required")
	}
	return o.load(ctx, src, pkgsource.Selection{All: true})
}

// Generate executes the loader → parser → generator → renderer sequence.
// The returned error aggregates every error diagnostic and rendering failure;
// the Result is populated even when it is non-nil.
func (o *Orchestrator) Generate(ctx context.Context, req Request) (Result, error) {
	if ctx == nil {
		return Result{}, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	renderer, err := o.rendererFor(req.Renderer)
	if err != nil {
		return Result{}, err
	}

	sel, err := o.selection(req)
	if err != nil {
		return Result{}, err
	}

	pkgs := req.Packages
	if len(pkgs) == 0 {
		if pkgs, err = o.load(ctx, req.Source, sel); err != nil {
			return Result{}, err
		}
	}

	log := o.logger
	if log.GetSink() == nil {
		log = logr.FromContextOrDiscard(ctx)
	}

	result := Result{Packages: pkgs}
	for _, pkg := range pkgs {
		result.Diagnostics.Add(pkg.Warnings...)
	}

	var failures error
	for _, pkg := range pkgs {
		plans, diags, err := o.generatePackage(ctx, log.WithValues("package", pkg.Name), pkg)
		if err != nil {
			return result, err
		}
		result.Diagnostics.Add(diags...)
		result.Plans = append(result.Plans, plans...)

		files, err := o.render(ctx, renderer, pkg, plans)
		failures = multierr.Append(failures, err)
		result.Files = append(result.Files, files...)
	}

	result.Diagnostics.Sort()
	log.V(1).Info("generation finished",
		"plans", len(result.Plans),
		"files", len(result.Files),
		"errors", len(result.Diagnostics.Errors()),
		"warnings", len(result.Diagnostics.Warnings()))

	return result, multierr.Append(result.Err(), failures)
}

func (o *Orchestrator) selection(req Request) (pkgsource.Selection, error) {
	sel := pkgsource.Selection{Types: req.Types, Generators: req.Generators}
	if len(sel.Generators) == 0 && len(o.config.Generators) > 0 {
		for _, raw := range o.config.Generators {
			kind, err := schema.ParseKind(raw)
			if err != nil {
				return pkgsource.Selection{}, fmt.Errorf("orchestrator: %w", err)
			}
			sel.Generators = append(sel.Generators, kind)
		}
	}
	return sel, nil
}

func (o *Orchestrator) load(ctx context.Context, src schema.Source, sel pkgsource.Selection) ([]pkgsource.Package, error) {
	if src == nil {
		return nil, errors.New("orchestrator: source or packages are required")
	}
	if patterns, ok := schema.PackagePatterns(src); ok {
		pkgs, err := o.packages.LoadPackages(ctx, patterns, sel)
		if err != nil {
			return nil, fmt.Errorf("orchestrator: load packages: %w", err)
		}
		return pkgs, nil
	}

	docs, err := o.loader.Load(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: load source: %w", err)
	}
	pkg, err := o.parser.Parse(ctx, docs, sel)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: parse source: %w", err)
	}
	return []pkgsource.Package{pkg}, nil
}

type job struct {
	record schema.RecordSpec
	kind   schema.Kind
}

type outcome struct {
	plan  plan.Plan
	ok    bool
	diags diag.List
}

// generatePackage runs every (record, generator) pair of pkg in parallel.
// A failing pair only records diagnostics; the returned error is reserved for
// cancellation and generator failures that carry no diagnostics.
func (o *Orchestrator) generatePackage(ctx context.Context, log logr.Logger, pkg pkgsource.Package) ([]plan.Plan, diag.List, error) {
	var (
		jobs  []job
		diags diag.List
	)
	for _, record := range pkg.Records {
		if o.transformer != nil {
			if err := o.transformer.Transform(ctx, &record); err != nil {
				return nil, nil, fmt.Errorf("orchestrator: transform %s: %w", record.Name, err)
			}
		}
		for _, kind := range record.Generators {
			jobs = append(jobs, job{record: record, kind: kind})
		}
	}

	outcomes := make([]outcome, len(jobs))
	g, gctx := errgroup.WithContext(logr.NewContext(ctx, log))
	g.SetLimit(o.concurrency)
	for i, j := range jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			gen, err := o.generators.Get(j.kind)
			if err != nil {
				return fmt.Errorf("orchestrator: %s: %w", j.record.Name, err)
			}
			p, err := gen.Generate(gctx, j.kind, j.record)
			if err != nil {
				collected := diag.Collect(err)
				if len(collected) == 0 {
					return fmt.Errorf("orchestrator: %s %s: %w", j.record.Name, j.kind, err)
				}
				outcomes[i] = outcome{diags: collected}
				return nil
			}
			outcomes[i] = outcome{plan: p, ok: true, diags: p.Warnings}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	plans := make([]plan.Plan, 0, len(jobs))
	for _, out := range outcomes {
		diags.Add(out.diags...)
		if out.ok {
			plans = append(plans, out.plan)
		}
	}
	plans, conflicts := checkConflicts(pkg, plans)
	diags.Add(conflicts...)
	return plans, diags, nil
}

// checkConflicts drops plans declaring an identifier another plan of the
// package already declares. Earlier plans win; the order is declaration order,
// then the generator order of each record.
func checkConflicts(pkg pkgsource.Package, plans []plan.Plan) ([]plan.Plan, diag.List) {
	declared := make(map[string]string)
	for _, record := range pkg.Records {
		declared[record.Name] = "type " + record.Name
	}

	var (
		kept  []plan.Plan
		diags diag.List
	)
	for _, p := range plans {
		record, _ := pkg.Record(p.Record)
		owner := fmt.Sprintf("%s generator of %s", p.Generator, p.Record)

		var names []string
		if p.Builder != nil {
			names = append(names, p.Builder.Name)
		}
		for _, op := range p.Operations {
			if op.Owner == "" {
				names = append(names, op.Name)
			} else {
				names = append(names, op.Owner+"."+op.Name)
			}
		}

		clash := false
		for _, name := range names {
			if prev, taken := declared[name]; taken {
				clash = true
				diags.Add(diag.New(diag.ConflictingOperation, record.Pos,
					"%s is generated by the %s and already declared by %s", name, owner, prev).For(p.Record, p.Generator))
			}
		}
		if clash {
			continue
		}
		for _, name := range names {
			declared[name] = "the " + owner
		}
		kept = append(kept, p)
	}
	return kept, diags
}

// render emits one file per source file of pkg.
func (o *Orchestrator) render(ctx context.Context, renderer render.Renderer, pkg pkgsource.Package, plans []plan.Plan) ([]File, error) {
	byFile := make(map[string][]plan.Plan)
	var order []string
	for _, p := range plans {
		if _, ok := byFile[p.File]; !ok {
			order = append(order, p.File)
		}
		byFile[p.File] = append(byFile[p.File], p)
	}
	sort.Strings(order)

	var (
		files []File
		errs  error
	)
	for _, name := range order {
		unit := render.Unit{
			Package: pkg.Name,
			PkgPath: pkg.Path,
			Dir:     pkg.Dir,
			File:    name,
			Plans:   byFile[name],
		}
		out, err := renderer.Render(ctx, unit, o.config.RenderOptions())
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("orchestrator: render %s: %w", name, err))
			continue
		}
		records := make([]string, 0, len(unit.Plans))
		for _, p := range unit.Plans {
			if len(records) == 0 || records[len(records)-1] != p.Record {
				records = append(records, p.Record)
			}
		}
		files = append(files, File{
			Path:     filepath.Join(pkg.Dir, out.Name),
			Renderer: renderer.Name(),
			Records:  records,
			Data:     out.Data,
		})
	}
	return files, errs
}

func (o *Orchestrator) rendererFor(name string) (render.Renderer, error) {
	if o.registry == nil {
		return nil, errors.New("orchestrator: renderer registry is nil")
	}
	renderer, err := o.registry.Resolve(name, o.defaultRenderer)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: %w", err)
	}
	return renderer, nil
}

// WriteFiles persists the rendered files of a result. In dry-run mode it only
// returns the paths it would write.
func (o *Orchestrator) WriteFiles(ctx context.Context, result Result) ([]string, error) {
	paths := make([]string, 0, len(result.Files))
	var errs error
	for _, file := range result.Files {
		if err := ctx.Err(); err != nil {
			return paths, err
		}
		paths = append(paths, file.Path)
		if o.dryRun {
			continue
		}
		if err := os.WriteFile(file.Path, file.Data, 0o644); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("orchestrator: write %s: %w", file.Path, err))
		}
	}
	return paths, errs
}

// DryRun reports whether WriteFiles skips the disk.
func (o *Orchestrator) DryRun() bool {
	return o.dryRun
}
