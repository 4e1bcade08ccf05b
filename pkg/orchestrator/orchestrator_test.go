package orchestrator_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-logr/logr/funcr"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-podgen/pkg/config"
	"github.com/goliatone/go-podgen/pkg/diag"
	"github.com/goliatone/go-podgen/pkg/orchestrator"
	"github.com/goliatone/go-podgen/pkg/schema"
	"github.com/goliatone/go-podgen/pkg/testsupport"
)

func TestGenerateExamples(t *testing.T) {
	orch := orchestrator.New(orchestrator.WithDryRun(true))

	result, err := orch.Generate(testsupport.Context(), orchestrator.Request{
		Source: schema.SourceFromDir(filepath.Join("testdata", "examples")),
	})
	require.NoError(t, err)
	require.Empty(t, result.Diagnostics)
	require.Len(t, result.Plans, 5)
	require.Len(t, result.Files, 1)

	file := result.Files[0]
	require.Equal(t, filepath.Join("testdata", "examples", "examples_podgen.go"), file.Path)
	require.Equal(t, "go", file.Renderer)
	require.Equal(t, []string{"BuilderData", "GettersData", "FieldsData", "SettersData", "CtorData"}, file.Records)

	src := string(file.Data)
	for _, want := range []string{
		"out.Field2 = Some[uint](42)",
		"func (g *GettersData) GetField2() (uint, bool) {",
		"Field2: \"hello from 42\"",
		"func NewCtorData(field0 uint, field1 float32) *CtorData {",
		"// GetField0 retrieves the `Field0` field.",
		"func (s *SettersData) SetField2(field2 Option[uint]) *SettersData {",
	} {
		require.Contains(t, src, want)
	}
	require.NotContains(t, src, "GettersData) GetField1")
	require.NotContains(t, src, "FieldsData) GetField1")

	paths, err := orch.WriteFiles(testsupport.Context(), result)
	require.NoError(t, err)
	require.Equal(t, []string{file.Path}, paths)
	_, err = os.Stat(file.Path)
	require.True(t, errors.Is(err, os.ErrNotExist), "dry run must not write")
}

func TestGenerateIsolatesFailures(t *testing.T) {
	orch := orchestrator.New(orchestrator.WithConcurrency(2))

	result, err := orch.Generate(testsupport.Context(), orchestrator.Request{
		Source: schema.SourceFromDir(filepath.Join("testdata", "mixed")),
	})
	require.Error(t, err)
	require.True(t, errors.Is(err, diag.SkipMustNotHaveValue))
	require.True(t, errors.Is(err, diag.SkipMustHaveValue))
	require.True(t, errors.Is(err, diag.UnsupportedEnum))
	require.True(t, errors.Is(err, diag.ConflictingOperation))

	var generated []string
	for _, p := range result.Plans {
		generated = append(generated, p.Record+"/"+string(p.Generator))
	}
	require.Equal(t, []string{"Overlap/getters", "Fine/builder"}, generated)
	require.Len(t, result.Files, 1)
	require.Contains(t, string(result.Files[0].Data), `out.Name = "anonymous"`)
}

func TestGenerateWritesFiles(t *testing.T) {
	dir := t.TempDir()
	src, err := os.ReadFile(filepath.Join("testdata", "examples", "examples.go"))
	require.NoError(t, err)
	opt, err := os.ReadFile(filepath.Join("testdata", "examples", "option.go"))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "examples.go"), src, 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "option.go"), opt, 0o600))

	var logs []string
	logger := funcr.New(func(prefix, args string) {
		logs = append(logs, args)
	}, funcr.Options{Verbosity: 1})

	cfg := config.Defaults()
	cfg.Renderer = "yaml"
	cfg.Concurrency = 1
	orch := orchestrator.New(orchestrator.WithConfig(cfg), orchestrator.WithLogger(logger))

	result, err := orch.Generate(context.Background(), orchestrator.Request{
		Source:     schema.SourceFromDir(dir),
		Types:      []string{"CtorData"},
		Generators: []schema.Kind{schema.KindCtor, schema.KindGetters},
	})
	require.NoError(t, err)
	paths, err := orch.WriteFiles(context.Background(), result)
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(dir, "examples_podgen.yaml")}, paths)

	data, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	require.Contains(t, string(data), "record: CtorData")
	require.Contains(t, string(data), "generator: getters")
	require.True(t, strings.Contains(strings.Join(logs, "\n"), `"directive"="skip"`), "logs: %v", logs)
}

func TestGenerateRequiresSource(t *testing.T) {
	orch := orchestrator.New()
	_, err := orch.Generate(testsupport.Context(), orchestrator.Request{})
	require.ErrorContains(t, err, "source or packages are required")

	_, err = orch.Generate(testsupport.Context(), orchestrator.Request{
		Source:   schema.SourceFromDir("testdata/examples"),
		Renderer: "html",
	})
	require.ErrorContains(t, err, `renderer "html"`)
}

func TestDiscoverListsUnmarkedTypes(t *testing.T) {
	pkgs, err := orchestrator.New().Discover(testsupport.Context(), schema.SourceFromDir(filepath.Join("testdata", "examples")))
	require.NoError(t, err)
	require.Len(t, pkgs, 1)
	_, ok := pkgs[0].Record("Option")
	require.True(t, ok)
}

func TestTransformerAddsDefaultAttributes(t *testing.T) {
	orch := orchestrator.New(orchestrator.WithTransformer(orchestrator.DefaultAttributes(schema.Attribute{
		Namespace: schema.KindGetters,
		Name:      "skip",
		Form:      schema.FormMarker,
		Raw:       "skip",
	})))

	result, err := orch.Generate(testsupport.Context(), orchestrator.Request{
		Source:     schema.SourceFromDir(filepath.Join("testdata", "examples")),
		Types:      []string{"SettersData"},
		Generators: []schema.Kind{schema.KindGetters},
	})
	require.NoError(t, err)
	require.Len(t, result.Plans, 1)
	require.Empty(t, result.Plans[0].Operations)
	require.Len(t, result.Plans[0].Trace, 3)
}
