package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-podgen/pkg/config"
	"github.com/goliatone/go-podgen/pkg/plan"
	"github.com/goliatone/go-podgen/pkg/render"
	"github.com/goliatone/go-podgen/pkg/typeshape"
)

func TestParseYAMLMergesDefaults(t *testing.T) {
	cfg, err := config.Parse([]byte(`
wrappers:
  - name: Option
    pkg_path: github.com/samber/mo
naming:
  getter_prefix: Read
  follow_visibility: true
docs:
  get: "{{ name }} reads {{ field|code }}."
concurrency: 4
`), "podgen.yaml")
	require.NoError(t, err)

	assert.Equal(t, []typeshape.Wrapper{{Name: "Option", PkgPath: "github.com/samber/mo"}}, cfg.Wrappers)
	assert.Equal(t, "Read", cfg.Naming.GetterPrefix)
	assert.Equal(t, "Set", cfg.Naming.SetterPrefix)
	assert.True(t, cfg.Naming.FollowVisibility)
	assert.Equal(t, 4, cfg.Concurrency)
	assert.Equal(t, config.DefaultRenderer, cfg.Renderer)
	assert.Equal(t, render.DefaultHeader, cfg.Output.Header)

	naming := cfg.GeneratorNaming()
	assert.Equal(t, "Read", naming.GetterPrefix)
	assert.True(t, naming.FollowVisibility)
	assert.Equal(t, "{{ name }} reads {{ field|code }}.", cfg.DocTemplates()[plan.OpGet])
	assert.Len(t, cfg.GeneratorOptions(), 3)
}

func TestParseJSON(t *testing.T) {
	cfg, err := config.Parse([]byte(`{"renderer":"yaml","output":{"suffix":"_gen.go"}}`), "podgen.json")
	require.NoError(t, err)
	assert.Equal(t, "yaml", cfg.Renderer)
	assert.Equal(t, render.Options{Header: render.DefaultHeader, Suffix: "_gen.go"}, cfg.RenderOptions())
	assert.Equal(t, []typeshape.Wrapper{typeshape.DefaultWrapper()}, cfg.Wrappers)
	assert.Nil(t, cfg.DocTemplates())
}

func TestParseRejectsInvalidConfig(t *testing.T) {
	cases := map[string]string{
		"empty":           "   ",
		"unknown key":     "wrapperz: []",
		"bad prefix":      "naming:\n  getter_prefix: Get-",
		"bad doc kind":    "docs:\n  build: x",
		"bad generator":   "generators: [builder, nope]",
		"nameless wrap":   "wrappers:\n  - get: Get",
		"negative limit":  "concurrency: -1",
		"suffix with dir": "output:\n  suffix: out/_gen.go",
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := config.Parse([]byte(raw), "podgen.yaml")
			require.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "podgen.yaml")
	require.NoError(t, os.WriteFile(path, []byte("generators: [builder, ctor]\n"), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"builder", "ctor"}, cfg.Generators)

	_, err = config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorContains(t, err, "config: read")

	cfg, err = config.LoadFS(fstest.MapFS{"cfg/podgen.json": {Data: []byte(`{"concurrency":2}`)}}, "cfg/podgen.json")
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Concurrency)
}

func TestDefaultsValidate(t *testing.T) {
	require.NoError(t, config.Defaults().Validate())
}
