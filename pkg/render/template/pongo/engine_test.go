package pongo_test

import (
	"embed"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"

	"github.com/flosch/pongo2/v6"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-podgen/pkg/render/template"
	"github.com/goliatone/go-podgen/pkg/render/template/pongo"
	"github.com/goliatone/go-podgen/pkg/testsupport"
)

//go:embed testdata/templates/*.tpl
var embeddedTemplates embed.FS

func newEngine(t *testing.T, options ...pongo.Option) *pongo.Engine {
	t.Helper()

	files, err := fs.Sub(embeddedTemplates, "testdata/templates")
	require.NoError(t, err)

	engine, err := pongo.New(append([]pongo.Option{pongo.WithFS(files)}, options...)...)
	require.NoError(t, err)
	return engine
}

func TestEngineExecute(t *testing.T) {
	cases := []struct {
		name     string
		template string
		data     template.Data
		options  []pongo.Option
	}{
		{name: "hello", template: "hello", data: template.Data{"name": "Ada"}},
		{name: "use-code", template: "use-code.tpl", data: template.Data{"field": "map[string]int", "record": "Data"}},
		{
			name:     "use-global",
			template: "use-global",
			options:  []pongo.Option{pongo.WithGlobals(template.Data{"settings": map[string]any{"env": "staging"}})},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			engine := newEngine(t, tc.options...)

			got, err := engine.Execute(tc.template, tc.data)
			require.NoError(t, err)
			want := testsupport.MustReadGoldenString(t, filepath.Join("testdata", tc.name+".golden"))
			require.Equal(t, want, got)
		})
	}
}

func TestRegisterFilter(t *testing.T) {
	shout := func(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
		return pongo2.AsValue(strings.ToUpper(in.String()) + "!"), nil
	}
	require.NoError(t, pongo.RegisterFilter("shout", shout))
	require.ErrorContains(t, pongo.RegisterFilter("shout", shout), "already exists")
	require.Error(t, pongo.RegisterFilter("", shout))

	got, err := newEngine(t).Execute("use-filter", template.Data{"name": "Ada"})
	require.NoError(t, err)
	require.Equal(t, testsupport.MustReadGoldenString(t, filepath.Join("testdata", "use-filter.golden")), got)
}

func TestEngineExecuteString(t *testing.T) {
	engine, err := pongo.New()
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		got, err := engine.ExecuteString("{{ name|upperfirst }} of {{ record|lowerfirst }}: {{ type|code }}", template.Data{
			"name":   "field0",
			"record": "Data",
			"type":   "map[string]int",
		})
		require.NoError(t, err)
		require.Equal(t, "Field0 of data: `map[string]int`", got)
	}

	_, err = engine.ExecuteString("{{ name", nil)
	require.Error(t, err)
}

func TestEngineWithoutFiles(t *testing.T) {
	engine, err := pongo.New(pongo.WithExtension("txt"))
	require.NoError(t, err)

	_, err = engine.Execute("hello", nil)
	require.ErrorContains(t, err, "no template files")
}

func TestEngineMissingTemplate(t *testing.T) {
	_, err := newEngine(t).Execute("missing", nil)
	require.ErrorContains(t, err, `"missing.tpl"`)
}
