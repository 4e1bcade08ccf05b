package loader_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-podgen/internal/source/loader"
	"github.com/goliatone/go-podgen/pkg/schema"
	pkgsource "github.com/goliatone/go-podgen/pkg/source"
)

func names(docs []schema.Document) []string {
	out := make([]string, len(docs))
	for i, doc := range docs {
		out[i] = doc.Name()
	}
	return out
}

func TestLoaderDirSkipsIneligibleFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"data.go", "data_test.go", "data_podgen.go", "_scratch.go", ".hidden.go", "notes.txt", "other.go"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("package data\n"), 0o600))
	}

	l := loader.New(pkgsource.NewLoaderOptions(pkgsource.WithSkipSuffixes("_podgen.go")))
	docs, err := l.Load(context.Background(), schema.SourceFromDir(dir))
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(dir, "data.go"), filepath.Join(dir, "other.go")}, names(docs))

	l = loader.New(pkgsource.NewLoaderOptions(pkgsource.WithTests()))
	docs, err = l.Load(context.Background(), schema.SourceFromDir(dir))
	require.NoError(t, err)
	require.Len(t, docs, 4)
}

func TestLoaderFS(t *testing.T) {
	files := fstest.MapFS{
		"pkg/b.go":      {Data: []byte("package pkg\n")},
		"pkg/a.go":      {Data: []byte("package pkg\n")},
		"pkg/a_test.go": {Data: []byte("package pkg\n")},
		"pkg/sub/c.go":  {Data: []byte("package sub\n")},
	}
	l := loader.New(pkgsource.NewLoaderOptions(pkgsource.WithFileSystem(files)))

	docs, err := l.Load(context.Background(), schema.SourceFromFS("pkg"))
	require.NoError(t, err)
	require.Equal(t, []string{"pkg/a.go", "pkg/b.go"}, names(docs))

	docs, err = l.Load(context.Background(), schema.SourceFromFS("pkg/sub/c.go"))
	require.NoError(t, err)
	require.Equal(t, "package sub\n", string(docs[0].Raw()))
}

func TestLoaderErrors(t *testing.T) {
	l := loader.New(pkgsource.LoaderOptions{})
	ctx := context.Background()

	_, err := l.Load(ctx, nil)
	require.Error(t, err)

	_, err = l.Load(ctx, schema.SourceFromFS("pkg"))
	require.ErrorContains(t, err, "filesystem is not configured")

	_, err = l.Load(ctx, schema.SourceFromPackages("./..."))
	require.ErrorContains(t, err, "packages loader")

	_, err = l.Load(ctx, schema.SourceFromDir(t.TempDir()))
	require.ErrorContains(t, err, "no Go files")

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = l.Load(canceled, schema.SourceFromFile(filepath.Join(t.TempDir(), "missing.go")))
	require.ErrorIs(t, err, context.Canceled)
}

func TestLoaderSkipsGeneratedFilesInDirectories(t *testing.T) {
	dir := t.TempDir()
	generated := filepath.Join(dir, "zz_generated.go")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "data.go"), []byte("package data\n"), 0o600))
	require.NoError(t, os.WriteFile(generated, []byte("// Code generated by stringer. DO NOT EDIT.\n\npackage data\n"), 0o600))

	l := loader.New(pkgsource.LoaderOptions{})
	docs, err := l.Load(context.Background(), schema.SourceFromDir(dir))
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(dir, "data.go")}, names(docs))

	docs, err = l.Load(context.Background(), schema.SourceFromFile(generated))
	require.NoError(t, err)
	require.Len(t, docs, 1)
}
