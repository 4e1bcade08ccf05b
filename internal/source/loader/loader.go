package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goliatone/go-podgen/pkg/schema"
	pkgsource "github.com/goliatone/go-podgen/pkg/source"
)

// Loader implements pkgsource.Loader for file, directory and fs.FS sources.
type Loader struct {
	fs           fs.FS
	includeTests bool
	skipSuffixes []string
}

var _ pkgsource.Loader = (*Loader)(nil)

// New constructs a Loader from pre-resolved options.
func New(options pkgsource.LoaderOptions) *Loader {
	return &Loader{
		fs:           options.FileSystem,
		includeTests: options.IncludeTests,
		skipSuffixes: append([]string(nil), options.SkipSuffixes...),
	}
}

// tree abstracts the two places Go files are read from.
type tree interface {
	stat(name string) (fs.FileInfo, error)
	list(dir string) ([]fs.DirEntry, error)
	read(name string) ([]byte, error)
	join(dir, name string) string
}

type disk struct{}

func (disk) stat(name string) (fs.FileInfo, error)  { return os.Stat(name) }
func (disk) list(dir string) ([]fs.DirEntry, error) { return os.ReadDir(dir) }
func (disk) read(name string) ([]byte, error)       { return os.ReadFile(name) }
func (disk) join(dir, name string) string           { return filepath.Join(dir, name) }

type fsTree struct{ fsys fs.FS }

func (t fsTree) stat(name string) (fs.FileInfo, error)  { return fs.Stat(t.fsys, name) }
func (t fsTree) list(dir string) ([]fs.DirEntry, error) { return fs.ReadDir(t.fsys, dir) }
func (t fsTree) read(name string) ([]byte, error)       { return fs.ReadFile(t.fsys, name) }
func (fsTree) join(dir, name string) string             { return path.Join(dir, name) }

// Load reads the Go files of src. Directory sources, on disk or inside the
// fs.FS, yield every eligible file of that directory sorted by name. Files
// carrying a "Code generated ... DO NOT EDIT." header are skipped in
// directories but read when named directly.
func (l *Loader) Load(ctx context.Context, src schema.Source) ([]schema.Document, error) {
	if src == nil {
		return nil, errors.New("source loader: source is nil")
	}

	var files tree
	switch src.Kind() {
	case schema.SourceKindFile, schema.SourceKindDir:
		files = disk{}
	case schema.SourceKindFS:
		if l.fs == nil {
			return nil, errors.New("source loader: filesystem is not configured")
		}
		files = fsTree{fsys: l.fs}
	case schema.SourceKindPackage:
		return nil, errors.New("source loader: package sources require the packages loader")
	default:
		return nil, fmt.Errorf("source loader: unsupported source kind %q", src.Kind())
	}

	name := src.Location()
	if name == "" {
		return nil, errors.New("source loader: source location is empty")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if src.Kind() == schema.SourceKindFile {
		return l.single(ctx, files, src, name)
	}
	info, err := files.stat(name)
	if err != nil {
		return nil, fmt.Errorf("source loader: %w", err)
	}
	if !info.IsDir() {
		return l.single(ctx, files, src, name)
	}
	return l.dir(ctx, files, src, name)
}

func (l *Loader) single(ctx context.Context, files tree, src schema.Source, name string) ([]schema.Document, error) {
	doc, err := l.document(ctx, files, src, name)
	if err != nil {
		return nil, err
	}
	return []schema.Document{doc}, nil
}

func (l *Loader) dir(ctx context.Context, files tree, src schema.Source, dir string) ([]schema.Document, error) {
	entries, err := files.list(dir)
	if err != nil {
		return nil, fmt.Errorf("source loader: read dir: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() && l.eligible(entry.Name()) {
			names = append(names, files.join(dir, entry.Name()))
		}
	}
	sort.Strings(names)

	docs := make([]schema.Document, 0, len(names))
	for _, name := range names {
		doc, err := l.document(ctx, files, src, name)
		if err != nil {
			return nil, err
		}
		if doc.Generated() {
			continue
		}
		docs = append(docs, doc)
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("source loader: no Go files in %s", dir)
	}
	return docs, nil
}

func (l *Loader) document(ctx context.Context, files tree, src schema.Source, name string) (schema.Document, error) {
	if err := ctx.Err(); err != nil {
		return schema.Document{}, err
	}
	data, err := files.read(name)
	if err != nil {
		return schema.Document{}, fmt.Errorf("source loader: read file: %w", err)
	}
	doc, err := schema.NewDocument(src, name, data)
	if err != nil {
		return schema.Document{}, fmt.Errorf("source loader: %s: %w", name, err)
	}
	return doc, nil
}

func (l *Loader) eligible(name string) bool {
	if !strings.HasSuffix(name, ".go") || strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") {
		return false
	}
	if !l.includeTests && strings.HasSuffix(name, "_test.go") {
		return false
	}
	for _, suffix := range l.skipSuffixes {
		if suffix != "" && strings.HasSuffix(name, suffix) {
			return false
		}
	}
	return true
}
