package schema

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Source identifies where record declarations originate so loaders can operate
// on files, directories, fs.FS entries, or package patterns without leaking
// implementation details.
type Source interface {
	Kind() SourceKind
	Location() string
}

// SourceKind enumerates the loader modalities.
type SourceKind string

const (
	SourceKindFile    SourceKind = "file"
	SourceKindDir     SourceKind = "dir"
	SourceKindFS      SourceKind = "fs"
	SourceKindPackage SourceKind = "package"
)

// fileSource identifies a single Go file on disk.
type fileSource struct {
	path string
}

func (s fileSource) Location() string {
	return s.path
}

func (s fileSource) Kind() SourceKind {
	return SourceKindFile
}

// SourceFromFile returns a Source pointing to a file path.
func SourceFromFile(path string) Source {
	return fileSource{path: filepath.Clean(path)}
}

// dirSource identifies a directory holding a single Go package.
type dirSource struct {
	path string
}

func (s dirSource) Location() string {
	return s.path
}

func (s dirSource) Kind() SourceKind {
	return SourceKindDir
}

// SourceFromDir returns a Source pointing to a package directory.
func SourceFromDir(path string) Source {
	return dirSource{path: filepath.Clean(path)}
}

// fsSource references a path within an fs.FS.
type fsSource struct {
	name string
}

func (s fsSource) Location() string {
	return s.name
}

func (s fsSource) Kind() SourceKind {
	return SourceKindFS
}

// SourceFromFS returns a Source identifying a file or directory inside an fs.FS.
func SourceFromFS(name string) Source {
	return fsSource{name: name}
}

// packageSource references one or more go/packages patterns.
type packageSource struct {
	patterns []string
}

func (s packageSource) Location() string {
	return strings.Join(s.patterns, " ")
}

func (s packageSource) Kind() SourceKind {
	return SourceKindPackage
}

// Patterns returns a copy of the package patterns.
func (s packageSource) Patterns() []string {
	return append([]string(nil), s.patterns...)
}

// SourceFromPackages returns a Source resolved through the go/packages loader.
// It panics if no pattern is supplied to surface configuration mistakes early.
func SourceFromPackages(patterns ...string) Source {
	cleaned := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		if trimmed := strings.TrimSpace(pattern); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	if len(cleaned) == 0 {
		panic(fmt.Sprintf("schema: empty package pattern list %q", patterns))
	}
	return packageSource{patterns: cleaned}
}

// PackagePatterns extracts the patterns of a package Source. It returns false
// for every other kind.
func PackagePatterns(src Source) ([]string, bool) {
	ps, ok := src.(packageSource)
	if !ok {
		return nil, false
	}
	return ps.Patterns(), true
}
