// Package source defines how record declarations are read from Go code. A
// Loader fetches Go files, a Parser extracts records from them syntactically,
// and a PackageLoader resolves packages through golang.org/x/tools/go/packages
// when import paths and underlying types must be known precisely. The
// implementations live under internal/source; construction helpers live in
// the top-level podgen package.
package source
