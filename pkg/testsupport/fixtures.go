package testsupport

import (
	"context"
	"os"
	"testing"

	"github.com/goliatone/go-podgen/internal/generator"
	"github.com/goliatone/go-podgen/internal/source/loader"
	"github.com/goliatone/go-podgen/internal/source/parser"
	"github.com/goliatone/go-podgen/pkg/plan"
	"github.com/goliatone/go-podgen/pkg/schema"
	pkgsource "github.com/goliatone/go-podgen/pkg/source"
)

// MustParseSource parses Go source held in memory as if it were the file
// name. Testing helpers fail fast to keep contract tests concise.
func MustParseSource(t *testing.T, name, src string, sel pkgsource.Selection) pkgsource.Package {
	t.Helper()

	doc, err := schema.NewDocument(schema.SourceFromFile(name), name, []byte(src))
	if err != nil {
		t.Fatalf("new document: %v", err)
	}
	pkg, err := parser.New().Parse(Context(), []schema.Document{doc}, sel)
	if err != nil {
		t.Fatalf("parse source: %v", err)
	}
	return pkg
}

// MustLoadPackage reads and parses the Go files of a fixture directory.
func MustLoadPackage(t *testing.T, dir string, sel pkgsource.Selection) pkgsource.Package {
	t.Helper()

	docs, err := loader.New(pkgsource.LoaderOptions{}).Load(Context(), schema.SourceFromDir(dir))
	if err != nil {
		t.Fatalf("load package: %v", err)
	}
	pkg, err := parser.New().Parse(Context(), docs, sel)
	if err != nil {
		t.Fatalf("parse package: %v", err)
	}
	return pkg
}

// MustRecord returns a record of the package or fails the test.
func MustRecord(t *testing.T, pkg pkgsource.Package, name string) schema.RecordSpec {
	t.Helper()

	record, ok := pkg.Record(name)
	if !ok {
		t.Fatalf("record %s not found in package %s", name, pkg.Name)
	}
	return record
}

// MustPlans runs the record's generators, or the given kinds, with default
// options.
func MustPlans(t *testing.T, record schema.RecordSpec, kinds ...schema.Kind) []plan.Plan {
	t.Helper()

	if len(kinds) == 0 {
		kinds = record.Generators
	}
	gen := generator.New(generator.Options{})
	plans := make([]plan.Plan, 0, len(kinds))
	for _, kind := range kinds {
		p, err := gen.Generate(Context(), kind, record)
		if err != nil {
			t.Fatalf("generate %s for %s: %v", kind, record.Name, err)
		}
		plans = append(plans, p)
	}
	return plans
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// MustReadGoldenString reads a golden file and returns its content.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return string(data)
}
