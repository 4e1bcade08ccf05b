package orchestrator

import (
	"context"
	"fmt"

	"github.com/goliatone/go-podgen/pkg/schema"
)

// Transformer mutates a record after parsing and before the generators run.
// Implementations can drop fields, rename the generated file or attach
// attributes the source does not carry.
type Transformer interface {
	Transform(ctx context.Context, record *schema.RecordSpec) error
}

// TransformerFunc adapts plain functions to the Transformer interface.
type TransformerFunc func(ctx context.Context, record *schema.RecordSpec) error

// Transform executes the wrapped function when non-nil.
func (fn TransformerFunc) Transform(ctx context.Context, record *schema.RecordSpec) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, record)
}

// ChainTransformers runs transformers in order, stopping at the first error.
func ChainTransformers(transformers ...Transformer) Transformer {
	return TransformerFunc(func(ctx context.Context, record *schema.RecordSpec) error {
		for _, t := range transformers {
			if t == nil {
				continue
			}
			if err := t.Transform(ctx, record); err != nil {
				return err
			}
		}
		return nil
	})
}

// DefaultAttributes adds attrs to every field that declares no attribute in
// the same namespace.
func DefaultAttributes(attrs ...schema.Attribute) Transformer {
	return TransformerFunc(func(_ context.Context, record *schema.RecordSpec) error {
		for _, attr := range attrs {
			if attr.Namespace == "" {
				return fmt.Errorf("orchestrator: default attribute %q has no namespace", attr.Name)
			}
		}
		for i := range record.Fields {
			f := &record.Fields[i]
			for _, attr := range attrs {
				if len(f.Namespace(attr.Namespace)) > 0 {
					continue
				}
				attr.Pos = f.Pos
				f.Attributes = append(f.Attributes, attr)
			}
		}
		return nil
	})
}
