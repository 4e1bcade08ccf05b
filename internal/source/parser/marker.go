package parser

import (
	"fmt"
	"go/ast"
	"strings"

	"github.com/goliatone/go-podgen/pkg/schema"
	pkgsource "github.com/goliatone/go-podgen/pkg/source"
)

// findMarker scans comment groups for `+podgen:generate[=kinds]`. It reports
// whether the marker is present and the generators it lists, if any.
func findMarker(groups ...*ast.CommentGroup) ([]schema.Kind, bool, error) {
	for _, group := range groups {
		if group == nil {
			continue
		}
		for _, comment := range group.List {
			text := strings.TrimSpace(strings.TrimPrefix(comment.Text, "//"))
			if !strings.HasPrefix(text, pkgsource.MarkerPrefix) {
				continue
			}
			rest := strings.TrimPrefix(text, pkgsource.MarkerPrefix)
			switch {
			case rest == "":
				return nil, true, nil
			case rest[0] != '=':
				continue
			}
			kinds, err := schema.ParseKinds(rest[1:])
			if err != nil {
				return nil, true, fmt.Errorf("invalid %s marker: %w", pkgsource.MarkerPrefix, err)
			}
			return kinds, true, nil
		}
	}
	return nil, false, nil
}
