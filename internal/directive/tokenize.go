package directive

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/goliatone/go-podgen/pkg/schema"
)

// Tokenize splits the value of one struct tag namespace into attributes.
// Items are separated by top-level commas; quoted strings, parentheses,
// brackets and braces nest. Input that cannot be split yields a single
// attribute in FormMalformed so the owning parser can report it.
func Tokenize(ns schema.Kind, text string, pos schema.Position) []schema.Attribute {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	items, err := splitTopLevel(text, ',')
	if err != nil {
		return []schema.Attribute{malformed(ns, text, pos, err.Error())}
	}

	attrs := make([]schema.Attribute, 0, len(items))
	for _, item := range items {
		attrs = append(attrs, tokenizeItem(ns, strings.TrimSpace(item), pos))
	}
	return attrs
}

func tokenizeItem(ns schema.Kind, item string, pos schema.Position) schema.Attribute {
	if item == "" {
		return malformed(ns, item, pos, "empty item")
	}

	eq := indexTopLevel(item, '=')
	paren := indexTopLevel(item, '(')

	switch {
	case eq >= 0 && (paren < 0 || eq < paren):
		name := strings.TrimSpace(item[:eq])
		value := strings.TrimSpace(item[eq+1:])
		if !isName(name) {
			return malformed(ns, item, pos, fmt.Sprintf("invalid name %q", name))
		}
		if value == "" {
			return malformed(ns, item, pos, fmt.Sprintf("empty value for %q", name))
		}
		return schema.Attribute{
			Namespace: ns,
			Name:      name,
			Form:      schema.FormNameValue,
			Value:     value,
			Raw:       item,
			Pos:       pos,
		}
	case paren >= 0:
		name := strings.TrimSpace(item[:paren])
		if !isName(name) {
			return malformed(ns, item, pos, fmt.Sprintf("invalid name %q", name))
		}
		body := item[paren:]
		closing := matchingClose(body)
		if closing != len(body)-1 {
			return malformed(ns, item, pos, "unexpected text after list")
		}
		args, err := splitTopLevel(body[1:closing], ',')
		if err != nil {
			return malformed(ns, item, pos, err.Error())
		}
		cleaned := make([]string, 0, len(args))
		for _, arg := range args {
			arg = strings.TrimSpace(arg)
			if arg == "" {
				if len(args) == 1 {
					break
				}
				return malformed(ns, item, pos, "empty list item")
			}
			cleaned = append(cleaned, arg)
		}
		return schema.Attribute{
			Namespace: ns,
			Name:      name,
			Form:      schema.FormList,
			Args:      cleaned,
			Raw:       item,
			Pos:       pos,
		}
	default:
		if !isName(item) {
			return malformed(ns, item, pos, fmt.Sprintf("invalid name %q", item))
		}
		return schema.Attribute{
			Namespace: ns,
			Name:      item,
			Form:      schema.FormMarker,
			Raw:       item,
			Pos:       pos,
		}
	}
}

func malformed(ns schema.Kind, raw string, pos schema.Position, reason string) schema.Attribute {
	return schema.Attribute{
		Namespace: ns,
		Form:      schema.FormMalformed,
		Raw:       raw,
		Err:       reason,
		Pos:       pos,
	}
}

// scanner walks a string while tracking quotes and bracket depth.
type scanner struct {
	quote rune
	stack []rune
	esc   bool
}

// step consumes r and reports whether it sits at top level, outside quotes
// and brackets, before being consumed.
func (s *scanner) step(r rune) (bool, error) {
	if s.quote != 0 {
		switch {
		case s.esc:
			s.esc = false
		case r == '\\' && s.quote != '`':
			s.esc = true
		case r == s.quote:
			s.quote = 0
		}
		return false, nil
	}

	top := len(s.stack) == 0
	switch r {
	case '"', '\'', '`':
		s.quote = r
	case '(', '[', '{':
		s.stack = append(s.stack, closerOf(r))
	case ')', ']', '}':
		if len(s.stack) == 0 || s.stack[len(s.stack)-1] != r {
			return false, fmt.Errorf("unbalanced %q", r)
		}
		s.stack = s.stack[:len(s.stack)-1]
	}
	return top, nil
}

func (s *scanner) done() error {
	if s.quote != 0 {
		return fmt.Errorf("unterminated %c quote", s.quote)
	}
	if len(s.stack) > 0 {
		return fmt.Errorf("missing %q", s.stack[len(s.stack)-1])
	}
	return nil
}

func closerOf(r rune) rune {
	switch r {
	case '(':
		return ')'
	case '[':
		return ']'
	}
	return '}'
}

func splitTopLevel(text string, sep rune) ([]string, error) {
	var (
		sc    scanner
		parts []string
		start int
	)
	for i, r := range text {
		top, err := sc.step(r)
		if err != nil {
			return nil, err
		}
		if top && r == sep {
			parts = append(parts, text[start:i])
			start = i + len(string(r))
		}
	}
	if err := sc.done(); err != nil {
		return nil, err
	}
	return append(parts, text[start:]), nil
}

func indexTopLevel(text string, target rune) int {
	var sc scanner
	for i, r := range text {
		top, err := sc.step(r)
		if err != nil {
			return -1
		}
		if top && r == target {
			return i
		}
	}
	return -1
}

// matchingClose returns the index of the bracket closing the one at body[0].
func matchingClose(body string) int {
	var sc scanner
	for i, r := range body {
		if _, err := sc.step(r); err != nil {
			return -1
		}
		if i > 0 && len(sc.stack) == 0 && sc.quote == 0 {
			return i
		}
	}
	return -1
}

func isName(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_' || unicode.IsLetter(r):
		case i > 0 && (unicode.IsDigit(r) || r == '-'):
		default:
			return false
		}
	}
	return true
}
