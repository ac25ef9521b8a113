package mapper

import (
	"fmt"
	"strings"

	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/parser"
	"github.com/goccy/go-yaml/token"
)

// MapErrorToSpans maps a schema validation error, given as the JSON pointer of
// the failing instance plus validator metadata, to candidate spans in the YAML
// or JSON source. Candidates are ordered by confidence; at least one is
// returned when the source parses.
func MapErrorToSpans(source []byte, instancePath string, meta ErrorMeta) ([]Span, error) {
	segments, err := decodeJSONPointer(instancePath)
	if err != nil {
		return nil, err
	}

	file, err := parser.ParseBytes(source, 0)
	if err != nil {
		return nil, fmt.Errorf("yaml parse error: %w", err)
	}
	if len(file.Docs) == 0 || file.Docs[0].Body == nil {
		return []Span{documentSpan()}, nil
	}
	root := file.Docs[0].Body

	node := lookup(root, segments)
	if node != nil {
		switch meta.Keyword {
		case "additionalProperties":
			// The instance is the object; the offending key sits inside it
			if meta.Property != "" {
				if key := findKey(node, meta.Property); key != nil {
					return []Span{spanOf(key, 0.98, "additional property key")}, nil
				}
			}
			return []Span{spanOf(node, 0.6, "object with additional properties")}, nil
		case "required":
			return []Span{insertionAnchor(node, meta.Property)}, nil
		case "type", "enum", "const", "pattern", "minimum", "maximum", "minLength", "maxLength":
			return []Span{spanOf(node, 0.95, meta.Keyword+" mismatch on value")}, nil
		default:
			return []Span{spanOf(node, 0.8, "instance node")}, nil
		}
	}

	var candidates []Span
	for depth := len(segments) - 1; depth > 0; depth-- {
		if ancestor := lookup(root, segments[:depth]); ancestor != nil {
			candidates = append(candidates, spanOf(ancestor, 0.4, fmt.Sprintf("nearest existing ancestor at depth %d", depth)))
			break
		}
	}
	if meta.Property != "" {
		candidates = append(candidates, searchText(source, meta.Property)...)
	}
	if len(candidates) == 0 {
		candidates = append(candidates, documentSpan())
	}
	return candidates, nil
}

// lookup walks the AST along segments and returns the addressed value node
func lookup(root ast.Node, segments []string) ast.Node {
	current := root
	for _, segment := range segments {
		switch n := current.(type) {
		case *ast.MappingNode:
			var next ast.Node
			for _, v := range n.Values {
				if keyMatches(v.Key, segment) {
					next = v.Value
					break
				}
			}
			if next == nil {
				return nil
			}
			current = next
		case *ast.MappingValueNode:
			if !keyMatches(n.Key, segment) {
				return nil
			}
			current = n.Value
		case *ast.SequenceNode:
			idx := parseIndex(segment)
			if idx < 0 || idx >= len(n.Values) {
				return nil
			}
			current = n.Values[idx]
		default:
			return nil
		}
	}
	return current
}

func keyMatches(key ast.MapKeyNode, segment string) bool {
	if s, ok := key.(*ast.StringNode); ok {
		return s.Value == segment
	}
	if tk := key.GetToken(); tk != nil {
		return tk.Value == segment
	}
	return false
}

// findKey returns the key node named key within a mapping
func findKey(node ast.Node, key string) ast.Node {
	switch n := node.(type) {
	case *ast.MappingNode:
		for _, v := range n.Values {
			if keyMatches(v.Key, key) {
				return v.Key
			}
		}
	case *ast.MappingValueNode:
		if keyMatches(n.Key, key) {
			return n.Key
		}
	}
	return nil
}

// insertionAnchor points just below the last entry of the object a required
// property is missing from
func insertionAnchor(node ast.Node, property string) Span {
	var last *ast.MappingValueNode
	switch n := node.(type) {
	case *ast.MappingNode:
		if len(n.Values) > 0 {
			last = n.Values[len(n.Values)-1]
		}
	case *ast.MappingValueNode:
		last = n
	}
	if last != nil {
		if tk := last.Key.GetToken(); tk != nil {
			return Span{
				StartLine:  tk.Position.Line,
				StartCol:   tk.Position.Column,
				EndLine:    tk.Position.Line,
				EndCol:     tk.Position.Column,
				Confidence: 0.75,
				Reason:     fmt.Sprintf("object missing property '%s'", property),
			}
		}
	}
	return spanOf(node, 0.7, fmt.Sprintf("empty object missing property '%s'", property))
}

func spanOf(node ast.Node, confidence float64, reason string) Span {
	tk := node.GetToken()
	if tk == nil || tk.Position == nil {
		return Span{StartLine: 1, StartCol: 1, EndLine: 1, EndCol: 1, Confidence: confidence * 0.5, Reason: reason + " (no position)"}
	}
	return tokenSpan(tk, confidence, reason)
}

func tokenSpan(tk *token.Token, confidence float64, reason string) Span {
	return Span{
		StartLine:  tk.Position.Line,
		StartCol:   tk.Position.Column,
		EndLine:    tk.Position.Line,
		EndCol:     tk.Position.Column + len(tk.Value),
		Confidence: confidence,
		Reason:     reason,
	}
}

// searchText finds literal occurrences of property in the source
func searchText(source []byte, property string) []Span {
	var spans []Span
	for i, line := range strings.Split(string(source), "\n") {
		if col := strings.Index(line, property); col >= 0 {
			spans = append(spans, Span{
				StartLine:  i + 1,
				StartCol:   col + 1,
				EndLine:    i + 1,
				EndCol:     col + len(property) + 1,
				Confidence: 0.5,
				Reason:     fmt.Sprintf("text match for '%s'", property),
			})
		}
	}
	return spans
}

func documentSpan() Span {
	return Span{StartLine: 1, StartCol: 1, EndLine: 1, EndCol: 1, Confidence: 0.2, Reason: "document"}
}
