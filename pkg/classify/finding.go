package classify

import (
	"fmt"
	"strings"
)

// Kind identifies the repair a finding asks for. The declaration order is the
// order suggestions are rendered in.
type Kind int

const (
	// Generic marks a validity failure with no structured payload
	Generic Kind = iota
	MissingElements
	MissingAttributes
	DisallowedAttributes
	UnexpectedElement

	kindCount
)

var kindNames = [...]string{
	Generic:              "generic",
	MissingElements:      "missing-elements",
	MissingAttributes:    "missing-attributes",
	DisallowedAttributes: "disallowed-attributes",
	UnexpectedElement:    "unexpected-element",
}

// String returns the kind name used in diagnostics files and reports
func (k Kind) String() string {
	if k < 0 || k >= kindCount {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind maps a kind name back to its Kind
func ParseKind(name string) (Kind, error) {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", "-")
	for k, n := range kindNames {
		if n == normalized {
			return Kind(k), nil
		}
	}
	return Generic, fmt.Errorf("unknown finding kind '%s'", name)
}

// StructuredKinds returns every kind that carries a payload, in rendering order
func StructuredKinds() []Kind {
	return []Kind{MissingElements, MissingAttributes, DisallowedAttributes, UnexpectedElement}
}

// Finding is the structured interpretation of one diagnostic.
//
// Names holds the missing tags, the missing or disallowed attribute names, or
// the expected tags of an unexpected element, depending on Kind. Actual is only
// set for UnexpectedElement.
type Finding struct {
	Kind   Kind
	Names  []string
	Actual string
}

// Structured reports whether the finding carries a repair payload
func (f Finding) Structured() bool {
	return f.Kind != Generic
}

// Suggestion renders the human-readable repair sentence, or "" for generic findings
func (f Finding) Suggestion() string {
	joined := strings.Join(f.Names, ", ")
	switch f.Kind {
	case MissingElements:
		return "Add missing tags: " + joined
	case MissingAttributes:
		return "Add missing attributes: " + joined
	case DisallowedAttributes:
		return "Remove not allowed attributes: " + joined
	case UnexpectedElement:
		if len(f.Names) == 0 {
			return fmt.Sprintf("Remove unexpected tag '%s'", f.Actual)
		}
		return fmt.Sprintf("Replace unexpected tag '%s' with one of: %s", f.Actual, joined)
	default:
		return ""
	}
}

// Merge folds other into f and reports whether it did. Names append in
// first-seen order without duplicates. Unexpected elements with different
// actual tags are distinct findings and are left apart.
func (f *Finding) Merge(other Finding) bool {
	if f.Kind == UnexpectedElement && f.Actual != "" && other.Actual != "" && f.Actual != other.Actual {
		return false
	}
	if f.Actual == "" {
		f.Actual = other.Actual
	}
	for _, name := range other.Names {
		if !contains(f.Names, name) {
			f.Names = append(f.Names, name)
		}
	}
	return true
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
