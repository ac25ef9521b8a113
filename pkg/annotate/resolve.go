package annotate

import (
	"strings"

	"github.com/githubnext/xmlannotate/pkg/classify"
	"github.com/githubnext/xmlannotate/pkg/xmltree"
)

// Resolve returns the path a finding applies to. Only unexpected-element
// findings move away from the reporting element: the validator reports them
// against the parent, so the first child whose tag matches is chosen. When no
// child matches the parent's path is used.
//
// With several children sharing the unexpected tag the first one in document
// order wins, whatever position the validator reported.
func Resolve(f classify.Finding, reporting *xmltree.Element, reportingPath string) string {
	if f.Kind != classify.UnexpectedElement || reporting == nil || f.Actual == "" {
		return reportingPath
	}

	for _, child := range reporting.Children {
		if child.IsElement() && tagMatches(child.Name(), f.Actual) {
			return reportingPath + "/" + child.Segment()
		}
	}
	return reportingPath
}

// tagMatches compares an element name with the tag quoted by the validator.
// Validators may quote Clark notation ("{urn:x}item") or a prefixed name; both
// fall back to comparing local names.
func tagMatches(name, tag string) bool {
	if name == tag {
		return true
	}
	return localName(name) == localName(tag)
}

func localName(name string) string {
	if strings.HasPrefix(name, "{") {
		if i := strings.IndexByte(name, '}'); i > 0 {
			return name[i+1:]
		}
	}
	if i := strings.IndexByte(name, ':'); i >= 0 {
		return name[i+1:]
	}
	return name
}
