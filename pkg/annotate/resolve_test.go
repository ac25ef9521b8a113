package annotate

import (
	"strings"
	"testing"

	"github.com/githubnext/xmlannotate/pkg/classify"
)

func TestResolve(t *testing.T) {
	doc := mustParse(t, `<a xmlns:v="urn:v"><b/><x/><x/><v:item/></a>`)
	root := doc.Root

	tests := []struct {
		name    string
		finding classify.Finding
		want    string
	}{
		{
			name:    "missing elements stay on the reporting element",
			finding: classify.Finding{Kind: classify.MissingElements, Names: []string{"c"}},
			want:    "/a",
		},
		{
			name:    "generic stays on the reporting element",
			finding: classify.Finding{Kind: classify.Generic},
			want:    "/a",
		},
		{
			name:    "unexpected child resolves to the child",
			finding: classify.Finding{Kind: classify.UnexpectedElement, Actual: "b"},
			want:    "/a/b",
		},
		{
			name:    "first of several same-tag children wins",
			finding: classify.Finding{Kind: classify.UnexpectedElement, Actual: "x"},
			want:    "/a/x[1]",
		},
		{
			name:    "clark notation matches prefixed child by local name",
			finding: classify.Finding{Kind: classify.UnexpectedElement, Actual: "{urn:v}item"},
			want:    "/a/v:item",
		},
		{
			name:    "no matching child falls back to the parent",
			finding: classify.Finding{Kind: classify.UnexpectedElement, Actual: "zzz"},
			want:    "/a",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Resolve(tt.finding, root, "/a"); got != tt.want {
				t.Errorf("Resolve() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolveWithoutReportingElement(t *testing.T) {
	f := classify.Finding{Kind: classify.UnexpectedElement, Actual: "x"}
	if got := Resolve(f, nil, "/a"); got != "/a" {
		t.Errorf("Expected fallback to reporting path, got %q", got)
	}
}

func TestResolveAmongManySiblings(t *testing.T) {
	var b strings.Builder
	b.WriteString("<r><a>")
	for i := 0; i < 2000; i++ {
		b.WriteString("<b/>")
	}
	b.WriteString("<x/><x/></a></r>")
	doc := mustParse(t, b.String())
	parent := doc.Root.ChildElements()[0]

	f := classify.Finding{Kind: classify.UnexpectedElement, Actual: "x"}
	got := Resolve(f, parent, parent.Path())
	if got != "/r/a/x[1]" {
		t.Errorf("Resolve() = %q, want %q", got, "/r/a/x[1]")
	}
	if e, ok := NewIndex(doc).Element(got); !ok || e != parent.ChildElements()[2000] {
		t.Errorf("Resolved path %q does not index the first x", got)
	}
}
