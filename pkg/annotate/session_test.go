package annotate

import (
	"errors"
	"strings"
	"testing"

	"github.com/githubnext/xmlannotate/pkg/classify"
	"github.com/githubnext/xmlannotate/pkg/xmltree"
)

func attr(t *testing.T, doc *xmltree.Document, path, key string) (string, bool) {
	t.Helper()
	e, ok := NewIndex(doc).Element(path)
	if !ok {
		t.Fatalf("No element at %s", path)
	}
	return e.AttrValue(key)
}

func TestRunWithoutDiagnosticsMarksEverythingValid(t *testing.T) {
	doc := mustParse(t, fleet)

	result, err := Run(doc, nil, Options{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	doc.Root.Iter(func(e *xmltree.Element) bool {
		if !e.IsElement() {
			return true
		}
		if v, _ := e.AttrValue("is_valid"); v != "true" {
			t.Errorf("Expected %s to be valid, got %q", e.Path(), v)
		}
		if _, ok := e.AttrValue("suggest"); ok {
			t.Errorf("Expected no suggestion on %s", e.Path())
		}
		return true
	})
	if result.Elements != 4 || result.Invalid != 0 || len(result.Entries) != 0 {
		t.Errorf("Unexpected result: %+v", result)
	}
	if !result.Valid() {
		t.Errorf("Expected result to be valid")
	}
}

func TestRunScenarios(t *testing.T) {
	tests := []struct {
		name        string
		document    string
		reportedAt  string
		messages    []string
		wantInvalid []string
		wantValid   []string
		suggestions map[string]string
	}{
		{
			name:        "incomplete content",
			document:    "<a><b/></a>",
			reportedAt:  "/a",
			messages:    []string{"Element 'a' is not complete. Tag 'c' expected."},
			wantInvalid: []string{"/a"},
			wantValid:   []string{"/a/b"},
			suggestions: map[string]string{"/a": "Add missing tags: c"},
		},
		{
			name:        "unexpected child",
			document:    "<a><x/></a>",
			reportedAt:  "/a",
			messages:    []string{"Unexpected child with tag 'x' at position 1. Tag 'b' expected."},
			wantInvalid: []string{"/a/x"},
			wantValid:   []string{"/a"},
			suggestions: map[string]string{"/a/x": "Replace unexpected tag 'x' with one of: b"},
		},
		{
			name:        "unexpected child without a match falls back to parent",
			document:    "<a><b/></a>",
			reportedAt:  "/a",
			messages:    []string{"Unexpected child with tag 'x' at position 1."},
			wantInvalid: []string{"/a"},
			wantValid:   []string{"/a/b"},
			suggestions: map[string]string{"/a": "Remove unexpected tag 'x'"},
		},
		{
			name:       "different unexpected tags falling back to one parent stay apart",
			document:   "<a><b/></a>",
			reportedAt: "/a",
			messages: []string{
				"Unexpected child with tag 'x' at position 1. Tag 'b' expected.",
				"Unexpected child with tag 'y' at position 2. Tag 'c' expected.",
			},
			wantInvalid: []string{"/a"},
			wantValid:   []string{"/a/b"},
			suggestions: map[string]string{"/a": "Replace unexpected tag 'x' with one of: b; Replace unexpected tag 'y' with one of: c"},
		},
		{
			name:       "missing and disallowed attributes on one element",
			document:   `<a extra="1"/>`,
			reportedAt: "/a",
			messages: []string{
				"'extra' attribute not allowed for element.",
				"missing required attribute 'req'",
			},
			wantInvalid: []string{"/a"},
			suggestions: map[string]string{"/a": "Add missing attributes: req; Remove not allowed attributes: extra"},
		},
		{
			name:       "duplicate missing attribute renders once",
			document:   `<a><b/></a>`,
			reportedAt: "/a/b",
			messages: []string{
				"missing required attribute 'req'",
				"missing required attribute 'req'",
			},
			wantInvalid: []string{"/a/b"},
			wantValid:   []string{"/a"},
			suggestions: map[string]string{"/a/b": "Add missing attributes: req"},
		},
		{
			name:        "unclassified message only marks invalid",
			document:    `<a><b/></a>`,
			reportedAt:  "/a/b",
			messages:    []string{"value must be positive"},
			wantInvalid: []string{"/a/b"},
			wantValid:   []string{"/a"},
			suggestions: map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := mustParse(t, tt.document)
			reporting, ok := NewIndex(doc).Element(tt.reportedAt)
			if !ok {
				t.Fatalf("No element at %s", tt.reportedAt)
			}

			var diags []Diagnostic
			for _, msg := range tt.messages {
				diags = append(diags, Diagnostic{Message: msg, Element: reporting})
			}
			if _, err := Run(doc, diags, Options{}); err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}

			for _, p := range tt.wantInvalid {
				if v, _ := attr(t, doc, p, "is_valid"); v != "false" {
					t.Errorf("Expected %s to be invalid, got %q", p, v)
				}
			}
			for _, p := range tt.wantValid {
				if v, _ := attr(t, doc, p, "is_valid"); v != "true" {
					t.Errorf("Expected %s to be valid, got %q", p, v)
				}
			}
			for _, p := range NewIndex(doc).ElementPaths() {
				got, _ := attr(t, doc, p, "suggest")
				if got != tt.suggestions[p] {
					t.Errorf("Suggestion on %s = %q, want %q", p, got, tt.suggestions[p])
				}
			}
		})
	}
}

func TestSessionLocatesByPathAndLine(t *testing.T) {
	doc := mustParse(t, fleet)
	s := NewSession(doc, Options{})

	s.Process(Diagnostic{Message: "missing required attribute 'vin'", Path: "/fleet/car[2]"})
	s.Process(Diagnostic{Message: "missing required attribute 'wheels'", Line: 4})
	s.Process(Diagnostic{Message: "somewhere else entirely", Path: "/nowhere"})
	s.Process(Diagnostic{Message: "no location at all"})

	result, err := s.Finish()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if v, _ := attr(t, doc, "/fleet/car[2]", "suggest"); v != "Add missing attributes: vin" {
		t.Errorf("Path-located diagnostic not applied: %q", v)
	}
	if v, _ := attr(t, doc, "/fleet/bike", "suggest"); v != "Add missing attributes: wheels" {
		t.Errorf("Line-located diagnostic not applied: %q", v)
	}
	if result.Diagnostics != 4 || result.Classified != 2 {
		t.Errorf("Unexpected counts: %+v", result)
	}
	if len(result.Unresolved) != 2 {
		t.Fatalf("Expected 2 unresolved diagnostics, got %d", len(result.Unresolved))
	}
	if result.Unresolved[0].Location != "/nowhere" || result.Unresolved[1].Location != "unknown location" {
		t.Errorf("Unexpected unresolved locations: %+v", result.Unresolved)
	}
	if result.Invalid != 2 || len(result.Entries) != 2 {
		t.Errorf("Expected 2 invalid entries, got %+v", result.Entries)
	}
	if result.Entries[0].Path != "/fleet/car[2]" || result.Entries[0].Line != 3 {
		t.Errorf("Entries not in document order: %+v", result.Entries)
	}
}

func TestSessionStructuredFindingBypassesClassifier(t *testing.T) {
	doc := mustParse(t, "<a><b/></a>")
	classifier := classify.ClassifierFunc(func(string) classify.Finding {
		t.Errorf("Classifier must not be called for structured diagnostics")
		return classify.Finding{}
	})

	_, err := Run(doc, []Diagnostic{{
		Message: "structured",
		Path:    "/a",
		Finding: &classify.Finding{Kind: classify.UnexpectedElement, Actual: "b", Names: []string{"c"}},
	}}, Options{Classifier: classifier})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if v, _ := attr(t, doc, "/a/b", "suggest"); v != "Replace unexpected tag 'b' with one of: c" {
		t.Errorf("Unexpected suggestion: %q", v)
	}
}

func TestSessionWritesLogInEncounterOrder(t *testing.T) {
	var log strings.Builder
	doc := mustParse(t, "<a/>")

	_, err := Run(doc, []Diagnostic{
		{Message: "first", Path: "/a"},
		{Message: "second"},
		{Message: "third", Path: "/a"},
	}, Options{Log: &log})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if log.String() != "first\nsecond\nthird\n" {
		t.Errorf("Unexpected log content: %q", log.String())
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestSessionReportsLogFailure(t *testing.T) {
	doc := mustParse(t, "<a/>")
	result, err := Run(doc, []Diagnostic{{Message: "x", Path: "/a"}}, Options{Log: failingWriter{}})
	if err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Fatalf("Expected log failure to be reported, got %v", err)
	}
	if result == nil || result.Invalid != 1 {
		t.Errorf("Annotation should still complete, got %+v", result)
	}
}

func TestCustomAttributesAndStaleSuggestion(t *testing.T) {
	doc := mustParse(t, `<a ok="false" hint="old"><b/></a>`)
	attrs := Attributes{Valid: "ok", Suggest: "hint"}

	stats := Annotate(doc, make(ErrorPathSet), make(FindingSet), attrs)

	if v, _ := doc.Root.AttrValue("ok"); v != "true" {
		t.Errorf("Expected ok=true, got %q", v)
	}
	if _, ok := doc.Root.AttrValue("hint"); ok {
		t.Errorf("Expected stale hint to be removed")
	}
	if _, ok := doc.Root.AttrValue("is_valid"); ok {
		t.Errorf("Default attribute must not be written when a custom one is configured")
	}
	if stats.Elements != 2 || stats.Invalid != 0 || stats.Suggestions != 0 {
		t.Errorf("Unexpected stats: %+v", stats)
	}
}
