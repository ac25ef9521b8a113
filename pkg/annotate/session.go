package annotate

import (
	"fmt"
	"io"

	"github.com/githubnext/xmlannotate/pkg/classify"
	"github.com/githubnext/xmlannotate/pkg/xmltree"
)

// Diagnostic is one message produced by a schema validator. It is attached to
// the document through Element when the producer holds a node handle, else
// through Path or, failing that, the source Line. Finding, when set, replaces
// text classification.
type Diagnostic struct {
	Message string
	Element *xmltree.Element
	Path    string
	Line    int
	Finding *classify.Finding
}

// Location describes where the diagnostic points, for log output
func (d Diagnostic) Location() string {
	switch {
	case d.Path != "" && d.Line > 0:
		return fmt.Sprintf("%s (line %d)", d.Path, d.Line)
	case d.Path != "":
		return d.Path
	case d.Line > 0:
		return fmt.Sprintf("line %d", d.Line)
	case d.Element != nil:
		return d.Element.Path()
	default:
		return "unknown location"
	}
}

// Options configures a session
type Options struct {
	// Classifier maps messages to findings; the pattern classifier when nil
	Classifier classify.Classifier
	Attributes Attributes
	// Log receives every raw message, one per line, in encounter order
	Log io.Writer
}

// Session holds the state of one annotation run over one document. Sessions
// are not safe for concurrent use; independent documents need independent
// sessions.
type Session struct {
	doc        *xmltree.Document
	index      *Index
	classifier classify.Classifier
	attrs      Attributes
	log        io.Writer

	errors   ErrorPathSet
	findings FindingSet

	diagnostics int
	classified  int
	unresolved  []Diagnostic
	logErr      error
}

// NewSession indexes doc and prepares empty finding maps
func NewSession(doc *xmltree.Document, opts Options) *Session {
	classifier := opts.Classifier
	if classifier == nil {
		classifier = classify.NewPatternClassifier()
	}
	return &Session{
		doc:        doc,
		index:      NewIndex(doc),
		classifier: classifier,
		attrs:      opts.Attributes.withDefaults(),
		log:        opts.Log,
		errors:     make(ErrorPathSet),
		findings:   make(FindingSet),
	}
}

// Index returns the location index built for the session's document
func (s *Session) Index() *Index {
	return s.index
}

// Process classifies, resolves and records one diagnostic. Diagnostics that
// cannot be attached to an element are kept aside as unresolved.
func (s *Session) Process(d Diagnostic) {
	s.diagnostics++
	s.writeLog(d.Message)

	finding := s.findingFor(d)
	if finding.Structured() {
		s.classified++
	}

	reporting, reportingPath, ok := s.locate(d)
	if !ok {
		s.unresolved = append(s.unresolved, d)
		return
	}
	Record(s.findings, s.errors, Resolve(finding, reporting, reportingPath), finding)
}

// Finish annotates the document and returns the run summary. The pass is
// idempotent, so diagnostics processed after a Finish are picked up by the
// next one.
func (s *Session) Finish() (*Result, error) {
	result := &Result{
		Diagnostics: s.diagnostics,
		Classified:  s.classified,
	}
	for _, d := range s.unresolved {
		result.Unresolved = append(result.Unresolved, Unresolved{
			Message:  d.Message,
			Location: d.Location(),
		})
	}

	annotateWith(s.doc, s.errors, s.findings, s.attrs, func(e *xmltree.Element, path string, valid bool, suggestion string) {
		result.Elements++
		if valid && suggestion == "" {
			return
		}
		if !valid {
			result.Invalid++
		}
		if suggestion != "" {
			result.Suggestions++
		}
		result.Entries = append(result.Entries, Entry{
			Path:       path,
			Line:       e.Line,
			Valid:      valid,
			Suggestion: suggestion,
		})
	})

	if s.logErr != nil {
		return result, fmt.Errorf("failed to write diagnostics log: %w", s.logErr)
	}
	return result, nil
}

func (s *Session) findingFor(d Diagnostic) classify.Finding {
	if d.Finding != nil {
		return *d.Finding
	}
	return s.classifier.Classify(d.Message)
}

func (s *Session) locate(d Diagnostic) (*xmltree.Element, string, bool) {
	if d.Element != nil {
		return d.Element, d.Element.Path(), true
	}
	if d.Path != "" {
		if e, ok := s.index.Element(d.Path); ok {
			return e, d.Path, true
		}
	}
	if d.Line > 0 {
		if e, ok := s.index.ElementAtLine(d.Line); ok {
			return e, e.Path(), true
		}
	}
	return nil, "", false
}

func (s *Session) writeLog(message string) {
	if s.log == nil || s.logErr != nil {
		return
	}
	if _, err := io.WriteString(s.log, message+"\n"); err != nil {
		s.logErr = err
	}
}

// Run processes diags in order against doc and annotates it
func Run(doc *xmltree.Document, diags []Diagnostic, opts Options) (*Result, error) {
	s := NewSession(doc, opts)
	for _, d := range diags {
		s.Process(d)
	}
	return s.Finish()
}
