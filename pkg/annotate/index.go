package annotate

import "github.com/githubnext/xmlannotate/pkg/xmltree"

// LineIndex maps a document path to its source line. Attributes are keyed as
// "<elementPath>/@<name>" and trailing text as "<elementPath>/tail"; both
// carry the owning element's line.
type LineIndex map[string]int

// Index is built once per document and is read-only afterwards
type Index struct {
	Lines LineIndex

	elements    map[string]*xmltree.Element
	order       []string
	lineOrder   []string
	firstAtLine map[int]*xmltree.Element
}

// NewIndex walks the document once, assigning every element its path and
// recording source lines. Elements without line information leave gaps.
func NewIndex(doc *xmltree.Document) *Index {
	idx := &Index{
		Lines:       make(LineIndex),
		elements:    make(map[string]*xmltree.Element),
		firstAtLine: make(map[int]*xmltree.Element),
	}
	if doc == nil || doc.Root == nil {
		return idx
	}

	xmltree.Walk(doc.Root, func(e *xmltree.Element, path string) {
		idx.elements[path] = e
		idx.order = append(idx.order, path)

		if e.Line <= 0 {
			return
		}
		idx.addLine(path, e.Line)
		if _, seen := idx.firstAtLine[e.Line]; !seen {
			idx.firstAtLine[e.Line] = e
		}
		for _, a := range e.Attrs {
			idx.addLine(path+"/@"+a.FullKey(), e.Line)
		}
		if e.Tail != "" {
			idx.addLine(path+"/tail", e.Line)
		}
	})
	return idx
}

func (idx *Index) addLine(path string, line int) {
	if _, dup := idx.Lines[path]; !dup {
		idx.lineOrder = append(idx.lineOrder, path)
	}
	idx.Lines[path] = line
}

// Line returns the source line recorded for path
func (idx *Index) Line(path string) (int, bool) {
	line, ok := idx.Lines[path]
	return line, ok
}

// Element returns the element at path
func (idx *Index) Element(path string) (*xmltree.Element, bool) {
	e, ok := idx.elements[path]
	return e, ok
}

// ElementAtLine returns the first element, in document order, whose start tag begins on line
func (idx *Index) ElementAtLine(line int) (*xmltree.Element, bool) {
	e, ok := idx.firstAtLine[line]
	return e, ok
}

// ElementPaths returns every element path in document order
func (idx *Index) ElementPaths() []string {
	return idx.order
}

// LinePaths returns every path in Lines in document order: each element,
// then its attributes, then its tail
func (idx *Index) LinePaths() []string {
	return idx.lineOrder
}
