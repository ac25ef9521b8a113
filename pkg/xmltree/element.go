package xmltree

import "strings"

// NodeKind distinguishes elements from the other nodes kept in the tree
type NodeKind int

const (
	ElementNode NodeKind = iota
	CommentNode
	ProcInstNode
	DirectiveNode
)

// Attr is a single attribute. Space holds the raw prefix (e.g. "xmlns" or "xsi").
type Attr struct {
	Space string
	Key   string
	Value string
}

// FullKey returns the attribute name as written in the source ("prefix:key" or "key")
func (a Attr) FullKey() string {
	if a.Space == "" {
		return a.Key
	}
	return a.Space + ":" + a.Key
}

// Element is a node of the document tree. Non-element nodes (comments,
// processing instructions) reuse the type so they keep their place among
// their siblings; for those Text holds the node content and Tag the target.
type Element struct {
	Kind     NodeKind
	Space    string
	Tag      string
	Attrs    []Attr
	Text     string
	Tail     string
	Children []*Element
	Parent   *Element
	// Line is the 1-based line where the start tag begins, 0 when unknown
	Line int
}

// Document is a parsed XML document
type Document struct {
	// Prolog holds comments, processing instructions and directives before the root
	Prolog []*Element
	Root   *Element
	// Epilog holds comments and processing instructions after the root
	Epilog []*Element
}

// NewElement creates a detached element. A "prefix:local" name is split.
func NewElement(name string) *Element {
	space, local := splitName(name)
	return &Element{Kind: ElementNode, Space: space, Tag: local}
}

// NewDocument creates a document with the given root element
func NewDocument(root *Element) *Document {
	return &Document{Root: root}
}

// AddChild appends child to e and returns the child
func (e *Element) AddChild(child *Element) *Element {
	child.Parent = e
	e.Children = append(e.Children, child)
	return child
}

// IsElement reports whether the node is an element
func (e *Element) IsElement() bool {
	return e.Kind == ElementNode
}

// Name returns the qualified name as written in the source
func (e *Element) Name() string {
	if e.Space == "" {
		return e.Tag
	}
	return e.Space + ":" + e.Tag
}

// ChildElements returns the element children in document order
func (e *Element) ChildElements() []*Element {
	var out []*Element
	for _, c := range e.Children {
		if c.IsElement() {
			out = append(out, c)
		}
	}
	return out
}

// SelectAttr returns the attribute with the given full key, or nil
func (e *Element) SelectAttr(key string) *Attr {
	for i := range e.Attrs {
		if e.Attrs[i].FullKey() == key {
			return &e.Attrs[i]
		}
	}
	return nil
}

// AttrValue returns the value of the attribute with the given full key
func (e *Element) AttrValue(key string) (string, bool) {
	if a := e.SelectAttr(key); a != nil {
		return a.Value, true
	}
	return "", false
}

// SetAttr replaces the value of an existing attribute or appends a new one
func (e *Element) SetAttr(key, value string) {
	if a := e.SelectAttr(key); a != nil {
		a.Value = value
		return
	}
	space, local := splitName(key)
	e.Attrs = append(e.Attrs, Attr{Space: space, Key: local, Value: value})
}

// RemoveAttr deletes the attribute with the given full key and reports whether it existed
func (e *Element) RemoveAttr(key string) bool {
	for i := range e.Attrs {
		if e.Attrs[i].FullKey() == key {
			e.Attrs = append(e.Attrs[:i], e.Attrs[i+1:]...)
			return true
		}
	}
	return false
}

// Iter calls fn for e and every descendant element in depth-first document order.
// Iteration stops when fn returns false.
func (e *Element) Iter(fn func(*Element) bool) bool {
	if e.IsElement() && !fn(e) {
		return false
	}
	for _, c := range e.Children {
		if c.IsElement() && !c.Iter(fn) {
			return false
		}
	}
	return true
}

func splitName(name string) (space, local string) {
	if i := strings.IndexByte(name, ':'); i > 0 {
		return name[:i], name[i+1:]
	}
	return "", name
}
