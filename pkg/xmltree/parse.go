package xmltree

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"
)

// ErrNoRoot indicates that the input contained no root element
var ErrNoRoot = errors.New("document has no root element")

// ParseOptions controls how tolerant the parser is
type ParseOptions struct {
	// Recover keeps whatever tree could be built from malformed input:
	// unknown entities, mismatched or missing end tags and trailing syntax
	// errors are tolerated as long as a root element was seen.
	Recover bool
}

// Parse reads an XML document, recording the source line of every node
func Parse(r io.Reader, opts ParseOptions) (*Document, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charsetReader
	if opts.Recover {
		dec.Strict = false
		dec.Entity = xml.HTMLEntity
	}

	b := &treeBuilder{doc: &Document{}, recover: opts.Recover}
	for {
		// The decoder sits right after the previous token, which is where this one starts
		line, _ := dec.InputPos()
		tok, err := dec.RawToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			if opts.Recover && b.doc.Root != nil {
				break
			}
			return nil, fmt.Errorf("xml syntax error: %w", err)
		}
		if err := b.add(tok, line); err != nil {
			return nil, err
		}
	}

	if b.doc.Root == nil {
		return nil, ErrNoRoot
	}
	if len(b.stack) > 0 && !opts.Recover {
		open := b.stack[len(b.stack)-1]
		return nil, fmt.Errorf("line %d: element <%s> is never closed", open.Line, open.Name())
	}
	return b.doc, nil
}

// charsetReader decodes documents that declare a non-UTF-8 encoding
func charsetReader(label string, input io.Reader) (io.Reader, error) {
	enc, err := ianaindex.IANA.Encoding(label)
	if err != nil || enc == nil {
		return nil, fmt.Errorf("unsupported document encoding %q", label)
	}
	return transform.NewReader(input, enc.NewDecoder()), nil
}

// ParseString parses an in-memory document
func ParseString(s string, opts ParseOptions) (*Document, error) {
	return Parse(strings.NewReader(s), opts)
}

// ParseFile parses the document stored at path
func ParseFile(path string, opts ParseOptions) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc, err := Parse(f, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

type treeBuilder struct {
	doc     *Document
	stack   []*Element
	recover bool
}

func (b *treeBuilder) top() *Element {
	if len(b.stack) == 0 {
		return nil
	}
	return b.stack[len(b.stack)-1]
}

func (b *treeBuilder) add(tok xml.Token, line int) error {
	switch t := tok.(type) {
	case xml.StartElement:
		el := &Element{Kind: ElementNode, Space: t.Name.Space, Tag: t.Name.Local, Line: line}
		for _, a := range t.Attr {
			el.Attrs = append(el.Attrs, Attr{Space: a.Name.Space, Key: a.Name.Local, Value: a.Value})
		}
		switch parent := b.top(); {
		case parent != nil:
			parent.AddChild(el)
		case b.doc.Root == nil:
			b.doc.Root = el
		case !b.recover:
			return fmt.Errorf("line %d: element <%s> follows the root element", line, el.Name())
		}
		// A second top-level element in recover mode stays detached and is dropped
		b.stack = append(b.stack, el)

	case xml.EndElement:
		return b.end(t.Name, line)

	case xml.CharData:
		b.text(string(t))

	case xml.Comment:
		b.node(&Element{Kind: CommentNode, Text: string(t), Line: line})

	case xml.ProcInst:
		if t.Target == "xml" {
			return nil
		}
		b.node(&Element{Kind: ProcInstNode, Tag: t.Target, Text: string(t.Inst), Line: line})

	case xml.Directive:
		b.node(&Element{Kind: DirectiveNode, Text: string(t), Line: line})
	}
	return nil
}

func (b *treeBuilder) end(name xml.Name, line int) error {
	matches := func(e *Element) bool {
		return e.Space == name.Space && e.Tag == name.Local
	}

	if top := b.top(); top != nil && matches(top) {
		b.stack = b.stack[:len(b.stack)-1]
		return nil
	}
	if !b.recover {
		if top := b.top(); top != nil {
			return fmt.Errorf("line %d: element <%s> closed by </%s>", line, top.Name(), qualifiedName(name))
		}
		return fmt.Errorf("line %d: unexpected end tag </%s>", line, qualifiedName(name))
	}

	for i := len(b.stack) - 1; i >= 0; i-- {
		if matches(b.stack[i]) {
			b.stack = b.stack[:i]
			return nil
		}
	}
	// Stray end tag, nothing to close
	return nil
}

func (b *treeBuilder) text(s string) {
	top := b.top()
	if top == nil {
		return
	}
	if n := len(top.Children); n > 0 {
		top.Children[n-1].Tail += s
		return
	}
	top.Text += s
}

func (b *treeBuilder) node(n *Element) {
	switch {
	case b.top() != nil:
		b.top().AddChild(n)
	case b.doc.Root == nil:
		b.doc.Prolog = append(b.doc.Prolog, n)
	default:
		b.doc.Epilog = append(b.doc.Epilog, n)
	}
}

func qualifiedName(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}
