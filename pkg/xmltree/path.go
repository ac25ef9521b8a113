package xmltree

import "fmt"

// Path returns the canonical structural path of the node: "/root/child[2]/leaf".
// The positional suffix is only added when several siblings share the name.
func (e *Element) Path() string {
	if e.Parent == nil {
		return "/" + segmentName(e)
	}
	return e.Parent.Path() + "/" + e.Segment()
}

// Segment returns the last step of Path: the name plus a positional suffix
// when siblings share it
func (e *Element) Segment() string {
	if e.Parent == nil {
		return segmentName(e)
	}
	return segment(e, e.Parent.Children)
}

// Walk visits every element below and including root in depth-first order,
// passing the same path Element.Path would compute.
func Walk(root *Element, fn func(e *Element, path string)) {
	if root == nil || !root.IsElement() {
		return
	}
	var path string
	if root.Parent == nil {
		path = "/" + segmentName(root)
	} else {
		path = root.Path()
	}
	walk(root, path, fn)
}

func walk(e *Element, path string, fn func(*Element, string)) {
	fn(e, path)
	for _, c := range e.Children {
		if !c.IsElement() {
			continue
		}
		walk(c, path+"/"+segment(c, e.Children), fn)
	}
}

func segment(e *Element, siblings []*Element) string {
	name := segmentName(e)
	count, pos := 0, 0
	for _, s := range siblings {
		if s.Kind != e.Kind || segmentName(s) != name {
			continue
		}
		count++
		if s == e {
			pos = count
		}
	}
	if count > 1 {
		return fmt.Sprintf("%s[%d]", name, pos)
	}
	return name
}

func segmentName(e *Element) string {
	switch e.Kind {
	case CommentNode:
		return "comment()"
	case ProcInstNode:
		return "processing-instruction()"
	case DirectiveNode:
		return "node()"
	default:
		return e.Name()
	}
}
