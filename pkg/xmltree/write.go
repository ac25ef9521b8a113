package xmltree

import (
	"bufio"
	"io"
	"os"
	"strings"
)

const xmlDeclaration = "<?xml version='1.0' encoding='UTF-8'?>\n"

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	attrEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"\n", "&#10;",
		"\r", "&#13;",
		"\t", "&#9;",
	)
)

// Write serializes the document with an XML declaration
func (d *Document) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)
	bw.WriteString(xmlDeclaration)

	for _, n := range d.Prolog {
		writeNode(bw, n)
		bw.WriteByte('\n')
	}
	if d.Root != nil {
		writeNode(bw, d.Root)
		bw.WriteByte('\n')
	}
	for _, n := range d.Epilog {
		writeNode(bw, n)
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// String returns the serialized document
func (d *Document) String() string {
	var sb strings.Builder
	_ = d.Write(&sb)
	return sb.String()
}

// WriteFile serializes the document to path
func (d *Document) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := d.Write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeNode(w *bufio.Writer, e *Element) {
	switch e.Kind {
	case CommentNode:
		w.WriteString("<!--")
		w.WriteString(e.Text)
		w.WriteString("-->")
	case ProcInstNode:
		w.WriteString("<?")
		w.WriteString(e.Tag)
		if e.Text != "" {
			w.WriteByte(' ')
			w.WriteString(e.Text)
		}
		w.WriteString("?>")
	case DirectiveNode:
		w.WriteString("<!")
		w.WriteString(e.Text)
		w.WriteString(">")
	default:
		writeElement(w, e)
	}
	if e.Parent != nil {
		textEscaper.WriteString(w, e.Tail)
	}
}

func writeElement(w *bufio.Writer, e *Element) {
	w.WriteByte('<')
	w.WriteString(e.Name())
	for _, a := range e.Attrs {
		w.WriteByte(' ')
		w.WriteString(a.FullKey())
		w.WriteString(`="`)
		attrEscaper.WriteString(w, a.Value)
		w.WriteByte('"')
	}

	if e.Text == "" && len(e.Children) == 0 {
		w.WriteString("/>")
		return
	}
	w.WriteByte('>')
	textEscaper.WriteString(w, e.Text)
	for _, c := range e.Children {
		writeNode(w, c)
	}
	w.WriteString("</")
	w.WriteString(e.Name())
	w.WriteByte('>')
}
