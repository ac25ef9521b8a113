package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/githubnext/xmlannotate/pkg/annotate"
	"github.com/githubnext/xmlannotate/pkg/console"
	"github.com/githubnext/xmlannotate/pkg/xmltree"
)

// IndexDocument parses path and builds its location index
func IndexDocument(path string, recover bool) (*annotate.Index, error) {
	doc, err := xmltree.ParseFile(path, xmltree.ParseOptions{Recover: recover})
	if err != nil {
		return nil, err
	}
	return annotate.NewIndex(doc), nil
}

// PrintIndex writes the path to line mapping of the document at path in
// document order. With elementsOnly, attribute and tail entries are left out.
func PrintIndex(w io.Writer, path string, recover, elementsOnly bool) error {
	idx, err := IndexDocument(path, recover)
	if err != nil {
		return err
	}

	paths := idx.LinePaths()
	if elementsOnly {
		paths = idx.ElementPaths()
	}
	rows := make([][]string, 0, len(paths))
	for _, p := range paths {
		line, _ := idx.Line(p)
		rows = append(rows, []string{strconv.Itoa(line), p})
	}

	_, err = fmt.Fprint(w, console.RenderTable(console.Table{
		Title:   console.ToRelativePath(path),
		Headers: []string{"Line", "Path"},
		Rows:    rows,
		Footer:  []string{strconv.Itoa(len(rows)), "entries"},
	}))
	return err
}
