package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/githubnext/xmlannotate/pkg/classify"
	"github.com/githubnext/xmlannotate/pkg/console"
)

// ReadMessages returns the non-blank lines of r
func ReadMessages(r io.Reader) ([]string, error) {
	var messages []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			messages = append(messages, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read messages: %w", err)
	}
	return messages, nil
}

// PrintClassifications classifies every message and writes one row per
// message with its kind and the suggestion it would produce
func PrintClassifications(w io.Writer, messages []string) error {
	classifier := classify.NewPatternClassifier()

	rows := make([][]string, 0, len(messages))
	for _, m := range messages {
		f := classifier.Classify(m)
		suggestion := f.Suggestion()
		if suggestion == "" {
			suggestion = "-"
		}
		rows = append(rows, []string{f.Kind.String(), suggestion, m})
	}

	_, err := fmt.Fprint(w, console.RenderTable(console.Table{
		Headers: []string{"Kind", "Suggestion", "Message"},
		Rows:    rows,
	}))
	return err
}
