package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/githubnext/xmlannotate/pkg/annotate"
	"github.com/githubnext/xmlannotate/pkg/config"
	"github.com/githubnext/xmlannotate/pkg/console"
	"github.com/githubnext/xmlannotate/pkg/parser"
	"github.com/githubnext/xmlannotate/pkg/xmltree"
	"github.com/vmihailenco/msgpack/v5"
)

// AnnotateOptions describes one annotate run
type AnnotateOptions struct {
	DocumentPath    string
	DiagnosticsPath string

	// Output is where the annotated document is written
	Output string
	// ErrorsLog receives every raw diagnostic message; "" disables it
	ErrorsLog string
	// ReportPath, when set, receives the run summary in ReportFormat
	ReportPath   string
	ReportFormat string

	Recover    bool
	Attributes annotate.Attributes

	// Show prints every invalid element with its source context
	Show    bool
	Verbose bool
}

// NewAnnotateOptions fills the file independent settings from cfg
func NewAnnotateOptions(cfg config.Config, documentPath, diagnosticsPath string) AnnotateOptions {
	return AnnotateOptions{
		DocumentPath:    documentPath,
		DiagnosticsPath: diagnosticsPath,
		Output:          cfg.Output,
		ErrorsLog:       cfg.ErrorsLog,
		ReportFormat:    cfg.ReportFormat,
		Recover:         cfg.Recover,
		Attributes: annotate.Attributes{
			Valid:   cfg.ValidAttribute,
			Suggest: cfg.SuggestAttribute,
		},
	}
}

// AnnotateFile parses the document and its diagnostics, annotates the
// document and writes the output files. It prints nothing.
func AnnotateFile(opts AnnotateOptions) (*annotate.Result, error) {
	doc, err := xmltree.ParseFile(opts.DocumentPath, xmltree.ParseOptions{Recover: opts.Recover})
	if err != nil {
		return nil, err
	}
	diags, err := parser.LoadDiagnostics(opts.DiagnosticsPath)
	if err != nil {
		return nil, err
	}

	var log bytes.Buffer
	result, err := annotate.Run(doc, diags, annotate.Options{
		Attributes: opts.Attributes,
		Log:        &log,
	})
	if err != nil {
		return nil, err
	}
	result.Document = opts.DocumentPath

	if err := doc.WriteFile(opts.Output); err != nil {
		return nil, fmt.Errorf("failed to write annotated document: %w", err)
	}
	if opts.ErrorsLog != "" && result.Diagnostics > 0 {
		if err := os.WriteFile(opts.ErrorsLog, log.Bytes(), 0644); err != nil {
			return nil, fmt.Errorf("failed to write errors log: %w", err)
		}
	}
	if opts.ReportPath != "" {
		if err := WriteReport(result, opts.ReportPath, opts.ReportFormat); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// RunAnnotate runs AnnotateFile and prints the outcome
func RunAnnotate(opts AnnotateOptions) error {
	if opts.Verbose {
		fmt.Fprintln(os.Stderr, console.FormatVerboseMessage(fmt.Sprintf("Annotating %s with %s", opts.DocumentPath, opts.DiagnosticsPath)))
	}

	result, err := AnnotateFile(opts)
	if err != nil {
		return err
	}

	if opts.Show {
		if source, err := os.ReadFile(opts.DocumentPath); err == nil {
			fmt.Print(RenderInvalidElements(result, opts.DocumentPath, source))
		} else if opts.Verbose {
			fmt.Fprintln(os.Stderr, console.FormatWarningMessage(fmt.Sprintf("Cannot show source context: %v", err)))
		}
	}

	fmt.Print(RenderSummary(result))
	if len(result.Unresolved) > 0 {
		fmt.Fprintln(os.Stderr, console.FormatWarningMessage(fmt.Sprintf("%d diagnostics could not be attached to an element", len(result.Unresolved))))
		if opts.Verbose {
			fmt.Fprintln(os.Stderr, console.FormatListHeader("Unresolved diagnostics"))
			for _, u := range result.Unresolved {
				fmt.Fprintln(os.Stderr, console.FormatListItem(fmt.Sprintf("%s: %s", u.Location, u.Message)))
			}
		}
	}

	if result.Valid() {
		fmt.Println(console.FormatSuccessMessage(fmt.Sprintf("%s is valid", console.ToRelativePath(opts.DocumentPath))))
	} else {
		fmt.Println(console.FormatInfoMessage(fmt.Sprintf("Annotated document written to %s", console.ToRelativePath(opts.Output))))
		if opts.ErrorsLog != "" {
			fmt.Println(console.FormatLocationMessage(fmt.Sprintf("Diagnostics logged to %s", console.ToRelativePath(opts.ErrorsLog))))
		}
	}
	if opts.ReportPath != "" && opts.Verbose {
		fmt.Fprintln(os.Stderr, console.FormatVerboseMessage(fmt.Sprintf("Report written to %s (%s)", opts.ReportPath, opts.ReportFormat)))
	}
	return nil
}

// RenderSummary renders the run counters as a table
func RenderSummary(result *annotate.Result) string {
	return console.RenderTable(console.Table{
		Title:   "Annotation summary",
		Headers: []string{"Elements", "Diagnostics", "Classified", "Invalid", "Suggestions", "Unresolved"},
		Rows: [][]string{{
			strconv.Itoa(result.Elements),
			strconv.Itoa(result.Diagnostics),
			strconv.Itoa(result.Classified),
			strconv.Itoa(result.Invalid),
			strconv.Itoa(result.Suggestions),
			strconv.Itoa(len(result.Unresolved)),
		}},
	})
}

// RenderInvalidElements renders every invalid element as a source error
// pointing at its start tag, with the suggestion as the hint
func RenderInvalidElements(result *annotate.Result, file string, source []byte) string {
	var out bytes.Buffer
	for _, entry := range result.Entries {
		if entry.Valid {
			continue
		}
		srcErr := console.SourceError{
			Position: console.Position{File: console.ToRelativePath(file), Line: entry.Line},
			Severity: "error",
			Message:  fmt.Sprintf("element %s is invalid", entry.Path),
			Hint:     entry.Suggestion,
		}
		if entry.Line > 0 {
			srcErr.Context, srcErr.FirstLine = console.SourceLines(string(source), entry.Line, 1)
		}
		out.WriteString(console.FormatSourceError(srcErr))
	}
	return out.String()
}

// WriteReport writes result to path as JSON or msgpack
func WriteReport(result *annotate.Result, path, format string) error {
	var (
		data []byte
		err  error
	)
	switch format {
	case "", "json":
		data, err = json.MarshalIndent(result, "", "  ")
		data = append(data, '\n')
	case "msgpack":
		data, err = msgpack.Marshal(result)
	default:
		return fmt.Errorf("unsupported report format %q (use json or msgpack)", format)
	}
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
