package parser

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/githubnext/xmlannotate/pkg/annotate"
	"github.com/githubnext/xmlannotate/pkg/classify"
	"github.com/githubnext/xmlannotate/pkg/console"
	"github.com/goccy/go-yaml"
)

// DiagnosticsFile is the structured diagnostics format
type DiagnosticsFile struct {
	Document    string            `yaml:"document" json:"document,omitempty"`
	Diagnostics []DiagnosticEntry `yaml:"diagnostics" json:"diagnostics"`
}

// DiagnosticEntry is one validator message. Kind, when set, carries the
// finding directly and the message is not classified.
type DiagnosticEntry struct {
	Message  string   `yaml:"message" json:"message"`
	Path     string   `yaml:"path" json:"path,omitempty"`
	Line     int      `yaml:"line" json:"line,omitempty"`
	Kind     string   `yaml:"kind" json:"kind,omitempty"`
	Names    []string `yaml:"names" json:"names,omitempty"`
	Actual   string   `yaml:"actual" json:"actual,omitempty"`
	Expected []string `yaml:"expected" json:"expected,omitempty"`
}

// IsStructuredFile reports whether path names a YAML or JSON diagnostics file
func IsStructuredFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}

// LoadDiagnostics reads diagnostics from path. YAML and JSON files use the
// structured format; anything else is read as validator text output.
func LoadDiagnostics(path string) ([]annotate.Diagnostic, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read diagnostics: %w", err)
	}
	if IsStructuredFile(path) {
		return ParseDiagnosticsFile(content, path)
	}
	return ParseValidatorLog(bytes.NewReader(content))
}

// ParseDiagnosticsFile decodes and validates a structured diagnostics file
func ParseDiagnosticsFile(content []byte, filePath string) ([]annotate.Diagnostic, error) {
	var raw any
	if err := yaml.Unmarshal(content, &raw); err != nil {
		return nil, formatSyntaxError(err, content, filePath)
	}
	if raw == nil {
		return nil, errors.New(console.FormatSourceError(console.SourceError{
			Position: console.Position{File: filePath},
			Message:  "diagnostics file is empty",
			Hint:     "expected a 'diagnostics' list",
		}))
	}
	if err := ValidateDiagnosticsDocument(raw, content, filePath); err != nil {
		return nil, err
	}

	var file DiagnosticsFile
	if err := yaml.Unmarshal(content, &file); err != nil {
		return nil, formatSyntaxError(err, content, filePath)
	}

	diags := make([]annotate.Diagnostic, 0, len(file.Diagnostics))
	for _, entry := range file.Diagnostics {
		d, err := entry.Diagnostic()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filePath, err)
		}
		diags = append(diags, d)
	}
	return diags, nil
}

// Diagnostic converts the entry, building the finding when Kind is set
func (e DiagnosticEntry) Diagnostic() (annotate.Diagnostic, error) {
	d := annotate.Diagnostic{Message: e.Message, Path: e.Path, Line: e.Line}
	if e.Kind == "" {
		return d, nil
	}

	kind, err := classify.ParseKind(e.Kind)
	if err != nil {
		return d, err
	}
	f := classify.Finding{Kind: kind, Names: e.Names, Actual: e.Actual}
	if kind == classify.UnexpectedElement {
		if e.Actual == "" {
			return d, fmt.Errorf("diagnostic %q: kind %s needs 'actual'", e.Message, kind)
		}
		f.Names = append(append([]string(nil), e.Expected...), e.Names...)
	}
	d.Finding = &f
	return d, nil
}

func formatSyntaxError(err error, content []byte, filePath string) error {
	line, column, msg := ExtractYAMLError(err)
	srcErr := console.SourceError{
		Position: console.Position{File: filePath, Line: line, Column: column},
		Message:  msg,
		Hint:     "diagnostics files are YAML or JSON",
	}
	if line > 0 {
		srcErr.Context, srcErr.FirstLine = console.SourceLines(string(content), line, 2)
	}
	return errors.New(console.FormatSourceError(srcErr))
}
