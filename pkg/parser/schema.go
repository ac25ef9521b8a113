package parser

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/githubnext/xmlannotate/internal/mapper"
	"github.com/githubnext/xmlannotate/pkg/console"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed schemas/diagnostics_schema.json
var diagnosticsSchema string

//go:embed schemas/config_schema.json
var configSchema string

// SchemaViolation is one leaf failure reported by the schema validator
type SchemaViolation struct {
	// Pointer is the JSON pointer of the failing value, "" for the document root
	Pointer  string
	Keyword  string
	Property string
	Message  string
}

var printer = message.NewPrinter(language.English)

var quotedName = regexp.MustCompile(`'([^']+)'`)

// ValidateDiagnosticsDocument validates a decoded diagnostics file. source
// and filePath, when given, are used to point at the offending line.
func ValidateDiagnosticsDocument(doc any, source []byte, filePath string) error {
	return validateWithSchemaAndLocation(doc, diagnosticsSchema, "diagnostics file", filePath, source,
		"each diagnostic needs a 'message' and may carry 'path', 'line', 'kind', 'names', 'actual' and 'expected'")
}

// ValidateConfig validates a decoded configuration file. source may be nil
// for formats the YAML locator cannot read.
func ValidateConfig(config map[string]any, source []byte, filePath string) error {
	if config == nil {
		config = map[string]any{}
	}
	return validateWithSchemaAndLocation(config, configSchema, "configuration", filePath, source,
		"supported keys: valid_attribute, suggest_attribute, output, errors_log, recover, report_format, workers")
}

func compileSchema(schemaJSON, context string) (*jsonschema.Schema, error) {
	var schemaDoc any
	if err := json.Unmarshal([]byte(schemaJSON), &schemaDoc); err != nil {
		return nil, fmt.Errorf("schema validation error for %s: failed to parse schema JSON: %w", context, err)
	}

	compiler := jsonschema.NewCompiler()
	schemaURL := "https://xmlannotate.githubnext.com/schema.json"
	if err := compiler.AddResource(schemaURL, schemaDoc); err != nil {
		return nil, fmt.Errorf("schema validation error for %s: failed to add schema resource: %w", context, err)
	}
	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("schema validation error for %s: %w", context, err)
	}
	return schema, nil
}

// validateWithSchema validates data after normalising it through JSON, so
// integer types produced by the YAML decoder compare like JSON numbers
func validateWithSchema(data any, schemaJSON, context string) error {
	schema, err := compileSchema(schemaJSON, context)
	if err != nil {
		return err
	}

	if data == nil {
		data = map[string]any{}
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("schema validation error for %s: failed to marshal document: %w", context, err)
	}
	var normalized any
	if err := json.Unmarshal(raw, &normalized); err != nil {
		return fmt.Errorf("schema validation error for %s: failed to unmarshal document: %w", context, err)
	}

	return schema.Validate(normalized)
}

func validateWithSchemaAndLocation(data any, schemaJSON, context, filePath string, source []byte, hint string) error {
	err := validateWithSchema(data, schemaJSON, context)
	if err == nil {
		return nil
	}

	violations := ExtractSchemaViolations(err)
	if len(violations) == 0 {
		return err
	}

	var out strings.Builder
	for _, v := range violations {
		srcErr := console.SourceError{
			Position: console.Position{File: filePath},
			Message:  fmt.Sprintf("invalid %s: %s", context, v.Message),
			Hint:     hint,
		}
		if v.Pointer != "" {
			srcErr.Message = fmt.Sprintf("invalid %s at '%s': %s", context, v.Pointer, v.Message)
		}
		if len(source) > 0 {
			spans, mapErr := mapper.MapErrorToSpans(source, v.Pointer, mapper.ErrorMeta{Keyword: v.Keyword, Property: v.Property})
			if mapErr == nil && len(spans) > 0 {
				srcErr.Position.Line = spans[0].StartLine
				srcErr.Position.Column = spans[0].StartCol
				srcErr.Context, srcErr.FirstLine = console.SourceLines(string(source), spans[0].StartLine, 2)
			}
		}
		out.WriteString(console.FormatSourceError(srcErr))
	}
	return errors.New(strings.TrimRight(out.String(), "\n"))
}

// ExtractSchemaViolations flattens a jsonschema validation error into its
// leaf failures, in the order the validator reported them
func ExtractSchemaViolations(err error) []SchemaViolation {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return nil
	}
	var out []SchemaViolation
	collectViolations(ve, &out)
	return out
}

func collectViolations(ve *jsonschema.ValidationError, out *[]SchemaViolation) {
	if len(ve.Causes) > 0 {
		for _, cause := range ve.Causes {
			collectViolations(cause, out)
		}
		return
	}

	v := SchemaViolation{
		Pointer: mapper.EncodeJSONPointer(ve.InstanceLocation),
		Message: ve.ErrorKind.LocalizedString(printer),
	}
	if path := ve.ErrorKind.KeywordPath(); len(path) > 0 {
		v.Keyword = path[len(path)-1]
	}
	if v.Keyword == "required" || v.Keyword == "additionalProperties" {
		if m := quotedName.FindStringSubmatch(v.Message); m != nil {
			v.Property = m[1]
		}
	}
	*out = append(*out, v)
}
