package parser

import (
	"strings"
	"testing"
)

func TestValidateDiagnosticsDocument(t *testing.T) {
	tests := []struct {
		name        string
		doc         any
		wantErr     bool
		errContains string
	}{
		{
			name: "minimal",
			doc: map[string]any{
				"diagnostics": []any{map[string]any{"message": "value must be positive"}},
			},
		},
		{
			name: "fully structured entry",
			doc: map[string]any{
				"document": "cars.xml",
				"diagnostics": []any{map[string]any{
					"message":  "Unexpected child with tag 'x' at position 1.",
					"path":     "/a",
					"line":     uint64(3),
					"kind":     "unexpected-element",
					"actual":   "x",
					"expected": []any{"b"},
				}},
			},
		},
		{
			name:        "missing diagnostics list",
			doc:         map[string]any{},
			wantErr:     true,
			errContains: "diagnostics",
		},
		{
			name: "entry without message",
			doc: map[string]any{
				"diagnostics": []any{map[string]any{"path": "/a"}},
			},
			wantErr:     true,
			errContains: "message",
		},
		{
			name: "unknown key",
			doc: map[string]any{
				"diagnostics": []any{map[string]any{"message": "m", "severity": "high"}},
			},
			wantErr:     true,
			errContains: "severity",
		},
		{
			name: "line below one",
			doc: map[string]any{
				"diagnostics": []any{map[string]any{"message": "m", "line": 0}},
			},
			wantErr:     true,
			errContains: "/diagnostics/0/line",
		},
		{
			name: "unknown kind",
			doc: map[string]any{
				"diagnostics": []any{map[string]any{"message": "m", "kind": "typo"}},
			},
			wantErr:     true,
			errContains: "/diagnostics/0/kind",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDiagnosticsDocument(tt.doc, nil, "diagnostics.yaml")
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateDiagnosticsDocument() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !strings.Contains(err.Error(), tt.errContains) {
				t.Errorf("Expected error to contain %q, got:\n%v", tt.errContains, err)
			}
		})
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		config  map[string]any
		wantErr bool
	}{
		{"empty", map[string]any{}, false},
		{"nil", nil, false},
		{"all keys", map[string]any{
			"valid_attribute":   "ok",
			"suggest_attribute": "xsd:hint",
			"output":            "out.xml",
			"errors_log":        "errors.log",
			"recover":           true,
			"report_format":     "msgpack",
			"workers":           int64(4),
		}, false},
		{"bad report format", map[string]any{"report_format": "xml"}, true},
		{"bad attribute name", map[string]any{"valid_attribute": "1bad"}, true},
		{"zero workers", map[string]any{"workers": 0}, true},
		{"unknown key", map[string]any{"colour": "red"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateConfig(tt.config, nil, ".xmlannotate.toml")
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidationErrorPointsAtSource(t *testing.T) {
	source := []byte(`diagnostics:
  - message: "first"
  - message: "second"
    line: zero
`)
	raw := map[string]any{
		"diagnostics": []any{
			map[string]any{"message": "first"},
			map[string]any{"message": "second", "line": "zero"},
		},
	}

	err := ValidateDiagnosticsDocument(raw, source, "diagnostics.yaml")
	if err == nil {
		t.Fatal("Expected validation error")
	}
	msg := err.Error()
	for _, want := range []string{"diagnostics.yaml:4:", "/diagnostics/1/line", "4 |     line: zero", "hint:"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Expected error to contain %q, got:\n%s", want, msg)
		}
	}
}

func TestExtractSchemaViolations(t *testing.T) {
	err := validateWithSchema(map[string]any{
		"diagnostics": []any{map[string]any{"path": "/a", "extra": 1}},
	}, diagnosticsSchema, "diagnostics file")
	if err == nil {
		t.Fatal("Expected validation error")
	}

	violations := ExtractSchemaViolations(err)
	byKeyword := map[string]SchemaViolation{}
	for _, v := range violations {
		byKeyword[v.Keyword] = v
	}

	required, ok := byKeyword["required"]
	if !ok || required.Property != "message" || required.Pointer != "/diagnostics/0" {
		t.Errorf("Unexpected required violation: %+v (all: %+v)", required, violations)
	}
	extra, ok := byKeyword["additionalProperties"]
	if !ok || extra.Property != "extra" {
		t.Errorf("Unexpected additionalProperties violation: %+v (all: %+v)", extra, violations)
	}

	if ExtractSchemaViolations(nil) != nil {
		t.Errorf("Expected no violations for nil error")
	}
}
