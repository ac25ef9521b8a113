package main

import (
	"bytes"
	"os"
	"testing"
)

func TestValidateReportFormat(t *testing.T) {
	tests := []struct {
		name      string
		format    string
		expectErr bool
	}{
		{name: "json", format: "json"},
		{name: "msgpack", format: "msgpack"},
		{name: "empty", format: "", expectErr: true},
		{name: "case sensitive", format: "JSON", expectErr: true},
		{name: "unknown", format: "xml", expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateReportFormat(tt.format)
			if tt.expectErr {
				if err == nil {
					t.Errorf("validateReportFormat(%q) expected error but got none", tt.format)
				} else if want := "invalid report format '" + tt.format + "'. Must be 'json' or 'msgpack'"; err.Error() != want {
					t.Errorf("validateReportFormat(%q) error = %q, want %q", tt.format, err.Error(), want)
				}
			} else if err != nil {
				t.Errorf("validateReportFormat(%q) unexpected error: %v", tt.format, err)
			}
		})
	}
}

func TestMainFunction(t *testing.T) {
	t.Run("root command setup", func(t *testing.T) {
		if rootCmd.Use == "" || rootCmd.Short == "" || rootCmd.Long == "" {
			t.Error("rootCmd should have Use, Short and Long set")
		}
		if version == "" {
			t.Error("version should default to a non-empty value")
		}
	})

	t.Run("subcommands are available", func(t *testing.T) {
		names := map[string]bool{}
		for _, cmd := range rootCmd.Commands() {
			names[cmd.Name()] = true
		}
		for _, want := range []string{"annotate", "batch", "index", "classify", "mcp-server", "version"} {
			if !names[want] {
				t.Errorf("%s command should be available", want)
			}
		}
	})

	t.Run("global flags", func(t *testing.T) {
		for _, name := range []string{"verbose", "config"} {
			if rootCmd.PersistentFlags().Lookup(name) == nil {
				t.Errorf("--%s should be a global flag", name)
			}
		}
	})

	t.Run("annotate flag defaults", func(t *testing.T) {
		tests := map[string]string{
			"output":        "modified_source.xml",
			"errors-log":    "validation_errors.log",
			"report-format": "json",
		}
		for name, want := range tests {
			flag := annotateCmd.Flags().Lookup(name)
			if flag == nil {
				t.Errorf("annotate should have a --%s flag", name)
				continue
			}
			if flag.DefValue != want {
				t.Errorf("--%s default = %q, want %q", name, flag.DefValue, want)
			}
		}
	})

	t.Run("root command help", func(t *testing.T) {
		oldStdout := os.Stdout
		r, w, _ := os.Pipe()
		os.Stdout = w

		rootCmd.SetArgs([]string{"--help"})
		err := rootCmd.Execute()

		w.Close()
		os.Stdout = oldStdout

		var buf bytes.Buffer
		_, _ = buf.ReadFrom(r)

		if err != nil {
			t.Errorf("root command help failed: %v", err)
		}
		if buf.Len() == 0 {
			t.Error("root command help should produce output")
		}

		rootCmd.SetArgs([]string{})
	})
}
