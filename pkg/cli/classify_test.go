package cli

import (
	"bytes"
	"strings"
	"testing"
)

func TestReadMessages(t *testing.T) {
	messages, err := ReadMessages(strings.NewReader("first\n\n  second  \n"))
	if err != nil {
		t.Fatalf("ReadMessages() error = %v", err)
	}
	if len(messages) != 2 || messages[0] != "first" || messages[1] != "second" {
		t.Errorf("Unexpected messages: %q", messages)
	}
}

func TestPrintClassifications(t *testing.T) {
	var out bytes.Buffer
	err := PrintClassifications(&out, []string{
		"Element 'a' is not complete. Tag 'c' expected.",
		"value must be positive",
	})
	if err != nil {
		t.Fatalf("PrintClassifications() error = %v", err)
	}
	for _, want := range []string{"missing-elements", "Add missing tags: c", "generic", "value must be positive"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("Expected output to contain %q, got:\n%s", want, out.String())
		}
	}
}
