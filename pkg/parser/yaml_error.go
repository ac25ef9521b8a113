package parser

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// goccy/go-yaml: "[3:7] mapping value is not allowed in this context"
	bracketPositionPattern = regexp.MustCompile(`^\[(\d+):(\d+)\]\s*(.*)$`)
	// "yaml: line 3: did not find expected key"
	yamlLinePattern = regexp.MustCompile(`yaml: line (\d+):\s*(.*)$`)
)

// ExtractYAMLError pulls the line, column and bare message out of a YAML
// decoding error. line is 0 when the error carries no position.
func ExtractYAMLError(err error) (line int, column int, message string) {
	errStr := err.Error()
	first, _, _ := strings.Cut(strings.TrimSpace(errStr), "\n")

	if m := bracketPositionPattern.FindStringSubmatch(first); m != nil {
		line, _ = strconv.Atoi(m[1])
		column, _ = strconv.Atoi(m[2])
		return line, column, strings.TrimSpace(m[3])
	}

	if m := yamlLinePattern.FindStringSubmatch(first); m != nil {
		line, _ = strconv.Atoi(m[1])
		return line, 1, strings.TrimSpace(m[2])
	}

	return 0, 0, errStr
}
