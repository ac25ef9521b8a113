package parser

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/githubnext/xmlannotate/pkg/annotate"
)

var (
	// xmlschema prints one multi-line report per error
	reportStartPattern = regexp.MustCompile(`^(failed validating|failed decoding|failed encoding)\b`)
	reportPathPattern  = regexp.MustCompile(`^\s*Path:\s*(/\S*)\s*$`)
	reportLinePattern  = regexp.MustCompile(`^\s*Instance \(line (\d+)\):\s*$`)

	// xmllint and most compilers: "cars.xml:12: element car: ..."
	lineDiagnosticPattern = regexp.MustCompile(`^(\S.*?):(\d+):(?:\d+:)?\s*(.+)$`)
	// xmllint summary lines carry no diagnostic
	summaryPattern = regexp.MustCompile(`^\S+ (validates|fails to validate)$`)
)

// ParseValidatorLog reads validator text output. Multi-line xmlschema reports
// become one diagnostic each, located by their "Path:" and "Instance (line N)"
// lines; "file:line: message" lines are located by line; any other non-blank
// line is a diagnostic without a location.
func ParseValidatorLog(r io.Reader) ([]annotate.Diagnostic, error) {
	var (
		diags  []annotate.Diagnostic
		report []string
	)

	flush := func() {
		if len(report) == 0 {
			return
		}
		diags = append(diags, reportDiagnostic(report))
		report = nil
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")

		if reportStartPattern.MatchString(line) {
			flush()
			report = append(report, line)
			continue
		}
		if report != nil {
			report = append(report, line)
			// "Path:" is the last line of a report
			if reportPathPattern.MatchString(line) {
				flush()
			}
			continue
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" || summaryPattern.MatchString(trimmed) {
			continue
		}
		if m := lineDiagnosticPattern.FindStringSubmatch(trimmed); m != nil {
			n, _ := strconv.Atoi(m[2])
			diags = append(diags, annotate.Diagnostic{Message: m[3], Line: n})
			continue
		}
		diags = append(diags, annotate.Diagnostic{Message: trimmed})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read validator output: %w", err)
	}
	flush()
	return diags, nil
}

func reportDiagnostic(lines []string) annotate.Diagnostic {
	d := annotate.Diagnostic{Message: strings.TrimSpace(strings.Join(lines, "\n"))}
	for _, line := range lines {
		if m := reportPathPattern.FindStringSubmatch(line); m != nil {
			d.Path = m[1]
		}
		if m := reportLinePattern.FindStringSubmatch(line); m != nil {
			d.Line, _ = strconv.Atoi(m[1])
		}
	}
	return d
}
