package console

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Position is a location in a source file
type Position struct {
	File   string
	Line   int
	Column int
}

// SourceError is a diagnostic tied to a position in a source file, rendered
// with the surrounding source lines
type SourceError struct {
	Position Position
	Severity string // "error", "warning", "info"
	Message  string
	// Context holds source lines; FirstLine is the line number of Context[0]
	Context   []string
	FirstLine int
	Hint      string
}

var (
	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF5555"))

	warningStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFB86C"))

	infoStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#8BE9FD"))

	successStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#50FA7B"))

	filePathStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#BD93F9"))

	lineNumberStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6272A4"))

	contextLineStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#F8F8F2"))

	highlightStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#FF5555")).
			Foreground(lipgloss.Color("#282A36"))

	hintStyle = lipgloss.NewStyle().
			Italic(true).
			Foreground(lipgloss.Color("#50FA7B"))

	verboseStyle = lipgloss.NewStyle().
			Italic(true).
			Foreground(lipgloss.Color("#6272A4"))
)

func isTTY() bool {
	return isatty.IsTerminal(os.Stdout.Fd())
}

// applyStyle renders text with style only when stdout is a terminal
func applyStyle(style lipgloss.Style, text string) string {
	if isTTY() {
		return style.Render(text)
	}
	return text
}

// ToRelativePath shortens an absolute path relative to the working directory
func ToRelativePath(path string) string {
	if !filepath.IsAbs(path) {
		return path
	}
	wd, err := os.Getwd()
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(wd, path)
	if err != nil {
		return path
	}
	return rel
}

// SourceLines returns up to radius lines either side of line (1-based) and
// the line number of the first returned line
func SourceLines(content string, line, radius int) ([]string, int) {
	lines := strings.Split(content, "\n")
	if line < 1 || line > len(lines) {
		return nil, 0
	}
	start := max(1, line-radius)
	end := min(len(lines), line+radius)
	return lines[start-1 : end], start
}

// FormatSourceError renders err as "file:line:col: severity: message"
// followed by the source context and an optional hint
func FormatSourceError(err SourceError) string {
	var out strings.Builder

	style, label := errorStyle, "error"
	switch err.Severity {
	case "warning":
		style, label = warningStyle, "warning"
	case "info":
		style, label = infoStyle, "info"
	}

	if err.Position.File != "" {
		location := ToRelativePath(err.Position.File)
		if err.Position.Line > 0 {
			location = fmt.Sprintf("%s:%d:%d", location, err.Position.Line, max(err.Position.Column, 1))
		}
		out.WriteString(applyStyle(filePathStyle, location+":"))
		out.WriteString(" ")
	}
	out.WriteString(applyStyle(style, label+":"))
	out.WriteString(" ")
	out.WriteString(err.Message)
	out.WriteString("\n")

	if len(err.Context) > 0 && err.Position.Line > 0 {
		out.WriteString(renderContext(err))
	}

	if err.Hint != "" {
		out.WriteString(applyStyle(hintStyle, "hint: "))
		out.WriteString(err.Hint)
		out.WriteString("\n")
	}
	return out.String()
}

func renderContext(err SourceError) string {
	var out strings.Builder

	first := err.FirstLine
	if first < 1 {
		first = err.Position.Line - len(err.Context)/2
	}
	width := len(fmt.Sprintf("%d", first+len(err.Context)-1))

	for i, text := range err.Context {
		n := first + i
		if n < 1 {
			continue
		}
		out.WriteString(applyStyle(lineNumberStyle, fmt.Sprintf("%*d", width, n)))
		out.WriteString(" | ")

		if n != err.Position.Line {
			out.WriteString(applyStyle(contextLineStyle, text))
			out.WriteString("\n")
			continue
		}

		col := err.Position.Column
		if col > 0 && col <= len(text) {
			out.WriteString(applyStyle(contextLineStyle, text[:col-1]))
			out.WriteString(applyStyle(highlightStyle, text[col-1:col]))
			out.WriteString(applyStyle(contextLineStyle, text[col:]))
		} else {
			out.WriteString(applyStyle(highlightStyle, text))
		}
		out.WriteString("\n")

		if col > 0 {
			out.WriteString(strings.Repeat(" ", width+3+col-1))
			out.WriteString(applyStyle(errorStyle, "^"))
			out.WriteString("\n")
		}
	}
	return out.String()
}

// FormatSuccessMessage formats a success message
func FormatSuccessMessage(message string) string {
	return applyStyle(successStyle, "✓ ") + message
}

// FormatInfoMessage formats an informational message
func FormatInfoMessage(message string) string {
	return applyStyle(infoStyle, "ℹ ") + message
}

// FormatWarningMessage formats a warning message
func FormatWarningMessage(message string) string {
	return applyStyle(warningStyle, "⚠ ") + message
}

// FormatErrorMessage formats a simple error message for stderr
func FormatErrorMessage(message string) string {
	return applyStyle(errorStyle, "✗ ") + message
}

// FormatVerboseMessage formats verbose tracing output
func FormatVerboseMessage(message string) string {
	return applyStyle(verboseStyle, "🔍 ") + message
}

// FormatLocationMessage formats a file location message
func FormatLocationMessage(message string) string {
	return applyStyle(warningStyle, "📁 ") + message
}

// FormatListHeader formats a section header
func FormatListHeader(header string) string {
	style := lipgloss.NewStyle().
		Bold(true).
		Underline(true).
		Foreground(lipgloss.Color("#50FA7B"))
	return applyStyle(style, header)
}

// FormatListItem formats an item in a list
func FormatListItem(item string) string {
	return applyStyle(contextLineStyle, "  • "+item)
}
