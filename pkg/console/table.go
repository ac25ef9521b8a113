package console

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	tableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#BD93F9")).
				Background(lipgloss.Color("#44475A"))

	tableCellStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8F8F2"))

	tableBorderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#6272A4"))

	tableTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#50FA7B"))
)

// Table is a simple column-aligned table. Footer, when set, is rendered
// below a separator in bold.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
	Footer  []string
}

// RenderTable renders t, or "" when it has no headers
func RenderTable(t Table) string {
	if len(t.Headers) == 0 {
		return ""
	}

	widths := make([]int, len(t.Headers))
	for i, h := range t.Headers {
		widths[i] = len(h)
	}
	measure := func(row []string) {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}
	for _, row := range t.Rows {
		measure(row)
	}
	measure(t.Footer)

	separator := make([]string, len(widths))
	for i, w := range widths {
		separator[i] = strings.Repeat("-", w)
	}

	var out strings.Builder
	if t.Title != "" {
		out.WriteString(applyStyle(tableTitleStyle, t.Title))
		out.WriteString("\n\n")
	}
	out.WriteString(renderRow(t.Headers, widths, tableHeaderStyle))
	out.WriteString(renderRow(separator, widths, tableBorderStyle))
	for _, row := range t.Rows {
		out.WriteString(renderRow(row, widths, tableCellStyle))
	}
	if len(t.Footer) > 0 {
		out.WriteString(renderRow(separator, widths, tableBorderStyle))
		out.WriteString(renderRow(t.Footer, widths, successStyle))
	}
	return out.String()
}

func renderRow(cells []string, widths []int, style lipgloss.Style) string {
	var row strings.Builder
	for i, w := range widths {
		var cell string
		if i < len(cells) {
			cell = cells[i]
		}
		if i > 0 {
			row.WriteString(applyStyle(tableBorderStyle, " | "))
		}
		if i == len(widths)-1 {
			row.WriteString(applyStyle(style, cell))
		} else {
			row.WriteString(applyStyle(style, fmt.Sprintf("%-*s", w, cell)))
		}
	}
	row.WriteString("\n")
	return row.String()
}
