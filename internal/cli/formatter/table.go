package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const colGap = 2

// RenderTable renders an aligned table with a header separator line.
// Columns are padded to the widest visible cell, so styled cells align.
func RenderTable(headers []string, rows [][]string) string {
	if len(headers) == 0 {
		return ""
	}
	cols := len(headers)

	widths := make([]int, cols)
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i := 0; i < cols && i < len(row); i++ {
			if w := lipgloss.Width(row[i]); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var b strings.Builder
	writeRow := func(cells []string, style func(string) string) {
		for i := 0; i < cols; i++ {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			pad := max(widths[i]-lipgloss.Width(cell), 0)
			b.WriteString(style(cell))
			if i < cols-1 {
				b.WriteString(strings.Repeat(" ", pad+colGap))
			}
		}
		b.WriteString("\n")
	}

	writeRow(headers, func(s string) string { return render(StyleHeader, s) })

	for i, w := range widths {
		b.WriteString(Dim(strings.Repeat("─", w)))
		if i < cols-1 {
			b.WriteString(strings.Repeat(" ", colGap))
		}
	}
	b.WriteString("\n")

	for _, row := range rows {
		writeRow(row, func(s string) string { return s })
	}
	return b.String()
}
