package formatter

import (
	"fmt"
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderUsage renders how much of a budget is used, like [████░░░░]  45%.
// The bar turns yellow from 66% and red from 90%.
func RenderUsage(used, limit float64, width int) string {
	pct := 0.0
	if limit > 0 {
		pct = used / limit
	}
	pct = min(max(pct, 0), 1)
	width = max(width, 2)

	filled := min(int(pct*float64(width)), width)
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	style := StyleGreen
	if pct >= 0.9 {
		style = StyleRed
	} else if pct >= 0.66 {
		style = StyleYellow
	}

	return fmt.Sprintf("[%s] %3.0f%%", render(style, bar), pct*100)
}
