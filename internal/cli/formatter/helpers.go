package formatter

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/alexanderramin/studytime/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// RenderBox wraps content in a rounded-border box with an optional title.
// In plain mode the title is printed as a header above the content.
func RenderBox(title string, content string) string {
	if plain {
		if title == "" {
			return content
		}
		return Header(title) + "\n" + content
	}

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		return boxStyle.Render(StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + content)
	}
	return boxStyle.Render(content)
}

// FormatSeconds renders a duration in seconds as "2h 5m", "41m 3s" or "12s".
// Fractions are rounded to the nearest second.
func FormatSeconds(sec float64) string {
	total := int64(math.Round(sec))
	if total <= 0 {
		return "0s"
	}
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	switch {
	case h > 0 && m > 0:
		return fmt.Sprintf("%dh %dm", h, m)
	case h > 0:
		return fmt.Sprintf("%dh", h)
	case m > 0 && s > 0:
		return fmt.Sprintf("%dm %ds", m, s)
	case m > 0:
		return fmt.Sprintf("%dm", m)
	default:
		return fmt.Sprintf("%ds", s)
	}
}

// FormatScore renders an optional score with the given precision.
func FormatScore(v *float64, prec int) string {
	if v == nil {
		return Dim("--")
	}
	return fmt.Sprintf("%.*f", prec, *v)
}

// FormatDate renders a study date.
func FormatDate(t time.Time) string {
	return t.Format(domain.DateLayout)
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return Dim(id)
}

// Truncate shortens s to n visible characters with an ellipsis.
func Truncate(s string, n int) string {
	r := []rune(s)
	if n <= 3 || len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
