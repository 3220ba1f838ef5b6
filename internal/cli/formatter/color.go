package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/studytime/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// plain disables all styling, e.g. when stdout is not a terminal.
var plain bool

// SetPlain switches between styled and plain output.
func SetPlain(p bool) { plain = p }

// Plain reports whether styling is disabled.
func Plain() bool { return plain }

func render(s lipgloss.Style, text string) string {
	if plain {
		return text
	}
	return s.Render(text)
}

// StatusStyle returns the style for a record status.
func StatusStyle(s domain.StudyTimeStatus) lipgloss.Style {
	switch s {
	case domain.StatusValid, domain.StatusApproved:
		return StyleGreen
	case domain.StatusPartial, domain.StatusReviewing, domain.StatusPending:
		return StyleYellow
	case domain.StatusInvalid, domain.StatusRejected:
		return StyleRed
	case domain.StatusSuspended:
		return StylePurple
	default:
		return StyleDim
	}
}

// StatusPill returns a colored status indicator such as "● Valid".
func StatusPill(s domain.StudyTimeStatus) string {
	icon := "●"
	switch s {
	case domain.StatusInvalid, domain.StatusRejected:
		icon = "✖"
	case domain.StatusApproved:
		icon = "✔"
	case domain.StatusExcluded, domain.StatusExpired:
		icon = "○"
	}
	return render(StatusStyle(s), icon+" "+s.Label())
}

// ReasonLabel renders the invalid reason of a record, or a dim placeholder.
func ReasonLabel(r *domain.InvalidTimeReason) string {
	if r == nil {
		return Dim("--")
	}
	return render(StyleYellow, r.Label())
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", len(upper))
	return fmt.Sprintf("%s\n%s", render(StyleHeader, upper), Dim(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return render(StyleDim, text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return render(StyleBold, text)
}
