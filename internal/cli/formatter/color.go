package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// DisableColor strips ANSI styling from all subsequent rendering.
func DisableColor() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

// CriticalMark flags tasks on the critical path.
func CriticalMark(critical bool) string {
	if critical {
		return StyleRed.Render("● critical")
	}
	return StyleDim.Render("·")
}

// SlipStyle colours a variance in minutes: late is red, early green.
func SlipStyle(minutes float64) lipgloss.Style {
	switch {
	case minutes > 0:
		return StyleRed
	case minutes < 0:
		return StyleGreen
	default:
		return StyleDim
	}
}

// IndexStyle colours a performance index (CPI/SPI) around 1.0.
func IndexStyle(v *float64) lipgloss.Style {
	switch {
	case v == nil:
		return StyleDim
	case *v >= 1:
		return StyleGreen
	case *v >= 0.9:
		return StyleYellow
	default:
		return StyleRed
	}
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", len(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}
