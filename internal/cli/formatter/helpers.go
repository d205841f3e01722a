package formatter

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04"
	none           = "—"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2)

	if title != "" {
		return boxStyle.Render(StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + content)
	}
	return boxStyle.Render(content)
}

// FormatTime prints a date, adding the clock only when it is not midnight.
func FormatTime(t *time.Time) string {
	if t == nil {
		return none
	}
	u := t.UTC()
	if u.Hour() == 0 && u.Minute() == 0 {
		return u.Format(dateLayout)
	}
	return u.Format(dateTimeLayout)
}

// FormatMinutes renders a duration in minutes as "2d 3h 15m" using calendar days.
func FormatMinutes(min float64) string {
	if min == 0 {
		return "0m"
	}
	sign := ""
	if min < 0 {
		sign = "-"
		min = -min
	}
	total := int(math.Round(min))
	d, h, m := total/(24*60), (total/60)%24, total%60

	var parts []string
	if d > 0 {
		parts = append(parts, fmt.Sprintf("%dd", d))
	}
	if h > 0 {
		parts = append(parts, fmt.Sprintf("%dh", h))
	}
	if m > 0 || len(parts) == 0 {
		parts = append(parts, fmt.Sprintf("%dm", m))
	}
	return sign + strings.Join(parts, " ")
}

// FormatVariance renders a signed minute delta with slip colouring.
func FormatVariance(min float64) string {
	text := FormatMinutes(min)
	if min > 0 {
		text = "+" + text
	}
	return SlipStyle(min).Render(text)
}

// FormatIndex renders an optional ratio, "n/a" when not computable.
func FormatIndex(v *float64) string {
	if v == nil {
		return IndexStyle(v).Render("n/a")
	}
	return IndexStyle(v).Render(fmt.Sprintf("%.2f", *v))
}

// FormatMoney renders an amount with thousands separators and two decimals.
func FormatMoney(v float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	s := fmt.Sprintf("%.2f", v)
	intPart, frac := s[:len(s)-3], s[len(s)-3:]

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return sign + b.String() + frac
}

// FormatOptionalMoney renders nil as "n/a".
func FormatOptionalMoney(v *float64) string {
	if v == nil {
		return Dim("n/a")
	}
	return FormatMoney(*v)
}

// ShortID trims a uuid to its first segment for display.
func ShortID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 && len(id) == 36 {
		return id[:i]
	}
	return id
}

// TruncateString shortens s to max runes, ending with an ellipsis.
func TruncateString(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
