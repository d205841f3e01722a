package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/plancore/internal/app"
)

// FormatRescheduleResult reports the updated task and any cascaded successors.
func FormatRescheduleResult(res *app.RescheduleResult) string {
	var b strings.Builder
	t := res.Task
	fmt.Fprintf(&b, "%s %s now %s → %s (version %d)\n", StyleGreen.Render("✓"), Bold(t.Title),
		FormatTime(t.PlannedStart), FormatTime(t.PlannedEnd), t.Version)
	if len(res.Shifted) == 0 {
		return b.String()
	}

	shortfall := make(map[string]float64, len(res.Resolved))
	for _, v := range res.Resolved {
		if v.ShortfallMinutes > shortfall[v.SuccessorID] {
			shortfall[v.SuccessorID] = v.ShortfallMinutes
		}
	}
	fmt.Fprintf(&b, "\nCascaded %d successor(s):\n", len(res.Shifted))
	rows := make([][]string, 0, len(res.Shifted))
	for _, s := range res.Shifted {
		rows = append(rows, []string{
			TruncateString(s.Title, 40),
			FormatTime(s.PlannedStart),
			FormatTime(s.PlannedEnd),
			FormatVariance(shortfall[s.ID]),
		})
	}
	b.WriteString(RenderTable([]string{"TASK", "NEW START", "NEW END", "SHIFT"}, rows, 3))
	return b.String()
}
