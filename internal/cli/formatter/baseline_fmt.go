package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/plancore/internal/domain"
	"github.com/alexanderramin/plancore/internal/scheduler"
)

func activeMark(active bool) string {
	if active {
		return StyleGreen.Render("● active")
	}
	return ""
}

// FormatBaseline renders a baseline header and its captured items.
func FormatBaseline(b *domain.Baseline, titles map[string]string) string {
	var out strings.Builder
	fmt.Fprintf(&out, "%s %s [%s] %s\n", Bold("Baseline"), b.Name, b.ID, activeMark(b.IsActive))
	fmt.Fprintf(&out, "%s %s by %s, %d items\n", Dim("captured"),
		b.CreatedAt.UTC().Format(dateTimeLayout), orDash(b.CreatedBy), len(b.Items))
	if len(b.Items) == 0 {
		return out.String()
	}

	headers := []string{"#", "TASK", "START", "END", "DURATION", "FLOAT", ""}
	rows := make([][]string, 0, len(b.Items))
	for _, it := range b.Items {
		rows = append(rows, []string{
			fmt.Sprintf("%d", it.Position),
			TruncateString(titleOf(titles, it.TaskID), 40),
			FormatTime(it.PlannedStart),
			FormatTime(it.PlannedEnd),
			FormatMinutes(it.DurationMinutes),
			FormatMinutes(it.FloatMinutes),
			CriticalMark(it.IsCritical),
		})
	}
	out.WriteString("\n")
	out.WriteString(RenderTable(headers, rows, 0, 4, 5))
	return out.String()
}

// FormatBaselineList renders baseline headers, newest first.
func FormatBaselineList(baselines []*domain.Baseline) string {
	if len(baselines) == 0 {
		return Dim("No baselines captured yet.") + "\n"
	}
	headers := []string{"ID", "NAME", "CREATED", "BY", ""}
	rows := make([][]string, 0, len(baselines))
	for _, b := range baselines {
		rows = append(rows, []string{
			b.ID,
			Bold(b.Name),
			b.CreatedAt.UTC().Format(dateTimeLayout),
			orDash(b.CreatedBy),
			activeMark(b.IsActive),
		})
	}
	return RenderTable(headers, rows)
}

// FormatVarianceReport renders per-task drift against a baseline and the summary counts.
func FormatVarianceReport(r *scheduler.VarianceReport) string {
	var b strings.Builder
	headers := []string{"TASK", "BASE END", "CURRENT END", "START Δ", "END Δ", "DURATION Δ", ""}
	rows := make([][]string, 0, len(r.Items))
	for _, it := range r.Items {
		title := TruncateString(it.Title, 40)
		if it.Deleted {
			title = Dim(title)
		}
		rows = append(rows, []string{
			title,
			FormatTime(it.BaselineEnd),
			FormatTime(it.CurrentEnd),
			FormatVariance(it.StartVarianceMinutes),
			FormatVariance(it.EndVarianceMinutes),
			FormatVariance(it.DurationVarianceMinutes),
			CriticalMark(it.WasCritical),
		})
	}
	b.WriteString(RenderTable(headers, rows, 3, 4, 5))
	fmt.Fprintf(&b, "\n%d items: %s late, %s early\n", r.TotalItems,
		StyleRed.Render(fmt.Sprintf("%d", r.CountLate)), StyleGreen.Render(fmt.Sprintf("%d", r.CountEarly)))
	fmt.Fprintf(&b, "%s %s   %s %s\n",
		Bold("Max slip:"), FormatVariance(r.MaxSlipMinutes),
		Bold("Critical path slip:"), FormatVariance(r.CriticalPathSlipMinutes))
	return b.String()
}

func orDash(s string) string {
	if s == "" {
		return none
	}
	return s
}
