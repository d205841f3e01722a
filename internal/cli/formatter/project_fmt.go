package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/plancore/internal/app"
	"github.com/alexanderramin/plancore/internal/domain"
)

func onOff(b bool) string {
	if b {
		return StyleGreen.Render("on")
	}
	return Dim("off")
}

// FormatProjectList renders the organization's projects inside a bordered box.
func FormatProjectList(projects []*domain.Project) string {
	if len(projects) == 0 {
		return Dim("No projects. Import one with `plancore import FILE`.")
	}
	headers := []string{"ID", "NAME", "BUDGET", "EV", "WATERFALL"}
	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		rows = append(rows, []string{
			ShortID(p.ID),
			Bold(p.Name),
			FormatMoney(p.BudgetAmount),
			onOff(p.CostTrackingEnabled && p.EarnedValueEnabled),
			onOff(p.WaterfallEnabled),
		})
	}
	return RenderBox("Projects", RenderTable(headers, rows, 2))
}

// FormatTaskList renders a project's tasks with their planned window and progress.
func FormatTaskList(p *domain.Project, tasks []*domain.Task) string {
	headers := []string{"ID", "TITLE", "START", "END", "DONE", "PRIORITY", "VER"}
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		title := TruncateString(t.Title, 40)
		if t.IsMilestone {
			title = StyleBlue.Render("◆ ") + title
		}
		rows = append(rows, []string{
			ShortID(t.ID),
			title,
			FormatTime(t.PlannedStart),
			FormatTime(t.PlannedEnd),
			fmt.Sprintf("%d%%", t.PercentComplete),
			strings.ToLower(string(t.Priority)),
			fmt.Sprintf("%d", t.Version),
		})
	}
	return RenderBox(p.Name, RenderTable(headers, rows, 4, 6))
}

// FormatImportResult summarises an import and lists the ids assigned to each ref.
func FormatImportResult(res *app.ImportResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Imported project %s [%s]: %d tasks, %d dependencies\n",
		Bold(res.Project.Name), res.Project.ID, res.TaskCount, res.DependencyCount)
	if len(res.RefIDs) == 0 {
		return b.String()
	}
	rows := make([][]string, 0, len(res.RefIDs))
	for _, ref := range sortedKeys(res.RefIDs) {
		rows = append(rows, []string{ref, res.RefIDs[ref]})
	}
	b.WriteString("\n")
	b.WriteString(RenderTable([]string{"REF", "TASK ID"}, rows))
	return b.String()
}
