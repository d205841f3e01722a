package formatter

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/alexanderramin/plancore/internal/scheduler"
)

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func titleOf(titles map[string]string, id string) string {
	if t, ok := titles[id]; ok {
		return t
	}
	return ShortID(id)
}

// FormatCriticalPath renders the engine result in topological order.
// titles maps task ids to display titles.
func FormatCriticalPath(res *scheduler.Result, titles map[string]string) string {
	var b strings.Builder
	if len(res.Errors) > 0 {
		b.WriteString(FormatGraphFindings(res, titles))
		b.WriteString("\n")
		if len(res.Order) == 0 {
			return b.String()
		}
	}
	if len(res.Order) == 0 {
		return Dim("No tasks to schedule.") + "\n"
	}

	headers := []string{"TASK", "DURATION", "EARLY START", "EARLY FINISH", "FLOAT", ""}
	rows := make([][]string, 0, len(res.Order))
	for _, id := range res.Order {
		n := res.Nodes[id]
		rows = append(rows, []string{
			TruncateString(titleOf(titles, id), 40),
			FormatMinutes(n.Duration),
			FormatTime(res.At(n.EarlyStart)),
			FormatTime(res.At(n.EarlyFinish)),
			FormatMinutes(n.TotalFloat),
			CriticalMark(n.Critical),
		})
	}
	b.WriteString(RenderTable(headers, rows, 1, 4))

	path := make([]string, len(res.CriticalPath))
	for i, id := range res.CriticalPath {
		path[i] = titleOf(titles, id)
	}
	fmt.Fprintf(&b, "\n%s %s\n", Bold("Critical path:"), StyleRed.Render(strings.Join(path, " → ")))
	fmt.Fprintf(&b, "%s %s", Bold("Project length:"), FormatMinutes(res.ProjectFinish))
	if finish := res.At(res.ProjectFinish); finish != nil {
		fmt.Fprintf(&b, " (finishes %s)", FormatTime(finish))
	}
	b.WriteString("\n")
	return b.String()
}

// FormatGraphFindings lists integrity findings, or reports a clean graph.
func FormatGraphFindings(res *scheduler.Result, titles map[string]string) string {
	if len(res.Errors) == 0 {
		return StyleGreen.Render("✓ dependency graph is acyclic") +
			fmt.Sprintf(" (%d tasks)\n", len(res.Order))
	}
	var b strings.Builder
	for _, err := range res.Errors {
		fmt.Fprintf(&b, "%s %s\n", StyleRed.Render("✗"), err.Error())
		var ge *scheduler.GraphError
		if errors.As(err, &ge) {
			for _, id := range ge.TaskIDs {
				fmt.Fprintf(&b, "    %s %s\n", Dim("·"), titleOf(titles, id))
			}
		}
	}
	return b.String()
}
