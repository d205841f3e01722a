package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/plancore/internal/domain"
)

// FormatLevelingRecommendations renders one suggested shift per overloaded day.
func FormatLevelingRecommendations(recs []domain.LevelingRecommendation) string {
	if len(recs) == 0 {
		return StyleGreen.Render("No leveling needed.") + "\n"
	}
	var b strings.Builder
	headers := []string{"USER", "DAY", "TASK", "FROM", "TO", "FLOAT", ""}
	rows := make([][]string, 0, len(recs))
	for _, r := range recs {
		float := Dim("unknown")
		if r.TotalFloat != nil {
			float = FormatMinutes(*r.TotalFloat)
		}
		rows = append(rows, []string{
			r.UserID,
			r.Date.UTC().Format(dateLayout),
			TruncateString(r.TaskTitle, 32),
			FormatTime(r.CurrentStart),
			StyleYellow.Render(FormatTime(&r.RecommendedStart)),
			float,
			CriticalMark(r.OnCriticalPath),
		})
	}
	b.WriteString(RenderTable(headers, rows, 5))
	b.WriteString("\n")
	for _, r := range recs {
		fmt.Fprintf(&b, "%s %s\n", Dim("·"), r.Justification)
	}
	return b.String()
}
