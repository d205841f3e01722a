package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/plancore/internal/domain"
)

// FormatEarnedValue renders one snapshot as a labelled card.
func FormatEarnedValue(s *domain.EarnedValueSnapshot) string {
	baseline := "active"
	if s.BaselineID != nil {
		baseline = *s.BaselineID
	}
	lines := []string{
		fmt.Sprintf("%s %s   %s %s", Bold("As of:"), s.AsOfDate.UTC().Format(dateLayout), Bold("Baseline:"), baseline),
		"",
		fmt.Sprintf("%-4s %14s", "BAC", FormatMoney(s.BAC)),
		fmt.Sprintf("%-4s %14s", "PV", FormatMoney(s.PV)),
		fmt.Sprintf("%-4s %14s", "EV", FormatMoney(s.EV)),
		fmt.Sprintf("%-4s %14s", "AC", FormatMoney(s.AC)),
		"",
		fmt.Sprintf("CPI %s   SPI %s", FormatIndex(s.CPI), FormatIndex(s.SPI)),
		fmt.Sprintf("EAC %s   ETC %s   VAC %s",
			FormatOptionalMoney(s.EAC), FormatOptionalMoney(s.ETC), FormatOptionalMoney(s.VAC)),
	}
	return RenderBox("Earned value", strings.Join(lines, "\n"))
}

// FormatEarnedValueHistory renders stored snapshots in date order.
func FormatEarnedValueHistory(snaps []*domain.EarnedValueSnapshot) string {
	if len(snaps) == 0 {
		return Dim("No snapshots recorded.") + "\n"
	}
	headers := []string{"DATE", "PV", "EV", "AC", "CPI", "SPI", "EAC"}
	rows := make([][]string, 0, len(snaps))
	for _, s := range snaps {
		rows = append(rows, []string{
			s.AsOfDate.UTC().Format(dateLayout),
			FormatMoney(s.PV),
			FormatMoney(s.EV),
			FormatMoney(s.AC),
			FormatIndex(s.CPI),
			FormatIndex(s.SPI),
			FormatOptionalMoney(s.EAC),
		})
	}
	return RenderTable(headers, rows, 1, 2, 3, 4, 5, 6)
}
