package scheduler

import (
	"time"

	"github.com/alexanderramin/plancore/internal/domain"
)

type EarnedValueInput struct {
	AsOf             time.Time
	BAC              float64
	LaborRatePerHour float64
	Items            []domain.BaselineItem
	// Tasks are the live project tasks; AC covers all of them.
	Tasks []*domain.Task
}

type EarnedValueResult struct {
	BAC float64
	PV  float64
	EV  float64
	AC  float64
	CPI *float64
	SPI *float64
	EAC *float64
	ETC *float64
	VAC *float64
}

// ItemWeights returns each baseline item's share of BAC, proportional to its
// baseline duration. When no item has a duration every item gets 1/N.
func ItemWeights(items []domain.BaselineItem) []float64 {
	weights := make([]float64, len(items))
	if len(items) == 0 {
		return weights
	}
	var total float64
	for _, it := range items {
		if it.DurationMinutes > 0 {
			total += it.DurationMinutes
		}
	}
	for i, it := range items {
		switch {
		case total <= 0:
			weights[i] = 1 / float64(len(items))
		case it.DurationMinutes > 0:
			weights[i] = it.DurationMinutes / total
		}
	}
	return weights
}

// PlannedFraction is how much of an item the baseline expected done at asOf.
// Items missing either date count as fully planned.
func PlannedFraction(item domain.BaselineItem, asOf time.Time) float64 {
	if item.PlannedStart == nil || item.PlannedEnd == nil {
		return 1
	}
	start, end := *item.PlannedStart, *item.PlannedEnd
	if !asOf.Before(end) {
		return 1
	}
	if asOf.Before(start) {
		return 0
	}
	span := end.Sub(start)
	if span <= 0 {
		return 1
	}
	return float64(asOf.Sub(start)) / float64(span)
}

// ComputeEarnedValue derives PV, EV, AC and the performance indices.
// Indices that would divide by zero are nil, and nil propagates.
func ComputeEarnedValue(in EarnedValueInput) EarnedValueResult {
	res := EarnedValueResult{BAC: in.BAC}

	byID := make(map[string]*domain.Task, len(in.Tasks))
	for _, t := range in.Tasks {
		byID[t.ID] = t
	}

	weights := ItemWeights(in.Items)
	for i, item := range in.Items {
		share := weights[i] * in.BAC
		res.PV += share * PlannedFraction(item, in.AsOf)
		if t, ok := byID[item.TaskID]; ok {
			res.EV += share * float64(t.PercentComplete) / 100
		}
	}

	for _, t := range in.Tasks {
		res.AC += t.ActualHours * in.LaborRatePerHour
	}

	if res.AC != 0 {
		res.CPI = ptr(res.EV / res.AC)
	}
	if res.PV != 0 {
		res.SPI = ptr(res.EV / res.PV)
	}
	if res.CPI != nil && *res.CPI > 0 {
		res.EAC = ptr(in.BAC / *res.CPI)
		res.ETC = ptr(*res.EAC - res.AC)
		res.VAC = ptr(in.BAC - *res.EAC)
	}
	return res
}

func ptr(v float64) *float64 { return &v }
