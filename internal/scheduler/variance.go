package scheduler

import (
	"time"

	"github.com/alexanderramin/plancore/internal/domain"
)

// DeletedTaskTitle labels baseline items whose task no longer exists.
const DeletedTaskTitle = "(deleted)"

// BuildBaselineItems captures each task's planned dates together with the
// engine's duration, criticality and float, in topological order.
func BuildBaselineItems(tasks []*domain.Task, result *Result) []domain.BaselineItem {
	byID := make(map[string]*domain.Task, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
	}
	items := make([]domain.BaselineItem, 0, len(result.Order))
	for pos, id := range result.Order {
		t, ok := byID[id]
		if !ok {
			continue
		}
		node := result.Nodes[id]
		items = append(items, domain.BaselineItem{
			TaskID:          id,
			Position:        pos,
			PlannedStart:    copyTime(t.PlannedStart),
			PlannedEnd:      copyTime(t.PlannedEnd),
			DurationMinutes: node.Duration,
			IsCritical:      node.Critical,
			FloatMinutes:    node.TotalFloat,
		})
	}
	return items
}

type ItemVariance struct {
	TaskID                  string
	Title                   string
	Deleted                 bool
	BaselineStart           *time.Time
	BaselineEnd             *time.Time
	CurrentStart            *time.Time
	CurrentEnd              *time.Time
	BaselineDurationMinutes float64
	CurrentDurationMinutes  float64
	StartVarianceMinutes    float64
	EndVarianceMinutes      float64
	DurationVarianceMinutes float64
	WasCritical             bool
	BaselineFloatMinutes    float64
}

type VarianceReport struct {
	BaselineID string
	ProjectID  string
	Items      []ItemVariance
	TotalItems int
	CountLate  int
	CountEarly int
	// MaxSlipMinutes is the largest positive end variance across all items.
	MaxSlipMinutes float64
	// CriticalPathSlipMinutes only considers items critical when the baseline
	// was captured, not on the live critical path.
	CriticalPathSlipMinutes float64
}

// CompareBaseline measures how far the live tasks have drifted from a baseline.
func CompareBaseline(baseline *domain.Baseline, current []*domain.Task) *VarianceReport {
	byID := make(map[string]*domain.Task, len(current))
	for _, t := range current {
		byID[t.ID] = t
	}

	report := &VarianceReport{
		BaselineID: baseline.ID,
		ProjectID:  baseline.ProjectID,
		Items:      make([]ItemVariance, 0, len(baseline.Items)),
		TotalItems: len(baseline.Items),
	}

	for _, item := range baseline.Items {
		v := ItemVariance{
			TaskID:                  item.TaskID,
			BaselineStart:           item.PlannedStart,
			BaselineEnd:             item.PlannedEnd,
			BaselineDurationMinutes: item.DurationMinutes,
			WasCritical:             item.IsCritical,
			BaselineFloatMinutes:    item.FloatMinutes,
		}

		if t, ok := byID[item.TaskID]; ok {
			v.Title = t.Title
			v.CurrentStart = t.PlannedStart
			v.CurrentEnd = t.PlannedEnd
			v.CurrentDurationMinutes = TaskDuration(t, ModePlanned)
		} else {
			v.Title = DeletedTaskTitle
			v.Deleted = true
		}

		v.StartVarianceMinutes = diffMinutes(v.CurrentStart, item.PlannedStart)
		v.EndVarianceMinutes = diffMinutes(v.CurrentEnd, item.PlannedEnd)
		v.DurationVarianceMinutes = v.CurrentDurationMinutes - item.DurationMinutes

		switch {
		case v.EndVarianceMinutes > 0:
			report.CountLate++
			if v.EndVarianceMinutes > report.MaxSlipMinutes {
				report.MaxSlipMinutes = v.EndVarianceMinutes
			}
			if item.IsCritical && v.EndVarianceMinutes > report.CriticalPathSlipMinutes {
				report.CriticalPathSlipMinutes = v.EndVarianceMinutes
			}
		case v.EndVarianceMinutes < 0:
			report.CountEarly++
		}

		report.Items = append(report.Items, v)
	}
	return report
}

// diffMinutes returns current - baseline in minutes, or 0 when either is missing.
func diffMinutes(current, baseline *time.Time) float64 {
	if current == nil || baseline == nil {
		return 0
	}
	return current.Sub(*baseline).Minutes()
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
