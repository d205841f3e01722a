package scheduler

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/alexanderramin/plancore/internal/domain"
)

// LevelingShiftWorkingDays is the shift applied to the top candidate of each
// overloaded day. It is the smallest safe increment, not a full resolution.
const LevelingShiftWorkingDays = 1

type LevelingCandidate struct {
	Task           *domain.Task
	OnCriticalPath bool
	// TotalFloat is nil when float is unknown (non-waterfall projects).
	TotalFloat *float64
}

// LevelingCandidates builds the movable candidates for one overallocation
// entry. Milestones, hard-constrained tasks and unknown ids are excluded.
// With a nil cpm result every candidate is non-critical with unknown float.
func LevelingCandidates(entry domain.OverallocationEntry, tasks map[string]*domain.Task, cpm *Result) []LevelingCandidate {
	var out []LevelingCandidate
	for _, id := range entry.TaskIDs {
		t, ok := tasks[id]
		if !ok || t.IsMilestone || t.HasHardConstraint() {
			continue
		}
		c := LevelingCandidate{Task: t}
		if cpm != nil {
			if node, ok := cpm.Nodes[id]; ok {
				c.OnCriticalPath = node.Critical
				f := node.TotalFloat
				c.TotalFloat = &f
			}
		}
		out = append(out, c)
	}
	return out
}

// SortLevelingCandidates orders candidates by:
// 1. Non-critical before critical
// 2. Higher float first (unknown last)
// 3. Lower priority first
// Ties keep their input order.
func SortLevelingCandidates(candidates []LevelingCandidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]

		if a.OnCriticalPath != b.OnCriticalPath {
			return !a.OnCriticalPath
		}

		if (a.TotalFloat == nil) != (b.TotalFloat == nil) {
			return a.TotalFloat != nil
		}
		if a.TotalFloat != nil && *a.TotalFloat != *b.TotalFloat {
			return *a.TotalFloat > *b.TotalFloat
		}

		return a.Task.Priority.Rank() < b.Task.Priority.Rank()
	})
}

// RecommendLeveling proposes one shift per overloaded (user, date) entry.
// It never mutates tasks. Entries with no eligible candidate, or whose demand
// fits capacity, yield no recommendation.
func RecommendLeveling(entries []domain.OverallocationEntry, tasks []*domain.Task, cpm *Result) []domain.LevelingRecommendation {
	byID := make(map[string]*domain.Task, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
	}

	var recs []domain.LevelingRecommendation
	for _, entry := range entries {
		if entry.OverHours() <= 0 {
			continue
		}
		candidates := LevelingCandidates(entry, byID, cpm)
		if len(candidates) == 0 {
			continue
		}
		SortLevelingCandidates(candidates)
		top := candidates[0]

		base := entry.Date
		if top.Task.PlannedStart != nil {
			base = *top.Task.PlannedStart
		}

		recs = append(recs, domain.LevelingRecommendation{
			TaskID:           top.Task.ID,
			TaskTitle:        top.Task.Title,
			UserID:           entry.UserID,
			Date:             entry.Date,
			CurrentStart:     copyTime(top.Task.PlannedStart),
			RecommendedStart: AddWorkingDays(base, LevelingShiftWorkingDays),
			ShiftWorkingDays: LevelingShiftWorkingDays,
			OnCriticalPath:   top.OnCriticalPath,
			TotalFloat:       top.TotalFloat,
			Justification:    justify(entry, top, len(candidates)),
		})
	}
	return recs
}

func justify(entry domain.OverallocationEntry, c LevelingCandidate, pool int) string {
	var reasons []string
	if c.OnCriticalPath {
		reasons = append(reasons, "on the critical path but no non-critical alternative")
	} else {
		reasons = append(reasons, "not on the critical path")
	}
	if c.TotalFloat != nil {
		reasons = append(reasons, fmt.Sprintf("%.0f min of float", *c.TotalFloat))
	} else {
		reasons = append(reasons, "float unknown")
	}
	reasons = append(reasons, strings.ToLower(string(c.Task.Priority))+" priority")

	return fmt.Sprintf("%s is %.1fh over capacity on %s; shift %q by %d working day (%s; ranked first of %d)",
		entry.UserID, entry.OverHours(), entry.Date.Format("2006-01-02"), c.Task.Title,
		LevelingShiftWorkingDays, strings.Join(reasons, ", "), pool)
}

// AddWorkingDays moves t forward by n working days, skipping Saturday and Sunday.
func AddWorkingDays(t time.Time, n int) time.Time {
	for n > 0 {
		t = t.AddDate(0, 0, 1)
		if wd := t.Weekday(); wd != time.Saturday && wd != time.Sunday {
			n--
		}
	}
	return t
}
