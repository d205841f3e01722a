package domain

import "time"

// OverallocationEntry is one (user, day) where demand exceeds capacity.
// Produced by an external capacity model.
type OverallocationEntry struct {
	UserID        string
	Date          time.Time
	CapacityHours float64
	DemandHours   float64
	TaskIDs       []string
}

// OverHours returns the demand above capacity, never negative.
func (e OverallocationEntry) OverHours() float64 {
	if e.DemandHours <= e.CapacityHours {
		return 0
	}
	return e.DemandHours - e.CapacityHours
}

type LevelingRecommendation struct {
	TaskID           string
	TaskTitle        string
	UserID           string
	Date             time.Time
	CurrentStart     *time.Time
	RecommendedStart time.Time
	ShiftWorkingDays int
	OnCriticalPath   bool
	TotalFloat       *float64
	Justification    string
}
