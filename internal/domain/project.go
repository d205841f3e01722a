package domain

import "time"

// Project carries the scheduling and cost configuration the core reads.
type Project struct {
	ID                  string
	OrganizationID      string
	Name                string
	BudgetAmount        float64
	LaborRatePerHour    float64
	CostTrackingEnabled bool
	EarnedValueEnabled  bool
	WaterfallEnabled    bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}
