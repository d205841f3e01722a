package domain

import "time"

// EarnedValueSnapshot holds the earned-value metrics for a project as of a day.
// Nil indices mean "not computable", never zero performance.
type EarnedValueSnapshot struct {
	ID         string
	ProjectID  string
	BaselineID *string
	AsOfDate   time.Time
	BAC        float64
	PV         float64
	EV         float64
	AC         float64
	CPI        *float64
	SPI        *float64
	EAC        *float64
	ETC        *float64
	VAC        *float64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
