package domain

import "time"

type AuditRecord struct {
	ID             string
	EntityType     string
	EntityID       string
	Action         string
	OrganizationID string
	ActorID        string
	Metadata       map[string]any
	CreatedAt      time.Time
}
