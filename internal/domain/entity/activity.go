package entity

import "time"

// Activity entrada del feed de actividad. Escritura no crítica.
type Activity struct {
	ID             string
	OrganizationID string
	ActorID        string
	Action         string // invoice.created, invoice.sent, template.deleted, ...
	EntityType     string
	EntityID       string
	CreatedAt      time.Time
}
