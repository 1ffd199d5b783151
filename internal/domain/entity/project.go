package entity

import "time"

// Project proyecto de un workspace. La visibilidad la decide el paquete access.
type Project struct {
	ID             string
	OrganizationID string
	OwnerID        string
	Name           string
	Description    string
	Status         string // active, archived
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ProjectMember fila de pertenencia explícita de un usuario a un proyecto.
type ProjectMember struct {
	ProjectID string
	UserID    string
	Role      string // owner, editor, viewer
	JoinedAt  time.Time
}
