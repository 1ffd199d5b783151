package entity

import "time"

// Template plantilla de proyecto. Las globales (IsPubliclyAvailable) no tienen organización
// y solo un super-admin puede modificarlas; el resto las duplica.
type Template struct {
	ID                  string
	OrganizationID      *string
	OwnerID             string
	Name                string
	Description         string
	Content             []byte // JSON con fases/tareas
	IsPubliclyAvailable bool
	SourceTemplateID    *string // set en duplicados
	CreatedAt           time.Time
	UpdatedAt           time.Time
}
