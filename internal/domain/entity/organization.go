package entity

import "time"

// Organization representa un tenant del sistema: unidad de aislamiento de datos.
type Organization struct {
	ID            string
	Name          string
	Slug          string
	InvoicePrefix string // prefijo de numeración, ej. "INV"
	Status        string // active, suspended, inactive
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Módulos SaaS disponibles (deben coincidir con el CHECK de la tabla organization_modules).
const (
	ModuleAdmin     = "admin"
	ModuleOps       = "ops"
	ModuleAffiliate = "affiliate"
	ModuleInvoicing = "invoicing"
	ModuleWorkspace = "workspace"
)

// OrganizationModule representa la activación de un módulo SaaS en una organización.
type OrganizationModule struct {
	ID             string
	OrganizationID string
	ModuleName     string // ver constantes Module*
	IsActive       bool
	ActivatedAt    time.Time
	ExpiresAt      *time.Time // nil = sin vencimiento
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
