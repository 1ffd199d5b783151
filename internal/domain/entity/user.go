package entity

import "time"

// Roles válidos para User (rol por defecto dentro de su organización).
const (
	RoleAdmin    = "admin"
	RolePM       = "pm"
	RoleEngineer = "engineer"
	RoleMember   = "member"
)

// Estados de User.
const (
	UserActive    = "active"
	UserInactive  = "inactive"
	UserSuspended = "suspended"
)

// User representa el registro de aplicación de un usuario.
// AuthID es la identidad del proveedor de autenticación; ID es la clave propia de la app.
type User struct {
	ID             string
	AuthID         string
	OrganizationID *string // nil = usuario aún sin onboarding
	Email          string
	PasswordHash   string // bcrypt hash, nunca plano en dominio después de persistir
	Name           string
	Role           string // admin, pm, engineer, member
	IsSuperAdmin   bool   // solo efectivo junto con Role == admin
	Status         string // active, inactive, suspended
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
