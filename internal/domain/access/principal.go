// Package access contiene la regla de decisión de acceso multi-tenant.
// Es código puro: no consulta la base de datos; el caso de uso le entrega un Resource
// ya resuelto (organización, dueño, pertenencia, bandera pública).
package access

import (
	"github.com/jhoicas/Orbita-api/internal/domain"
	"github.com/jhoicas/Orbita-api/internal/domain/entity"
)

// Role rol por defecto del usuario dentro de su organización.
type Role string

const (
	RoleAdmin    Role = entity.RoleAdmin
	RolePM       Role = entity.RolePM
	RoleEngineer Role = entity.RoleEngineer
	RoleMember   Role = entity.RoleMember
)

// MsgNoOrganization se devuelve cuando la operación necesita un tenant y el usuario no lo tiene.
const MsgNoOrganization = "User is not assigned to an organization"

// Principal identidad resuelta del llamador para una sola petición.
// Se reconstruye en cada request a partir de la fila de users; nunca se cachea.
type Principal struct {
	UserID         string
	AuthID         string
	OrganizationID *string
	Role           Role
	IsSuperAdmin   bool
}

// FromUser construye el Principal a partir del registro persistido.
func FromUser(u *entity.User) *Principal {
	return &Principal{
		UserID:         u.ID,
		AuthID:         u.AuthID,
		OrganizationID: u.OrganizationID,
		Role:           Role(u.Role),
		IsSuperAdmin:   u.IsSuperAdmin,
	}
}

// SuperAdmin exige ambas banderas: is_super_admin sin rol admin no otorga nada.
func (p *Principal) SuperAdmin() bool {
	return p != nil && p.IsSuperAdmin && p.Role == RoleAdmin
}

// HasOrganization indica si el usuario ya pertenece a un tenant.
func (p *Principal) HasOrganization() bool {
	return p != nil && p.OrganizationID != nil && *p.OrganizationID != ""
}

// OrgID devuelve la organización o "" si no tiene.
func (p *Principal) OrgID() string {
	if !p.HasOrganization() {
		return ""
	}
	return *p.OrganizationID
}

// OrganizationOf devuelve la organización del principal o BadRequest si no la tiene.
// A diferencia de Authorize no hay atajo de super-admin: sirve para sellar recursos nuevos.
func OrganizationOf(p *Principal) (string, error) {
	if !p.HasOrganization() {
		return "", domain.NewBadRequestError(MsgNoOrganization)
	}
	return *p.OrganizationID, nil
}

// HasRole informa si el rol del principal está en la lista.
func (p *Principal) HasRole(roles ...Role) bool {
	if p == nil {
		return false
	}
	for _, r := range roles {
		if p.Role == r {
			return true
		}
	}
	return false
}
