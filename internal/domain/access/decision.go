package access

import "github.com/jhoicas/Orbita-api/internal/domain"

// Mode distingue lectura de escritura: la bandera pública solo concede lectura.
type Mode int

const (
	Read Mode = iota
	Write
)

// Resource descriptor mínimo de un recurso protegido (proyecto, plantilla, workspace...).
type Resource struct {
	OrganizationID      *string
	OwnerID             string
	IsPubliclyAvailable bool
	IsMember            bool // el llamador tiene fila de pertenencia explícita
}

type requirementKind int

const (
	kindRoles requirementKind = iota
	kindSuperAdmin
	kindOrganization
	kindResource
)

// Requirement condición que debe cumplir el principal. Construir con Require*.
type Requirement struct {
	kind     requirementKind
	roles    []Role
	resource Resource
	mode     Mode
}

// RequireRoles exige que el rol del principal esté en la lista.
func RequireRoles(roles ...Role) Requirement {
	return Requirement{kind: kindRoles, roles: roles}
}

// RequireSuperAdmin exige super-admin (is_super_admin + rol admin).
func RequireSuperAdmin() Requirement {
	return Requirement{kind: kindSuperAdmin}
}

// RequireOrganization exige que el principal pertenezca a un tenant.
func RequireOrganization() Requirement {
	return Requirement{kind: kindOrganization}
}

// RequireResource exige acceso al recurso en el modo indicado.
func RequireResource(r Resource, mode Mode) Requirement {
	return Requirement{kind: kindResource, resource: r, mode: mode}
}

// Authorize aplica el requisito. El chequeo de super-admin va siempre primero y corta el resto.
// Devuelve domain.ErrForbidden (sin detalle) o un BadRequestError si falta la organización.
func Authorize(p *Principal, req Requirement) error {
	if p == nil {
		return domain.ErrUnauthorized
	}
	if p.SuperAdmin() {
		return nil
	}
	switch req.kind {
	case kindRoles:
		if p.HasRole(req.roles...) {
			return nil
		}
		return domain.ErrForbidden
	case kindSuperAdmin:
		return domain.ErrForbidden
	case kindOrganization:
		if !p.HasOrganization() {
			return domain.NewBadRequestError(MsgNoOrganization)
		}
		return nil
	case kindResource:
		return decideResource(p, req.resource, req.mode)
	default:
		return domain.ErrForbidden
	}
}

// decideResource evalúa los disyuntos dueño, pertenencia, pública (solo lectura) y tenant.
func decideResource(p *Principal, r Resource, mode Mode) error {
	// Las globales nunca se editan in situ salvo super-admin: se duplican.
	if r.IsPubliclyAvailable && mode == Write {
		return domain.ErrForbidden
	}
	if r.OwnerID != "" && r.OwnerID == p.UserID {
		return nil
	}
	if r.IsMember {
		return nil
	}
	if r.IsPubliclyAvailable && mode == Read {
		return nil
	}
	if r.OrganizationID == nil {
		return domain.ErrForbidden
	}
	if !p.HasOrganization() {
		return domain.NewBadRequestError(MsgNoOrganization)
	}
	if *r.OrganizationID == *p.OrganizationID {
		return nil
	}
	return domain.ErrForbidden
}

// CanAccess variante booleana para filtros de listado.
func CanAccess(p *Principal, r Resource, mode Mode) bool {
	return Authorize(p, RequireResource(r, mode)) == nil
}
