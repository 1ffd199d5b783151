package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Orbita-api/internal/application/dto"
	"github.com/jhoicas/Orbita-api/internal/domain"
	"github.com/jhoicas/Orbita-api/internal/domain/access"
	"github.com/jhoicas/Orbita-api/internal/domain/entity"
)

type memOrgs struct {
	rows    map[string]*entity.Organization
	modules map[string]*entity.OrganizationModule
}

func newMemOrgs() *memOrgs {
	return &memOrgs{rows: map[string]*entity.Organization{}, modules: map[string]*entity.OrganizationModule{}}
}

func (m *memOrgs) Create(_ context.Context, o *entity.Organization) error {
	for _, r := range m.rows {
		if r.Slug == o.Slug {
			return domain.ErrDuplicate
		}
	}
	cp := *o
	m.rows[o.ID] = &cp
	return nil
}
func (m *memOrgs) GetByID(_ context.Context, id string) (*entity.Organization, error) {
	o, ok := m.rows[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}
func (m *memOrgs) Update(_ context.Context, o *entity.Organization) error {
	cp := *o
	m.rows[o.ID] = &cp
	return nil
}
func (m *memOrgs) List(context.Context, int, int) ([]*entity.Organization, error) {
	var out []*entity.Organization
	for _, o := range m.rows {
		out = append(out, o)
	}
	return out, nil
}
func (m *memOrgs) Delete(_ context.Context, id string) error {
	delete(m.rows, id)
	return nil
}
func (m *memOrgs) HasActiveModule(_ context.Context, orgID, name string) (bool, error) {
	mod, ok := m.modules[orgID+"/"+name]
	return ok && mod.IsActive && (mod.ExpiresAt == nil || mod.ExpiresAt.After(time.Now())), nil
}
func (m *memOrgs) ListModules(_ context.Context, orgID string) ([]*entity.OrganizationModule, error) {
	var out []*entity.OrganizationModule
	for _, mod := range m.modules {
		if mod.OrganizationID == orgID {
			out = append(out, mod)
		}
	}
	return out, nil
}
func (m *memOrgs) UpsertModule(_ context.Context, mod *entity.OrganizationModule) error {
	cp := *mod
	m.modules[mod.OrganizationID+"/"+mod.ModuleName] = &cp
	return nil
}

var root = &access.Principal{UserID: "root", Role: access.RoleAdmin, IsSuperAdmin: true}

func TestOrganization_CrearSoloSuperAdmin(t *testing.T) {
	uc := NewOrganizationUseCase(newMemOrgs())
	ctx := context.Background()

	admin := &access.Principal{UserID: "a", Role: access.RoleAdmin, OrganizationID: strPtr("x")}
	_, err := uc.Create(ctx, admin, dto.CreateOrganizationRequest{Name: "Acme", Slug: "acme"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	out, err := uc.Create(ctx, root, dto.CreateOrganizationRequest{Name: "Acme", Slug: "acme", InvoicePrefix: "ac"})
	require.NoError(t, err)
	assert.Equal(t, "AC", out.InvoicePrefix)

	_, err = uc.Create(ctx, root, dto.CreateOrganizationRequest{Name: "Acme 2", Slug: "acme"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestOrganization_AdminEditaLaSuyaPeroNoElEstado(t *testing.T) {
	repo := newMemOrgs()
	uc := NewOrganizationUseCase(repo)
	ctx := context.Background()

	org, err := uc.Create(ctx, root, dto.CreateOrganizationRequest{Name: "Acme", Slug: "acme"})
	require.NoError(t, err)
	admin := &access.Principal{UserID: "a", Role: access.RoleAdmin, OrganizationID: strPtr(org.ID)}

	name := "Acme Corp"
	out, err := uc.Update(ctx, admin, org.ID, dto.UpdateOrganizationRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", out.Name)

	status := "suspended"
	_, err = uc.Update(ctx, admin, org.ID, dto.UpdateOrganizationRequest{Status: &status})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	other := &access.Principal{UserID: "b", Role: access.RoleAdmin, OrganizationID: strPtr("org-b")}
	_, err = uc.GetByID(ctx, other, org.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestModuleService_SetYConsultar(t *testing.T) {
	repo := newMemOrgs()
	svc := NewModuleService(repo)
	ctx := context.Background()

	_, err := svc.Set(ctx, root, "org-a", "teleport", dto.SetModuleRequest{Active: true})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.Set(ctx, root, "org-a", entity.ModuleInvoicing, dto.SetModuleRequest{Active: true})
	require.NoError(t, err)

	ok, err := svc.HasActiveModule(ctx, "org-a", entity.ModuleInvoicing)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.HasActiveModule(ctx, "org-a", entity.ModuleAffiliate)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = svc.HasActiveModule(ctx, "", entity.ModuleInvoicing)
	assert.Error(t, err)

	admin := &access.Principal{UserID: "a", Role: access.RoleAdmin, OrganizationID: strPtr("org-a")}
	_, err = svc.Set(ctx, admin, "org-a", entity.ModuleOps, dto.SetModuleRequest{Active: true})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	mods, err := svc.List(ctx, admin, "org-a")
	require.NoError(t, err)
	assert.Len(t, mods, 1)
}
