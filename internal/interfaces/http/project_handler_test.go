package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Orbita-api/internal/application/dto"
	"github.com/jhoicas/Orbita-api/internal/domain"
	"github.com/jhoicas/Orbita-api/internal/domain/access"
	"github.com/jhoicas/Orbita-api/internal/domain/entity"
	apphttp "github.com/jhoicas/Orbita-api/internal/interfaces/http"
)

type MockProjects struct {
	mock.Mock
}

func (m *MockProjects) ProjectAccess(ctx context.Context, p *access.Principal, projectID string, mode access.Mode) (*entity.Project, error) {
	args := m.Called(ctx, p, projectID, mode)
	out, _ := args.Get(0).(*entity.Project)
	return out, args.Error(1)
}

func projectApp(projects *MockProjects) *fiber.App {
	app := fiber.New()
	app.Get("/api/projects/:id",
		apphttp.AuthMiddleware(testJWTSecret, resolverFor(access.RoleEngineer), nil),
		apphttp.NewProjectHandler(projects).GetByID)
	return app
}

func TestProjectHandler_GetByID(t *testing.T) {
	projects := &MockProjects{}
	projects.On("ProjectAccess", mock.Anything, mock.Anything, "p-1", access.Read).
		Return(&entity.Project{ID: "p-1", OrganizationID: testOrgID, OwnerID: testUserID, Name: "Website", Status: "active"}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/projects/p-1", nil)
	req.Header.Set("Authorization", bearer(t))
	resp, err := projectApp(projects).Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out dto.ProjectResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "Website", out.Name)
	assert.Equal(t, testOrgID, out.OrganizationID)
}

func TestProjectHandler_OtraOrganizacionEs404(t *testing.T) {
	projects := &MockProjects{}
	projects.On("ProjectAccess", mock.Anything, mock.Anything, "p-2", access.Read).Return(nil, domain.ErrNotFound)

	req := httptest.NewRequest(http.MethodGet, "/api/projects/p-2", nil)
	req.Header.Set("Authorization", bearer(t))
	resp, err := projectApp(projects).Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
