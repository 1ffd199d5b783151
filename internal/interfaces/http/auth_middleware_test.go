package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Orbita-api/internal/domain"
	"github.com/jhoicas/Orbita-api/internal/domain/access"
	apphttp "github.com/jhoicas/Orbita-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/Orbita-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testAuthID    = "00000000-0000-0000-0000-0000000000a1"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testOrgID     = "00000000-0000-0000-0000-000000000002"
	testIssuer    = "orbita-test"
	testExpMin    = 60
)

func strPtr(s string) *string { return &s }

type MockResolver struct {
	mock.Mock
}

func (m *MockResolver) ResolvePrincipal(ctx context.Context, authID string) (*access.Principal, error) {
	args := m.Called(ctx, authID)
	p, _ := args.Get(0).(*access.Principal)
	return p, args.Error(1)
}

type MockKeyAuth struct {
	mock.Mock
}

func (m *MockKeyAuth) Authenticate(ctx context.Context, key string) (*access.Principal, error) {
	args := m.Called(ctx, key)
	p, _ := args.Get(0).(*access.Principal)
	return p, args.Error(1)
}

type MockModules struct {
	mock.Mock
}

func (m *MockModules) HasActiveModule(ctx context.Context, organizationID, moduleName string) (bool, error) {
	args := m.Called(ctx, organizationID, moduleName)
	return args.Bool(0), args.Error(1)
}

func principal(role access.Role) *access.Principal {
	return &access.Principal{UserID: testUserID, AuthID: testAuthID, OrganizationID: strPtr(testOrgID), Role: role}
}

// resolverFor devuelve un resolver que responde con un principal del rol indicado.
func resolverFor(role access.Role) *MockResolver {
	r := &MockResolver{}
	r.On("ResolvePrincipal", mock.Anything, testAuthID).Return(principal(role), nil)
	return r
}

// buildTestApp construye una aplicación Fiber mínima con:
//   - AuthMiddleware para validar el JWT y resolver el principal
//   - RequireRole para autorizar el acceso
//   - Un handler dummy que devuelve 200 si pasa los middlewares
func buildTestApp(resolver *MockResolver, keys *MockKeyAuth, allowed ...access.Role) *fiber.App {
	app := fiber.New()
	var keyAuth interface {
		Authenticate(ctx context.Context, key string) (*access.Principal, error)
	}
	if keys != nil {
		keyAuth = keys
	}
	app.Get("/protected",
		apphttp.AuthMiddleware(testJWTSecret, resolver, keyAuth),
		apphttp.RequireRole(allowed...),
		func(c *fiber.Ctx) error {
			p := apphttp.GetPrincipal(c)
			return c.JSON(fiber.Map{"ok": true, "user_id": p.UserID, "role": string(p.Role)})
		},
	)
	return app
}

func bearer(t *testing.T) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testAuthID, "dev@orbita.test", testIssuer, testExpMin)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

func doRequest(t *testing.T, app *fiber.App, headers map[string]string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func bodyString(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

// ──────────────────────────────────────────────────────────────────────────────
// AuthMiddleware
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_ResuelvePrincipalDesdeJWT(t *testing.T) {
	resolver := resolverFor(access.RoleAdmin)
	app := buildTestApp(resolver, nil, access.RoleAdmin)

	resp := doRequest(t, app, map[string]string{"Authorization": bearer(t)})
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testUserID, body["user_id"])
	assert.Equal(t, "admin", body["role"])
	resolver.AssertExpectations(t)
}

func TestAuthMiddleware_SinHeader_Retorna401(t *testing.T) {
	app := buildTestApp(&MockResolver{}, nil, access.RoleAdmin)
	resp := doRequest(t, app, nil)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, bodyString(t, resp), "UNAUTHORIZED")
}

func TestAuthMiddleware_FormatoInvalido_Retorna401(t *testing.T) {
	app := buildTestApp(&MockResolver{}, nil, access.RoleAdmin)
	resp := doRequest(t, app, map[string]string{"Authorization": "Token abc"})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_TokenInvalido_Retorna401(t *testing.T) {
	app := buildTestApp(&MockResolver{}, nil, access.RoleAdmin)
	resp := doRequest(t, app, map[string]string{"Authorization": "Bearer token.invalido.aqui"})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_TokenExpirado_Retorna401(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, testAuthID, "dev@orbita.test", testIssuer, -1)
	require.NoError(t, err)

	app := buildTestApp(&MockResolver{}, nil, access.RoleAdmin)
	resp := doRequest(t, app, map[string]string{"Authorization": "Bearer " + tok})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_UsuarioInexistente_Retorna401Generico(t *testing.T) {
	resolver := &MockResolver{}
	resolver.On("ResolvePrincipal", mock.Anything, testAuthID).
		Return(nil, domain.NewUnauthorizedError("User not found"))

	app := buildTestApp(resolver, nil, access.RoleAdmin)
	resp := doRequest(t, app, map[string]string{"Authorization": bearer(t)})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.NotContains(t, bodyString(t, resp), "User not found",
		"los errores de autorización no deben exponer el motivo")
}

func TestAuthMiddleware_FalloDeResolucion_Retorna500(t *testing.T) {
	resolver := &MockResolver{}
	resolver.On("ResolvePrincipal", mock.Anything, testAuthID).Return(nil, errors.New("db down"))

	app := buildTestApp(resolver, nil, access.RoleAdmin)
	resp := doRequest(t, app, map[string]string{"Authorization": bearer(t)})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.NotContains(t, bodyString(t, resp), "db down")
}

func TestAuthMiddleware_APIKey(t *testing.T) {
	keys := &MockKeyAuth{}
	keys.On("Authenticate", mock.Anything, "orb_abc").Return(principal(access.RolePM), nil)
	resolver := &MockResolver{}

	app := buildTestApp(resolver, keys, access.RolePM)
	resp := doRequest(t, app, map[string]string{apphttp.HeaderAPIKey: "orb_abc"})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resolver.AssertNotCalled(t, "ResolvePrincipal", mock.Anything, mock.Anything)
}

func TestAuthMiddleware_APIKeyInvalida(t *testing.T) {
	keys := &MockKeyAuth{}
	keys.On("Authenticate", mock.Anything, "orb_bad").Return(nil, domain.NewUnauthorizedError("Invalid API key"))

	app := buildTestApp(&MockResolver{}, keys, access.RolePM)
	resp := doRequest(t, app, map[string]string{apphttp.HeaderAPIKey: "orb_bad"})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// RequireRole / RequireSuperAdmin
// ──────────────────────────────────────────────────────────────────────────────

func TestRequireRole_PMAccedeRutaAdminOPM(t *testing.T) {
	app := buildTestApp(resolverFor(access.RolePM), nil, access.RoleAdmin, access.RolePM)
	resp := doRequest(t, app, map[string]string{"Authorization": bearer(t)})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequireRole_IngenieroBloqueadoEnRutaAdmin(t *testing.T) {
	app := buildTestApp(resolverFor(access.RoleEngineer), nil, access.RoleAdmin)
	resp := doRequest(t, app, map[string]string{"Authorization": bearer(t)})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Contains(t, bodyString(t, resp), "FORBIDDEN")
}

func TestRequireRole_SuperAdminPasaSiempre(t *testing.T) {
	resolver := &MockResolver{}
	resolver.On("ResolvePrincipal", mock.Anything, testAuthID).
		Return(&access.Principal{UserID: "root", Role: access.RoleAdmin, IsSuperAdmin: true}, nil)

	app := buildTestApp(resolver, nil, access.RoleEngineer)
	resp := doRequest(t, app, map[string]string{"Authorization": bearer(t)})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequireSuperAdmin_AdminNormalBloqueado(t *testing.T) {
	app := fiber.New()
	app.Get("/protected",
		apphttp.AuthMiddleware(testJWTSecret, resolverFor(access.RoleAdmin), nil),
		apphttp.RequireSuperAdmin(),
		func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) },
	)
	resp := doRequest(t, app, map[string]string{"Authorization": bearer(t)})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// RequireModule
// ──────────────────────────────────────────────────────────────────────────────

func moduleApp(resolver *MockResolver, modules *MockModules) *fiber.App {
	app := fiber.New()
	app.Get("/protected",
		apphttp.AuthMiddleware(testJWTSecret, resolver, nil),
		apphttp.RequireModule("invoicing", modules),
		func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) },
	)
	return app
}

func TestRequireModule(t *testing.T) {
	cases := []struct {
		name   string
		active bool
		err    error
		status int
	}{
		{"activo", true, nil, http.StatusOK},
		{"inactivo", false, nil, http.StatusForbidden},
		{"fallo de infraestructura", false, errors.New("timeout"), http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			modules := &MockModules{}
			modules.On("HasActiveModule", mock.Anything, testOrgID, "invoicing").Return(tc.active, tc.err)

			resp := doRequest(t, moduleApp(resolverFor(access.RoleAdmin), modules), map[string]string{"Authorization": bearer(t)})
			defer resp.Body.Close()
			assert.Equal(t, tc.status, resp.StatusCode)
		})
	}
}

func TestRequireModule_SinOrganizacion_Retorna400(t *testing.T) {
	resolver := &MockResolver{}
	resolver.On("ResolvePrincipal", mock.Anything, testAuthID).
		Return(&access.Principal{UserID: testUserID, Role: access.RoleMember}, nil)
	modules := &MockModules{}

	resp := doRequest(t, moduleApp(resolver, modules), map[string]string{"Authorization": bearer(t)})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, bodyString(t, resp), access.MsgNoOrganization)
	modules.AssertNotCalled(t, "HasActiveModule", mock.Anything, mock.Anything, mock.Anything)
}
