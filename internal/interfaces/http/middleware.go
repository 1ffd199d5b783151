package http

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Orbita-api/internal/domain"
	"github.com/jhoicas/Orbita-api/internal/domain/access"
	"github.com/jhoicas/Orbita-api/pkg/jwt"
)

// Locals keys en Fiber.
const (
	LocalPrincipal = "principal"
	LocalAuthID    = "auth_id"
)

// HeaderAPIKey alternativa al Bearer token para integraciones.
const HeaderAPIKey = "X-API-Key"

// principalResolver lo implementa *application/access.Service.
type principalResolver interface {
	ResolvePrincipal(ctx context.Context, authID string) (*access.Principal, error)
}

// apiKeyAuthenticator lo implementa *apikeys.UseCase.
type apiKeyAuthenticator interface {
	Authenticate(ctx context.Context, key string) (*access.Principal, error)
}

// moduleChecker lo implementa *usecase.ModuleService.
type moduleChecker interface {
	HasActiveModule(ctx context.Context, organizationID, moduleName string) (bool, error)
}

// RequestLogger adjunta al contexto de la petición un sublogger con request_id, método y ruta,
// y registra la petición al terminar. Debe ir después del middleware requestid.
func RequestLogger(base zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		l := base.With().
			Str("request_id", c.GetRespHeader(fiber.HeaderXRequestID)).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Logger()
		c.SetUserContext(l.WithContext(c.UserContext()))

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		ev := l.Info()
		if status >= fiber.StatusInternalServerError {
			ev = l.Error().Err(err)
		}
		ev.Int("status", status).Dur("latency", time.Since(start)).Msg("request")
		return err
	}
}

// AuthMiddleware autentica con Bearer JWT (sujeto = auth_id) o con X-API-Key y deja
// el Principal resuelto en c.Locals. El Principal se reconstruye en cada petición.
func AuthMiddleware(jwtSecret string, resolver principalResolver, keys apiKeyAuthenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()

		if key := strings.TrimSpace(c.Get(HeaderAPIKey)); key != "" && keys != nil {
			p, err := keys.Authenticate(ctx, key)
			if err != nil {
				return writeError(c, err)
			}
			return withPrincipal(c, p)
		}

		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return writeError(c, domain.NewUnauthorizedError("Authorization header required"))
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			return writeError(c, domain.NewUnauthorizedError("Expected: Bearer <token>"))
		}
		authID, err := jwt.Parse(jwtSecret, strings.TrimSpace(parts[1]))
		if err != nil {
			return writeError(c, domain.NewUnauthorizedError("Invalid or expired token"))
		}
		c.Locals(LocalAuthID, authID)

		p, err := resolver.ResolvePrincipal(ctx, authID)
		if err != nil {
			return writeError(c, err)
		}
		return withPrincipal(c, p)
	}
}

func withPrincipal(c *fiber.Ctx, p *access.Principal) error {
	c.Locals(LocalPrincipal, p)
	l := zerolog.Ctx(c.UserContext()).With().Str("user_id", p.UserID).Logger()
	c.SetUserContext(l.WithContext(c.UserContext()))
	return c.Next()
}

// GetPrincipal devuelve el Principal de la petición (nil antes de AuthMiddleware).
func GetPrincipal(c *fiber.Ctx) *access.Principal {
	p, _ := c.Locals(LocalPrincipal).(*access.Principal)
	return p
}

// RequireRole exige que el rol del principal esté en la lista (super-admin pasa siempre).
func RequireRole(roles ...access.Role) fiber.Handler {
	return require(access.RequireRoles(roles...))
}

// RequireSuperAdmin restringe la ruta a super-admins.
func RequireSuperAdmin() fiber.Handler {
	return require(access.RequireSuperAdmin())
}

func require(req access.Requirement) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := access.Authorize(GetPrincipal(c), req); err != nil {
			return writeError(c, err)
		}
		return c.Next()
	}
}

// RequireModule verifica que la organización del principal tenga el módulo activo.
// Debe usarse después de AuthMiddleware. Los super-admins no están sujetos a módulos.
//
// Comportamiento:
//   - 400 Bad Request → el usuario no pertenece a ninguna organización.
//   - 403 Forbidden → módulo no contratado o vencido.
//   - 503 Service Unavailable → fallo al consultar la base de datos.
func RequireModule(moduleName string, checker moduleChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p := GetPrincipal(c)
		if p == nil {
			return writeError(c, domain.ErrUnauthorized)
		}
		if p.SuperAdmin() {
			return c.Next()
		}
		orgID, err := access.OrganizationOf(p)
		if err != nil {
			return writeError(c, err)
		}

		active, err := checker.HasActiveModule(c.UserContext(), orgID, moduleName)
		if err != nil {
			zerolog.Ctx(c.UserContext()).Error().Err(err).Str("module", moduleName).Msg("module check failed")
			return c.Status(fiber.StatusServiceUnavailable).JSON(dtoError("MODULE_CHECK_FAILED", "Could not verify module, try again later"))
		}
		if !active {
			return c.Status(fiber.StatusForbidden).JSON(dtoError("MODULE_DISABLED", "Module '"+moduleName+"' is not active for this organization"))
		}
		return c.Next()
	}
}
