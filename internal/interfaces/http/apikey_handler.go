package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Orbita-api/internal/application/dto"
	"github.com/jhoicas/Orbita-api/internal/domain/access"
)

// apiKeyService lo implementa *apikeys.UseCase.
type apiKeyService interface {
	Issue(ctx context.Context, p *access.Principal, in dto.CreateAPIKeyRequest) (*dto.APIKeyResponse, error)
	List(ctx context.Context, p *access.Principal) ([]dto.APIKeyResponse, error)
	Revoke(ctx context.Context, p *access.Principal, id string) error
}

// paymentConfigService lo implementa *apikeys.PaymentConfigUseCase.
type paymentConfigService interface {
	Save(ctx context.Context, p *access.Principal, in dto.SavePaymentConfigRequest) (*dto.PaymentConfigResponse, error)
	Get(ctx context.Context, p *access.Principal) (*dto.PaymentConfigResponse, error)
}

// IntegrationHandler claves de API y configuración del procesador de pagos.
type IntegrationHandler struct {
	keys     apiKeyService
	payments paymentConfigService
}

func NewIntegrationHandler(keys apiKeyService, payments paymentConfigService) *IntegrationHandler {
	return &IntegrationHandler{keys: keys, payments: payments}
}

// IssueKey godoc
// @Summary      Emitir clave de API
// @Description  La clave en claro solo se devuelve en esta respuesta.
// @Tags         integrations
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateAPIKeyRequest  true  "Nombre de la clave"
// @Success      201   {object}  dto.APIKeyResponse
// @Router       /api/api-keys [post]
func (h *IntegrationHandler) IssueKey(c *fiber.Ctx) error {
	var in dto.CreateAPIKeyRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.keys.Issue(c.UserContext(), GetPrincipal(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

func (h *IntegrationHandler) ListKeys(c *fiber.Ctx) error {
	out, err := h.keys.List(c.UserContext(), GetPrincipal(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

func (h *IntegrationHandler) RevokeKey(c *fiber.Ctx) error {
	if err := h.keys.Revoke(c.UserContext(), GetPrincipal(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// SavePaymentConfig PUT /api/payment-config
func (h *IntegrationHandler) SavePaymentConfig(c *fiber.Ctx) error {
	var in dto.SavePaymentConfigRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.payments.Save(c.UserContext(), GetPrincipal(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetPaymentConfig GET /api/payment-config (secretos enmascarados)
func (h *IntegrationHandler) GetPaymentConfig(c *fiber.Ctx) error {
	out, err := h.payments.Get(c.UserContext(), GetPrincipal(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
