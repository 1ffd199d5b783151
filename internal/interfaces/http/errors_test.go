package http

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Orbita-api/internal/application/dto"
	"github.com/jhoicas/Orbita-api/internal/domain"
)

func TestMapError(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
		msg    string
	}{
		{"validación con motivo", domain.NewValidationError("Tax rate must be between 0 and 100"), fiber.StatusBadRequest, "VALIDATION", "Tax rate must be between 0 and 100"},
		{"validación envuelta", fmt.Errorf("update: %w", domain.NewValidationError("Only draft invoices can be updated")), fiber.StatusBadRequest, "VALIDATION", "Only draft invoices can be updated"},
		{"regla de dominio", domain.NewDomainError("Recurring invoice is not due yet"), fiber.StatusBadRequest, "VALIDATION", "Recurring invoice is not due yet"},
		{"bad request", domain.NewBadRequestError("User is not assigned to an organization"), fiber.StatusBadRequest, "BAD_REQUEST", "User is not assigned to an organization"},
		{"prohibido sin detalle", fmt.Errorf("owner mismatch: %w", domain.ErrForbidden), fiber.StatusForbidden, "FORBIDDEN", "Forbidden"},
		{"no autorizado sin detalle", domain.NewUnauthorizedError("User not found"), fiber.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized"},
		{"no encontrado", domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND", "Resource not found"},
		{"duplicado", domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE", "Resource already exists"},
		{"email existente", domain.ErrEmailAlreadyExists, fiber.StatusConflict, "EMAIL_EXISTS", "Email is already registered"},
		{"conflicto", domain.ErrConflict, fiber.StatusConflict, "CONFLICT", "Conflict with current state, retry"},
		{"desconocido", errors.New("pq: connection reset"), fiber.StatusInternalServerError, "INTERNAL", "Internal server error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := mapError(tc.err)
			assert.Equal(t, tc.status, status)
			assert.Equal(t, dto.ErrorResponse{Code: tc.code, Message: tc.msg}, body)
		})
	}
}

func TestValidateStruct_UsaNombreJSON(t *testing.T) {
	err := validateStruct(&dto.CreateAPIKeyRequest{})
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, "name is required", domain.Reason(err))

	err = validateStruct(&dto.AssignUserRequest{UserID: "8d7c1f0e-1c3a-4b7e-9f2a-2b1d3c4e5f60", Role: "owner"})
	assert.Equal(t, "role must be one of: admin pm engineer member", domain.Reason(err))

	assert.NoError(t, validateStruct(&dto.CreateAPIKeyRequest{Name: "ci"}))
}
