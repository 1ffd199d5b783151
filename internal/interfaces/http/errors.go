package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Orbita-api/internal/application/dto"
	"github.com/jhoicas/Orbita-api/internal/domain"
)

// errorMapping una fila de la tabla error de dominio → respuesta HTTP.
// withReason indica si el motivo tipado se devuelve al cliente en lugar del mensaje fijo.
type errorMapping struct {
	target     error
	status     int
	code       string
	message    string
	withReason bool
}

// errorTable se recorre en orden; la primera fila cuyo target coincide con errors.Is gana.
// Los errores de autorización nunca exponen el motivo.
var errorTable = []errorMapping{
	{domain.ErrEmailAlreadyExists, fiber.StatusConflict, "EMAIL_EXISTS", "Email is already registered", false},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", false},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN", "Forbidden", false},
	{domain.ErrUserNotFound, fiber.StatusNotFound, "NOT_FOUND", "User not found", false},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND", "Resource not found", false},
	{domain.ErrBadRequest, fiber.StatusBadRequest, "BAD_REQUEST", "Bad request", true},
	{domain.ErrValidation, fiber.StatusBadRequest, "VALIDATION", "Validation failed", true},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION", "Invalid input", false},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE", "Resource already exists", false},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT", "Conflict with current state, retry", false},
}

var internalMapping = errorMapping{
	status:  fiber.StatusInternalServerError,
	code:    "INTERNAL",
	message: "Internal server error",
}

// mapError resuelve el estado y el cuerpo de error para err.
func mapError(err error) (int, dto.ErrorResponse) {
	m := internalMapping
	for _, row := range errorTable {
		if errors.Is(err, row.target) {
			m = row
			break
		}
	}
	msg := m.message
	if m.withReason {
		if reason := domain.Reason(err); reason != "" {
			msg = reason
		}
	}
	return m.status, dto.ErrorResponse{Code: m.code, Message: msg}
}

// writeError traduce err a la respuesta HTTP. Los 5xx se registran con el error completo.
func writeError(c *fiber.Ctx, err error) error {
	status, body := mapError(err)
	if status >= fiber.StatusInternalServerError {
		zerolog.Ctx(c.UserContext()).Error().Err(err).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Msg("request failed")
	}
	return c.Status(status).JSON(body)
}

func dtoError(code, message string) dto.ErrorResponse {
	return dto.ErrorResponse{Code: code, Message: message}
}
