package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// La capa HTTP es la única que los traduce a códigos de estado.
var (
	ErrNotFound     = errors.New("resource not found")
	ErrUserNotFound = errors.New("user not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrValidation   = errors.New("validation error")
	ErrBadRequest   = errors.New("bad request")
	ErrDuplicate    = errors.New("resource already exists")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("conflict with current state")
	ErrInternal     = errors.New("internal error")

	ErrEmailAlreadyExists = errors.New("email already registered")
)

// ValidationError viola una regla de negocio; Reason se devuelve tal cual al usuario.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string        { return e.Reason }
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// NewValidationError construye un ValidationError con el motivo indicado.
func NewValidationError(reason string) error {
	return &ValidationError{Reason: reason}
}

// BadRequestError entrada mal formada o falta contexto obligatorio (p. ej. organización).
type BadRequestError struct {
	Reason string
}

func (e *BadRequestError) Error() string        { return e.Reason }
func (e *BadRequestError) Is(target error) bool { return target == ErrBadRequest }

// NewBadRequestError construye un BadRequestError.
func NewBadRequestError(reason string) error {
	return &BadRequestError{Reason: reason}
}

// UnauthorizedError sesión ausente o identidad desconocida.
type UnauthorizedError struct {
	Reason string
}

func (e *UnauthorizedError) Error() string        { return e.Reason }
func (e *UnauthorizedError) Is(target error) bool { return target == ErrUnauthorized }

// NewUnauthorizedError construye un UnauthorizedError.
func NewUnauthorizedError(reason string) error {
	return &UnauthorizedError{Reason: reason}
}

// Reason extrae el motivo legible de un error tipado; "" si no lo tiene.
func Reason(err error) string {
	var v *ValidationError
	if errors.As(err, &v) {
		return v.Reason
	}
	var b *BadRequestError
	if errors.As(err, &b) {
		return b.Reason
	}
	var u *UnauthorizedError
	if errors.As(err, &u) {
		return u.Reason
	}
	var d *DomainError
	if errors.As(err, &d) {
		return d.Reason
	}
	return ""
}

// DomainError regla de negocio que impide la operación (p. ej. recurrencia aún no vencida).
type DomainError struct {
	Reason string
}

func (e *DomainError) Error() string        { return e.Reason }
func (e *DomainError) Is(target error) bool { return target == ErrValidation }

// NewDomainError construye un DomainError.
func NewDomainError(reason string) error {
	return &DomainError{Reason: reason}
}
