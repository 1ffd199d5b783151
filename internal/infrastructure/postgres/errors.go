package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/Orbita-api/internal/domain"
)

// sqlStateErrors traduce códigos SQLSTATE a errores de dominio.
var sqlStateErrors = map[string]error{
	pgerrcode.UniqueViolation:       domain.ErrDuplicate,
	pgerrcode.ForeignKeyViolation:   domain.ErrNotFound,
	pgerrcode.CheckViolation:        domain.ErrValidation,
	pgerrcode.NotNullViolation:      domain.ErrValidation,
	pgerrcode.SerializationFailure:  domain.ErrConflict,
	pgerrcode.DeadlockDetected:      domain.ErrConflict,
	pgerrcode.InsufficientPrivilege: domain.ErrForbidden,
}

// mapError envuelve err con el error de dominio correspondiente, conservando el original.
func mapError(op string, err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if derr, ok := sqlStateErrors[pgErr.Code]; ok {
			return fmt.Errorf("%s: %w (%s)", op, derr, pgErr.ConstraintName)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func derefStr(p *string) string {
	if p != nil {
		return *p
	}
	return ""
}
