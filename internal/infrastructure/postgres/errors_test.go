package postgres

import (
	"errors"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Orbita-api/internal/domain"
)

func TestMapError(t *testing.T) {
	cases := []struct {
		code string
		want error
	}{
		{pgerrcode.UniqueViolation, domain.ErrDuplicate},
		{pgerrcode.ForeignKeyViolation, domain.ErrNotFound},
		{pgerrcode.CheckViolation, domain.ErrValidation},
		{pgerrcode.SerializationFailure, domain.ErrConflict},
		{pgerrcode.InsufficientPrivilege, domain.ErrForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			err := mapError("insert", &pgconn.PgError{Code: tc.code})
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestMapError_SinCodigoConocido(t *testing.T) {
	base := errors.New("connection reset")
	err := mapError("insert", base)
	assert.ErrorIs(t, err, base)
	assert.NotErrorIs(t, err, domain.ErrDuplicate)
	assert.NoError(t, mapError("noop", nil))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: pgerrcode.UniqueViolation}))
	assert.False(t, isUniqueViolation(errors.New("23505 in text only")))
	assert.True(t, isNoRows(pgx.ErrNoRows))
}
