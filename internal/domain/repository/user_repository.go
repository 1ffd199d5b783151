package repository

import (
	"context"

	"github.com/jhoicas/Orbita-api/internal/domain/entity"
)

// UserReader lectura mínima para resolver el principal de una petición.
// Hay dos implementaciones: la acotada por RLS y la privilegiada; el llamador elige cuál usa.
// Devuelve (nil, nil) cuando la fila no existe o no es visible.
type UserReader interface {
	GetByAuthID(ctx context.Context, authID string) (*entity.User, error)
}

// UserRepository puerto de persistencia para User (DIP).
type UserRepository interface {
	UserReader
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	ListByOrganization(ctx context.Context, organizationID string, limit, offset int) ([]*entity.User, error)
}
