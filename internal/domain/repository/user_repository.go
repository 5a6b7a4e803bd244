package repository

import (
	"context"

	"github.com/jhoicas/Inmobiliaria-crm/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	ListByInmobiliaria(ctx context.Context, inmobiliariaID string, limit, offset int) ([]*entity.User, error)
	SetActive(ctx context.Context, inmobiliariaID, id string, active bool) (*entity.User, error)
}
