package repository

import (
	"context"

	"github.com/jhoicas/Inmobiliaria-crm/internal/domain/entity"
)

// InmobiliariaRepository define el puerto de persistencia para Inmobiliaria.
// La implementación vive en infrastructure.
type InmobiliariaRepository interface {
	Create(ctx context.Context, inmo *entity.Inmobiliaria) error
	GetByID(ctx context.Context, id string) (*entity.Inmobiliaria, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Inmobiliaria, error)
}
