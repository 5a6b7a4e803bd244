package repository

import (
	"context"

	"github.com/jhoicas/Inmobiliaria-crm/internal/domain/entity"
)

// ProjectRepository persistencia de proyectos, siempre acotada a una inmobiliaria.
type ProjectRepository interface {
	Create(ctx context.Context, p *entity.Project) error
	// GetByID nil si el proyecto no existe en la inmobiliaria.
	GetByID(ctx context.Context, inmobiliariaID, id string) (*entity.Project, error)
	ListByInmobiliaria(ctx context.Context, inmobiliariaID string, limit, offset int) ([]*entity.Project, error)
}
