package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Inmobiliaria-crm/internal/application/dto"
	"github.com/jhoicas/Inmobiliaria-crm/internal/domain"
	"github.com/jhoicas/Inmobiliaria-crm/internal/domain/entity"
	"github.com/jhoicas/Inmobiliaria-crm/internal/domain/repository"
	"github.com/jhoicas/Inmobiliaria-crm/pkg/retry"
)

const defaultCurrency = "COP"

// ProjectUseCase proyectos inmobiliarios de una inmobiliaria.
type ProjectUseCase struct {
	repo  repository.ProjectRepository
	retry retry.Policy
}

// NewProjectUseCase construye el caso de uso.
func NewProjectUseCase(repo repository.ProjectRepository, p retry.Policy) *ProjectUseCase {
	return &ProjectUseCase{repo: repo, retry: p}
}

// Create crea un proyecto en la inmobiliaria indicada.
func (uc *ProjectUseCase) Create(ctx context.Context, inmobiliariaID string, in dto.CreateProjectRequest) (*dto.ProjectResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || strings.TrimSpace(in.Location) == "" || in.PriceFrom.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if currency == "" {
		currency = defaultCurrency
	}
	if len(currency) != 3 {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	p := &entity.Project{
		ID:             uuid.New().String(),
		InmobiliariaID: inmobiliariaID,
		Name:           name,
		Location:       strings.TrimSpace(in.Location),
		Description:    in.Description,
		PriceFrom:      in.PriceFrom,
		Currency:       currency,
		ImageURL:       in.ImageURL,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return toProjectResponse(p), nil
}

// List lista los proyectos de la inmobiliaria.
func (uc *ProjectUseCase) List(ctx context.Context, inmobiliariaID string, pg dto.PageRequest) ([]dto.ProjectResponse, error) {
	pg.DefaultPage()
	list, err := retry.Do(ctx, uc.retry, func(ctx context.Context) ([]*entity.Project, error) {
		return uc.repo.ListByInmobiliaria(ctx, inmobiliariaID, pg.Limit, pg.Offset)
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProjectResponse, 0, len(list))
	for _, p := range list {
		out = append(out, *toProjectResponse(p))
	}
	return out, nil
}

func toProjectResponse(p *entity.Project) *dto.ProjectResponse {
	return &dto.ProjectResponse{
		ID:             p.ID,
		InmobiliariaID: p.InmobiliariaID,
		Name:           p.Name,
		Location:       p.Location,
		Description:    p.Description,
		PriceFrom:      p.PriceFrom,
		Currency:       p.Currency,
		ImageURL:       p.ImageURL,
		CreatedAt:      p.CreatedAt,
	}
}
