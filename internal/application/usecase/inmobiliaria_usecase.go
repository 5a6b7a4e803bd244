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

// InmobiliariaUseCase alta y consulta de inmobiliarias (solo developer).
type InmobiliariaUseCase struct {
	repo  repository.InmobiliariaRepository
	tx    OnboardingRunner
	retry retry.Policy
}

// NewInmobiliariaUseCase construye el caso de uso.
func NewInmobiliariaUseCase(repo repository.InmobiliariaRepository, tx OnboardingRunner, p retry.Policy) *InmobiliariaUseCase {
	return &InmobiliariaUseCase{repo: repo, tx: tx, retry: p}
}

// Create crea la inmobiliaria y, si viene informado, su primer administrador.
func (uc *InmobiliariaUseCase) Create(ctx context.Context, in dto.CreateInmobiliariaRequest) (*dto.InmobiliariaResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	inmo := &entity.Inmobiliaria{
		ID:        uuid.New().String(),
		Name:      name,
		TaxID:     strings.TrimSpace(in.TaxID),
		Email:     strings.TrimSpace(in.Email),
		Phone:     strings.TrimSpace(in.Phone),
		LogoURL:   in.LogoURL,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	var admin *entity.User
	if in.Admin != nil {
		req := *in.Admin
		if req.Role == "" {
			req.Role = string(entity.RoleAdmin)
		}
		u, err := newUser(inmo.ID, req)
		if err != nil {
			return nil, err
		}
		admin = u
	}

	err := uc.tx.RunOnboarding(ctx, func(inmoRepo repository.InmobiliariaRepository, userRepo repository.UserRepository) error {
		if err := inmoRepo.Create(ctx, inmo); err != nil {
			return err
		}
		if admin != nil {
			return userRepo.Create(ctx, admin)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := toInmobiliariaResponse(inmo)
	if admin != nil {
		out.Admin = toUserResponse(admin)
	}
	return out, nil
}

// GetByID obtiene una inmobiliaria; domain.ErrNotFound si no existe.
func (uc *InmobiliariaUseCase) GetByID(ctx context.Context, id string) (*dto.InmobiliariaResponse, error) {
	inmo, err := retry.Do(ctx, uc.retry, func(ctx context.Context) (*entity.Inmobiliaria, error) {
		return uc.repo.GetByID(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	if inmo == nil {
		return nil, domain.ErrNotFound
	}
	return toInmobiliariaResponse(inmo), nil
}

// List lista inmobiliarias paginadas.
func (uc *InmobiliariaUseCase) List(ctx context.Context, pg dto.PageRequest) ([]dto.InmobiliariaResponse, error) {
	pg.DefaultPage()
	list, err := retry.Do(ctx, uc.retry, func(ctx context.Context) ([]*entity.Inmobiliaria, error) {
		return uc.repo.List(ctx, pg.Limit, pg.Offset)
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.InmobiliariaResponse, 0, len(list))
	for _, in := range list {
		out = append(out, *toInmobiliariaResponse(in))
	}
	return out, nil
}

func toInmobiliariaResponse(in *entity.Inmobiliaria) *dto.InmobiliariaResponse {
	return &dto.InmobiliariaResponse{
		ID:        in.ID,
		Name:      in.Name,
		TaxID:     in.TaxID,
		Email:     in.Email,
		Phone:     in.Phone,
		LogoURL:   in.LogoURL,
		Active:    in.Active,
		CreatedAt: in.CreatedAt,
		UpdatedAt: in.UpdatedAt,
	}
}
