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

// CampaignUseCase registro de campañas push. El envío lo hace otro servicio.
type CampaignUseCase struct {
	repo  repository.CampaignRepository
	retry retry.Policy
	now   func() time.Time
}

// NewCampaignUseCase construye el caso de uso.
func NewCampaignUseCase(repo repository.CampaignRepository, p retry.Policy) *CampaignUseCase {
	return &CampaignUseCase{repo: repo, retry: p, now: time.Now}
}

// Create registra una campaña. Una fecha programada debe ser futura.
func (uc *CampaignUseCase) Create(ctx context.Context, actor *entity.Identity, in dto.CreateCampaignRequest) (*dto.CampaignResponse, error) {
	title := strings.TrimSpace(in.Title)
	body := strings.TrimSpace(in.Body)
	if title == "" || body == "" {
		return nil, domain.ErrInvalidInput
	}
	var audience entity.Role
	if in.Audience != "" {
		r, err := entity.ParseRole(in.Audience)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		audience = r
	}
	now := uc.now()
	if in.ScheduledAt != nil && !in.ScheduledAt.After(now) {
		return nil, domain.ErrInvalidInput
	}
	c := &entity.Campaign{
		ID:             uuid.New().String(),
		InmobiliariaID: actor.InmobiliariaID,
		Title:          title,
		Body:           body,
		Audience:       audience,
		ScheduledAt:    in.ScheduledAt,
		CreatedBy:      actor.ID,
		CreatedAt:      now,
	}
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return toCampaignResponse(c), nil
}

// List lista las campañas de la inmobiliaria.
func (uc *CampaignUseCase) List(ctx context.Context, inmobiliariaID string, pg dto.PageRequest) ([]dto.CampaignResponse, error) {
	pg.DefaultPage()
	list, err := retry.Do(ctx, uc.retry, func(ctx context.Context) ([]*entity.Campaign, error) {
		return uc.repo.ListByInmobiliaria(ctx, inmobiliariaID, pg.Limit, pg.Offset)
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.CampaignResponse, 0, len(list))
	for _, c := range list {
		out = append(out, *toCampaignResponse(c))
	}
	return out, nil
}

func toCampaignResponse(c *entity.Campaign) *dto.CampaignResponse {
	return &dto.CampaignResponse{
		ID:          c.ID,
		Title:       c.Title,
		Body:        c.Body,
		Audience:    string(c.Audience),
		ScheduledAt: c.ScheduledAt,
		CreatedBy:   c.CreatedBy,
		CreatedAt:   c.CreatedAt,
	}
}
