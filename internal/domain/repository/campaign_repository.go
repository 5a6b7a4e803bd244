package repository

import (
	"context"

	"github.com/jhoicas/Inmobiliaria-crm/internal/domain/entity"
)

// CampaignRepository persistencia de campañas push.
type CampaignRepository interface {
	Create(ctx context.Context, c *entity.Campaign) error
	ListByInmobiliaria(ctx context.Context, inmobiliariaID string, limit, offset int) ([]*entity.Campaign, error)
}
