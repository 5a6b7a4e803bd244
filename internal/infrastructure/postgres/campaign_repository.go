package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Inmobiliaria-crm/internal/domain/entity"
	"github.com/jhoicas/Inmobiliaria-crm/internal/domain/repository"
)

var _ repository.CampaignRepository = (*CampaignRepo)(nil)

// CampaignRepo implementación del puerto CampaignRepository sobre PostgreSQL.
type CampaignRepo struct {
	db Querier
}

// NewCampaignRepository construye el adaptador de persistencia para campañas.
func NewCampaignRepository(db Querier) *CampaignRepo {
	return &CampaignRepo{db: db}
}

// Create persiste una campaña.
func (r *CampaignRepo) Create(ctx context.Context, c *entity.Campaign) error {
	query := `
		INSERT INTO campanas (id, inmobiliaria_id, titulo, mensaje, audiencia, programada_para, creado_por, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.Exec(ctx, query,
		c.ID, c.InmobiliariaID, c.Title, c.Body, nullable(string(c.Audience)), c.ScheduledAt, c.CreatedBy, c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert campaña: %w", err)
	}
	return nil
}

// ListByInmobiliaria lista campañas de la inmobiliaria, más recientes primero.
func (r *CampaignRepo) ListByInmobiliaria(ctx context.Context, inmobiliariaID string, limit, offset int) ([]*entity.Campaign, error) {
	limit, offset = clampPage(limit, offset)
	query := `
		SELECT id, inmobiliaria_id, titulo, mensaje, COALESCE(audiencia, ''), programada_para, creado_por, created_at
		FROM campanas WHERE inmobiliaria_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.Query(ctx, query, inmobiliariaID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list campañas: %w", err)
	}
	defer rows.Close()
	var list []*entity.Campaign
	for rows.Next() {
		var c entity.Campaign
		var audience string
		var scheduled *time.Time
		if err := rows.Scan(&c.ID, &c.InmobiliariaID, &c.Title, &c.Body, &audience, &scheduled,
			&c.CreatedBy, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan campaña: %w", err)
		}
		c.Audience = entity.Role(audience)
		c.ScheduledAt = scheduled
		list = append(list, &c)
	}
	return list, rows.Err()
}
