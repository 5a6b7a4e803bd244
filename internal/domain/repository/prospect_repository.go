package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inmobiliaria-crm/internal/domain/entity"
)

// ProspectFilter filtros opcionales para listar prospectos.
type ProspectFilter struct {
	Stage      entity.Stage
	AssignedTo string
	// Search texto ya normalizado (minúsculas, sin tildes) a buscar en nombre o email.
	Search     string
	Limit      int
	Offset     int
}

// StageTotal cantidad y presupuesto acumulado de una etapa.
type StageTotal struct {
	Stage  entity.Stage
	Count  int
	Budget decimal.Decimal
}

// ProspectRepository persistencia de prospectos y su etapa en el pipeline.
type ProspectRepository interface {
	Create(ctx context.Context, p *entity.Prospect) error
	GetByID(ctx context.Context, inmobiliariaID, id string) (*entity.Prospect, error)
	List(ctx context.Context, inmobiliariaID string, f ProspectFilter) ([]*entity.Prospect, error)
	UpdateStage(ctx context.Context, inmobiliariaID, id string, stage entity.Stage) error
	// StageTotals agrega por etapa; assignedTo vacío cuenta toda la inmobiliaria.
	StageTotals(ctx context.Context, inmobiliariaID, assignedTo string) ([]StageTotal, error)
}
