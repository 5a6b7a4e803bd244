package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProspectRequest entrada para registrar un prospecto.
type CreateProspectRequest struct {
	Name       string          `json:"nombre" validate:"required,min=1,max=200"`
	Email      string          `json:"email" validate:"omitempty,email"`
	Phone      string          `json:"telefono" validate:"omitempty,max=30"`
	ProjectID  string          `json:"proyecto_id" validate:"omitempty,uuid"`
	AssignedTo string          `json:"asignado_a" validate:"omitempty,uuid"`
	Budget     decimal.Decimal `json:"presupuesto"`
	Notes      string          `json:"notas"`
}

// ProspectListRequest filtros del listado de prospectos.
type ProspectListRequest struct {
	PageRequest
	Stage      string `query:"etapa"`
	AssignedTo string `query:"asignado_a"`
	Search     string `query:"q"`
}

// MoveStageRequest cambio de etapa en el pipeline.
type MoveStageRequest struct {
	Stage string `json:"etapa" validate:"required"`
}

// ProspectResponse salida de un prospecto.
type ProspectResponse struct {
	ID         string          `json:"id"`
	Name       string          `json:"nombre"`
	Email      string          `json:"email,omitempty"`
	Phone      string          `json:"telefono,omitempty"`
	ProjectID  string          `json:"proyecto_id,omitempty"`
	AssignedTo string          `json:"asignado_a,omitempty"`
	Budget     decimal.Decimal `json:"presupuesto"`
	Stage      string          `json:"etapa"`
	Notes      string          `json:"notas,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// PipelineColumn columna del tablero con sus prospectos y el presupuesto acumulado.
type PipelineColumn struct {
	Stage     string             `json:"etapa"`
	Label     string             `json:"label"`
	Count     int                `json:"total"`
	Budget    decimal.Decimal    `json:"presupuesto_total"`
	Prospects []ProspectResponse `json:"prospectos"`
}

// PipelineResponse tablero completo en orden canónico de etapas. Truncated indica
// que hay más prospectos que tarjetas cargadas; los totales igual son completos.
type PipelineResponse struct {
	Columns   []PipelineColumn `json:"columnas"`
	Truncated bool             `json:"truncado"`
}
