package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProjectRequest entrada para crear un proyecto.
type CreateProjectRequest struct {
	Name        string          `json:"nombre" validate:"required,min=1,max=200"`
	Location    string          `json:"ubicacion" validate:"required"`
	Description string          `json:"descripcion"`
	PriceFrom   decimal.Decimal `json:"precio_desde"`
	Currency    string          `json:"moneda" validate:"omitempty,len=3"`
	ImageURL    string          `json:"imagen_url" validate:"omitempty,url"`
}

// ProjectResponse salida de un proyecto.
type ProjectResponse struct {
	ID             string          `json:"id"`
	InmobiliariaID string          `json:"inmobiliaria_id"`
	Name           string          `json:"nombre"`
	Location       string          `json:"ubicacion"`
	Description    string          `json:"descripcion,omitempty"`
	PriceFrom      decimal.Decimal `json:"precio_desde"`
	Currency       string          `json:"moneda"`
	ImageURL       string          `json:"imagen_url,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}
