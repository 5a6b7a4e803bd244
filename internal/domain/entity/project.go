package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Project proyecto inmobiliario (desarrollo, edificio, loteo) de una inmobiliaria.
type Project struct {
	ID             string
	InmobiliariaID string
	Name           string
	Location       string
	Description    string
	PriceFrom      decimal.Decimal // precio "desde" publicado
	Currency       string          // ISO 4217
	ImageURL       string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
