package entity

import "time"

// Inmobiliaria organización/tenant del sistema. Todo lo visible está acotado a una.
type Inmobiliaria struct {
	ID        string
	Name      string
	TaxID     string // RUT/NIT/CUIT según país
	Email     string
	Phone     string
	LogoURL   string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
