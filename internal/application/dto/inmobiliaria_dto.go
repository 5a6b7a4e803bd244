package dto

import "time"

// CreateInmobiliariaRequest alta de una inmobiliaria, opcionalmente con su primer administrador.
type CreateInmobiliariaRequest struct {
	Name    string             `json:"nombre" validate:"required,min=1,max=200"`
	TaxID   string             `json:"nit" validate:"omitempty,max=30"`
	Email   string             `json:"email" validate:"omitempty,email"`
	Phone   string             `json:"telefono" validate:"omitempty,max=30"`
	LogoURL string             `json:"logo_url" validate:"omitempty,url"`
	Admin   *CreateUserRequest `json:"admin,omitempty"`
}

// InmobiliariaResponse salida de una inmobiliaria.
type InmobiliariaResponse struct {
	ID        string        `json:"id"`
	Name      string        `json:"nombre"`
	TaxID     string        `json:"nit,omitempty"`
	Email     string        `json:"email,omitempty"`
	Phone     string        `json:"telefono,omitempty"`
	LogoURL   string        `json:"logo_url,omitempty"`
	Active    bool          `json:"activo"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
	Admin     *UserResponse `json:"admin,omitempty"`
}
