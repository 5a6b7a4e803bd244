package dto

import "time"

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse salida del login. El token queda ligado a la cookie de sesión;
// se devuelve también para clientes que no usan cookies.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// IdentityResponse identidad resuelta de la sesión.
type IdentityResponse struct {
	ID             string   `json:"id"`
	DisplayName    string   `json:"display_name"`
	Email          string   `json:"email,omitempty"`
	Role           string   `json:"role,omitempty"`
	InmobiliariaID string   `json:"inmobiliaria_id,omitempty"`
	TenantName     string   `json:"tenant_name,omitempty"`
	AvatarURL      string   `json:"avatar_url,omitempty"`
	Authorized     bool     `json:"authorized"`
	Issues         []string `json:"issues,omitempty"`
}

// ProjectionResponse proyección provisional (solo para pintar, nunca para autorizar).
type ProjectionResponse struct {
	Authenticated bool   `json:"authenticated"`
	Role          string `json:"role,omitempty"`
	TenantName    string `json:"tenant_name,omitempty"`
	DisplayName   string `json:"display_name,omitempty"`
}

// SessionResponse estado de la sesión del cliente.
type SessionResponse struct {
	Status      string              `json:"status"`
	Identity    *IdentityResponse   `json:"identity,omitempty"`
	Reason      string              `json:"reason,omitempty"`
	Provisional *ProjectionResponse `json:"provisional,omitempty"`
}
