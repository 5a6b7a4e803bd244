package dto

import "time"

// CreateUserRequest entrada para crear un usuario (password en texto, se hashea en use case).
type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"required,min=1,max=200"`
	Role     string `json:"role" validate:"required,oneof=developer admin seller"`
	// InmobiliariaID solo lo puede fijar un developer; para admin se usa la propia.
	InmobiliariaID string `json:"inmobiliaria_id" validate:"omitempty,uuid"`
}

// SetActiveRequest activa o desactiva una cuenta.
type SetActiveRequest struct {
	Active *bool `json:"activo" validate:"required"`
}

// UpdateProfileRequest edición del propio perfil.
type UpdateProfileRequest struct {
	Name      *string `json:"nombre" validate:"omitempty,min=1,max=200"`
	AvatarURL *string `json:"avatar_url" validate:"omitempty,url"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID             string    `json:"id"`
	InmobiliariaID string    `json:"inmobiliaria_id"`
	Email          string    `json:"email"`
	Name           string    `json:"name"`
	Role           string    `json:"role"`
	Active         bool      `json:"activo"`
	AvatarURL      string    `json:"avatar_url,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
