package entity

import "time"

// User fila de la tabla usuarios (perfil mutable + credenciales).
type User struct {
	ID             string
	InmobiliariaID string
	Email          string
	PasswordHash   string // bcrypt hash, nunca plano en dominio después de persistir
	Name           string
	Role           Role
	Active         bool
	AvatarURL      string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
