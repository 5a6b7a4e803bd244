package entity

import "time"

// Campaign campaña de notificaciones push. El envío lo hace un servicio externo.
type Campaign struct {
	ID             string
	InmobiliariaID string
	Title          string
	Body           string
	Audience       Role       // vacío = todos los usuarios de la inmobiliaria
	ScheduledAt    *time.Time // nil = envío inmediato
	CreatedBy      string
	CreatedAt      time.Time
}
