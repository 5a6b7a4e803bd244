package dto

import "time"

// CreateCampaignRequest entrada para registrar una campaña push.
type CreateCampaignRequest struct {
	Title       string     `json:"titulo" validate:"required,min=1,max=120"`
	Body        string     `json:"mensaje" validate:"required,max=500"`
	Audience    string     `json:"audiencia" validate:"omitempty,oneof=developer admin seller"`
	ScheduledAt *time.Time `json:"programada_para"`
}

// CampaignResponse salida de una campaña.
type CampaignResponse struct {
	ID          string     `json:"id"`
	Title       string     `json:"titulo"`
	Body        string     `json:"mensaje"`
	Audience    string     `json:"audiencia,omitempty"`
	ScheduledAt *time.Time `json:"programada_para,omitempty"`
	CreatedBy   string     `json:"creado_por"`
	CreatedAt   time.Time  `json:"created_at"`
}
