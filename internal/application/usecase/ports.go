package usecase

import (
	"context"

	"github.com/jhoicas/Inmobiliaria-crm/internal/application/dto"
	"github.com/jhoicas/Inmobiliaria-crm/internal/application/session"
	"github.com/jhoicas/Inmobiliaria-crm/internal/domain/repository"
)

// OnboardingRunner ejecuta el alta de una inmobiliaria y su primer usuario en una transacción.
type OnboardingRunner interface {
	RunOnboarding(ctx context.Context, fn func(
		inmoRepo repository.InmobiliariaRepository,
		userRepo repository.UserRepository,
	) error) error
}

// UserNotifier avisa a las sesiones abiertas de un usuario (re-resolución).
type UserNotifier interface {
	NotifyUser(userID string, event session.AuthEvent) int
}

// PipelineReportGenerator genera el PDF del tablero de prospectos.
type PipelineReportGenerator interface {
	GeneratePipelineReport(ctx context.Context, tenantName string, board *dto.PipelineResponse) ([]byte, error)
}
