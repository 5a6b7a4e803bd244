package usecase

import (
	"context"
	"net/url"
	"strings"

	"github.com/jhoicas/Inmobiliaria-crm/internal/application/dto"
	"github.com/jhoicas/Inmobiliaria-crm/internal/application/session"
	"github.com/jhoicas/Inmobiliaria-crm/internal/domain"
	"github.com/jhoicas/Inmobiliaria-crm/internal/domain/entity"
)

// ProfileUseCase edición del propio perfil a través del gateway del cliente.
type ProfileUseCase struct {
	notifier UserNotifier
}

// NewProfileUseCase construye el caso de uso.
func NewProfileUseCase(notifier UserNotifier) *ProfileUseCase {
	return &ProfileUseCase{notifier: notifier}
}

// Update aplica el patch sobre la fila usuarios del actor y avisa USER_UPDATED a
// todas sus sesiones para que re-resuelvan la identidad.
func (uc *ProfileUseCase) Update(ctx context.Context, gw session.Gateway, actor *entity.Identity, in dto.UpdateProfileRequest) error {
	patch := session.Row{}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return domain.ErrInvalidInput
		}
		patch["nombre"] = name
	}
	if in.AvatarURL != nil {
		u := strings.TrimSpace(*in.AvatarURL)
		if u != "" {
			parsed, err := url.Parse(u)
			if err != nil || (parsed.Scheme != "https" && parsed.Scheme != "http") || parsed.Host == "" {
				return domain.ErrInvalidInput
			}
		}
		patch["avatar_url"] = u
	}
	if len(patch) == 0 {
		return domain.ErrInvalidInput
	}
	if _, err := gw.UpdateRow(ctx, session.TableUsers, session.Filter{"id": actor.ID}, patch); err != nil {
		return err
	}
	if uc.notifier != nil {
		uc.notifier.NotifyUser(actor.ID, session.EventUserUpdated)
	}
	return nil
}
