package usecase

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Inmobiliaria-crm/internal/application/dto"
	"github.com/jhoicas/Inmobiliaria-crm/internal/application/session"
	"github.com/jhoicas/Inmobiliaria-crm/internal/domain"
	"github.com/jhoicas/Inmobiliaria-crm/internal/domain/entity"
	"github.com/jhoicas/Inmobiliaria-crm/internal/domain/repository"
	"github.com/jhoicas/Inmobiliaria-crm/pkg/retry"
)

const minPasswordLen = 8

// UserUseCase gestión de usuarios de una inmobiliaria (developer y admin).
type UserUseCase struct {
	repo     repository.UserRepository
	notifier UserNotifier
	retry    retry.Policy
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(repo repository.UserRepository, notifier UserNotifier, p retry.Policy) *UserUseCase {
	return &UserUseCase{repo: repo, notifier: notifier, retry: p}
}

// Create crea un usuario. Un admin solo crea en su inmobiliaria y nunca developers.
func (uc *UserUseCase) Create(ctx context.Context, actor *entity.Identity, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	inmoID := actor.InmobiliariaID
	if actor.Role == entity.RoleDeveloper && in.InmobiliariaID != "" {
		inmoID = in.InmobiliariaID
	}
	if actor.Role != entity.RoleDeveloper {
		if in.Role == string(entity.RoleDeveloper) {
			return nil, domain.ErrForbidden
		}
		if in.InmobiliariaID != "" && in.InmobiliariaID != actor.InmobiliariaID {
			return nil, domain.ErrForbidden
		}
	}
	user, err := newUser(inmoID, in)
	if err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// List lista los usuarios de la inmobiliaria del actor.
func (uc *UserUseCase) List(ctx context.Context, inmobiliariaID string, pg dto.PageRequest) ([]dto.UserResponse, error) {
	pg.DefaultPage()
	list, err := retry.Do(ctx, uc.retry, func(ctx context.Context) ([]*entity.User, error) {
		return uc.repo.ListByInmobiliaria(ctx, inmobiliariaID, pg.Limit, pg.Offset)
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		out = append(out, *toUserResponse(u))
	}
	return out, nil
}

// SetActive activa o desactiva una cuenta y re-resuelve sus sesiones abiertas:
// una cuenta desactivada queda fuera en su siguiente resolución.
func (uc *UserUseCase) SetActive(ctx context.Context, actor *entity.Identity, userID string, active bool) (*dto.UserResponse, error) {
	if userID == actor.ID && !active {
		return nil, domain.ErrInvalidInput
	}
	target, err := retry.Do(ctx, uc.retry, func(ctx context.Context) (*entity.User, error) {
		return uc.repo.GetByID(ctx, userID)
	})
	if err != nil {
		return nil, err
	}
	if target == nil || (actor.Role != entity.RoleDeveloper && target.InmobiliariaID != actor.InmobiliariaID) {
		return nil, domain.ErrNotFound
	}
	if actor.Role != entity.RoleDeveloper && target.Role == entity.RoleDeveloper {
		return nil, domain.ErrForbidden
	}

	updated, err := uc.repo.SetActive(ctx, target.InmobiliariaID, userID, active)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, domain.ErrNotFound
	}
	if uc.notifier != nil {
		uc.notifier.NotifyUser(userID, session.EventUserUpdated)
	}
	return toUserResponse(updated), nil
}

func newUser(inmobiliariaID string, in dto.CreateUserRequest) (*entity.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, domain.ErrInvalidInput
	}
	if len(in.Password) < minPasswordLen || inmobiliariaID == "" {
		return nil, domain.ErrInvalidInput
	}
	role, err := entity.ParseRole(in.Role)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = email
	}
	now := time.Now()
	return &entity.User{
		ID:             uuid.New().String(),
		InmobiliariaID: inmobiliariaID,
		Email:          email,
		PasswordHash:   string(hash),
		Name:           name,
		Role:           role,
		Active:         true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:             u.ID,
		InmobiliariaID: u.InmobiliariaID,
		Email:          u.Email,
		Name:           u.Name,
		Role:           string(u.Role),
		Active:         u.Active,
		AvatarURL:      u.AvatarURL,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}
