package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Inmobiliaria-crm/internal/application/dto"
	"github.com/jhoicas/Inmobiliaria-crm/internal/application/session"
	"github.com/jhoicas/Inmobiliaria-crm/internal/domain"
	"github.com/jhoicas/Inmobiliaria-crm/internal/domain/entity"
	"github.com/jhoicas/Inmobiliaria-crm/internal/domain/repository"
	"github.com/jhoicas/Inmobiliaria-crm/pkg/jwt"
	"github.com/jhoicas/Inmobiliaria-crm/pkg/retry"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// SessionBinder liga un token recién emitido a la cookie del cliente y avisa al
// store de ese cliente con el evento indicado.
type SessionBinder interface {
	Bind(ctx context.Context, clientID, token string, event session.AuthEvent) error
}

// AuthUseCase casos de uso de autenticación: login y renovación de token.
type AuthUseCase struct {
	userRepo repository.UserRepository
	binder   SessionBinder
	jwtCfg   JWTConfig
	retry    retry.Policy
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, binder SessionBinder, jwtCfg JWTConfig, p retry.Policy) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, binder: binder, jwtCfg: jwtCfg, retry: p}
}

// Login verifica email/password, emite el JWT y lo liga al cliente (SIGNED_IN).
// Email inexistente y password incorrecta devuelven el mismo error.
func (uc *AuthUseCase) Login(ctx context.Context, clientID string, in dto.LoginRequest) (*dto.LoginResponse, error) {
	email := strings.TrimSpace(in.Email)
	if email == "" || in.Password == "" {
		return nil, domain.ErrInvalidInput
	}
	user, err := retry.Do(ctx, uc.retry, func(ctx context.Context) (*entity.User, error) {
		return uc.userRepo.GetByEmail(ctx, email)
	})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if !user.Active {
		return nil, domain.ErrAccountInactive
	}

	tok, exp, err := uc.issue(user.ID, user.InmobiliariaID, string(user.Role))
	if err != nil {
		return nil, err
	}
	if err := uc.binder.Bind(ctx, clientID, tok, session.EventSignedIn); err != nil {
		return nil, fmt.Errorf("ligar sesión: %w", err)
	}
	return &dto.LoginResponse{Token: tok, ExpiresAt: exp, User: *ToUserResponse(user)}, nil
}

// Refresh emite un token nuevo para la identidad ya resuelta (TOKEN_REFRESHED).
// Role y tenant salen de la identidad reconciliada, no del token anterior.
func (uc *AuthUseCase) Refresh(ctx context.Context, clientID string, id *entity.Identity) (*dto.LoginResponse, error) {
	if !id.Authorized() {
		return nil, domain.ErrUnauthorized
	}
	tok, exp, err := uc.issue(id.ID, id.InmobiliariaID, string(id.Role))
	if err != nil {
		return nil, err
	}
	if err := uc.binder.Bind(ctx, clientID, tok, session.EventTokenRefreshed); err != nil {
		return nil, fmt.Errorf("ligar sesión: %w", err)
	}
	return &dto.LoginResponse{
		Token:     tok,
		ExpiresAt: exp,
		User: dto.UserResponse{
			ID:             id.ID,
			InmobiliariaID: id.InmobiliariaID,
			Email:          id.Email,
			Name:           id.DisplayName,
			Role:           string(id.Role),
			Active:         id.Active,
			AvatarURL:      id.AvatarURL,
		},
	}, nil
}

func (uc *AuthUseCase) issue(userID, inmobiliariaID, role string) (string, time.Time, error) {
	exp := time.Now().Add(time.Duration(uc.jwtCfg.ExpMinutes) * time.Minute)
	tok, err := jwt.Generate(uc.jwtCfg.Secret, jwt.TokenInput{
		UserID:         userID,
		InmobiliariaID: inmobiliariaID,
		Role:           role,
		Issuer:         uc.jwtCfg.Issuer,
		ExpMinutes:     uc.jwtCfg.ExpMinutes,
	})
	if err != nil {
		return "", time.Time{}, err
	}
	return tok, exp, nil
}

// ToUserResponse convierte la entidad a su DTO de salida.
func ToUserResponse(u *entity.User) *dto.UserResponse {
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
