package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Inmobiliaria-crm/internal/application/auth"
	"github.com/jhoicas/Inmobiliaria-crm/internal/application/dto"
	"github.com/jhoicas/Inmobiliaria-crm/internal/domain/entity"
)

// AuthHandler login, renovación, logout y estado de la sesión del cliente.
type AuthHandler struct {
	uc  *auth.AuthUseCase
	cfg SessionConfig
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase, cfg SessionConfig) *AuthHandler {
	return &AuthHandler{uc: uc, cfg: cfg}
}

// Login godoc
// @Summary      Iniciar sesión
// @Description  Valida credenciales, emite el token y lo liga a la cookie del cliente.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "email, password"
// @Success      200   {object}  dto.LoginResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      429   {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.Email == "" || in.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "email y password son requeridos"})
	}
	// suscripción previa al login: la transición a Authenticated llega por el evento SIGNED_IN
	signedIn := make(chan struct{}, 1)
	if st := GetStore(c); st != nil {
		unsub := st.Subscribe(func(s entity.Session) {
			if s.Status == entity.SessionAuthenticated {
				select {
				case signedIn <- struct{}{}:
				default:
				}
			}
		})
		defer unsub()
	}

	out, err := h.uc.Login(c.UserContext(), GetClientID(c), in)
	if err != nil {
		return respondError(c, err)
	}

	// se responde con la sesión nueva ya confirmada, o al vencer cfg.Wait
	ctx, cancel := context.WithTimeout(c.UserContext(), h.cfg.Wait)
	defer cancel()
	select {
	case <-signedIn:
	case <-ctx.Done():
		zerolog.Ctx(c.UserContext()).Warn().Msg("login sin sesión resuelta dentro del plazo")
	}
	return c.JSON(out)
}

// Refresh godoc
// @Summary      Renovar token
// @Tags         auth
// @Produce      json
// @Success      200   {object}  dto.LoginResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/auth/refresh [post]
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	out, err := h.uc.Refresh(c.UserContext(), GetClientID(c), GetIdentity(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Logout godoc
// @Summary      Cerrar sesión
// @Description  La sesión local queda cerrada de inmediato; la revocación sigue en segundo plano.
// @Description  La cookie de cliente se reemplaza: el token de la cookie anterior no vuelve a cargarse.
// @Tags         auth
// @Success      204
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if st := GetStore(c); st != nil {
		st.SignOut()
	}
	newClientCookie(c, h.cfg)
	return c.SendStatus(fiber.StatusNoContent)
}

// Session godoc
// @Summary      Estado de la sesión
// @Description  Devuelve la sesión resuelta y la proyección provisional para pintar la UI.
// @Tags         auth
// @Produce      json
// @Success      200   {object}  dto.SessionResponse
// @Router       /api/session [get]
func (h *AuthHandler) Session(c *fiber.Ctx) error {
	st := GetStore(c)
	if st == nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "sesión de cliente no inicializada"})
	}
	s := waitSession(c, st, h.cfg.Wait)
	out := dto.SessionResponse{Status: s.Status.String()}
	if s.Identity != nil {
		out.Identity = toIdentityResponse(s.Identity)
	}
	if s.Cause != nil {
		out.Reason = s.Cause.Error()
	}
	if p := st.Provisional(); p != nil {
		out.Provisional = &dto.ProjectionResponse{
			Authenticated: p.Authenticated,
			Role:          string(p.Role),
			TenantName:    p.TenantName,
			DisplayName:   p.DisplayName,
		}
	}
	return c.JSON(out)
}

func toIdentityResponse(id *entity.Identity) *dto.IdentityResponse {
	out := &dto.IdentityResponse{
		ID:             id.ID,
		DisplayName:    id.DisplayName,
		Email:          id.Email,
		Role:           string(id.Role),
		InmobiliariaID: id.InmobiliariaID,
		TenantName:     id.TenantName,
		AvatarURL:      id.AvatarURL,
		Authorized:     id.Authorized(),
	}
	for _, is := range id.Issues {
		out.Issues = append(out.Issues, string(is))
	}
	return out
}
