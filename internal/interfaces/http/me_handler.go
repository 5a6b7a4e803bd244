package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inmobiliaria-crm/internal/application/dto"
	"github.com/jhoicas/Inmobiliaria-crm/internal/application/session"
	"github.com/jhoicas/Inmobiliaria-crm/internal/application/usecase"
)

// MeHandler perfil del usuario en sesión.
type MeHandler struct {
	uc       *usecase.ProfileUseCase
	gateways session.GatewayFactory
}

// NewMeHandler construye el handler. gateways devuelve el gateway ligado a cada cliente.
func NewMeHandler(uc *usecase.ProfileUseCase, gateways session.GatewayFactory) *MeHandler {
	return &MeHandler{uc: uc, gateways: gateways}
}

// Get godoc
// @Summary      Mi perfil
// @Tags         me
// @Produce      json
// @Success      200  {object}  dto.IdentityResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/me [get]
func (h *MeHandler) Get(c *fiber.Ctx) error {
	return c.JSON(toIdentityResponse(GetIdentity(c)))
}

// Update godoc
// @Summary      Editar mi perfil
// @Description  Aplica el cambio sobre la fila propia; las sesiones del usuario se re-resuelven.
// @Tags         me
// @Accept       json
// @Param        body  body  dto.UpdateProfileRequest  true  "nombre, avatar_url"
// @Success      204
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/me [patch]
func (h *MeHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateProfileRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := h.uc.Update(c.UserContext(), h.gateways(GetClientID(c)), GetIdentity(c), in); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
