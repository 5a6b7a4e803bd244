package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inmobiliaria-crm/internal/application/dto"
	"github.com/jhoicas/Inmobiliaria-crm/internal/application/usecase"
)

// InmobiliariaHandler alta y consulta de inmobiliarias (developer).
type InmobiliariaHandler struct {
	uc *usecase.InmobiliariaUseCase
}

// NewInmobiliariaHandler construye el handler.
func NewInmobiliariaHandler(uc *usecase.InmobiliariaUseCase) *InmobiliariaHandler {
	return &InmobiliariaHandler{uc: uc}
}

// Create godoc
// @Summary      Crear inmobiliaria
// @Tags         inmobiliarias
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateInmobiliariaRequest  true  "Datos de la inmobiliaria y admin opcional"
// @Success      201   {object}  dto.InmobiliariaResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inmobiliarias [post]
func (h *InmobiliariaHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateInmobiliariaRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener inmobiliaria
// @Tags         inmobiliarias
// @Produce      json
// @Param        id   path  string  true  "ID de la inmobiliaria"
// @Success      200  {object}  dto.InmobiliariaResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inmobiliarias/{id} [get]
func (h *InmobiliariaHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar inmobiliarias
// @Tags         inmobiliarias
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200     {array}  dto.InmobiliariaResponse
// @Router       /api/inmobiliarias [get]
func (h *InmobiliariaHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), pageFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
