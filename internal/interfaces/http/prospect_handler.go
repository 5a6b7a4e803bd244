package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inmobiliaria-crm/internal/application/dto"
	"github.com/jhoicas/Inmobiliaria-crm/internal/application/usecase"
)

// ProspectHandler prospectos y tablero del pipeline.
type ProspectHandler struct {
	uc *usecase.ProspectUseCase
}

// NewProspectHandler construye el handler.
func NewProspectHandler(uc *usecase.ProspectUseCase) *ProspectHandler {
	return &ProspectHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar prospecto
// @Tags         prospectos
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProspectRequest  true  "Datos del prospecto"
// @Success      201   {object}  dto.ProspectResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/prospectos [post]
func (h *ProspectHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProspectRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), GetIdentity(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar prospectos
// @Tags         prospectos
// @Produce      json
// @Param        etapa       query  string  false  "Etapa del pipeline"
// @Param        asignado_a  query  string  false  "ID del vendedor"
// @Param        q           query  string  false  "Búsqueda por nombre o email"
// @Param        limit       query  int     false  "Límite"  default(20)
// @Param        offset      query  int     false  "Offset"  default(0)
// @Success      200         {array}  dto.ProspectResponse
// @Failure      400         {object}  dto.ErrorResponse
// @Router       /api/prospectos [get]
func (h *ProspectHandler) List(c *fiber.Ctx) error {
	var in dto.ProspectListRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	out, err := h.uc.List(c.UserContext(), GetIdentity(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// MoveStage godoc
// @Summary      Mover prospecto de etapa
// @Tags         prospectos
// @Accept       json
// @Produce      json
// @Param        id    path  string                true  "ID del prospecto"
// @Param        body  body  dto.MoveStageRequest  true  "etapa destino"
// @Success      200   {object}  dto.ProspectResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/prospectos/{id}/etapa [patch]
func (h *ProspectHandler) MoveStage(c *fiber.Ctx) error {
	var in dto.MoveStageRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.MoveStage(c.UserContext(), GetIdentity(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Pipeline godoc
// @Summary      Tablero del pipeline
// @Tags         pipeline
// @Produce      json
// @Success      200  {object}  dto.PipelineResponse
// @Router       /api/pipeline [get]
func (h *ProspectHandler) Pipeline(c *fiber.Ctx) error {
	out, err := h.uc.Pipeline(c.UserContext(), GetIdentity(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// PipelineReport godoc
// @Summary      Reporte PDF del pipeline
// @Tags         pipeline
// @Produce      application/pdf
// @Success      200  {file}  binary
// @Router       /api/pipeline/reporte.pdf [get]
func (h *ProspectHandler) PipelineReport(c *fiber.Ctx) error {
	pdf, err := h.uc.PipelineReport(c.UserContext(), GetIdentity(c))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="pipeline-%s.pdf"`, time.Now().Format("20060102")))
	return c.Send(pdf)
}
