package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/qualistock/internal/application/dto"
	"github.com/jhoicas/qualistock/internal/application/quality"
)

// QualityHandler tablero de alertas de calidad de la sesión.
type QualityHandler struct {
	boards *quality.Boards
}

// NewQualityHandler construye el handler.
func NewQualityHandler(boards *quality.Boards) *QualityHandler {
	return &QualityHandler{boards: boards}
}

// List godoc
// @Summary      Alertas de calidad (más recientes primero)
// @Tags         quality
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.AlertListResponse
// @Router       /api/quality/alerts [get]
func (h *QualityHandler) List(c *fiber.Ctx) error {
	out, err := h.boards.List(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear alerta de calidad
// @Tags         quality
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateAlertRequest  true  "Alerta"
// @Success      201   {object}  dto.QualityAlertDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/quality/alerts [post]
func (h *QualityHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateAlertRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	out, err := h.boards.Add(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Resolve godoc
// @Summary      Marcar alerta como resuelta
// @Tags         quality
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la alerta"
// @Success      200  {object}  dto.QualityAlertDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/quality/alerts/{id}/resolve [post]
func (h *QualityHandler) Resolve(c *fiber.Ctx) error {
	out, err := h.boards.Resolve(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar alerta
// @Tags         quality
// @Security     Bearer
// @Param        id   path  string  true  "ID de la alerta"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/quality/alerts/{id} [delete]
func (h *QualityHandler) Delete(c *fiber.Ctx) error {
	if err := h.boards.Delete(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
