package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/qualistock/internal/application/dto"
	"github.com/jhoicas/qualistock/internal/application/usecase"
)

// ExpirationHandler endpoints de la página de vencimientos.
type ExpirationHandler struct {
	uc *usecase.ExpirationUseCase
}

// NewExpirationHandler construye el handler.
func NewExpirationHandler(uc *usecase.ExpirationUseCase) *ExpirationHandler {
	return &ExpirationHandler{uc: uc}
}

// Items godoc
// @Summary      Lotes por vencer
// @Tags         expiration
// @Security     Bearer
// @Produce      json
// @Param        days         query  int  false  "Ventana en días"  default(30)
// @Param        category_id  query  int  false  "Categoría"
// @Param        product_id   query  int  false  "Producto"
// @Param        skip         query  int  false  "Offset"
// @Param        limit        query  int  false  "Límite"
// @Success      200  {array}  dto.ExpiringItemDTO
// @Router       /api/expiration/items [get]
func (h *ExpirationHandler) Items(c *fiber.Ctx) error {
	var q dto.ExpirationItemsQuery
	if ok, err := bindQuery(c, &q); !ok {
		return err
	}
	q.DefaultPage()
	out, err := h.uc.Items(c.UserContext(), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Stats godoc
// @Summary      Estadísticas de vencimiento (cacheadas)
// @Tags         expiration
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ExpirationStatsDTO
// @Router       /api/expiration/stats [get]
func (h *ExpirationHandler) Stats(c *fiber.Ctx) error {
	out, err := h.uc.Stats(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Critical godoc
// @Summary      Lotes críticos (próximos 7 días)
// @Tags         expiration
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ExpiringItemDTO
// @Router       /api/expiration/critical [get]
func (h *ExpirationHandler) Critical(c *fiber.Ctx) error {
	out, err := h.uc.Critical(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Report godoc
// @Summary      Reporte PDF de vencimientos
// @Tags         expiration
// @Security     Bearer
// @Produce      application/pdf
// @Param        days  query  int  false  "Ventana en días"  default(30)
// @Success      200  {file}  binary
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/expiration/report.pdf [get]
func (h *ExpirationHandler) Report(c *fiber.Ctx) error {
	days := c.QueryInt("days", 30)
	pdf, err := h.uc.Report(c.UserContext(), days)
	if err != nil {
		return writeError(c, err)
	}
	filename := fmt.Sprintf("expiration-report-%s.pdf", time.Now().Format("20060102"))
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("inline; filename=%q", filename))
	return c.Send(pdf)
}
