package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/qualistock/internal/application/analytics"
)

// DashboardHandler maneja los endpoints de la página principal.
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetSummary devuelve los contadores de la página principal.
// GET /api/dashboard/summary
//
// Respuesta: DashboardSummaryDTO (total_products, total_stock_items, low_stock_items,
// expiring_soon, critical_expiring, open_quality_alerts, notices).
// Un fallo parcial deja el contador en cero y agrega un aviso; no es un error HTTP.
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.uc.GetSummary(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(summary)
}
