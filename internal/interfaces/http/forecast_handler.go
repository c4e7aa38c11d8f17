package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/qualistock/internal/application/dto"
	"github.com/jhoicas/qualistock/internal/application/usecase"
)

// ForecastHandler endpoints de la página de predicción de demanda.
type ForecastHandler struct {
	uc *usecase.ForecastUseCase
}

// NewForecastHandler construye el handler.
func NewForecastHandler(uc *usecase.ForecastUseCase) *ForecastHandler {
	return &ForecastHandler{uc: uc}
}

// Predictions godoc
// @Summary      Predicciones de demanda
// @Tags         forecasting
// @Security     Bearer
// @Produce      json
// @Param        product_id      query  int     false  "Producto"
// @Param        min_confidence  query  number  false  "Confianza mínima (0..1)"
// @Success      200  {array}  dto.ForecastDTO
// @Router       /api/forecasting/predictions [get]
func (h *ForecastHandler) Predictions(c *fiber.Ctx) error {
	var q dto.PredictionsQuery
	if ok, err := bindQuery(c, &q); !ok {
		return err
	}
	q.DefaultPage()
	out, err := h.uc.Predictions(c.UserContext(), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Demand godoc
// @Summary      Productos con mayor demanda y acción sugerida
// @Tags         forecasting
// @Security     Bearer
// @Produce      json
// @Param        limit  query  int  false  "Número de productos"  default(10)
// @Success      200  {object}  dto.DemandResponse
// @Router       /api/forecasting/demand [get]
func (h *ForecastHandler) Demand(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 10)
	if limit > 100 {
		limit = 100
	}
	out, err := h.uc.Demand(c.UserContext(), limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
