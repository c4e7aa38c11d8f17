package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/qualistock/internal/application/dto"
	"github.com/jhoicas/qualistock/internal/application/usecase"
)

// StockHandler endpoints de la página de gestión de stock.
type StockHandler struct {
	uc *usecase.StockUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *usecase.StockUseCase) *StockHandler {
	return &StockHandler{uc: uc}
}

// Overview godoc
// @Summary      Tabla de stock con estadísticas
// @Description  Las cargas fallidas degradan a datos de respaldo y se informan en notices.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.StockOverviewResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/stock [get]
func (h *StockHandler) Overview(c *fiber.Ctx) error {
	out, err := h.uc.Overview(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// AddProduct godoc
// @Summary      Alta de producto con categoría nueva y lote inicial opcionales
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AddProductRequest  true  "Producto y lote inicial"
// @Success      201   {object}  dto.AddProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/stock/products [post]
func (h *StockHandler) AddProduct(c *fiber.Ctx) error {
	var in dto.AddProductRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.AddProduct(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// AddStockItem godoc
// @Summary      Alta de lote
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AddStockItemRequest  true  "Lote"
// @Success      201   {object}  dto.StockItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/stock/items [post]
func (h *StockHandler) AddStockItem(c *fiber.Ctx) error {
	var in dto.AddStockItemRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.AddStockItem(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// EditProduct godoc
// @Summary      Editar producto y cantidad
// @Description  Si el lote pasa de 0 a N la respuesta es awaiting_batch_info con un pending_id.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int                     true  "ID del producto"
// @Param        body  body  dto.EditProductRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.EditProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/stock/products/{id} [put]
func (h *StockHandler) EditProduct(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c)
	}
	var in dto.EditProductRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.EditProduct(c.UserContext(), id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// SubmitBatchInfo godoc
// @Summary      Completar una edición pendiente con los datos del lote
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                true  "pending_id"
// @Param        body  body  dto.BatchInfoRequest  true  "Lote, ubicación y fechas"
// @Success      200   {object}  dto.EditProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stock/pending/{id}/batch-info [post]
func (h *StockHandler) SubmitBatchInfo(c *fiber.Ctx) error {
	var in dto.BatchInfoRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.SubmitBatchInfo(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CancelBatchInfo godoc
// @Summary      Descartar una edición pendiente
// @Tags         stock
// @Security     Bearer
// @Param        id   path  string  true  "pending_id"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/pending/{id} [delete]
func (h *StockHandler) CancelBatchInfo(c *fiber.Ctx) error {
	if err := h.uc.CancelBatchInfo(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// DeleteProduct godoc
// @Summary      Eliminar producto y sus lotes
// @Tags         stock
// @Security     Bearer
// @Param        id   path  int  true  "ID del producto"
// @Success      204
// @Router       /api/stock/products/{id} [delete]
func (h *StockHandler) DeleteProduct(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c)
	}
	if err := h.uc.DeleteProduct(c.UserContext(), id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
