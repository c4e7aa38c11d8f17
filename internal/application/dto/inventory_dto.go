package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockItemResponse salida de un lote.
type StockItemResponse struct {
	ID                int64      `json:"id"`
	ProductID         int64      `json:"product_id"`
	Quantity          int        `json:"quantity"`
	Location          string     `json:"location"`
	BatchNumber       string     `json:"batch_number"`
	ManufacturingDate *time.Time `json:"manufacturing_date"`
	ExpirationDate    *time.Time `json:"expiration_date"`
}

// StockRowDTO fila de la tabla de stock: un producto con su cantidad total.
type StockRowDTO struct {
	ProductID   int64           `json:"product_id"`
	Name        string          `json:"name"`
	SKU         string          `json:"sku"`
	Description string          `json:"description"`
	CategoryID  int64           `json:"category_id"`
	Category    string          `json:"category"`
	Quantity    int             `json:"quantity"`
	Location    string          `json:"location"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Value       decimal.Decimal `json:"value"`
	StockItemID *int64          `json:"stock_item_id"`
	LowStock    bool            `json:"low_stock"`
}

// StockStatsDTO tarjetas de resumen de la página de stock.
type StockStatsDTO struct {
	TotalProducts int             `json:"total_products"`
	LowStockCount int             `json:"low_stock_count"`
	StockValue    decimal.Decimal `json:"stock_value"`
}

// StockOverviewResponse respuesta de GET /api/stock.
type StockOverviewResponse struct {
	Rows       []StockRowDTO      `json:"rows"`
	Stats      StockStatsDTO      `json:"stats"`
	Categories []CategoryResponse `json:"categories"`
	Notices    []Notice           `json:"notices"`
}

// AddStockItemRequest alta de un lote. Location "new" toma NewLocation.
// Las fechas aceptan YYYY-MM-DD o RFC 3339.
type AddStockItemRequest struct {
	ProductID         int64   `json:"product_id" validate:"required,gt=0"`
	Quantity          int     `json:"quantity" validate:"min=0"`
	Location          string  `json:"location" validate:"required"`
	NewLocation       string  `json:"new_location" validate:"required_if=Location new"`
	BatchNumber       string  `json:"batch_number" validate:"required,max=100"`
	ManufacturingDate *string `json:"manufacturing_date"`
	ExpirationDate    *string `json:"expiration_date"`
}

// AddProductRequest alta desde la página de stock: categoría opcional nueva, producto y lote inicial.
// El lote inicial se crea cuando Quantity > 0.
type AddProductRequest struct {
	Name              string          `json:"name" validate:"required,min=1,max=200"`
	SKU               string          `json:"sku" validate:"required,min=1,max=100"`
	Description       string          `json:"description"`
	CategoryID        int64           `json:"category_id" validate:"required_without=NewCategory"`
	NewCategory       string          `json:"new_category" validate:"omitempty,max=100"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	Quantity          int             `json:"quantity" validate:"min=0"`
	Location          string          `json:"location"`
	NewLocation       string          `json:"new_location"`
	BatchNumber       string          `json:"batch_number" validate:"max=100"`
	ManufacturingDate *string         `json:"manufacturing_date"`
	ExpirationDate    *string         `json:"expiration_date"`
}

// AddProductResponse resultado del alta.
type AddProductResponse struct {
	Product   ProductResponse    `json:"product"`
	Category  *CategoryResponse  `json:"category,omitempty"`
	StockItem *StockItemResponse `json:"stock_item,omitempty"`
}

// EditProductRequest edición desde la tabla de stock. Quantity y Location aplican a StockItemID.
type EditProductRequest struct {
	Name        *string          `json:"name" validate:"omitempty,min=1,max=200"`
	SKU         *string          `json:"sku"`
	Description *string          `json:"description"`
	CategoryID  *int64           `json:"category_id" validate:"omitempty,gt=0"`
	UnitPrice   *decimal.Decimal `json:"unit_price"`
	StockItemID *int64           `json:"stock_item_id" validate:"omitempty,gt=0"`
	Quantity    *int             `json:"quantity" validate:"omitempty,min=0"`
	Location    *string          `json:"location"`
}

// EditProductResponse estado del flujo de edición.
// Con state=awaiting_batch_info el cliente debe enviar los datos del lote a PendingID.
type EditProductResponse struct {
	State             string             `json:"state"`
	PendingID         string             `json:"pending_id,omitempty"`
	SuggestedLocation string             `json:"suggested_location,omitempty"`
	Product           *ProductResponse   `json:"product,omitempty"`
	StockItem         *StockItemResponse `json:"stock_item,omitempty"`
}

// BatchInfoRequest segundo paso de la edición 0 → N.
type BatchInfoRequest struct {
	BatchNumber       string  `json:"batch_number" validate:"required,max=100"`
	Location          string  `json:"location" validate:"required"`
	NewLocation       string  `json:"new_location" validate:"required_if=Location new"`
	ManufacturingDate *string `json:"manufacturing_date"`
	ExpirationDate    *string `json:"expiration_date"`
}
