package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExpirationItemsQuery filtros de GET /api/expiration/items.
type ExpirationItemsQuery struct {
	Days       int   `query:"days" validate:"min=0,max=365"`
	CategoryID int64 `query:"category_id" validate:"min=0"`
	ProductID  int64 `query:"product_id" validate:"min=0"`
	PageRequest
}

// ExpiringItemDTO lote por vencer con estado y severidad calculados.
type ExpiringItemDTO struct {
	ID                int64           `json:"id"`
	ProductID         int64           `json:"product_id"`
	ProductName       string          `json:"product_name"`
	SKU               string          `json:"sku"`
	CategoryID        int64           `json:"category_id"`
	Category          string          `json:"category"`
	BatchNumber       string          `json:"batch_number"`
	Quantity          int             `json:"quantity"`
	Location          string          `json:"location"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	ExpirationDate    time.Time       `json:"expiration_date"`
	ManufacturingDate *time.Time      `json:"manufacturing_date"`
	DaysRemaining     int             `json:"days_remaining"`
	Status            string          `json:"status"`
	Severity          string          `json:"severity"`
}

// CategoryExpirationDTO conteo por categoría.
type CategoryExpirationDTO struct {
	CategoryID   int64  `json:"category_id"`
	CategoryName string `json:"category_name"`
	Count        int    `json:"count"`
}

// ExpirationStatsDTO estadísticas de vencimiento; FetchedAt indica la antigüedad de la caché.
type ExpirationStatsDTO struct {
	TotalExpiring    int                     `json:"total_expiring"`
	CriticalExpiring int                     `json:"critical_expiring"`
	ThisWeekExpiring int                     `json:"this_week_expiring"`
	ByCategory       []CategoryExpirationDTO `json:"by_category"`
	TimeRanges       map[string]int          `json:"time_ranges"`
	FetchedAt        time.Time               `json:"fetched_at"`
}
