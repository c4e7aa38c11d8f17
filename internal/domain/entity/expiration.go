package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExpiringItem lote con fecha de vencimiento próxima, tal como lo devuelve el backend.
type ExpiringItem struct {
	StockItemID       int64
	ProductID         int64
	ProductName       string
	SKU               string
	CategoryID        int64
	Category          string
	BatchNumber       string
	Quantity          int
	Location          string
	UnitPrice         decimal.Decimal
	ExpirationDate    time.Time
	ManufacturingDate *time.Time
	DaysRemaining     int
}

// CategoryExpiration conteo de lotes por vencer en una categoría.
type CategoryExpiration struct {
	CategoryID   int64
	CategoryName string
	Count        int
}

// ExpirationStats estadísticas agregadas de vencimiento.
type ExpirationStats struct {
	TotalExpiring    int
	CriticalExpiring int
	ThisWeekExpiring int
	ByCategory       []CategoryExpiration
	TimeRanges       map[string]int // "0-7_days", "8-30_days", "31-90_days"
}

// ExpirationFilter filtros para el listado de lotes por vencer.
type ExpirationFilter struct {
	Days       int
	CategoryID int64
	ProductID  int64
	Skip       int
	Limit      int
}

// ExpirationReport datos del reporte PDF de vencimientos.
type ExpirationReport struct {
	Title       string
	GeneratedAt time.Time
	GeneratedBy string
	Days        int
	Items       []ExpiringItem
}
