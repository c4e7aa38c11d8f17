package entity

import "time"

// StockItem representa un lote de un producto en una ubicación.
// BatchNumber no cambia en ediciones normales; las fechas son opcionales.
type StockItem struct {
	ID                int64
	ProductID         int64
	Quantity          int
	Location          string
	BatchNumber       string
	ManufacturingDate *time.Time
	ExpirationDate    *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// InStock indica si el lote tiene existencias.
func (s StockItem) InStock() bool {
	return s.Quantity > 0
}
