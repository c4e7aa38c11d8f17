package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo. SKU es único y no cambia tras la creación.
type Product struct {
	ID          int64
	Name        string
	SKU         string
	Description string
	CategoryID  int64
	UnitPrice   decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
