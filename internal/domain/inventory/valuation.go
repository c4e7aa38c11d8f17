package inventory

import "github.com/shopspring/decimal"

// LineValue valor de un renglón de inventario: cantidad * precio unitario.
func LineValue(quantity int, unitPrice decimal.Decimal) decimal.Decimal {
	if quantity <= 0 {
		return decimal.Zero
	}
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}

// IsLowStock indica stock bajo: con existencias pero por debajo del umbral.
// Un producto en cero no cuenta como stock bajo (está agotado).
func IsLowStock(quantity, threshold int) bool {
	return quantity > 0 && quantity < threshold
}
