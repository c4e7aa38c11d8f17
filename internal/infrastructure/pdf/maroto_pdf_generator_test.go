package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/qualistock/internal/domain/entity"
)

func TestGenerateExpirationReport(t *testing.T) {
	g := NewMarotoPDFGenerator()
	report := entity.ExpirationReport{
		GeneratedAt: time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC),
		GeneratedBy: "admin",
		Days:        30,
		Items: []entity.ExpiringItem{
			{StockItemID: 1, ProductName: "Yogurt", SKU: "YG-1", BatchNumber: "B1", Quantity: 12,
				UnitPrice: decimal.RequireFromString("1.25"), ExpirationDate: time.Date(2025, 1, 11, 0, 0, 0, 0, time.UTC), DaysRemaining: 1},
			{StockItemID: 2, ProductName: "Cheese", Quantity: 3,
				UnitPrice: decimal.RequireFromString("7"), ExpirationDate: time.Date(2025, 1, 30, 0, 0, 0, 0, time.UTC), DaysRemaining: 20},
		},
	}

	out, err := g.GenerateExpirationReport(context.Background(), report)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")), "el resultado debe ser un PDF")
}

func TestGenerateExpirationReport_SinLotes(t *testing.T) {
	out, err := NewMarotoPDFGenerator().GenerateExpirationReport(context.Background(), entity.ExpirationReport{Days: 7})
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestFormatMoney(t *testing.T) {
	g := NewMarotoPDFGenerator()
	assert.Equal(t, "1,234.50", g.formatMoney(decimal.RequireFromString("1234.5")))
	assert.Equal(t, "0.00", g.formatMoney(decimal.Zero))
}
