package inventory_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/qualistock/internal/domain"
	"github.com/jhoicas/qualistock/internal/domain/entity"
	"github.com/jhoicas/qualistock/internal/domain/inventory"
)

func TestRequiresBatchInfo(t *testing.T) {
	assert.True(t, inventory.RequiresBatchInfo(0, 5))
	assert.False(t, inventory.RequiresBatchInfo(5, 8))
	assert.False(t, inventory.RequiresBatchInfo(0, 0))
	assert.False(t, inventory.RequiresBatchInfo(3, 0))
}

func TestPlanQuantityEdit_CeroANuevoEsperaLote(t *testing.T) {
	current := entity.StockItem{ID: 1, ProductID: 9, Quantity: 0, Location: "A1", BatchNumber: "B-OLD"}

	got, state, err := inventory.PlanQuantityEdit(current, inventory.QuantityChange{Quantity: 5})
	require.NoError(t, err)
	assert.Equal(t, inventory.EditStateAwaitingBatchInfo, state)
	assert.Equal(t, current, got, "el lote no se modifica hasta recibir los datos")
}

func TestPlanQuantityEdit_EdicionNormalConservaLote(t *testing.T) {
	exp := time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)
	current := entity.StockItem{ID: 1, ProductID: 9, Quantity: 5, Location: "A1", BatchNumber: "B-1", ExpirationDate: &exp}

	got, state, err := inventory.PlanQuantityEdit(current, inventory.QuantityChange{Quantity: 8, Location: "B2"})
	require.NoError(t, err)
	assert.Equal(t, inventory.EditStateCommitted, state)
	assert.Equal(t, 8, got.Quantity)
	assert.Equal(t, "B2", got.Location)
	assert.Equal(t, "B-1", got.BatchNumber)
	assert.Equal(t, &exp, got.ExpirationDate)
}

func TestPlanQuantityEdit_CantidadNegativa(t *testing.T) {
	_, state, err := inventory.PlanQuantityEdit(entity.StockItem{Quantity: 2}, inventory.QuantityChange{Quantity: -1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, inventory.EditStateEditing, state)
}

func TestBatchInfo_Validate(t *testing.T) {
	assert.ErrorIs(t, inventory.BatchInfo{Location: "A1"}.Validate(), domain.ErrBatchInfoRequired)
	assert.ErrorIs(t, inventory.BatchInfo{BatchNumber: "B-2"}.Validate(), domain.ErrBatchInfoRequired)
	assert.ErrorIs(t, inventory.BatchInfo{BatchNumber: "B-2", Location: "new"}.Validate(), domain.ErrBatchInfoRequired,
		"la opción new sin ubicación nueva no es válida")
	assert.NoError(t, inventory.BatchInfo{BatchNumber: "B-2", Location: "new", NewLocation: "Cámara 3"}.Validate())

	mfg := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	exp := mfg.AddDate(0, 0, -1)
	err := inventory.BatchInfo{BatchNumber: "B-2", Location: "A1", ManufacturingDate: &mfg, ExpirationDate: &exp}.Validate()
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPendingStockEdit_Apply(t *testing.T) {
	pending := inventory.PendingStockEdit{ID: "p1", ProductID: 9, StockItemID: 1, Quantity: 5}
	current := entity.StockItem{ID: 1, ProductID: 9, Quantity: 0, Location: "A1", BatchNumber: "B-OLD"}
	exp := time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)

	got, err := pending.Apply(current, inventory.BatchInfo{
		BatchNumber: " B-NEW ", Location: "new", NewLocation: "Cámara 3", ExpirationDate: &exp,
	})
	require.NoError(t, err)
	assert.Equal(t, 5, got.Quantity)
	assert.Equal(t, "B-NEW", got.BatchNumber)
	assert.Equal(t, "Cámara 3", got.Location)
	assert.Equal(t, &exp, got.ExpirationDate)
	assert.Nil(t, got.ManufacturingDate)
}

func TestLineValueYStockBajo(t *testing.T) {
	assert.True(t, decimal.RequireFromString("37.50").Equal(inventory.LineValue(3, decimal.RequireFromString("12.50"))))
	assert.True(t, inventory.LineValue(0, decimal.NewFromInt(10)).IsZero())
	assert.True(t, inventory.IsLowStock(5, 20))
	assert.False(t, inventory.IsLowStock(0, 20))
	assert.False(t, inventory.IsLowStock(20, 20))
}

func TestParseDate(t *testing.T) {
	got, err := inventory.ParseDate(nil)
	require.NoError(t, err)
	assert.Nil(t, got)

	empty := " "
	got, err = inventory.ParseDate(&empty)
	require.NoError(t, err)
	assert.Nil(t, got)

	day := "2025-03-01"
	got, err = inventory.ParseDate(&day)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), *got)

	full := "2025-03-01T10:30:00-05:00"
	got, err = inventory.ParseDate(&full)
	require.NoError(t, err)
	assert.Equal(t, 15, got.Hour())

	bad := "01/03/2025"
	_, err = inventory.ParseDate(&bad)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
