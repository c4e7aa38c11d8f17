package inventory

import (
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/qualistock/internal/domain"
	"github.com/jhoicas/qualistock/internal/domain/entity"
)

// EditState estado del flujo de edición de stock de la página de gestión.
//
//	editing ──(0 → N)──▶ awaiting_batch_info ──(submit)──▶ committed
//	editing ──(edición normal)──────────────────────────▶ committed
type EditState string

const (
	EditStateEditing           EditState = "editing"
	EditStateAwaitingBatchInfo EditState = "awaiting_batch_info"
	EditStateCommitted         EditState = "committed"
)

// NewLocationOption valor del selector de ubicación que indica "usar NewLocation".
const NewLocationOption = "new"

// RequiresBatchInfo indica si el cambio de cantidad exige volver a capturar los datos del lote.
func RequiresBatchInfo(currentQty, newQty int) bool {
	return currentQty == 0 && newQty > 0
}

// QuantityChange cambio de cantidad pedido desde el formulario de edición.
// Location vacío conserva la ubicación actual.
type QuantityChange struct {
	Quantity int
	Location string
}

// PlanQuantityEdit decide cómo aplicar el cambio sobre el lote actual.
// Si la transición es 0 → N devuelve EditStateAwaitingBatchInfo y el lote sin modificar;
// en otro caso devuelve el lote actualizado (lote y fechas se conservan) y EditStateCommitted.
func PlanQuantityEdit(current entity.StockItem, change QuantityChange) (entity.StockItem, EditState, error) {
	if change.Quantity < 0 {
		return current, EditStateEditing, fmt.Errorf("%w: la cantidad no puede ser negativa", domain.ErrInvalidInput)
	}
	if RequiresBatchInfo(current.Quantity, change.Quantity) {
		return current, EditStateAwaitingBatchInfo, nil
	}
	updated := current
	updated.Quantity = change.Quantity
	if loc := strings.TrimSpace(change.Location); loc != "" {
		updated.Location = loc
	}
	return updated, EditStateCommitted, nil
}

// BatchInfo datos del lote que se capturan en el segundo paso.
type BatchInfo struct {
	BatchNumber       string
	Location          string
	NewLocation       string
	ManufacturingDate *time.Time
	ExpirationDate    *time.Time
}

// ResolveLocation aplica la opción "new" del selector de ubicación.
func ResolveLocation(location, newLocation string) string {
	location = strings.TrimSpace(location)
	if location == NewLocationOption {
		return strings.TrimSpace(newLocation)
	}
	return location
}

// Validate exige número de lote y ubicación, y fechas coherentes.
func (b BatchInfo) Validate() error {
	if strings.TrimSpace(b.BatchNumber) == "" || ResolveLocation(b.Location, b.NewLocation) == "" {
		return domain.ErrBatchInfoRequired
	}
	return ValidateDates(b.ManufacturingDate, b.ExpirationDate)
}

// ValidateDates la fecha de fabricación no puede ser posterior a la de vencimiento.
func ValidateDates(manufacturing, expiration *time.Time) error {
	if manufacturing != nil && expiration != nil && manufacturing.After(*expiration) {
		return fmt.Errorf("%w: la fecha de fabricación es posterior al vencimiento", domain.ErrInvalidInput)
	}
	return nil
}

// ParseDate acepta YYYY-MM-DD o RFC 3339. Nil o vacío devuelve nil.
func ParseDate(s *string) (*time.Time, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	v := strings.TrimSpace(*s)
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, v); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, fmt.Errorf("%w: fecha inválida %q", domain.ErrInvalidInput, v)
}

// PendingStockEdit actualización diferida a la espera de los datos del lote.
type PendingStockEdit struct {
	ID          string
	SessionID   string
	ProductID   int64
	StockItemID int64
	Quantity    int
	Location    string // ubicación sugerida para el formulario del lote
	CreatedAt   time.Time
}

// Apply construye el lote a persistir con la cantidad diferida y los datos capturados.
func (p PendingStockEdit) Apply(current entity.StockItem, info BatchInfo) (entity.StockItem, error) {
	if err := info.Validate(); err != nil {
		return current, err
	}
	updated := current
	updated.ProductID = p.ProductID
	updated.Quantity = p.Quantity
	updated.Location = ResolveLocation(info.Location, info.NewLocation)
	updated.BatchNumber = strings.TrimSpace(info.BatchNumber)
	updated.ManufacturingDate = info.ManufacturingDate
	updated.ExpirationDate = info.ExpirationDate
	return updated, nil
}
