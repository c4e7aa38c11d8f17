package usecase

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/qualistock/internal/application/dto"
	"github.com/jhoicas/qualistock/internal/domain"
	"github.com/jhoicas/qualistock/internal/domain/entity"
	"github.com/jhoicas/qualistock/internal/domain/inventory"
	"github.com/jhoicas/qualistock/pkg/retry"
)

var errCategoryRequired = fmt.Errorf("%w: la categoría es obligatoria", domain.ErrInvalidInput)

// backendRetryPolicy no reintenta con una sesión expirada: el backend ya rechazó el token.
func backendRetryPolicy(p retry.Policy) retry.Policy {
	if p.Retryable == nil {
		p.Retryable = func(err error) bool {
			return !errors.Is(err, domain.ErrSessionExpired) && !errors.Is(err, domain.ErrNoSession)
		}
	}
	return p
}

// validateProduct nombre y SKU obligatorios, precio no negativo. La categoría la valida cada caso de uso.
func validateProduct(p *entity.Product) error {
	if p.Name == "" || p.SKU == "" {
		return fmt.Errorf("%w: nombre y SKU son obligatorios", domain.ErrInvalidInput)
	}
	if p.UnitPrice.IsNegative() {
		return fmt.Errorf("%w: el precio unitario no puede ser negativo", domain.ErrInvalidInput)
	}
	return nil
}

// applyProductChanges aplica los campos presentes y devuelve si algo cambió.
// El SKU es inmutable: solo se acepta si coincide con el actual.
func applyProductChanges(p *entity.Product, name, sku, description *string, categoryID *int64, unitPrice *decimal.Decimal) (bool, error) {
	changed := false
	if sku != nil && strings.TrimSpace(*sku) != p.SKU {
		return false, fmt.Errorf("%w: el SKU no puede modificarse", domain.ErrInvalidInput)
	}
	if name != nil {
		p.Name = strings.TrimSpace(*name)
		changed = true
	}
	if description != nil {
		p.Description = strings.TrimSpace(*description)
		changed = true
	}
	if categoryID != nil {
		if *categoryID <= 0 {
			return false, errCategoryRequired
		}
		p.CategoryID = *categoryID
		changed = true
	}
	if unitPrice != nil {
		p.UnitPrice = *unitPrice
		changed = true
	}
	if changed {
		if err := validateProduct(p); err != nil {
			return false, err
		}
	}
	return changed, nil
}

// parseStockDates convierte y valida el par de fechas del formulario de lote.
func parseStockDates(manufacturing, expiration *string) (*inventory.BatchInfo, error) {
	mfg, err := inventory.ParseDate(manufacturing)
	if err != nil {
		return nil, err
	}
	exp, err := inventory.ParseDate(expiration)
	if err != nil {
		return nil, err
	}
	if err := inventory.ValidateDates(mfg, exp); err != nil {
		return nil, err
	}
	return &inventory.BatchInfo{ManufacturingDate: mfg, ExpirationDate: exp}, nil
}

func toCategoryResponse(c *entity.Category) dto.CategoryResponse {
	return dto.CategoryResponse{ID: c.ID, Name: c.Name, Description: c.Description}
}

func toCategoryResponses(list []entity.Category) []dto.CategoryResponse {
	out := make([]dto.CategoryResponse, 0, len(list))
	for i := range list {
		out = append(out, toCategoryResponse(&list[i]))
	}
	return out
}

func toProductResponse(p *entity.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		SKU:         p.SKU,
		Description: p.Description,
		CategoryID:  p.CategoryID,
		UnitPrice:   p.UnitPrice,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toProductResponses(list []entity.Product) []dto.ProductResponse {
	out := make([]dto.ProductResponse, 0, len(list))
	for i := range list {
		out = append(out, toProductResponse(&list[i]))
	}
	return out
}

func toStockItemResponse(s *entity.StockItem) *dto.StockItemResponse {
	return &dto.StockItemResponse{
		ID:                s.ID,
		ProductID:         s.ProductID,
		Quantity:          s.Quantity,
		Location:          s.Location,
		BatchNumber:       s.BatchNumber,
		ManufacturingDate: s.ManufacturingDate,
		ExpirationDate:    s.ExpirationDate,
	}
}

func toExpiringItemDTO(it entity.ExpiringItem) dto.ExpiringItemDTO {
	return dto.ExpiringItemDTO{
		ID:                it.StockItemID,
		ProductID:         it.ProductID,
		ProductName:       it.ProductName,
		SKU:               it.SKU,
		CategoryID:        it.CategoryID,
		Category:          it.Category,
		BatchNumber:       it.BatchNumber,
		Quantity:          it.Quantity,
		Location:          it.Location,
		UnitPrice:         it.UnitPrice,
		ExpirationDate:    it.ExpirationDate,
		ManufacturingDate: it.ManufacturingDate,
		DaysRemaining:     it.DaysRemaining,
		Status:            inventory.ExpirationStatus(it.DaysRemaining),
		Severity:          inventory.ExpirationSeverity(it.DaysRemaining),
	}
}
