package backend

import (
	"bytes"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/qualistock/internal/domain/entity"
)

// ── Fechas ────────────────────────────────────────────────────────────────────

// wireTime acepta las fechas del backend con o sin zona horaria y siempre envía RFC 3339.
type wireTime struct {
	time.Time
}

var wireTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

func (t *wireTime) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}
	if len(b) < 2 || b[0] != '"' || b[len(b)-1] != '"' {
		return fmt.Errorf("fecha inválida: %s", b)
	}
	s := string(b[1 : len(b)-1])
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range wireTimeLayouts {
		// Las fechas sin zona del backend están en UTC.
		if parsed, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("fecha inválida: %q", s)
}

func (t wireTime) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + t.UTC().Format(time.RFC3339) + `"`), nil
}

func toWireTime(t *time.Time) *wireTime {
	if t == nil || t.IsZero() {
		return nil
	}
	return &wireTime{Time: *t}
}

func fromWireTime(w *wireTime) *time.Time {
	if w == nil || w.IsZero() {
		return nil
	}
	t := w.Time
	return &t
}

// ── Categorías ────────────────────────────────────────────────────────────────

type categoryPayload struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type categoryResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (r categoryResponse) toEntity() entity.Category {
	return entity.Category{ID: r.ID, Name: r.Name, Description: r.Description}
}

// ── Productos ─────────────────────────────────────────────────────────────────

// productPayload envía unit_price como número JSON.
type productPayload struct {
	Name        string  `json:"name"`
	SKU         string  `json:"sku"`
	Description string  `json:"description"`
	CategoryID  int64   `json:"category_id"`
	UnitPrice   float64 `json:"unit_price"`
}

func newProductPayload(p *entity.Product) productPayload {
	return productPayload{
		Name:        p.Name,
		SKU:         p.SKU,
		Description: p.Description,
		CategoryID:  p.CategoryID,
		UnitPrice:   p.UnitPrice.Round(2).InexactFloat64(),
	}
}

type productResponse struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	SKU         string          `json:"sku"`
	Description string          `json:"description"`
	CategoryID  int64           `json:"category_id"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	CreatedAt   wireTime        `json:"created_at"`
	UpdatedAt   wireTime        `json:"updated_at"`
}

func (r productResponse) toEntity() entity.Product {
	return entity.Product{
		ID:          r.ID,
		Name:        r.Name,
		SKU:         r.SKU,
		Description: r.Description,
		CategoryID:  r.CategoryID,
		UnitPrice:   r.UnitPrice,
		CreatedAt:   r.CreatedAt.Time,
		UpdatedAt:   r.UpdatedAt.Time,
	}
}

// ── Stock ─────────────────────────────────────────────────────────────────────

type stockItemPayload struct {
	ProductID         int64     `json:"product_id"`
	Quantity          int       `json:"quantity"`
	Location          string    `json:"location"`
	BatchNumber       string    `json:"batch_number"`
	ManufacturingDate *wireTime `json:"manufacturing_date,omitempty"`
	ExpirationDate    *wireTime `json:"expiration_date,omitempty"`
}

func newStockItemPayload(s *entity.StockItem) stockItemPayload {
	return stockItemPayload{
		ProductID:         s.ProductID,
		Quantity:          s.Quantity,
		Location:          s.Location,
		BatchNumber:       s.BatchNumber,
		ManufacturingDate: toWireTime(s.ManufacturingDate),
		ExpirationDate:    toWireTime(s.ExpirationDate),
	}
}

type stockItemResponse struct {
	ID                int64     `json:"id"`
	ProductID         int64     `json:"product_id"`
	Quantity          int       `json:"quantity"`
	Location          string    `json:"location"`
	BatchNumber       string    `json:"batch_number"`
	ManufacturingDate *wireTime `json:"manufacturing_date"`
	ExpirationDate    *wireTime `json:"expiration_date"`
	CreatedAt         wireTime  `json:"created_at"`
	UpdatedAt         wireTime  `json:"updated_at"`
}

func (r stockItemResponse) toEntity() entity.StockItem {
	return entity.StockItem{
		ID:                r.ID,
		ProductID:         r.ProductID,
		Quantity:          r.Quantity,
		Location:          r.Location,
		BatchNumber:       r.BatchNumber,
		ManufacturingDate: fromWireTime(r.ManufacturingDate),
		ExpirationDate:    fromWireTime(r.ExpirationDate),
		CreatedAt:         r.CreatedAt.Time,
		UpdatedAt:         r.UpdatedAt.Time,
	}
}

// ── Vencimientos ──────────────────────────────────────────────────────────────

// expiringItemResponse cubre /expiration/items (id) y /expiration/critical (stock_item_id).
type expiringItemResponse struct {
	ID                int64           `json:"id"`
	StockItemID       int64           `json:"stock_item_id"`
	ProductID         int64           `json:"product_id"`
	ProductName       string          `json:"product_name"`
	SKU               string          `json:"sku"`
	CategoryID        int64           `json:"category_id"`
	Category          string          `json:"category"`
	BatchNumber       string          `json:"batch_number"`
	Quantity          int             `json:"quantity"`
	Location          string          `json:"location"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	ExpirationDate    wireTime        `json:"expiration_date"`
	ManufacturingDate *wireTime       `json:"manufacturing_date"`
	DaysRemaining     int             `json:"days_remaining"`
}

func (r expiringItemResponse) toEntity() entity.ExpiringItem {
	id := r.ID
	if id == 0 {
		id = r.StockItemID
	}
	return entity.ExpiringItem{
		StockItemID:       id,
		ProductID:         r.ProductID,
		ProductName:       r.ProductName,
		SKU:               r.SKU,
		CategoryID:        r.CategoryID,
		Category:          r.Category,
		BatchNumber:       r.BatchNumber,
		Quantity:          r.Quantity,
		Location:          r.Location,
		UnitPrice:         r.UnitPrice,
		ExpirationDate:    r.ExpirationDate.Time,
		ManufacturingDate: fromWireTime(r.ManufacturingDate),
		DaysRemaining:     r.DaysRemaining,
	}
}

type expirationStatsResponse struct {
	TotalExpiring    int `json:"total_expiring"`
	CriticalExpiring int `json:"critical_expiring"`
	ThisWeekExpiring int `json:"this_week_expiring"`
	ByCategory       []struct {
		CategoryID   int64  `json:"category_id"`
		CategoryName string `json:"category_name"`
		Count        int    `json:"count"`
	} `json:"by_category"`
	TimeRanges map[string]int `json:"time_ranges"`
}

func (r expirationStatsResponse) toEntity() *entity.ExpirationStats {
	out := &entity.ExpirationStats{
		TotalExpiring:    r.TotalExpiring,
		CriticalExpiring: r.CriticalExpiring,
		ThisWeekExpiring: r.ThisWeekExpiring,
		ByCategory:       make([]entity.CategoryExpiration, 0, len(r.ByCategory)),
		TimeRanges:       r.TimeRanges,
	}
	if out.TimeRanges == nil {
		out.TimeRanges = map[string]int{}
	}
	for _, c := range r.ByCategory {
		out.ByCategory = append(out.ByCategory, entity.CategoryExpiration{
			CategoryID: c.CategoryID, CategoryName: c.CategoryName, Count: c.Count,
		})
	}
	return out
}

// ── Forecasting ───────────────────────────────────────────────────────────────

type forecastResponse struct {
	ID              int64    `json:"id"`
	ProductID       int64    `json:"product_id"`
	ForecastDate    wireTime `json:"forecast_date"`
	PredictedDemand int      `json:"predicted_demand"`
	ConfidenceLevel float64  `json:"confidence_level"`
	Notes           string   `json:"notes"`
	CreatedAt       wireTime `json:"created_at"`
}

func (r forecastResponse) toEntity() entity.Forecast {
	return entity.Forecast{
		ID:              r.ID,
		ProductID:       r.ProductID,
		ForecastDate:    r.ForecastDate.Time,
		PredictedDemand: r.PredictedDemand,
		ConfidenceLevel: r.ConfidenceLevel,
		Notes:           r.Notes,
		CreatedAt:       r.CreatedAt.Time,
	}
}

type productDemandResponse struct {
	ProductID            int64   `json:"product_id"`
	ProductName          string  `json:"product_name"`
	CategoryID           int64   `json:"category_id"`
	SKU                  string  `json:"sku"`
	TotalPredictedDemand int     `json:"total_predicted_demand"`
	CurrentStock         int     `json:"current_stock"`
	StockDifference      int     `json:"stock_difference"`
	AvgConfidence        float64 `json:"avg_confidence"`
}

func (r productDemandResponse) toEntity() entity.ProductDemand {
	return entity.ProductDemand{
		ProductID:            r.ProductID,
		ProductName:          r.ProductName,
		CategoryID:           r.CategoryID,
		SKU:                  r.SKU,
		TotalPredictedDemand: r.TotalPredictedDemand,
		CurrentStock:         r.CurrentStock,
		StockDifference:      r.StockDifference,
		AvgConfidence:        r.AvgConfidence,
	}
}

// ── Usuarios ──────────────────────────────────────────────────────────────────

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type registerPayload struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	IsActive bool   `json:"is_active"`
	IsAdmin  bool   `json:"is_admin"`
}

type userResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Avatar   string `json:"avatar"`
	IsActive bool   `json:"is_active"`
	IsAdmin  bool   `json:"is_admin"`
}

func (r userResponse) toEntity() entity.User {
	return entity.User{
		ID:       r.ID,
		Username: r.Username,
		Name:     r.Name,
		Email:    r.Email,
		Avatar:   r.Avatar,
		IsActive: r.IsActive,
		IsAdmin:  r.IsAdmin,
	}
}
