package dto

import "time"

// Acciones recomendadas de la vista de demanda.
const (
	ActionReorder    = "reorder"
	ActionMonitor    = "monitor"
	ActionSufficient = "sufficient"
)

// PredictionsQuery filtros de GET /api/forecasting/predictions.
type PredictionsQuery struct {
	ProductID     int64    `query:"product_id" validate:"min=0"`
	MinConfidence *float64 `query:"min_confidence" validate:"omitempty,min=0,max=1"`
	PageRequest
}

// ForecastDTO predicción de demanda.
type ForecastDTO struct {
	ID              int64     `json:"id"`
	ProductID       int64     `json:"product_id"`
	ForecastDate    time.Time `json:"forecast_date"`
	PredictedDemand int       `json:"predicted_demand"`
	ConfidenceLevel float64   `json:"confidence_level"`
	Notes           string    `json:"notes"`
	CreatedAt       time.Time `json:"created_at"`
}

// DemandItemDTO demanda proyectada de un producto con la acción sugerida.
type DemandItemDTO struct {
	ProductID            int64   `json:"product_id"`
	ProductName          string  `json:"product_name"`
	CategoryID           int64   `json:"category_id"`
	SKU                  string  `json:"sku"`
	TotalPredictedDemand int     `json:"total_predicted_demand"`
	CurrentStock         int     `json:"current_stock"`
	StockDifference      int     `json:"stock_difference"`
	AvgConfidence        float64 `json:"avg_confidence"`
	RecommendedAction    string  `json:"recommended_action"`
}

// DemandResponse respuesta de GET /api/forecasting/demand.
type DemandResponse struct {
	Items                []DemandItemDTO `json:"items"`
	TotalPredictedDemand int             `json:"total_predicted_demand"`
	TotalStock           int             `json:"total_stock"`
	ProductsAtRisk       int             `json:"products_at_risk"`
}
