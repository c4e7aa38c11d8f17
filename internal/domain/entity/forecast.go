package entity

import "time"

// Forecast predicción de demanda de un producto para una fecha.
type Forecast struct {
	ID              int64
	ProductID       int64
	ForecastDate    time.Time
	PredictedDemand int
	ConfidenceLevel float64 // 0..1
	Notes           string
	CreatedAt       time.Time
}

// ForecastFilter filtros del listado de predicciones.
type ForecastFilter struct {
	ProductID     int64
	MinConfidence *float64
	Skip          int
	Limit         int
}

// ProductDemand demanda proyectada frente al stock actual de un producto.
type ProductDemand struct {
	ProductID            int64
	ProductName          string
	CategoryID           int64
	SKU                  string
	TotalPredictedDemand int
	CurrentStock         int
	StockDifference      int
	AvgConfidence        float64
}
