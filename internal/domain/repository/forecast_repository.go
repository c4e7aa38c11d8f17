package repository

import (
	"context"

	"github.com/jhoicas/qualistock/internal/domain/entity"
)

// ForecastRepository predicciones de demanda del backend.
type ForecastRepository interface {
	ListPredictions(ctx context.Context, filter entity.ForecastFilter) ([]entity.Forecast, error)
	TopProducts(ctx context.Context, limit int) ([]entity.ProductDemand, error)
}
