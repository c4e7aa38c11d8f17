package usecase

import (
	"context"

	"github.com/jhoicas/qualistock/internal/application/dto"
	"github.com/jhoicas/qualistock/internal/domain/entity"
	"github.com/jhoicas/qualistock/internal/domain/repository"
)

// Cobertura mínima (stock sobre demanda) por debajo de la cual se sugiere vigilar el producto.
const monitorCoverRatio = 0.2

// ForecastUseCase lógica de la página de predicción de demanda.
type ForecastUseCase struct {
	repo repository.ForecastRepository
}

// NewForecastUseCase construye el caso de uso.
func NewForecastUseCase(repo repository.ForecastRepository) *ForecastUseCase {
	return &ForecastUseCase{repo: repo}
}

// Predictions lista las predicciones del backend con los filtros dados.
func (uc *ForecastUseCase) Predictions(ctx context.Context, q dto.PredictionsQuery) ([]dto.ForecastDTO, error) {
	list, err := uc.repo.ListPredictions(ctx, entity.ForecastFilter{
		ProductID:     q.ProductID,
		MinConfidence: q.MinConfidence,
		Skip:          q.Skip,
		Limit:         q.Limit,
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.ForecastDTO, 0, len(list))
	for _, f := range list {
		out = append(out, dto.ForecastDTO{
			ID:              f.ID,
			ProductID:       f.ProductID,
			ForecastDate:    f.ForecastDate,
			PredictedDemand: f.PredictedDemand,
			ConfidenceLevel: f.ConfidenceLevel,
			Notes:           f.Notes,
			CreatedAt:       f.CreatedAt,
		})
	}
	return out, nil
}

// Demand productos con mayor demanda proyectada, con la acción sugerida y totales.
func (uc *ForecastUseCase) Demand(ctx context.Context, limit int) (*dto.DemandResponse, error) {
	if limit <= 0 {
		limit = 10
	}
	list, err := uc.repo.TopProducts(ctx, limit)
	if err != nil {
		return nil, err
	}
	resp := &dto.DemandResponse{Items: make([]dto.DemandItemDTO, 0, len(list))}
	for _, d := range list {
		action := RecommendedAction(d.TotalPredictedDemand, d.CurrentStock, d.StockDifference)
		if action == dto.ActionReorder {
			resp.ProductsAtRisk++
		}
		resp.TotalPredictedDemand += d.TotalPredictedDemand
		resp.TotalStock += d.CurrentStock
		resp.Items = append(resp.Items, dto.DemandItemDTO{
			ProductID:            d.ProductID,
			ProductName:          d.ProductName,
			CategoryID:           d.CategoryID,
			SKU:                  d.SKU,
			TotalPredictedDemand: d.TotalPredictedDemand,
			CurrentStock:         d.CurrentStock,
			StockDifference:      d.StockDifference,
			AvgConfidence:        d.AvgConfidence,
			RecommendedAction:    action,
		})
	}
	return resp, nil
}

// RecommendedAction reorder si el stock no cubre la demanda; monitor si el excedente es menor
// al 20 % de la demanda; sufficient en otro caso.
func RecommendedAction(demand, stock, difference int) string {
	if difference < 0 {
		return dto.ActionReorder
	}
	if demand > 0 && float64(difference) < float64(demand)*monitorCoverRatio {
		return dto.ActionMonitor
	}
	return dto.ActionSufficient
}
