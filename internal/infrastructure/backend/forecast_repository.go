package backend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/jhoicas/qualistock/internal/domain/entity"
	"github.com/jhoicas/qualistock/internal/domain/repository"
)

var _ repository.ForecastRepository = (*ForecastRepository)(nil)

// ForecastRepository consultas /forecasting/*.
type ForecastRepository struct {
	c *Client
}

// NewForecastRepository construye el repositorio.
func NewForecastRepository(c *Client) *ForecastRepository {
	return &ForecastRepository{c: c}
}

func (r *ForecastRepository) ListPredictions(ctx context.Context, filter entity.ForecastFilter) ([]entity.Forecast, error) {
	q := url.Values{}
	if filter.ProductID > 0 {
		q.Set("product_id", strconv.FormatInt(filter.ProductID, 10))
	}
	if filter.MinConfidence != nil {
		q.Set("min_confidence", strconv.FormatFloat(*filter.MinConfidence, 'f', -1, 64))
	}
	if filter.Skip > 0 {
		q.Set("skip", strconv.Itoa(filter.Skip))
	}
	if filter.Limit > 0 {
		q.Set("limit", strconv.Itoa(filter.Limit))
	}
	var rows []forecastResponse
	if err := r.c.do(ctx, request{method: http.MethodGet, path: "/forecasting/predictions/", query: q}, &rows); err != nil {
		return nil, err
	}
	out := make([]entity.Forecast, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	return out, nil
}

// TopProducts productos con mayor demanda proyectada.
func (r *ForecastRepository) TopProducts(ctx context.Context, limit int) ([]entity.ProductDemand, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var rows []productDemandResponse
	if err := r.c.do(ctx, request{method: http.MethodGet, path: "/forecasting/stats/top-products", query: q}, &rows); err != nil {
		return nil, err
	}
	out := make([]entity.ProductDemand, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	return out, nil
}
