package backend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/jhoicas/qualistock/internal/domain/entity"
	"github.com/jhoicas/qualistock/internal/domain/repository"
)

var _ repository.ExpirationRepository = (*ExpirationRepository)(nil)

// ExpirationRepository consultas /expiration/*.
type ExpirationRepository struct {
	c *Client
}

// NewExpirationRepository construye el repositorio.
func NewExpirationRepository(c *Client) *ExpirationRepository {
	return &ExpirationRepository{c: c}
}

// Items lotes que vencen dentro de filter.Days días (los filtros en cero no se envían).
func (r *ExpirationRepository) Items(ctx context.Context, filter entity.ExpirationFilter) ([]entity.ExpiringItem, error) {
	q := url.Values{}
	if filter.Days > 0 {
		q.Set("days", strconv.Itoa(filter.Days))
	}
	if filter.CategoryID > 0 {
		q.Set("category_id", strconv.FormatInt(filter.CategoryID, 10))
	}
	if filter.ProductID > 0 {
		q.Set("product_id", strconv.FormatInt(filter.ProductID, 10))
	}
	if filter.Skip > 0 {
		q.Set("skip", strconv.Itoa(filter.Skip))
	}
	if filter.Limit > 0 {
		q.Set("limit", strconv.Itoa(filter.Limit))
	}
	var rows []expiringItemResponse
	if err := r.c.do(ctx, request{method: http.MethodGet, path: "/expiration/items", query: q}, &rows); err != nil {
		return nil, err
	}
	return toExpiringItems(rows), nil
}

func (r *ExpirationRepository) Stats(ctx context.Context) (*entity.ExpirationStats, error) {
	var row expirationStatsResponse
	if err := r.c.do(ctx, request{method: http.MethodGet, path: "/expiration/stats"}, &row); err != nil {
		return nil, err
	}
	return row.toEntity(), nil
}

// Critical lotes que vencen en los próximos 7 días.
func (r *ExpirationRepository) Critical(ctx context.Context) ([]entity.ExpiringItem, error) {
	var rows []expiringItemResponse
	if err := r.c.do(ctx, request{method: http.MethodGet, path: "/expiration/critical"}, &rows); err != nil {
		return nil, err
	}
	return toExpiringItems(rows), nil
}

func toExpiringItems(rows []expiringItemResponse) []entity.ExpiringItem {
	out := make([]entity.ExpiringItem, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	return out
}
