package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jhoicas/qualistock/internal/domain/entity"
	"github.com/jhoicas/qualistock/internal/domain/repository"
)

var _ repository.StockItemRepository = (*StockItemRepository)(nil)

// StockItemRepository implementa repository.StockItemRepository sobre /stock-items/.
type StockItemRepository struct {
	c *Client
}

// NewStockItemRepository construye el repositorio.
func NewStockItemRepository(c *Client) *StockItemRepository {
	return &StockItemRepository{c: c}
}

func (r *StockItemRepository) List(ctx context.Context) ([]entity.StockItem, error) {
	var rows []stockItemResponse
	if err := r.c.do(ctx, request{method: http.MethodGet, path: "/stock-items/"}, &rows); err != nil {
		return nil, err
	}
	out := make([]entity.StockItem, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	return out, nil
}

// ListByProduct filtra el listado completo; el backend no expone filtro por producto.
func (r *StockItemRepository) ListByProduct(ctx context.Context, productID int64) ([]entity.StockItem, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]entity.StockItem, 0, len(all))
	for _, it := range all {
		if it.ProductID == productID {
			out = append(out, it)
		}
	}
	return out, nil
}

func (r *StockItemRepository) GetByID(ctx context.Context, id int64) (*entity.StockItem, error) {
	var row stockItemResponse
	err := r.c.do(ctx, request{method: http.MethodGet, path: fmt.Sprintf("/stock-items/%d", id), route: "/stock-items/{id}"}, &row)
	if err != nil {
		return nil, err
	}
	out := row.toEntity()
	return &out, nil
}

func (r *StockItemRepository) Create(ctx context.Context, item *entity.StockItem) (*entity.StockItem, error) {
	var row stockItemResponse
	err := r.c.do(ctx, request{method: http.MethodPost, path: "/stock-items/", body: newStockItemPayload(item)}, &row)
	if err != nil {
		return nil, err
	}
	out := row.toEntity()
	return &out, nil
}

func (r *StockItemRepository) Update(ctx context.Context, item *entity.StockItem) (*entity.StockItem, error) {
	var row stockItemResponse
	err := r.c.do(ctx, request{
		method: http.MethodPut, path: fmt.Sprintf("/stock-items/%d", item.ID), route: "/stock-items/{id}",
		body: newStockItemPayload(item),
	}, &row)
	if err != nil {
		return nil, err
	}
	out := row.toEntity()
	return &out, nil
}

func (r *StockItemRepository) Delete(ctx context.Context, id int64) error {
	return r.c.do(ctx, request{method: http.MethodDelete, path: fmt.Sprintf("/stock-items/%d", id), route: "/stock-items/{id}"}, nil)
}
