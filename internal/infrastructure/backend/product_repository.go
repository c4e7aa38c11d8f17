package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jhoicas/qualistock/internal/domain/entity"
	"github.com/jhoicas/qualistock/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepository)(nil)

// ProductRepository implementa repository.ProductRepository sobre /products/.
type ProductRepository struct {
	c *Client
}

// NewProductRepository construye el repositorio.
func NewProductRepository(c *Client) *ProductRepository {
	return &ProductRepository{c: c}
}

func (r *ProductRepository) List(ctx context.Context) ([]entity.Product, error) {
	var rows []productResponse
	if err := r.c.do(ctx, request{method: http.MethodGet, path: "/products/"}, &rows); err != nil {
		return nil, err
	}
	out := make([]entity.Product, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	return out, nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*entity.Product, error) {
	var row productResponse
	err := r.c.do(ctx, request{method: http.MethodGet, path: fmt.Sprintf("/products/%d", id), route: "/products/{id}"}, &row)
	if err != nil {
		return nil, err
	}
	out := row.toEntity()
	return &out, nil
}

func (r *ProductRepository) Create(ctx context.Context, product *entity.Product) (*entity.Product, error) {
	var row productResponse
	err := r.c.do(ctx, request{method: http.MethodPost, path: "/products/", body: newProductPayload(product)}, &row)
	if err != nil {
		return nil, err
	}
	out := row.toEntity()
	return &out, nil
}

func (r *ProductRepository) Update(ctx context.Context, product *entity.Product) (*entity.Product, error) {
	var row productResponse
	err := r.c.do(ctx, request{
		method: http.MethodPut, path: fmt.Sprintf("/products/%d", product.ID), route: "/products/{id}",
		body: newProductPayload(product),
	}, &row)
	if err != nil {
		return nil, err
	}
	out := row.toEntity()
	return &out, nil
}

func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	return r.c.do(ctx, request{method: http.MethodDelete, path: fmt.Sprintf("/products/%d", id), route: "/products/{id}"}, nil)
}
