package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jhoicas/qualistock/internal/domain/entity"
	"github.com/jhoicas/qualistock/internal/domain/repository"
)

var _ repository.CategoryRepository = (*CategoryRepository)(nil)

// CategoryRepository implementa repository.CategoryRepository sobre /categories/.
type CategoryRepository struct {
	c *Client
}

// NewCategoryRepository construye el repositorio.
func NewCategoryRepository(c *Client) *CategoryRepository {
	return &CategoryRepository{c: c}
}

func (r *CategoryRepository) List(ctx context.Context) ([]entity.Category, error) {
	var rows []categoryResponse
	if err := r.c.do(ctx, request{method: http.MethodGet, path: "/categories/"}, &rows); err != nil {
		return nil, err
	}
	out := make([]entity.Category, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	return out, nil
}

func (r *CategoryRepository) GetByID(ctx context.Context, id int64) (*entity.Category, error) {
	var row categoryResponse
	err := r.c.do(ctx, request{method: http.MethodGet, path: fmt.Sprintf("/categories/%d", id), route: "/categories/{id}"}, &row)
	if err != nil {
		return nil, err
	}
	out := row.toEntity()
	return &out, nil
}

func (r *CategoryRepository) Create(ctx context.Context, category *entity.Category) (*entity.Category, error) {
	var row categoryResponse
	body := categoryPayload{Name: category.Name, Description: category.Description}
	if err := r.c.do(ctx, request{method: http.MethodPost, path: "/categories/", body: body}, &row); err != nil {
		return nil, err
	}
	out := row.toEntity()
	return &out, nil
}

func (r *CategoryRepository) Update(ctx context.Context, category *entity.Category) (*entity.Category, error) {
	var row categoryResponse
	body := categoryPayload{Name: category.Name, Description: category.Description}
	err := r.c.do(ctx, request{
		method: http.MethodPut, path: fmt.Sprintf("/categories/%d", category.ID), route: "/categories/{id}", body: body,
	}, &row)
	if err != nil {
		return nil, err
	}
	out := row.toEntity()
	return &out, nil
}

func (r *CategoryRepository) Delete(ctx context.Context, id int64) error {
	return r.c.do(ctx, request{method: http.MethodDelete, path: fmt.Sprintf("/categories/%d", id), route: "/categories/{id}"}, nil)
}

// ListProducts productos de una categoría.
func (r *CategoryRepository) ListProducts(ctx context.Context, categoryID int64) ([]entity.Product, error) {
	var rows []productResponse
	err := r.c.do(ctx, request{
		method: http.MethodGet, path: fmt.Sprintf("/categories/%d/products", categoryID), route: "/categories/{id}/products",
	}, &rows)
	if err != nil {
		return nil, err
	}
	out := make([]entity.Product, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	return out, nil
}
