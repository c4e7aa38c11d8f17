package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/qualistock/internal/application/dto"
	"github.com/jhoicas/qualistock/internal/domain"
	"github.com/jhoicas/qualistock/internal/domain/entity"
	"github.com/jhoicas/qualistock/internal/domain/repository"
)

// CatalogUseCase casos de uso CRUD para categorías y productos. El SKU no cambia tras la creación.
type CatalogUseCase struct {
	categories repository.CategoryRepository
	products   repository.ProductRepository
}

// NewCatalogUseCase construye el caso de uso.
func NewCatalogUseCase(categories repository.CategoryRepository, products repository.ProductRepository) *CatalogUseCase {
	return &CatalogUseCase{categories: categories, products: products}
}

// ── Categorías ────────────────────────────────────────────────────────────────

// ListCategories lista todas las categorías.
func (uc *CatalogUseCase) ListCategories(ctx context.Context) ([]dto.CategoryResponse, error) {
	list, err := uc.categories.List(ctx)
	if err != nil {
		return nil, err
	}
	return toCategoryResponses(list), nil
}

// GetCategory obtiene una categoría por ID.
func (uc *CatalogUseCase) GetCategory(ctx context.Context, id int64) (*dto.CategoryResponse, error) {
	c, err := uc.categories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toCategoryResponse(c)
	return &resp, nil
}

// CreateCategory crea una categoría.
func (uc *CatalogUseCase) CreateCategory(ctx context.Context, in dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: el nombre de la categoría es obligatorio", domain.ErrInvalidInput)
	}
	created, err := uc.categories.Create(ctx, &entity.Category{Name: name, Description: strings.TrimSpace(in.Description)})
	if err != nil {
		return nil, err
	}
	resp := toCategoryResponse(created)
	return &resp, nil
}

// UpdateCategory actualiza nombre y/o descripción.
func (uc *CatalogUseCase) UpdateCategory(ctx context.Context, id int64, in dto.UpdateCategoryRequest) (*dto.CategoryResponse, error) {
	c, err := uc.categories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: el nombre de la categoría es obligatorio", domain.ErrInvalidInput)
		}
		c.Name = name
	}
	if in.Description != nil {
		c.Description = strings.TrimSpace(*in.Description)
	}
	c.ID = id
	updated, err := uc.categories.Update(ctx, c)
	if err != nil {
		return nil, err
	}
	resp := toCategoryResponse(updated)
	return &resp, nil
}

// DeleteCategory elimina una categoría.
func (uc *CatalogUseCase) DeleteCategory(ctx context.Context, id int64) error {
	return uc.categories.Delete(ctx, id)
}

// ListCategoryProducts productos de una categoría.
func (uc *CatalogUseCase) ListCategoryProducts(ctx context.Context, id int64) ([]dto.ProductResponse, error) {
	list, err := uc.categories.ListProducts(ctx, id)
	if err != nil {
		return nil, err
	}
	return toProductResponses(list), nil
}

// ── Productos ─────────────────────────────────────────────────────────────────

// ListProducts lista todos los productos.
func (uc *CatalogUseCase) ListProducts(ctx context.Context) ([]dto.ProductResponse, error) {
	list, err := uc.products.List(ctx)
	if err != nil {
		return nil, err
	}
	return toProductResponses(list), nil
}

// GetProduct obtiene un producto por ID.
func (uc *CatalogUseCase) GetProduct(ctx context.Context, id int64) (*dto.ProductResponse, error) {
	p, err := uc.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toProductResponse(p)
	return &resp, nil
}

// CreateProduct crea un producto.
func (uc *CatalogUseCase) CreateProduct(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	product := &entity.Product{
		Name:        strings.TrimSpace(in.Name),
		SKU:         strings.TrimSpace(in.SKU),
		Description: strings.TrimSpace(in.Description),
		CategoryID:  in.CategoryID,
		UnitPrice:   in.UnitPrice,
	}
	if err := validateProduct(product); err != nil {
		return nil, err
	}
	if product.CategoryID <= 0 {
		return nil, errCategoryRequired
	}
	created, err := uc.products.Create(ctx, product)
	if err != nil {
		return nil, err
	}
	resp := toProductResponse(created)
	return &resp, nil
}

// UpdateProduct actualiza un producto. Un SKU distinto al actual se rechaza.
func (uc *CatalogUseCase) UpdateProduct(ctx context.Context, id int64, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := applyProductChanges(product, in.Name, in.SKU, in.Description, in.CategoryID, in.UnitPrice); err != nil {
		return nil, err
	}
	product.ID = id
	updated, err := uc.products.Update(ctx, product)
	if err != nil {
		return nil, err
	}
	resp := toProductResponse(updated)
	return &resp, nil
}

// DeleteProduct elimina un producto.
func (uc *CatalogUseCase) DeleteProduct(ctx context.Context, id int64) error {
	return uc.products.Delete(ctx, id)
}
