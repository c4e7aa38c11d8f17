package repository

import (
	"context"

	"github.com/jhoicas/qualistock/internal/domain/entity"
)

// CategoryRepository define el puerto de acceso a categorías (DIP).
type CategoryRepository interface {
	List(ctx context.Context) ([]entity.Category, error)
	GetByID(ctx context.Context, id int64) (*entity.Category, error)
	Create(ctx context.Context, category *entity.Category) (*entity.Category, error)
	Update(ctx context.Context, category *entity.Category) (*entity.Category, error)
	Delete(ctx context.Context, id int64) error
	ListProducts(ctx context.Context, categoryID int64) ([]entity.Product, error)
}
