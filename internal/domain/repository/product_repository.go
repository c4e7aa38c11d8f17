package repository

import (
	"context"

	"github.com/jhoicas/qualistock/internal/domain/entity"
)

// ProductRepository define el puerto de acceso a productos (DIP). La implementación habla con el backend REST.
type ProductRepository interface {
	List(ctx context.Context) ([]entity.Product, error)
	GetByID(ctx context.Context, id int64) (*entity.Product, error)
	Create(ctx context.Context, product *entity.Product) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) (*entity.Product, error)
	Delete(ctx context.Context, id int64) error
}
