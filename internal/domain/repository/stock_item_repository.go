package repository

import (
	"context"

	"github.com/jhoicas/qualistock/internal/domain/entity"
)

// StockItemRepository define el puerto de acceso a lotes de stock (DIP).
type StockItemRepository interface {
	List(ctx context.Context) ([]entity.StockItem, error)
	ListByProduct(ctx context.Context, productID int64) ([]entity.StockItem, error)
	GetByID(ctx context.Context, id int64) (*entity.StockItem, error)
	Create(ctx context.Context, item *entity.StockItem) (*entity.StockItem, error)
	Update(ctx context.Context, item *entity.StockItem) (*entity.StockItem, error)
	Delete(ctx context.Context, id int64) error
}
