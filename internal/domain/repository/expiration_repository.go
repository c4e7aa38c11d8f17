package repository

import (
	"context"

	"github.com/jhoicas/qualistock/internal/domain/entity"
)

// ExpirationRepository consultas de vencimiento que calcula el backend.
type ExpirationRepository interface {
	Items(ctx context.Context, filter entity.ExpirationFilter) ([]entity.ExpiringItem, error)
	Stats(ctx context.Context) (*entity.ExpirationStats, error)
	Critical(ctx context.Context) ([]entity.ExpiringItem, error)
}
