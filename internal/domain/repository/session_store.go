package repository

import (
	"context"
	"time"

	"github.com/jhoicas/qualistock/internal/domain/entity"
)

// SessionStore persiste las sesiones del BFF. Get devuelve (nil, nil) si no existe.
type SessionStore interface {
	Save(ctx context.Context, s *entity.Session, ttl time.Duration) error
	Get(ctx context.Context, id string) (*entity.Session, error)
	Delete(ctx context.Context, id string) error
}
