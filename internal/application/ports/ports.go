package ports

import (
	"context"

	"github.com/jhoicas/qualistock/internal/domain/entity"
	"github.com/jhoicas/qualistock/internal/infrastructure/events"
)

// ExpirationReportGenerator puerto de salida para el reporte imprimible de vencimientos.
type ExpirationReportGenerator interface {
	GenerateExpirationReport(ctx context.Context, report entity.ExpirationReport) ([]byte, error)
}

// EventPublisher publica notificaciones entre páginas.
type EventPublisher interface {
	Publish(ctx context.Context, e events.Event)
}

// EventSubscriber se suscribe a notificaciones entre páginas.
type EventSubscriber interface {
	Subscribe(topic events.Topic, fn events.Handler) (unsubscribe func())
}

// RetryObserver cuenta reintentos por operación (métricas).
type RetryObserver interface {
	IncRetry(operation string)
}
