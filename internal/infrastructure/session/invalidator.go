package session

import (
	"context"

	"github.com/jhoicas/qualistock/internal/domain/entity"
	"github.com/jhoicas/qualistock/internal/domain/repository"
	"github.com/jhoicas/qualistock/pkg/logger"
)

// Invalidator borra del store la sesión que el backend rechazó y avisa a los suscriptores
// (p. ej. para descartar ediciones pendientes o cachés de esa sesión).
type Invalidator struct {
	store     repository.SessionStore
	log       *logger.Logger
	listeners []func(ctx context.Context, sessionID string)
}

// NewInvalidator construye el invalidador.
func NewInvalidator(store repository.SessionStore, log *logger.Logger) *Invalidator {
	if log == nil {
		log = logger.Nop()
	}
	return &Invalidator{store: store, log: log.Named("session")}
}

// OnInvalidate registra fn para cada sesión invalidada. No es seguro llamarlo tras arrancar el servidor.
func (i *Invalidator) OnInvalidate(fn func(ctx context.Context, sessionID string)) {
	i.listeners = append(i.listeners, fn)
}

// Invalidate implementa backend.SessionInvalidator.
func (i *Invalidator) Invalidate(ctx context.Context, s *entity.Session) error {
	if s == nil || s.ID == "" {
		return nil
	}
	if err := i.store.Delete(ctx, s.ID); err != nil {
		return err
	}
	for _, fn := range i.listeners {
		fn(ctx, s.ID)
	}
	i.log.Debug().Str("session_id", s.ID).Msg("sesión eliminada del store")
	return nil
}
