// Package retry ejecuta operaciones poco fiables con una política fija:
// N reintentos separados por la misma espera, sin backoff exponencial ni jitter.
package retry

import (
	"context"
	"time"
)

// Policy define cuántos reintentos adicionales se hacen y cuánto se espera entre ellos.
// MaxRetries=1 significa como máximo dos invocaciones.
type Policy struct {
	MaxRetries int
	Delay      time.Duration
	// Retryable decide si un error admite otro intento. nil = todos.
	Retryable func(error) bool
}

// OnRetry se invoca antes de cada espera con el número de reintento (1..MaxRetries) y el error que lo provocó.
type OnRetry func(attempt int, err error)

// Do ejecuta op y, si falla, espera Delay y vuelve a intentarlo hasta agotar MaxRetries.
// Devuelve el primer resultado exitoso o el último error. La espera se corta si ctx termina.
func Do[T any](ctx context.Context, p Policy, op func(ctx context.Context) (T, error), hooks ...OnRetry) (T, error) {
	var zero T
	maxRetries := p.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			for _, h := range hooks {
				h(attempt, lastErr)
			}
			if err := wait(ctx, p.Delay); err != nil {
				return zero, lastErr
			}
		}
		res, err := op(ctx)
		if err == nil {
			return res, nil
		}
		lastErr = err
		if p.Retryable != nil && !p.Retryable(err) {
			return zero, err
		}
	}
	return zero, lastErr
}

// Run es Do para operaciones sin valor de retorno.
func Run(ctx context.Context, p Policy, op func(ctx context.Context) error, hooks ...OnRetry) error {
	_, err := Do(ctx, p, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, op(ctx)
	}, hooks...)
	return err
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
