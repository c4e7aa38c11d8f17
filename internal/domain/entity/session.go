package entity

import (
	"context"
	"time"
)

// Session es la sesión autenticada de un navegador: el token del backend y el perfil del usuario.
// Vive en el store de sesiones y viaja en el context.Context de cada petición.
type Session struct {
	ID        string
	Token     string
	User      User
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired indica si la sesión ya venció respecto a now.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

type sessionCtxKey struct{}

// ContextWithSession devuelve un context que transporta la sesión.
func ContextWithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionCtxKey{}, s)
}

// SessionFromContext extrae la sesión del context (nil si no hay).
func SessionFromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(sessionCtxKey{}).(*Session)
	return s
}
