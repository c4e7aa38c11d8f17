package repository

import (
	"context"

	"github.com/jhoicas/qualistock/internal/domain/entity"
)

// Credentials resultado de un login exitoso contra el backend.
type Credentials struct {
	AccessToken string
	TokenType   string
}

// NewUser datos de registro enviados al backend.
type NewUser struct {
	Username string
	Email    string
	Password string
}

// UserRepository autenticación y perfil contra el backend.
// Me usa el token de la sesión que viaja en el context.
type UserRepository interface {
	Login(ctx context.Context, username, password string) (*Credentials, error)
	Register(ctx context.Context, in NewUser) (*entity.User, error)
	Me(ctx context.Context) (*entity.User, error)
}
