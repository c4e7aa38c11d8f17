package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/jhoicas/qualistock/internal/domain"
	"github.com/jhoicas/qualistock/internal/domain/entity"
	"github.com/jhoicas/qualistock/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepository)(nil)

// UserRepository login (formulario OAuth2), registro y perfil.
type UserRepository struct {
	c *Client
}

// NewUserRepository construye el repositorio.
func NewUserRepository(c *Client) *UserRepository {
	return &UserRepository{c: c}
}

// Login envía usuario y contraseña como formulario a /auth/token.
// Credenciales incorrectas devuelven un error que envuelve domain.ErrUnauthorized.
func (r *UserRepository) Login(ctx context.Context, username, password string) (*repository.Credentials, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	// El login nunca lleva el token de una sesión previa.
	ctx = entity.ContextWithSession(ctx, nil)

	var tok tokenResponse
	if err := r.c.do(ctx, request{method: http.MethodPost, path: loginPath, form: form}, &tok); err != nil {
		return nil, err
	}
	if tok.AccessToken == "" {
		return nil, fmt.Errorf("backend: login sin access_token: %w", domain.ErrUnauthorized)
	}
	return &repository.Credentials{AccessToken: tok.AccessToken, TokenType: tok.TokenType}, nil
}

func (r *UserRepository) Register(ctx context.Context, in repository.NewUser) (*entity.User, error) {
	body := registerPayload{
		Username: in.Username,
		Email:    in.Email,
		Password: in.Password,
		IsActive: true,
		IsAdmin:  false,
	}
	var row userResponse
	if err := r.c.do(ctx, request{method: http.MethodPost, path: "/users/register", body: body}, &row); err != nil {
		return nil, err
	}
	out := row.toEntity()
	return &out, nil
}

// Me perfil del usuario dueño del token de la sesión en el context.
func (r *UserRepository) Me(ctx context.Context) (*entity.User, error) {
	var row userResponse
	if err := r.c.do(ctx, request{method: http.MethodGet, path: "/users/me"}, &row); err != nil {
		return nil, err
	}
	out := row.toEntity()
	return &out, nil
}
