package dto

import "time"

// LoginRequest credenciales del formulario de login.
type LoginRequest struct {
	Username string `json:"username" validate:"required,max=100"`
	Password string `json:"password" validate:"required"`
}

// TokenLoginRequest login con un token del backend ya emitido.
type TokenLoginRequest struct {
	Token string `json:"token" validate:"required"`
}

// RegisterRequest alta de usuario; ConfirmPassword debe coincidir con Password.
type RegisterRequest struct {
	Username        string `json:"username" validate:"required,min=1,max=100"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
}

// UserResponse perfil del usuario autenticado.
type UserResponse struct {
	ID          int64  `json:"id"`
	Username    string `json:"username"`
	Name        string `json:"name,omitempty"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	Avatar      string `json:"avatar,omitempty"`
	IsActive    bool   `json:"is_active"`
	IsAdmin     bool   `json:"is_admin"`
}

// LoginResponse token de sesión del dashboard y perfil.
type LoginResponse struct {
	Token     string       `json:"token"`
	TokenType string       `json:"token_type"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}
