package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/qualistock/internal/application/auth"
	"github.com/jhoicas/qualistock/internal/application/dto"
	"github.com/jhoicas/qualistock/internal/domain/entity"
)

// SessionCloser cierra una sesión y avisa a quien guarde estado por sesión.
type SessionCloser interface {
	Invalidate(ctx context.Context, s *entity.Session) error
}

// AuthHandler maneja login, registro, logout y perfil.
type AuthHandler struct {
	uc     *auth.AuthUseCase
	closer SessionCloser
}

// NewAuthHandler construye el handler de auth. closer puede ser nil: el logout solo borra la sesión.
func NewAuthHandler(uc *auth.AuthUseCase, closer SessionCloser) *AuthHandler {
	return &AuthHandler{uc: uc, closer: closer}
}

// Login godoc
// @Summary      Iniciar sesión con usuario y contraseña
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "username, password"
// @Success      200   {object}  dto.LoginResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Login(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// TokenLogin godoc
// @Summary      Iniciar sesión con un token del backend
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TokenLoginRequest  true  "token"
// @Success      200   {object}  dto.LoginResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/auth/token-login [post]
func (h *AuthHandler) TokenLogin(c *fiber.Ctx) error {
	var in dto.TokenLoginRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.TokenLogin(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Register godoc
// @Summary      Registrar usuario
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterRequest  true  "username, email, password, confirm_password"
// @Success      201   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	user, err := h.uc.Register(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// Logout godoc
// @Summary      Cerrar sesión
// @Tags         auth
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.MessageResponse
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	ctx := c.UserContext()
	var err error
	if sess := entity.SessionFromContext(ctx); sess != nil && h.closer != nil {
		err = h.closer.Invalidate(ctx, sess)
	} else {
		err = h.uc.Logout(ctx, GetSessionID(c))
	}
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "sesión cerrada"})
}

// Me godoc
// @Summary      Perfil del usuario de la sesión
// @Tags         auth
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.UserResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	out, err := h.uc.Me(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
