package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/qualistock/internal/application/dto"
	"github.com/jhoicas/qualistock/internal/domain"
	"github.com/jhoicas/qualistock/internal/domain/entity"
	"github.com/jhoicas/qualistock/internal/domain/repository"
	"github.com/jhoicas/qualistock/pkg/jwt"
)

// JWTConfig configuración para generación de tokens de sesión del dashboard.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: login, registro, logout y resolución de la sesión.
type AuthUseCase struct {
	users  repository.UserRepository
	store  repository.SessionStore
	jwtCfg JWTConfig
	now    func() time.Time
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(users repository.UserRepository, store repository.SessionStore, jwtCfg JWTConfig) *AuthUseCase {
	if jwtCfg.ExpMinutes <= 0 {
		jwtCfg.ExpMinutes = 60
	}
	return &AuthUseCase{users: users, store: store, jwtCfg: jwtCfg, now: time.Now}
}

// Login valida usuario/password contra el backend, carga el perfil y crea la sesión.
// Credenciales incorrectas devuelven domain.ErrUnauthorized y no se guarda nada.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: usuario y contraseña son obligatorios", domain.ErrInvalidInput)
	}
	creds, err := uc.users.Login(ctx, username, in.Password)
	if err != nil {
		return nil, err
	}
	return uc.openSession(ctx, creds.AccessToken)
}

// TokenLogin crea la sesión a partir de un token del backend ya emitido.
// El token se valida consultando /users/me.
func (uc *AuthUseCase) TokenLogin(ctx context.Context, in dto.TokenLoginRequest) (*dto.LoginResponse, error) {
	token := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(in.Token), "Bearer "))
	if token == "" {
		return nil, fmt.Errorf("%w: token obligatorio", domain.ErrInvalidInput)
	}
	resp, err := uc.openSession(ctx, token)
	if errors.Is(err, domain.ErrSessionExpired) {
		return nil, fmt.Errorf("%w: token rechazado por el backend", domain.ErrUnauthorized)
	}
	return resp, err
}

func (uc *AuthUseCase) openSession(ctx context.Context, backendToken string) (*dto.LoginResponse, error) {
	now := uc.now()
	sess := &entity.Session{
		ID:        uuid.New().String(),
		Token:     backendToken,
		CreatedAt: now,
	}
	user, err := uc.users.Me(entity.ContextWithSession(ctx, sess))
	if err != nil {
		return nil, err
	}
	sess.User = *user

	sess.ExpiresAt = now.Add(time.Duration(uc.jwtCfg.ExpMinutes) * time.Minute)
	if exp, ok := jwt.ExpiresAt(backendToken); ok && exp.Before(sess.ExpiresAt) {
		sess.ExpiresAt = exp
	}
	ttl := sess.ExpiresAt.Sub(now)
	if ttl <= 0 {
		return nil, fmt.Errorf("%w: el token del backend ya venció", domain.ErrUnauthorized)
	}
	if err := uc.store.Save(ctx, sess, ttl); err != nil {
		return nil, fmt.Errorf("auth: guardar sesión: %w", err)
	}

	expMinutes := int((ttl + time.Minute - 1) / time.Minute)
	token, err := jwt.Generate(uc.jwtCfg.Secret, sess.ID, strconv.FormatInt(user.ID, 10), user.Username, uc.jwtCfg.Issuer, expMinutes)
	if err != nil {
		_ = uc.store.Delete(ctx, sess.ID)
		return nil, err
	}
	return &dto.LoginResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresAt: sess.ExpiresAt,
		User:      toUserResponse(&sess.User),
	}, nil
}

// Register valida el formulario y da de alta el usuario (activo, no admin) en el backend.
func (uc *AuthUseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.UserResponse, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(in.Email)
	if username == "" {
		return nil, fmt.Errorf("%w: el usuario es obligatorio", domain.ErrInvalidInput)
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return nil, fmt.Errorf("%w: email inválido", domain.ErrInvalidInput)
	}
	if len(in.Password) < 6 {
		return nil, fmt.Errorf("%w: la contraseña debe tener al menos 6 caracteres", domain.ErrInvalidInput)
	}
	if in.Password != in.ConfirmPassword {
		return nil, fmt.Errorf("%w: las contraseñas no coinciden", domain.ErrInvalidInput)
	}
	user, err := uc.users.Register(entity.ContextWithSession(ctx, nil), repository.NewUser{
		Username: username,
		Email:    email,
		Password: in.Password,
	})
	if err != nil {
		return nil, err
	}
	resp := toUserResponse(user)
	return &resp, nil
}

// Logout elimina la sesión. Es idempotente.
func (uc *AuthUseCase) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return uc.store.Delete(ctx, sessionID)
}

// Me devuelve el perfil guardado en la sesión del context.
func (uc *AuthUseCase) Me(ctx context.Context) (*dto.UserResponse, error) {
	sess := entity.SessionFromContext(ctx)
	if sess == nil {
		return nil, domain.ErrNoSession
	}
	resp := toUserResponse(&sess.User)
	return &resp, nil
}

// Authenticate resuelve el token de sesión del dashboard a la sesión guardada.
// Token inválido → ErrUnauthorized; sesión borrada o vencida → ErrSessionExpired.
func (uc *AuthUseCase) Authenticate(ctx context.Context, token string) (*entity.Session, error) {
	sessionID, _, err := jwt.Parse(uc.jwtCfg.Secret, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	sess, err := uc.store.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("auth: leer sesión: %w", err)
	}
	if sess == nil {
		return nil, domain.ErrSessionExpired
	}
	if sess.Expired(uc.now()) {
		_ = uc.store.Delete(ctx, sess.ID)
		return nil, domain.ErrSessionExpired
	}
	return sess, nil
}

func toUserResponse(u *entity.User) dto.UserResponse {
	return dto.UserResponse{
		ID:          u.ID,
		Username:    u.Username,
		Name:        u.Name,
		DisplayName: u.DisplayName(),
		Email:       u.Email,
		Avatar:      u.Avatar,
		IsActive:    u.IsActive,
		IsAdmin:     u.IsAdmin,
	}
}
