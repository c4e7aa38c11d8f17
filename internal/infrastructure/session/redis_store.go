package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/qualistock/internal/domain/entity"
	"github.com/jhoicas/qualistock/internal/domain/repository"
)

var _ repository.SessionStore = (*RedisStore)(nil)

var errEmptySession = errors.New("session: sesión sin id")

const keyPrefix = "session:"

// RedisStore guarda cada sesión como JSON bajo session:<id> con el TTL de la sesión.
// A diferencia de una caché, los errores de Redis se propagan: sin store no hay sesión.
type RedisStore struct {
	client *redis.Client
}

// NewRedisClient crea el cliente Redis.
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// NewRedisStore construye el store sobre un cliente existente.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Ping verifica la conexión (se usa al arrancar).
func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisStore) Save(ctx context.Context, s *entity.Session, ttl time.Duration) error {
	if s == nil || s.ID == "" {
		return errEmptySession
	}
	raw, err := json.Marshal(toStored(s))
	if err != nil {
		return fmt.Errorf("session: serializar: %w", err)
	}
	if ttl < 0 {
		ttl = 0
	}
	if err := r.client.Set(ctx, keyPrefix+s.ID, raw, ttl).Err(); err != nil {
		return fmt.Errorf("session: redis set: %w", err)
	}
	return nil
}

func (r *RedisStore) Get(ctx context.Context, id string) (*entity.Session, error) {
	raw, err := r.client.Get(ctx, keyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session: redis get: %w", err)
	}
	var st storedSession
	if err := json.Unmarshal(raw, &st); err != nil {
		return nil, fmt.Errorf("session: deserializar: %w", err)
	}
	return st.toEntity(), nil
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, keyPrefix+id).Err(); err != nil {
		return fmt.Errorf("session: redis del: %w", err)
	}
	return nil
}

// storedSession forma persistida; el perfil viaja completo para no consultar /users/me en cada petición.
type storedSession struct {
	ID        string    `json:"id"`
	Token     string    `json:"token"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
	User      struct {
		ID       int64  `json:"id"`
		Username string `json:"username"`
		Name     string `json:"name"`
		Email    string `json:"email"`
		Avatar   string `json:"avatar"`
		IsActive bool   `json:"is_active"`
		IsAdmin  bool   `json:"is_admin"`
	} `json:"user"`
}

func toStored(s *entity.Session) storedSession {
	st := storedSession{ID: s.ID, Token: s.Token, CreatedAt: s.CreatedAt, ExpiresAt: s.ExpiresAt}
	st.User.ID = s.User.ID
	st.User.Username = s.User.Username
	st.User.Name = s.User.Name
	st.User.Email = s.User.Email
	st.User.Avatar = s.User.Avatar
	st.User.IsActive = s.User.IsActive
	st.User.IsAdmin = s.User.IsAdmin
	return st
}

func (st storedSession) toEntity() *entity.Session {
	return &entity.Session{
		ID:        st.ID,
		Token:     st.Token,
		CreatedAt: st.CreatedAt,
		ExpiresAt: st.ExpiresAt,
		User: entity.User{
			ID:       st.User.ID,
			Username: st.User.Username,
			Name:     st.User.Name,
			Email:    st.User.Email,
			Avatar:   st.User.Avatar,
			IsActive: st.User.IsActive,
			IsAdmin:  st.User.IsAdmin,
		},
	}
}
