package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/qualistock/internal/domain/entity"
	"github.com/jhoicas/qualistock/internal/domain/repository"
	"github.com/jhoicas/qualistock/internal/infrastructure/session"
)

func sampleSession(id string) *entity.Session {
	now := time.Now().UTC().Truncate(time.Second)
	return &entity.Session{
		ID:        id,
		Token:     "backend-token",
		User:      entity.User{ID: 1, Username: "admin", Email: "admin@example.com", IsActive: true, IsAdmin: true},
		CreatedAt: now,
		ExpiresAt: now.Add(time.Hour),
	}
}

func newRedisStore(t *testing.T) (*session.RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := session.NewRedisClient(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = client.Close() })
	return session.NewRedisStore(client), mr
}

// Ambos stores cumplen el mismo contrato.
func TestStores_Contrato(t *testing.T) {
	redisStore, _ := newRedisStore(t)
	stores := map[string]repository.SessionStore{
		"memory": session.NewMemoryStore(),
		"redis":  redisStore,
	}
	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			got, err := store.Get(ctx, "missing")
			require.NoError(t, err)
			assert.Nil(t, got, "una sesión inexistente devuelve nil sin error")

			s := sampleSession("s-1")
			require.NoError(t, store.Save(ctx, s, time.Hour))

			got, err = store.Get(ctx, "s-1")
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, s.Token, got.Token)
			assert.Equal(t, s.User, got.User)
			assert.True(t, s.ExpiresAt.Equal(got.ExpiresAt))

			require.NoError(t, store.Delete(ctx, "s-1"))
			got, err = store.Get(ctx, "s-1")
			require.NoError(t, err)
			assert.Nil(t, got)

			assert.Error(t, store.Save(ctx, &entity.Session{}, time.Hour))
		})
	}
}

func TestRedisStore_TTL(t *testing.T) {
	store, mr := newRedisStore(t)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, sampleSession("s-ttl"), time.Minute))

	assert.Equal(t, time.Minute, mr.TTL("session:s-ttl"))
	mr.FastForward(2 * time.Minute)

	got, err := store.Get(ctx, "s-ttl")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisStore_ErrorDeConexionSePropaga(t *testing.T) {
	store, mr := newRedisStore(t)
	mr.Close()

	_, err := store.Get(context.Background(), "s-1")
	assert.Error(t, err)
}

func TestInvalidator_BorraYNotifica(t *testing.T) {
	store := session.NewMemoryStore()
	ctx := context.Background()
	s := sampleSession("s-2")
	require.NoError(t, store.Save(ctx, s, time.Hour))

	inv := session.NewInvalidator(store, nil)
	var notified []string
	inv.OnInvalidate(func(_ context.Context, id string) { notified = append(notified, id) })

	require.NoError(t, inv.Invalidate(ctx, s))
	got, err := store.Get(ctx, "s-2")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Equal(t, []string{"s-2"}, notified)
	assert.Zero(t, store.Len())

	require.NoError(t, inv.Invalidate(ctx, nil))
}
