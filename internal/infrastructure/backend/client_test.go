package backend_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/qualistock/internal/domain"
	"github.com/jhoicas/qualistock/internal/domain/entity"
	"github.com/jhoicas/qualistock/internal/domain/repository"
	"github.com/jhoicas/qualistock/internal/infrastructure/backend"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

// fakeInvalidator registra las sesiones invalidadas por el interceptor.
type fakeInvalidator struct {
	mu  sync.Mutex
	ids []string
}

func (f *fakeInvalidator) Invalidate(_ context.Context, s *entity.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ids = append(f.ids, s.ID)
	return nil
}

func (f *fakeInvalidator) invalidated() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.ids...)
}

type fakeObserver struct {
	mu       sync.Mutex
	statuses []int
}

func (f *fakeObserver) ObserveBackend(_, _ string, status int, _ time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses = append(f.statuses, status)
}

func newTestClient(t *testing.T, h http.HandlerFunc) (*backend.Client, *fakeInvalidator, *fakeObserver) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	inv := &fakeInvalidator{}
	obs := &fakeObserver{}
	c := backend.NewClient(backend.Options{
		BaseURL:     srv.URL + "/",
		Timeout:     2 * time.Second,
		Invalidator: inv,
		Observer:    obs,
	})
	return c, inv, obs
}

func sessionCtx(token string) context.Context {
	return entity.ContextWithSession(context.Background(), &entity.Session{ID: "sess-1", Token: token})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// ──────────────────────────────────────────────────────────────────────────────
// Interceptor de autenticación
// ──────────────────────────────────────────────────────────────────────────────

func TestClient_AdjuntaBearerDeLaSesion(t *testing.T) {
	var gotAuth string
	c, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		writeJSON(w, http.StatusOK, []any{})
	})

	_, err := backend.NewCategoryRepository(c).List(sessionCtx("abc"))
	require.NoError(t, err)
	assert.Equal(t, "Bearer abc", gotAuth)
}

func TestClient_SinSesionNoEnviaAuthorization(t *testing.T) {
	var gotAuth string
	c, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		writeJSON(w, http.StatusOK, []any{})
	})

	_, err := backend.NewCategoryRepository(c).List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestClient_401InvalidaLaSesion(t *testing.T) {
	c, inv, obs := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Could not validate credentials"})
	})

	_, err := backend.NewProductRepository(c).List(sessionCtx("expired"))
	require.Error(t, err)
	assert.True(t, backend.IsSessionExpired(err))
	assert.ErrorIs(t, err, domain.ErrSessionExpired)
	assert.Equal(t, []string{"sess-1"}, inv.invalidated())
	assert.Equal(t, []int{http.StatusUnauthorized}, obs.statuses)

	var apiErr *backend.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Could not validate credentials", apiErr.Detail)
}

func TestClient_401EnLoginNoInvalidaSesion(t *testing.T) {
	c, inv, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/token", r.URL.Path)
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Incorrect username or password"})
	})

	_, err := backend.NewUserRepository(c).Login(sessionCtx("old"), "admin", "wrong")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.False(t, backend.IsSessionExpired(err))
	assert.Empty(t, inv.invalidated())
}

func TestClient_ErroresSeMapeanADominio(t *testing.T) {
	cases := []struct {
		status int
		want   error
	}{
		{http.StatusNotFound, domain.ErrNotFound},
		{http.StatusUnprocessableEntity, domain.ErrInvalidInput},
		{http.StatusBadRequest, domain.ErrInvalidInput},
		{http.StatusForbidden, domain.ErrForbidden},
		{http.StatusConflict, domain.ErrConflict},
		{http.StatusBadGateway, domain.ErrBackendUnavailable},
	}
	for _, tc := range cases {
		t.Run(http.StatusText(tc.status), func(t *testing.T) {
			c, inv, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tc.status, map[string]any{
					"detail": []map[string]any{{"loc": []string{"body", "name"}, "msg": "field required"}},
				})
			})
			_, err := backend.NewProductRepository(c).GetByID(sessionCtx("t"), 7)
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.want)
			assert.Empty(t, inv.invalidated())
		})
	}
}

func TestClient_BackendCaidoDevuelveUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := backend.NewClient(backend.Options{BaseURL: url, Timeout: time.Second})
	_, err := backend.NewCategoryRepository(c).List(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrBackendUnavailable)
}

// ──────────────────────────────────────────────────────────────────────────────
// Repositorios
// ──────────────────────────────────────────────────────────────────────────────

func TestUserRepository_LoginEnviaFormulario(t *testing.T) {
	c, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		assert.Empty(t, r.Header.Get("Authorization"))
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "admin", r.PostForm.Get("username"))
		assert.Equal(t, "admin123", r.PostForm.Get("password"))
		writeJSON(w, http.StatusOK, map[string]string{"access_token": "tok-1", "token_type": "bearer"})
	})

	creds, err := backend.NewUserRepository(c).Login(sessionCtx("previous"), "admin", "admin123")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", creds.AccessToken)
	assert.Equal(t, "bearer", creds.TokenType)
}

func TestUserRepository_RegisterEnviaFlags(t *testing.T) {
	c, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/register", r.URL.Path)
		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, true, body["is_active"])
		assert.Equal(t, false, body["is_admin"])
		writeJSON(w, http.StatusOK, map[string]any{"id": 3, "username": body["username"], "email": body["email"], "is_active": true})
	})

	u, err := backend.NewUserRepository(c).Register(context.Background(), repositoryNewUser())
	require.NoError(t, err)
	assert.Equal(t, int64(3), u.ID)
	assert.Equal(t, "ana", u.Username)
}

func TestStockItemRepository_FechasSinZonaYOmitidas(t *testing.T) {
	var created map[string]any
	c, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			writeJSON(w, http.StatusOK, []map[string]any{
				{"id": 1, "product_id": 10, "quantity": 5, "expiration_date": "2025-03-01T00:00:00", "location": "A1"},
				{"id": 2, "product_id": 11, "quantity": 0, "expiration_date": nil},
			})
		case http.MethodPost:
			raw, _ := io.ReadAll(r.Body)
			assert.NoError(t, json.Unmarshal(raw, &created))
			writeJSON(w, http.StatusOK, map[string]any{"id": 3, "product_id": 10, "quantity": 4})
		}
	})
	repo := backend.NewStockItemRepository(c)

	items, err := repo.ListByProduct(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.NotNil(t, items[0].ExpirationDate)
	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), *items[0].ExpirationDate)

	_, err = repo.Create(context.Background(), &entity.StockItem{ProductID: 10, Quantity: 4})
	require.NoError(t, err)
	assert.NotContains(t, created, "expiration_date")
	assert.NotContains(t, created, "manufacturing_date")
	assert.EqualValues(t, 4, created["quantity"])
}

func TestProductRepository_UnitPriceComoNumero(t *testing.T) {
	var created map[string]any
	c, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&created))
		writeJSON(w, http.StatusOK, map[string]any{"id": 9, "name": "Milk", "sku": "MLK-1", "unit_price": 2.5, "category_id": 1})
	})

	p, err := backend.NewProductRepository(c).Create(context.Background(), &entity.Product{
		Name: "Milk", SKU: "MLK-1", CategoryID: 1, UnitPrice: decimal.RequireFromString("2.50"),
	})
	require.NoError(t, err)
	_, isNumber := created["unit_price"].(float64)
	assert.True(t, isNumber, "unit_price debe viajar como número")
	assert.True(t, p.UnitPrice.Equal(decimal.RequireFromString("2.5")))
}

func TestExpirationRepository_QueryYAliasDeID(t *testing.T) {
	c, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/expiration/items":
			assert.Equal(t, "30", r.URL.Query().Get("days"))
			assert.Equal(t, "2", r.URL.Query().Get("category_id"))
			assert.Empty(t, r.URL.Query().Get("product_id"))
			writeJSON(w, http.StatusOK, []map[string]any{{"id": 4, "product_name": "Yogurt", "expiration_date": "2025-01-10"}})
		case "/expiration/critical":
			writeJSON(w, http.StatusOK, []map[string]any{{"stock_item_id": 8, "days_remaining": 1, "expiration_date": "2025-01-02T10:00:00Z"}})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	repo := backend.NewExpirationRepository(c)

	items, err := repo.Items(context.Background(), entity.ExpirationFilter{Days: 30, CategoryID: 2})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(4), items[0].StockItemID)

	critical, err := repo.Critical(context.Background())
	require.NoError(t, err)
	require.Len(t, critical, 1)
	assert.Equal(t, int64(8), critical[0].StockItemID)
}

func TestForecastRepository_MinConfidence(t *testing.T) {
	c, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "0.8", r.URL.Query().Get("min_confidence"))
		writeJSON(w, http.StatusOK, []map[string]any{{"id": 1, "product_id": 2, "predicted_demand": 40, "confidence_level": 0.9, "forecast_date": "2025-02-01"}})
	})
	minConf := 0.8
	rows, err := backend.NewForecastRepository(c).ListPredictions(context.Background(), entity.ForecastFilter{MinConfidence: &minConf})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 40, rows[0].PredictedDemand)
}

func repositoryNewUser() repository.NewUser {
	return repository.NewUser{Username: "ana", Email: "ana@example.com", Password: "secret1"}
}
