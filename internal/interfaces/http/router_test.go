package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appanalytics "github.com/jhoicas/qualistock/internal/application/analytics"
	"github.com/jhoicas/qualistock/internal/application/auth"
	"github.com/jhoicas/qualistock/internal/application/dto"
	"github.com/jhoicas/qualistock/internal/application/quality"
	"github.com/jhoicas/qualistock/internal/application/usecase"
	"github.com/jhoicas/qualistock/internal/infrastructure/backend"
	"github.com/jhoicas/qualistock/internal/infrastructure/events"
	infrapdf "github.com/jhoicas/qualistock/internal/infrastructure/pdf"
	"github.com/jhoicas/qualistock/internal/infrastructure/session"
	apphttp "github.com/jhoicas/qualistock/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Backend falso
// ──────────────────────────────────────────────────────────────────────────────

type fakeBackend struct {
	revoked    atomic.Bool
	mu         sync.Mutex
	stockPuts  []map[string]any
	meRequests int
}

func (b *fakeBackend) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	writeJSON := func(w http.ResponseWriter, status int, v any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(v)
	}
	authorized := func(w http.ResponseWriter, r *http.Request) bool {
		if b.revoked.Load() || r.Header.Get("Authorization") != "Bearer tok-admin" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Could not validate credentials"})
			return false
		}
		return true
	}

	mux.HandleFunc("POST /auth/token", func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		if r.PostForm.Get("username") != "admin" || r.PostForm.Get("password") != "admin123" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Incorrect username or password"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"access_token": "tok-admin", "token_type": "bearer"})
	})
	mux.HandleFunc("GET /users/me", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.meRequests++
		b.mu.Unlock()
		if !authorized(w, r) {
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"id": 1, "username": "admin", "name": "Admin", "email": "admin@example.com", "is_active": true, "is_admin": true})
	})
	mux.HandleFunc("GET /categories/", func(w http.ResponseWriter, r *http.Request) {
		if authorized(w, r) {
			writeJSON(w, http.StatusOK, []map[string]any{{"id": 1, "name": "Dairy", "description": ""}})
		}
	})
	product := map[string]any{"id": 10, "name": "Milk", "sku": "MLK-1", "description": "", "category_id": 1, "unit_price": 2.5, "created_at": "2024-01-01T10:00:00"}
	mux.HandleFunc("GET /products/", func(w http.ResponseWriter, r *http.Request) {
		if authorized(w, r) {
			writeJSON(w, http.StatusOK, []map[string]any{product})
		}
	})
	mux.HandleFunc("GET /products/{id}", func(w http.ResponseWriter, r *http.Request) {
		if authorized(w, r) {
			writeJSON(w, http.StatusOK, product)
		}
	})
	item := map[string]any{"id": 2, "product_id": 10, "quantity": 0, "location": "A1", "batch_number": "B-1"}
	mux.HandleFunc("GET /stock-items/", func(w http.ResponseWriter, r *http.Request) {
		if authorized(w, r) {
			writeJSON(w, http.StatusOK, []map[string]any{item})
		}
	})
	mux.HandleFunc("GET /stock-items/{id}", func(w http.ResponseWriter, r *http.Request) {
		if authorized(w, r) {
			writeJSON(w, http.StatusOK, item)
		}
	})
	mux.HandleFunc("PUT /stock-items/{id}", func(w http.ResponseWriter, r *http.Request) {
		if !authorized(w, r) {
			return
		}
		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		b.mu.Lock()
		b.stockPuts = append(b.stockPuts, body)
		b.mu.Unlock()
		body["id"] = 2
		writeJSON(w, http.StatusOK, body)
	})
	mux.HandleFunc("GET /expiration/items", func(w http.ResponseWriter, r *http.Request) {
		if authorized(w, r) {
			writeJSON(w, http.StatusOK, []map[string]any{})
		}
	})
	mux.HandleFunc("GET /expiration/stats", func(w http.ResponseWriter, r *http.Request) {
		if authorized(w, r) {
			writeJSON(w, http.StatusOK, map[string]any{"total_expiring": 3, "critical_expiring": 1, "this_week_expiring": 2, "by_category": []any{}, "time_ranges": map[string]int{}})
		}
	})
	return mux
}

func (b *fakeBackend) puts() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.stockPuts)
}

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const testJWTSecret = "test-secret-key-for-unit-tests"

// buildTestApp arma el BFF completo sobre el backend falso y el store en memoria.
func buildTestApp(t *testing.T) (*fiber.App, *fakeBackend) {
	t.Helper()
	fb := &fakeBackend{}
	srv := httptest.NewServer(fb.handler(t))
	t.Cleanup(srv.Close)

	store := session.NewMemoryStore()
	invalidator := session.NewInvalidator(store, nil)
	client := backend.NewClient(backend.Options{BaseURL: srv.URL, Invalidator: invalidator})
	bus := events.NewBus(nil)

	categories := backend.NewCategoryRepository(client)
	products := backend.NewProductRepository(client)
	stockItems := backend.NewStockItemRepository(client)

	authUC := auth.NewAuthUseCase(backend.NewUserRepository(client), store, auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: 30, Issuer: "test"})
	stockUC := usecase.NewStockUseCase(categories, products, stockItems, bus, nil, usecase.StockConfig{}, nil)
	expirationUC := usecase.NewExpirationUseCase(backend.NewExpirationRepository(client), infrapdf.NewMarotoPDFGenerator(), bus, nil, usecase.ExpirationConfig{}, nil)
	boards := quality.NewBoards(bus, nil)
	invalidator.OnInvalidate(stockUC.DropSessionEdits)
	invalidator.OnInvalidate(boards.DropSession)

	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler})
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:        authUC,
		SessionCloser: invalidator,
		CatalogUC:     usecase.NewCatalogUseCase(categories, products),
		StockUC:       stockUC,
		ExpirationUC:  expirationUC,
		ForecastUC:    usecase.NewForecastUseCase(backend.NewForecastRepository(client)),
		QualityBoards: boards,
		DashboardUC:   appanalytics.NewDashboardUseCase(products, stockItems, expirationUC, boards, nil),
	})
	return app, fb
}

// doRequest lanza una petición JSON y devuelve la respuesta.
func doRequest(t *testing.T, app *fiber.App, method, path, token, body string) *http.Response {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func login(t *testing.T, app *fiber.App) string {
	t.Helper()
	resp := doRequest(t, app, http.MethodPost, "/api/auth/login", "", `{"username":"admin","password":"admin123"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode[dto.LoginResponse](t, resp)
	require.NotEmpty(t, out.Token)
	assert.Equal(t, "Admin", out.User.DisplayName)
	return out.Token
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests de autenticación
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin_CredencialesIncorrectas(t *testing.T) {
	app, _ := buildTestApp(t)
	resp := doRequest(t, app, http.MethodPost, "/api/auth/login", "", `{"username":"admin","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, apphttp.CodeUnauthorized, body.Code)
}

func TestLogin_ValidaCuerpo(t *testing.T) {
	app, _ := buildTestApp(t)
	resp := doRequest(t, app, http.MethodPost, "/api/auth/login", "", `{"username":"admin"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, apphttp.CodeValidation, body.Code)
	assert.Contains(t, body.Message, "password")
}

func TestAuthMiddleware_SinToken(t *testing.T) {
	app, _ := buildTestApp(t)

	resp := doRequest(t, app, http.MethodGet, "/api/stock", "", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "MISSING_TOKEN", decode[dto.ErrorResponse](t, resp).Code)

	resp = doRequest(t, app, http.MethodGet, "/api/stock", "token.invalido.aqui", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, apphttp.CodeUnauthorized, decode[dto.ErrorResponse](t, resp).Code)
}

func TestRutaInexistenteBajoAPI_Responde404(t *testing.T) {
	app, _ := buildTestApp(t)

	for _, path := range []string{"/api/auth/logn", "/api/inexistente"} {
		resp := doRequest(t, app, http.MethodGet, path, "", "")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, path)
		assert.Equal(t, apphttp.CodeNotFound, decode[dto.ErrorResponse](t, resp).Code, path)
	}
}

func TestMeYLogout(t *testing.T) {
	app, _ := buildTestApp(t)
	token := login(t, app)

	resp := doRequest(t, app, http.MethodGet, "/api/auth/me", token, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "admin", decode[dto.UserResponse](t, resp).Username)

	resp = doRequest(t, app, http.MethodPost, "/api/auth/logout", token, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doRequest(t, app, http.MethodGet, "/api/auth/me", token, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, apphttp.CodeSessionExpired, decode[dto.ErrorResponse](t, resp).Code)
}

// Un 401 del backend fuera del login borra la sesión: la siguiente petición ya no la encuentra.
func TestBackend401_InvalidaLaSesion(t *testing.T) {
	app, fb := buildTestApp(t)
	token := login(t, app)

	fb.revoked.Store(true)
	resp := doRequest(t, app, http.MethodGet, "/api/stock", token, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, apphttp.CodeSessionExpired, decode[dto.ErrorResponse](t, resp).Code)

	fb.revoked.Store(false)
	resp = doRequest(t, app, http.MethodGet, "/api/auth/me", token, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests de páginas
// ──────────────────────────────────────────────────────────────────────────────

func TestStockEdit_CeroANEsperaDatosDelLote(t *testing.T) {
	app, fb := buildTestApp(t)
	token := login(t, app)

	resp := doRequest(t, app, http.MethodGet, "/api/stock", token, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	overview := decode[dto.StockOverviewResponse](t, resp)
	require.Len(t, overview.Rows, 1)
	assert.Equal(t, "Dairy", overview.Rows[0].Category)

	resp = doRequest(t, app, http.MethodPut, "/api/stock/products/10", token, `{"stock_item_id":2,"quantity":5}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	edit := decode[dto.EditProductResponse](t, resp)
	assert.Equal(t, "awaiting_batch_info", edit.State)
	require.NotEmpty(t, edit.PendingID)
	assert.Equal(t, 0, fb.puts())

	resp = doRequest(t, app, http.MethodPost, "/api/stock/pending/"+edit.PendingID+"/batch-info", token, `{"location":"A1"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
	assert.Equal(t, 0, fb.puts())

	resp = doRequest(t, app, http.MethodPost, "/api/stock/pending/"+edit.PendingID+"/batch-info", token,
		`{"batch_number":"B-77","location":"new","new_location":"Cold room","expiration_date":"2031-05-01"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	done := decode[dto.EditProductResponse](t, resp)
	assert.Equal(t, "committed", done.State)
	require.Equal(t, 1, fb.puts())
	assert.Equal(t, float64(5), fb.stockPuts[0]["quantity"])
	assert.Equal(t, "Cold room", fb.stockPuts[0]["location"])

	resp = doRequest(t, app, http.MethodDelete, "/api/stock/pending/"+edit.PendingID, token, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestQualityAlerts(t *testing.T) {
	app, _ := buildTestApp(t)
	token := login(t, app)

	resp := doRequest(t, app, http.MethodGet, "/api/quality/alerts", token, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[dto.AlertListResponse](t, resp)
	require.Len(t, list.Alerts, 2)
	assert.Equal(t, 2, list.UnreadCount)

	resp = doRequest(t, app, http.MethodPost, "/api/quality/alerts/"+list.Alerts[0].ID+"/resolve", token, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doRequest(t, app, http.MethodPost, "/api/quality/alerts", token, `{"type":"unknown","title":"x"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = doRequest(t, app, http.MethodGet, "/api/dashboard/summary", token, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	summary := decode[dto.DashboardSummaryDTO](t, resp)
	assert.Equal(t, 1, summary.OpenQualityAlerts)
	assert.Equal(t, 1, summary.TotalProducts)
	assert.Equal(t, 1, summary.LowStockItems)
	assert.Equal(t, 3, summary.ExpiringSoon)
}

func TestExpirationReportPDF(t *testing.T) {
	app, _ := buildTestApp(t)
	token := login(t, app)

	resp := doRequest(t, app, http.MethodGet, "/api/expiration/report.pdf?days=14", token, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	defer resp.Body.Close()
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(body), "%PDF"))

	resp = doRequest(t, app, http.MethodGet, "/api/expiration/items?days=999", token, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}
