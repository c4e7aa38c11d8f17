package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/qualistock/internal/application/analytics"
	"github.com/jhoicas/qualistock/internal/application/auth"
	"github.com/jhoicas/qualistock/internal/application/quality"
	"github.com/jhoicas/qualistock/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC        *auth.AuthUseCase
	SessionCloser SessionCloser
	CatalogUC     *usecase.CatalogUseCase
	StockUC       *usecase.StockUseCase
	ExpirationUC  *usecase.ExpirationUseCase
	ForecastUC    *usecase.ForecastUseCase
	QualityBoards *quality.Boards
	DashboardUC   *appanalytics.DashboardUseCase
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	requireSession := AuthMiddleware(deps.AuthUC)

	// Auth (login y registro públicos)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC, deps.SessionCloser)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/token-login", authHandler.TokenLogin)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/logout", requireSession, authHandler.Logout)
	authGroup.Get("/me", requireSession, authHandler.Me)

	// Rutas protegidas (requieren Bearer Token de sesión). El middleware va en cada grupo
	// para que una ruta inexistente bajo /api responda 404 y no 401.

	// Catálogo
	catalogHandler := NewCatalogHandler(deps.CatalogUC)
	categories := api.Group("/categories", requireSession)
	categories.Get("/", catalogHandler.ListCategories)
	categories.Post("/", catalogHandler.CreateCategory)
	categories.Get("/:id", catalogHandler.GetCategory)
	categories.Put("/:id", catalogHandler.UpdateCategory)
	categories.Delete("/:id", catalogHandler.DeleteCategory)
	categories.Get("/:id/products", catalogHandler.ListCategoryProducts)

	products := api.Group("/products", requireSession)
	products.Get("/", catalogHandler.ListProducts)
	products.Post("/", catalogHandler.CreateProduct)
	products.Get("/:id", catalogHandler.GetProduct)
	products.Put("/:id", catalogHandler.UpdateProduct)
	products.Delete("/:id", catalogHandler.DeleteProduct)

	// Gestión de stock
	stock := api.Group("/stock", requireSession)
	stockHandler := NewStockHandler(deps.StockUC)
	stock.Get("/", stockHandler.Overview)
	stock.Post("/products", stockHandler.AddProduct)
	stock.Put("/products/:id", stockHandler.EditProduct)
	stock.Delete("/products/:id", stockHandler.DeleteProduct)
	stock.Post("/items", stockHandler.AddStockItem)
	stock.Post("/pending/:id/batch-info", stockHandler.SubmitBatchInfo)
	stock.Delete("/pending/:id", stockHandler.CancelBatchInfo)

	// Vencimientos
	expiration := api.Group("/expiration", requireSession)
	expirationHandler := NewExpirationHandler(deps.ExpirationUC)
	expiration.Get("/items", expirationHandler.Items)
	expiration.Get("/stats", expirationHandler.Stats)
	expiration.Get("/critical", expirationHandler.Critical)
	expiration.Get("/report.pdf", expirationHandler.Report)

	// Predicción de demanda
	forecasting := api.Group("/forecasting", requireSession)
	forecastHandler := NewForecastHandler(deps.ForecastUC)
	forecasting.Get("/predictions", forecastHandler.Predictions)
	forecasting.Get("/demand", forecastHandler.Demand)

	// Calidad
	alerts := api.Group("/quality/alerts", requireSession)
	qualityHandler := NewQualityHandler(deps.QualityBoards)
	alerts.Get("/", qualityHandler.List)
	alerts.Post("/", qualityHandler.Create)
	alerts.Post("/:id/resolve", qualityHandler.Resolve)
	alerts.Delete("/:id", qualityHandler.Delete)

	// Dashboard
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	api.Get("/dashboard/summary", requireSession, dashboardHandler.GetSummary)
}
