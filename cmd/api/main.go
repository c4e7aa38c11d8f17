package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	appanalytics "github.com/jhoicas/qualistock/internal/application/analytics"
	"github.com/jhoicas/qualistock/internal/application/auth"
	"github.com/jhoicas/qualistock/internal/application/quality"
	"github.com/jhoicas/qualistock/internal/application/usecase"
	"github.com/jhoicas/qualistock/internal/domain/repository"
	"github.com/jhoicas/qualistock/internal/infrastructure/backend"
	"github.com/jhoicas/qualistock/internal/infrastructure/events"
	infrapdf "github.com/jhoicas/qualistock/internal/infrastructure/pdf"
	"github.com/jhoicas/qualistock/internal/infrastructure/session"
	httpRouter "github.com/jhoicas/qualistock/internal/interfaces/http"
	"github.com/jhoicas/qualistock/pkg/config"
	"github.com/jhoicas/qualistock/pkg/logger"
	"github.com/jhoicas/qualistock/pkg/metrics"
	"github.com/jhoicas/qualistock/pkg/retry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("backend", cfg.Backend.BaseURL).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		// Solo fuera de producción (config.Load lo exige allí): las sesiones no sobreviven a un reinicio.
		cfg.JWT.Secret = uuid.NewString() + uuid.NewString()
		log.Warn().Msg("JWT_SECRET vacío: se generó un secreto aleatorio para esta ejecución")
	}

	// ── Métricas ───────────────────────────────────────────────────────────────
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	httpMetrics := metrics.New(cfg.App.Name, reg)

	// ── Sesiones ───────────────────────────────────────────────────────────────
	ctx := context.Background()
	var (
		store       repository.SessionStore
		redisClient *redis.Client
	)
	if cfg.Redis.Enabled() {
		redisClient = session.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		redisStore := session.NewRedisStore(redisClient)
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := redisStore.Ping(pingCtx)
		cancel()
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("conexión a Redis")
		}
		store = redisStore
		log.Info().Str("addr", cfg.Redis.Addr).Msg("store de sesiones: redis")
	} else {
		store = session.NewMemoryStore()
		log.Info().Msg("store de sesiones: memoria")
	}
	invalidator := session.NewInvalidator(store, log)

	// ── Backend REST ───────────────────────────────────────────────────────────
	client := backend.NewClient(backend.Options{
		BaseURL:     cfg.Backend.BaseURL,
		Timeout:     cfg.Backend.Timeout(),
		Logger:      log,
		Observer:    httpMetrics,
		Invalidator: invalidator,
	})
	categoryRepo := backend.NewCategoryRepository(client)
	productRepo := backend.NewProductRepository(client)
	stockRepo := backend.NewStockItemRepository(client)
	expirationRepo := backend.NewExpirationRepository(client)
	forecastRepo := backend.NewForecastRepository(client)
	userRepo := backend.NewUserRepository(client)

	// ── Casos de uso ───────────────────────────────────────────────────────────
	bus := events.NewBus(log)
	retryPolicy := retry.Policy{MaxRetries: cfg.Backend.RetryMax, Delay: cfg.Backend.RetryDelay()}

	authUC := auth.NewAuthUseCase(userRepo, store, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	catalogUC := usecase.NewCatalogUseCase(categoryRepo, productRepo)
	stockUC := usecase.NewStockUseCase(categoryRepo, productRepo, stockRepo, bus, httpMetrics, usecase.StockConfig{
		Retry:             retryPolicy,
		LowStockThreshold: cfg.Dashboard.LowStockThreshold,
	}, log)
	expirationUC := usecase.NewExpirationUseCase(expirationRepo, infrapdf.NewMarotoPDFGenerator(), bus, httpMetrics, usecase.ExpirationConfig{
		Retry:    retryPolicy,
		CacheTTL: cfg.Dashboard.ExpirationCacheTTL(),
	}, log)
	forecastUC := usecase.NewForecastUseCase(forecastRepo)
	boards := quality.NewBoards(bus, log)
	dashboardUC := appanalytics.NewDashboardUseCase(productRepo, stockRepo, expirationUC, boards, log)

	// Estado por sesión que se descarta al cerrar o invalidar la sesión.
	invalidator.OnInvalidate(stockUC.DropSessionEdits)
	invalidator.OnInvalidate(boards.DropSession)
	invalidator.OnInvalidate(func(_ context.Context, sessionID string) {
		expirationUC.InvalidateStats(sessionID)
	})

	// ── HTTP ───────────────────────────────────────────────────────────────────
	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log))
	app.Use(httpMetrics.Middleware())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(cfg.HTTP.SwaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.HTTP.SwaggerFile,
			Path:     "docs",
			Title:    "QualiStock Dashboard API",
		}))
	} else {
		log.Warn().Str("file", cfg.HTTP.SwaggerFile).Msg("swagger.json no encontrado, /docs deshabilitado")
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	app.Get("/metrics", metrics.Handler(reg))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:        authUC,
		SessionCloser: invalidator,
		CatalogUC:     catalogUC,
		StockUC:       stockUC,
		ExpirationUC:  expirationUC,
		ForecastUC:    forecastUC,
		QualityBoards: boards,
		DashboardUC:   dashboardUC,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error().Err(err).Msg("cerrar cliente Redis")
		}
	}

	log.Info().Msg("aplicación detenida")
}
