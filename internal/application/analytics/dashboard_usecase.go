// Package analytics contiene el caso de uso del resumen de la página principal del dashboard.
package analytics

import (
	"context"
	"errors"

	"github.com/jhoicas/qualistock/internal/application/dto"
	"github.com/jhoicas/qualistock/internal/domain"
	"github.com/jhoicas/qualistock/internal/domain/entity"
	"github.com/jhoicas/qualistock/internal/domain/repository"
	"github.com/jhoicas/qualistock/pkg/logger"
)

// Umbral de lote con poco stock en el resumen (cantidad estrictamente menor).
const dashboardLowStock = 10

// ExpirationStatsReader estadísticas de vencimiento (cacheadas por el caso de uso de vencimientos).
type ExpirationStatsReader interface {
	Stats(ctx context.Context) (*dto.ExpirationStatsDTO, error)
}

// AlertCounter alertas de calidad sin resolver de la sesión.
type AlertCounter interface {
	UnreadCount(ctx context.Context) (int, error)
}

// DashboardUseCase genera el resumen de la página principal.
//
// Cada fuente se consulta en paralelo. Un fallo parcial no rompe el resumen: el contador
// queda en cero y se agrega un aviso. Solo una sesión rechazada por el backend se devuelve como error.
type DashboardUseCase struct {
	products   repository.ProductRepository
	stock      repository.StockItemRepository
	expiration ExpirationStatsReader
	alerts     AlertCounter
	log        *logger.Logger
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(
	products repository.ProductRepository,
	stock repository.StockItemRepository,
	expiration ExpirationStatsReader,
	alerts AlertCounter,
	log *logger.Logger,
) *DashboardUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &DashboardUseCase{
		products:   products,
		stock:      stock,
		expiration: expiration,
		alerts:     alerts,
		log:        log.Named("dashboard"),
	}
}

// GetSummary construye el DashboardSummaryDTO de la sesión del context.
//
// Cuatro consultas en paralelo:
//  1. productos          → TotalProducts
//  2. lotes de stock     → TotalStockItems + LowStockItems
//  3. stats vencimiento  → ExpiringSoon + CriticalExpiring
//  4. tablero de calidad → OpenQualityAlerts
func (uc *DashboardUseCase) GetSummary(ctx context.Context) (*dto.DashboardSummaryDTO, error) {
	type productsResult struct {
		list []entity.Product
		err  error
	}
	type stockResult struct {
		list []entity.StockItem
		err  error
	}
	type statsResult struct {
		stats *dto.ExpirationStatsDTO
		err   error
	}
	type alertsResult struct {
		n   int
		err error
	}

	productsCh := make(chan productsResult, 1)
	stockCh := make(chan stockResult, 1)
	statsCh := make(chan statsResult, 1)
	alertsCh := make(chan alertsResult, 1)

	go func() {
		list, err := uc.products.List(ctx)
		productsCh <- productsResult{list, err}
	}()
	go func() {
		list, err := uc.stock.List(ctx)
		stockCh <- stockResult{list, err}
	}()
	go func() {
		if uc.expiration == nil {
			statsCh <- statsResult{}
			return
		}
		s, err := uc.expiration.Stats(ctx)
		statsCh <- statsResult{s, err}
	}()
	go func() {
		if uc.alerts == nil {
			alertsCh <- alertsResult{}
			return
		}
		n, err := uc.alerts.UnreadCount(ctx)
		alertsCh <- alertsResult{n, err}
	}()

	products := <-productsCh
	stock := <-stockCh
	stats := <-statsCh
	alerts := <-alertsCh

	for _, err := range []error{products.err, stock.err, stats.err, alerts.err} {
		if errors.Is(err, domain.ErrSessionExpired) {
			return nil, err
		}
	}

	// ── Construir DTO ──────────────────────────────────────────────────────────
	summary := &dto.DashboardSummaryDTO{Notices: []dto.Notice{}}
	warn := func(section string, err error) {
		uc.log.Warn().Err(err).Str("section", section).Msg("resumen parcial")
		summary.Notices = append(summary.Notices, dto.Notice{
			Level:   dto.NoticeWarning,
			Message: "Could not load " + section + ": " + err.Error(),
		})
	}

	if products.err != nil {
		warn("products", products.err)
	} else {
		summary.TotalProducts = len(products.list)
	}
	if stock.err != nil {
		warn("stock items", stock.err)
	} else {
		summary.TotalStockItems = len(stock.list)
		for _, it := range stock.list {
			if it.Quantity < dashboardLowStock {
				summary.LowStockItems++
			}
		}
	}
	if stats.err != nil {
		warn("expiration stats", stats.err)
	} else if stats.stats != nil {
		summary.ExpiringSoon = stats.stats.TotalExpiring
		summary.CriticalExpiring = stats.stats.CriticalExpiring
	}
	if alerts.err != nil {
		warn("quality alerts", alerts.err)
	} else {
		summary.OpenQualityAlerts = alerts.n
	}
	return summary, nil
}
