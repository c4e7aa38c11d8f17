package usecase

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/qualistock/internal/application/dto"
	"github.com/jhoicas/qualistock/internal/application/ports"
	"github.com/jhoicas/qualistock/internal/domain"
	"github.com/jhoicas/qualistock/internal/domain/entity"
	"github.com/jhoicas/qualistock/internal/domain/repository"
	"github.com/jhoicas/qualistock/internal/infrastructure/events"
	"github.com/jhoicas/qualistock/pkg/logger"
	"github.com/jhoicas/qualistock/pkg/retry"
)

// Ventana por defecto de la lista de vencimientos.
const defaultExpirationDays = 30

// ExpirationConfig parámetros de la página de vencimientos.
type ExpirationConfig struct {
	Retry    retry.Policy
	CacheTTL time.Duration
}

type statsEntry struct {
	stats     dto.ExpirationStatsDTO
	expiresAt time.Time
}

// ExpirationUseCase lógica de la página de vencimientos. Las estadísticas se cachean por sesión
// y la caché se vacía al recibir ExpirationDataUpdated.
type ExpirationUseCase struct {
	repo      repository.ExpirationRepository
	generator ports.ExpirationReportGenerator
	retryObs  ports.RetryObserver
	cfg       ExpirationConfig
	log       *logger.Logger
	now       func() time.Time

	mu    sync.RWMutex
	stats map[string]statsEntry
	gen   uint64 // sube con cada invalidación; un fetch anterior no se guarda
}

// NewExpirationUseCase construye el caso de uso y, si sub no es nil, se suscribe a los cambios de vencimientos.
func NewExpirationUseCase(
	repo repository.ExpirationRepository,
	generator ports.ExpirationReportGenerator,
	sub ports.EventSubscriber,
	retryObs ports.RetryObserver,
	cfg ExpirationConfig,
	log *logger.Logger,
) *ExpirationUseCase {
	cfg.Retry = backendRetryPolicy(cfg.Retry)
	if log == nil {
		log = logger.Nop()
	}
	uc := &ExpirationUseCase{
		repo:      repo,
		generator: generator,
		retryObs:  retryObs,
		cfg:       cfg,
		log:       log.Named("expiration"),
		now:       time.Now,
		stats:     make(map[string]statsEntry),
	}
	if sub != nil {
		sub.Subscribe(events.TopicExpirationDataUpdated, func(context.Context, events.Event) {
			uc.InvalidateStats("")
		})
	}
	return uc
}

// Items lotes que vencen dentro de q.Days días (30 por defecto).
func (uc *ExpirationUseCase) Items(ctx context.Context, q dto.ExpirationItemsQuery) ([]dto.ExpiringItemDTO, error) {
	filter := entity.ExpirationFilter{
		Days:       q.Days,
		CategoryID: q.CategoryID,
		ProductID:  q.ProductID,
		Skip:       q.Skip,
		Limit:      q.Limit,
	}
	if filter.Days <= 0 {
		filter.Days = defaultExpirationDays
	}
	items, err := retry.Do(ctx, uc.cfg.Retry, func(ctx context.Context) ([]entity.ExpiringItem, error) {
		return uc.repo.Items(ctx, filter)
	}, uc.onRetry("expiration_items"))
	if err != nil {
		return nil, err
	}
	return toExpiringItemDTOs(items), nil
}

// Critical lotes que vencen en los próximos 7 días.
func (uc *ExpirationUseCase) Critical(ctx context.Context) ([]dto.ExpiringItemDTO, error) {
	items, err := retry.Do(ctx, uc.cfg.Retry, uc.repo.Critical, uc.onRetry("expiration_critical"))
	if err != nil {
		return nil, err
	}
	return toExpiringItemDTOs(items), nil
}

// Stats estadísticas de vencimiento, servidas desde caché mientras no venza el TTL.
func (uc *ExpirationUseCase) Stats(ctx context.Context) (*dto.ExpirationStatsDTO, error) {
	key := sessionIDFrom(ctx)
	now := uc.now()
	var gen uint64
	if uc.cfg.CacheTTL > 0 {
		uc.mu.RLock()
		entry, ok := uc.stats[key]
		gen = uc.gen
		uc.mu.RUnlock()
		if ok && now.Before(entry.expiresAt) {
			out := entry.stats
			return &out, nil
		}
	}

	stats, err := retry.Do(ctx, uc.cfg.Retry, uc.repo.Stats, uc.onRetry("expiration_stats"))
	if err != nil {
		return nil, err
	}
	out := toExpirationStatsDTO(stats, now)
	if uc.cfg.CacheTTL > 0 {
		uc.mu.Lock()
		if uc.gen == gen {
			uc.stats[key] = statsEntry{stats: out, expiresAt: now.Add(uc.cfg.CacheTTL)}
		}
		uc.mu.Unlock()
	}
	return &out, nil
}

// InvalidateStats vacía la caché de una sesión, o de todas con sessionID vacío.
func (uc *ExpirationUseCase) InvalidateStats(sessionID string) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.gen++
	if sessionID == "" {
		uc.stats = make(map[string]statsEntry)
		return
	}
	delete(uc.stats, sessionID)
}

// Report genera el PDF de los lotes que vencen dentro de days días, ordenados por urgencia.
func (uc *ExpirationUseCase) Report(ctx context.Context, days int) ([]byte, error) {
	if uc.generator == nil {
		return nil, errors.New("expiration: generador de reportes no configurado")
	}
	if days <= 0 {
		days = defaultExpirationDays
	}
	if days > 365 {
		return nil, domain.ErrInvalidInput
	}
	items, err := retry.Do(ctx, uc.cfg.Retry, func(ctx context.Context) ([]entity.ExpiringItem, error) {
		return uc.repo.Items(ctx, entity.ExpirationFilter{Days: days, Limit: 1000})
	}, uc.onRetry("expiration_report"))
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].DaysRemaining < items[j].DaysRemaining })

	report := entity.ExpirationReport{
		Title:       "Expiration Report",
		GeneratedAt: uc.now(),
		Days:        days,
		Items:       items,
	}
	if sess := entity.SessionFromContext(ctx); sess != nil {
		report.GeneratedBy = sess.User.DisplayName()
	}
	return uc.generator.GenerateExpirationReport(ctx, report)
}

func (uc *ExpirationUseCase) onRetry(operation string) retry.OnRetry {
	return func(attempt int, err error) {
		uc.log.Warn().Err(err).Str("operation", operation).Int("attempt", attempt).Msg("reintentando consulta")
		if uc.retryObs != nil {
			uc.retryObs.IncRetry(operation)
		}
	}
}

func toExpiringItemDTOs(items []entity.ExpiringItem) []dto.ExpiringItemDTO {
	out := make([]dto.ExpiringItemDTO, 0, len(items))
	for _, it := range items {
		out = append(out, toExpiringItemDTO(it))
	}
	return out
}

func toExpirationStatsDTO(s *entity.ExpirationStats, fetchedAt time.Time) dto.ExpirationStatsDTO {
	out := dto.ExpirationStatsDTO{
		TotalExpiring:    s.TotalExpiring,
		CriticalExpiring: s.CriticalExpiring,
		ThisWeekExpiring: s.ThisWeekExpiring,
		ByCategory:       make([]dto.CategoryExpirationDTO, 0, len(s.ByCategory)),
		TimeRanges:       s.TimeRanges,
		FetchedAt:        fetchedAt,
	}
	for _, c := range s.ByCategory {
		out.ByCategory = append(out.ByCategory, dto.CategoryExpirationDTO{
			CategoryID: c.CategoryID, CategoryName: c.CategoryName, Count: c.Count,
		})
	}
	return out
}
