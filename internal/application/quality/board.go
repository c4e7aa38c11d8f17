// Package quality tablero de alertas de calidad. Cada sesión tiene su propio tablero en memoria,
// sembrado con dos alertas de ejemplo; nada se persiste en el backend.
package quality

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/qualistock/internal/application/dto"
	"github.com/jhoicas/qualistock/internal/application/ports"
	"github.com/jhoicas/qualistock/internal/domain"
	"github.com/jhoicas/qualistock/internal/domain/entity"
	"github.com/jhoicas/qualistock/internal/domain/inventory"
	"github.com/jhoicas/qualistock/internal/infrastructure/events"
	"github.com/jhoicas/qualistock/pkg/logger"
)

// Boards tableros de alertas por sesión.
type Boards struct {
	mu     sync.RWMutex
	boards map[string][]entity.QualityAlert
	log    *logger.Logger
	now    func() time.Time
}

// NewBoards crea el registro de tableros y, si sub no es nil, escucha ExpirationDataUpdated
// para abrir alertas de vencimiento en el tablero de la sesión que originó el cambio.
func NewBoards(sub ports.EventSubscriber, log *logger.Logger) *Boards {
	if log == nil {
		log = logger.Nop()
	}
	b := &Boards{
		boards: make(map[string][]entity.QualityAlert),
		log:    log.Named("quality"),
		now:    time.Now,
	}
	if sub != nil {
		sub.Subscribe(events.TopicExpirationDataUpdated, b.onExpirationUpdated)
	}
	return b
}

// List alertas de la sesión del context, más recientes primero.
func (b *Boards) List(ctx context.Context) (*dto.AlertListResponse, error) {
	id, err := sessionID(ctx)
	if err != nil {
		return nil, err
	}
	b.mu.Lock()
	alerts := b.boardLocked(id)
	out := make([]dto.QualityAlertDTO, 0, len(alerts))
	unread := 0
	for _, a := range alerts {
		out = append(out, toAlertDTO(a))
		if !a.Resolved {
			unread++
		}
	}
	b.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return &dto.AlertListResponse{Alerts: out, UnreadCount: unread}, nil
}

// Add agrega una alerta al tablero de la sesión.
func (b *Boards) Add(ctx context.Context, in dto.CreateAlertRequest) (*dto.QualityAlertDTO, error) {
	id, err := sessionID(ctx)
	if err != nil {
		return nil, err
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: el título es obligatorio", domain.ErrInvalidInput)
	}
	if !entity.ValidAlertType(in.Type) {
		return nil, fmt.Errorf("%w: tipo de alerta %q no soportado", domain.ErrInvalidInput, in.Type)
	}
	alert := b.add(id, in.Type, title, strings.TrimSpace(in.Description))
	resp := toAlertDTO(alert)
	return &resp, nil
}

// Resolve marca una alerta como resuelta. Resolver dos veces no es error.
func (b *Boards) Resolve(ctx context.Context, alertID string) (*dto.QualityAlertDTO, error) {
	id, err := sessionID(ctx)
	if err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	alerts := b.boardLocked(id)
	for i := range alerts {
		if alerts[i].ID == alertID {
			alerts[i].Resolved = true
			resp := toAlertDTO(alerts[i])
			return &resp, nil
		}
	}
	return nil, domain.ErrNotFound
}

// Delete elimina una alerta del tablero.
func (b *Boards) Delete(ctx context.Context, alertID string) error {
	id, err := sessionID(ctx)
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	alerts := b.boardLocked(id)
	for i := range alerts {
		if alerts[i].ID == alertID {
			// Slice nuevo: el array anterior no se modifica.
			b.boards[id] = slices.Concat(alerts[:i], alerts[i+1:])
			return nil
		}
	}
	return domain.ErrNotFound
}

// UnreadCount alertas sin resolver de la sesión del context.
func (b *Boards) UnreadCount(ctx context.Context) (int, error) {
	id, err := sessionID(ctx)
	if err != nil {
		return 0, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, a := range b.boardLocked(id) {
		if !a.Resolved {
			n++
		}
	}
	return n, nil
}

// DropSession descarta el tablero de una sesión cerrada o invalidada.
func (b *Boards) DropSession(_ context.Context, sessionID string) {
	b.mu.Lock()
	delete(b.boards, sessionID)
	b.mu.Unlock()
}

func (b *Boards) onExpirationUpdated(_ context.Context, e events.Event) {
	ev, ok := e.(events.ExpirationDataUpdated)
	if !ok || ev.SessionID == "" || ev.ExpirationDate == nil {
		return
	}
	days := inventory.DaysUntil(*ev.ExpirationDate, b.now())
	if days > inventory.WarningDays {
		return
	}
	b.add(ev.SessionID, entity.AlertTypeExpiration,
		"Expiration Alert",
		fmt.Sprintf("Stock item #%d: %s.", ev.StockItemID, inventory.ExpirationStatus(days)))
	b.log.Debug().Str("session_id", ev.SessionID).Int64("stock_item_id", ev.StockItemID).Msg("alerta de vencimiento creada")
}

func (b *Boards) add(sessionID, typ, title, description string) entity.QualityAlert {
	alert := entity.QualityAlert{
		ID:          uuid.New().String(),
		Type:        typ,
		Title:       title,
		Description: description,
		Timestamp:   b.now(),
	}
	b.mu.Lock()
	b.boards[sessionID] = append(b.boardLocked(sessionID), alert)
	b.mu.Unlock()
	return alert
}

// boardLocked devuelve el tablero de la sesión, sembrándolo la primera vez. Requiere b.mu tomado en escritura.
func (b *Boards) boardLocked(sessionID string) []entity.QualityAlert {
	alerts, ok := b.boards[sessionID]
	if !ok {
		alerts = seedAlerts(b.now())
		b.boards[sessionID] = alerts
	}
	return alerts
}

func seedAlerts(now time.Time) []entity.QualityAlert {
	return []entity.QualityAlert{
		{
			ID:          uuid.New().String(),
			Type:        entity.AlertTypeIssue,
			Title:       "Quality Issue Detected",
			Description: "Batch #A123 of dairy products shows temperature deviation.",
			Timestamp:   now.Add(-2 * time.Hour),
		},
		{
			ID:          uuid.New().String(),
			Type:        entity.AlertTypeExpiration,
			Title:       "Expiration Alert",
			Description: "15 items in produce section expire within 48 hours.",
			Timestamp:   now.Add(-1 * time.Hour),
		},
	}
}

func sessionID(ctx context.Context) (string, error) {
	sess := entity.SessionFromContext(ctx)
	if sess == nil {
		return "", domain.ErrNoSession
	}
	return sess.ID, nil
}

func toAlertDTO(a entity.QualityAlert) dto.QualityAlertDTO {
	return dto.QualityAlertDTO{
		ID:          a.ID,
		Type:        a.Type,
		Title:       a.Title,
		Description: a.Description,
		Timestamp:   a.Timestamp,
		Resolved:    a.Resolved,
	}
}
