// Package events bus de notificaciones entre páginas del dashboard.
// Los eventos son tipos Go concretos; el tópico se deriva del tipo del evento.
package events

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/qualistock/pkg/logger"
)

// Topic nombre del canal de un evento.
type Topic string

const (
	TopicExpirationDataUpdated Topic = "expiration_data_updated"
	TopicStockChanged          Topic = "stock_changed"
)

// Event cualquier evento publicable.
type Event interface {
	Topic() Topic
}

// ExpirationDataUpdated se publica cuando cambian datos que afectan a los vencimientos.
type ExpirationDataUpdated struct {
	SessionID      string
	Source         string
	StockItemID    int64
	ExpirationDate *time.Time
	Timestamp      time.Time
}

func (ExpirationDataUpdated) Topic() Topic { return TopicExpirationDataUpdated }

// StockChanged se publica tras crear, editar o borrar stock.
type StockChanged struct {
	SessionID   string
	Source      string
	ProductID   int64
	StockItemID int64
	Timestamp   time.Time
}

func (StockChanged) Topic() Topic { return TopicStockChanged }

// Handler recibe un evento publicado.
type Handler func(ctx context.Context, e Event)

type subscription struct {
	id int
	fn Handler
}

// Bus publish/subscribe síncrono en proceso.
type Bus struct {
	mu     sync.RWMutex
	nextID int
	subs   map[Topic][]subscription
	log    *logger.Logger
}

// NewBus crea un bus vacío.
func NewBus(log *logger.Logger) *Bus {
	if log == nil {
		log = logger.Nop()
	}
	return &Bus{subs: make(map[Topic][]subscription), log: log.Named("events")}
}

// Subscribe registra fn para topic y devuelve la función que lo da de baja.
func (b *Bus) Subscribe(topic Topic, fn Handler) (unsubscribe func()) {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs[topic] = append(b.subs[topic], subscription{id: id, fn: fn})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			list := b.subs[topic]
			for i, s := range list {
				if s.id == id {
					b.subs[topic] = append(list[:i:i], list[i+1:]...)
					break
				}
			}
		})
	}
}

// Publish entrega e a todos los suscriptores de su tópico, en orden de suscripción.
// El pánico de un suscriptor se registra y no afecta al resto.
func (b *Bus) Publish(ctx context.Context, e Event) {
	b.mu.RLock()
	list := append([]subscription(nil), b.subs[e.Topic()]...)
	b.mu.RUnlock()

	for _, s := range list {
		b.deliver(ctx, s, e)
	}
}

func (b *Bus) deliver(ctx context.Context, s subscription, e Event) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error().Interface("panic", r).Str("topic", string(e.Topic())).Msg("suscriptor falló")
		}
	}()
	s.fn(ctx, e)
}
