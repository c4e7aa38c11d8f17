package usecase_test

import (
	"context"
	"sort"

	"github.com/jhoicas/qualistock/internal/domain"
	"github.com/jhoicas/qualistock/internal/domain/entity"
	"github.com/jhoicas/qualistock/internal/infrastructure/events"
)

// ── Repositorios en memoria ───────────────────────────────────────────────────

type fakeCategories struct {
	items   map[int64]entity.Category
	nextID  int64
	listErr error
	created int
}

func newFakeCategories(cats ...entity.Category) *fakeCategories {
	f := &fakeCategories{items: make(map[int64]entity.Category), nextID: 100}
	for _, c := range cats {
		f.items[c.ID] = c
	}
	return f
}

func (f *fakeCategories) List(context.Context) ([]entity.Category, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]entity.Category, 0, len(f.items))
	for _, c := range f.items {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeCategories) GetByID(_ context.Context, id int64) (*entity.Category, error) {
	c, ok := f.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &c, nil
}

func (f *fakeCategories) Create(_ context.Context, c *entity.Category) (*entity.Category, error) {
	f.nextID++
	f.created++
	out := *c
	out.ID = f.nextID
	f.items[out.ID] = out
	return &out, nil
}

func (f *fakeCategories) Update(_ context.Context, c *entity.Category) (*entity.Category, error) {
	if _, ok := f.items[c.ID]; !ok {
		return nil, domain.ErrNotFound
	}
	f.items[c.ID] = *c
	out := *c
	return &out, nil
}

func (f *fakeCategories) Delete(_ context.Context, id int64) error {
	if _, ok := f.items[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.items, id)
	return nil
}

func (f *fakeCategories) ListProducts(context.Context, int64) ([]entity.Product, error) {
	return nil, nil
}

type fakeProducts struct {
	items     map[int64]entity.Product
	nextID    int64
	listErr   error
	deleteErr error
	created   int
	updates   []entity.Product
}

func newFakeProducts(products ...entity.Product) *fakeProducts {
	f := &fakeProducts{items: make(map[int64]entity.Product), nextID: 100}
	for _, p := range products {
		f.items[p.ID] = p
	}
	return f
}

func (f *fakeProducts) List(context.Context) ([]entity.Product, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]entity.Product, 0, len(f.items))
	for _, p := range f.items {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeProducts) GetByID(_ context.Context, id int64) (*entity.Product, error) {
	p, ok := f.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

func (f *fakeProducts) Create(_ context.Context, p *entity.Product) (*entity.Product, error) {
	f.nextID++
	f.created++
	out := *p
	out.ID = f.nextID
	f.items[out.ID] = out
	return &out, nil
}

func (f *fakeProducts) Update(_ context.Context, p *entity.Product) (*entity.Product, error) {
	if _, ok := f.items[p.ID]; !ok {
		return nil, domain.ErrNotFound
	}
	f.updates = append(f.updates, *p)
	f.items[p.ID] = *p
	out := *p
	return &out, nil
}

func (f *fakeProducts) Delete(_ context.Context, id int64) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.items[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.items, id)
	return nil
}

type fakeStock struct {
	items      map[int64]entity.StockItem
	nextID     int64
	listErr    error
	listFails  int // fallos consecutivos antes de responder bien
	listCalls  int
	createErr  error
	createHook func() // se ejecuta dentro de Create, antes de guardar
	creates    []entity.StockItem
	updates    []entity.StockItem
	deletes    []int64
}

func newFakeStock(items ...entity.StockItem) *fakeStock {
	f := &fakeStock{items: make(map[int64]entity.StockItem), nextID: 500}
	for _, it := range items {
		f.items[it.ID] = it
	}
	return f
}

func (f *fakeStock) List(context.Context) ([]entity.StockItem, error) {
	f.listCalls++
	if f.listFails > 0 {
		f.listFails--
		return nil, domain.ErrBackendUnavailable
	}
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]entity.StockItem, 0, len(f.items))
	for _, it := range f.items {
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStock) ListByProduct(ctx context.Context, productID int64) ([]entity.StockItem, error) {
	all, err := f.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]entity.StockItem, 0)
	for _, it := range all {
		if it.ProductID == productID {
			out = append(out, it)
		}
	}
	return out, nil
}

func (f *fakeStock) GetByID(_ context.Context, id int64) (*entity.StockItem, error) {
	it, ok := f.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &it, nil
}

func (f *fakeStock) Create(_ context.Context, it *entity.StockItem) (*entity.StockItem, error) {
	if f.createHook != nil {
		f.createHook()
	}
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.nextID++
	out := *it
	out.ID = f.nextID
	f.items[out.ID] = out
	f.creates = append(f.creates, out)
	return &out, nil
}

func (f *fakeStock) Update(_ context.Context, it *entity.StockItem) (*entity.StockItem, error) {
	if _, ok := f.items[it.ID]; !ok {
		return nil, domain.ErrNotFound
	}
	f.items[it.ID] = *it
	f.updates = append(f.updates, *it)
	out := *it
	return &out, nil
}

func (f *fakeStock) Delete(_ context.Context, id int64) error {
	if _, ok := f.items[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.items, id)
	f.deletes = append(f.deletes, id)
	return nil
}

type fakeExpiration struct {
	items      []entity.ExpiringItem
	stats      entity.ExpirationStats
	statsCalls int
	statsHook  func() // se ejecuta dentro de Stats, antes de responder
	lastFilter entity.ExpirationFilter
	err        error
}

func (f *fakeExpiration) Items(_ context.Context, filter entity.ExpirationFilter) ([]entity.ExpiringItem, error) {
	f.lastFilter = filter
	if f.err != nil {
		return nil, f.err
	}
	return f.items, nil
}

func (f *fakeExpiration) Stats(context.Context) (*entity.ExpirationStats, error) {
	f.statsCalls++
	s := f.stats
	if f.statsHook != nil {
		f.statsHook()
	}
	if f.err != nil {
		return nil, f.err
	}
	return &s, nil
}

func (f *fakeExpiration) Critical(context.Context) ([]entity.ExpiringItem, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.items, nil
}

type fakeForecast struct {
	predictions []entity.Forecast
	top         []entity.ProductDemand
	lastFilter  entity.ForecastFilter
	lastLimit   int
}

func (f *fakeForecast) ListPredictions(_ context.Context, filter entity.ForecastFilter) ([]entity.Forecast, error) {
	f.lastFilter = filter
	return f.predictions, nil
}

func (f *fakeForecast) TopProducts(_ context.Context, limit int) ([]entity.ProductDemand, error) {
	f.lastLimit = limit
	return f.top, nil
}

// ── Colaboradores ─────────────────────────────────────────────────────────────

type recordingPublisher struct {
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) {
	p.events = append(p.events, e)
}

func (p *recordingPublisher) topics() []events.Topic {
	out := make([]events.Topic, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Topic())
	}
	return out
}

type countingRetries struct {
	ops []string
}

func (c *countingRetries) IncRetry(op string) { c.ops = append(c.ops, op) }

func sessionCtx(id string) context.Context {
	return entity.ContextWithSession(context.Background(), &entity.Session{
		ID:   id,
		User: entity.User{ID: 1, Username: "admin", Name: "Admin"},
	})
}
