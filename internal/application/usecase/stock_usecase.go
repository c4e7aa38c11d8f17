package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/qualistock/internal/application/dto"
	"github.com/jhoicas/qualistock/internal/application/ports"
	"github.com/jhoicas/qualistock/internal/domain"
	"github.com/jhoicas/qualistock/internal/domain/entity"
	"github.com/jhoicas/qualistock/internal/domain/inventory"
	"github.com/jhoicas/qualistock/internal/domain/repository"
	"github.com/jhoicas/qualistock/internal/infrastructure/events"
	"github.com/jhoicas/qualistock/pkg/logger"
	"github.com/jhoicas/qualistock/pkg/retry"
)

const (
	noLocation      = "Not in stock"
	noCategory      = "Uncategorized"
	pendingEditTTL  = 30 * time.Minute
	eventSourceEdit = "stock_management"
)

// StockConfig parámetros de la página de stock.
type StockConfig struct {
	Retry             retry.Policy
	LowStockThreshold int
}

// StockUseCase lógica de la página de gestión de stock, incluida la edición en dos pasos 0 → N.
type StockUseCase struct {
	categories repository.CategoryRepository
	products   repository.ProductRepository
	stock      repository.StockItemRepository
	publisher  ports.EventPublisher
	retryObs   ports.RetryObserver
	cfg        StockConfig
	log        *logger.Logger
	now        func() time.Time

	mu      sync.Mutex
	pending map[string]inventory.PendingStockEdit
}

// NewStockUseCase construye el caso de uso. publisher y retryObs pueden ser nil.
func NewStockUseCase(
	categories repository.CategoryRepository,
	products repository.ProductRepository,
	stock repository.StockItemRepository,
	publisher ports.EventPublisher,
	retryObs ports.RetryObserver,
	cfg StockConfig,
	log *logger.Logger,
) *StockUseCase {
	cfg.Retry = backendRetryPolicy(cfg.Retry)
	if cfg.LowStockThreshold <= 0 {
		cfg.LowStockThreshold = 20
	}
	if log == nil {
		log = logger.Nop()
	}
	return &StockUseCase{
		categories: categories,
		products:   products,
		stock:      stock,
		publisher:  publisher,
		retryObs:   retryObs,
		cfg:        cfg,
		log:        log.Named("stock"),
		now:        time.Now,
		pending:    make(map[string]inventory.PendingStockEdit),
	}
}

// ── Vista ─────────────────────────────────────────────────────────────────────

// Overview carga categorías, productos y lotes (cada uno con reintento) y arma la tabla.
// Las cargas fallidas degradan a datos vacíos con un aviso; solo una sesión expirada es error.
func (uc *StockUseCase) Overview(ctx context.Context) (*dto.StockOverviewResponse, error) {
	cats, catErr := retry.Do(ctx, uc.cfg.Retry, uc.categories.List, uc.onRetry("stock_categories"))
	prods, prodErr := retry.Do(ctx, uc.cfg.Retry, uc.products.List, uc.onRetry("stock_products"))
	items, itemErr := retry.Do(ctx, uc.cfg.Retry, uc.stock.List, uc.onRetry("stock_items"))

	for _, err := range []error{catErr, prodErr, itemErr} {
		if errors.Is(err, domain.ErrSessionExpired) {
			return nil, err
		}
	}

	resp := &dto.StockOverviewResponse{
		Rows:       []dto.StockRowDTO{},
		Categories: toCategoryResponses(cats),
		Notices:    []dto.Notice{},
		Stats:      dto.StockStatsDTO{StockValue: decimal.Zero},
	}
	if catErr != nil && prodErr != nil && itemErr != nil {
		uc.log.Error().Err(prodErr).Msg("no se pudo cargar el inventario")
		resp.Notices = append(resp.Notices, dto.Notice{Level: dto.NoticeError, Message: "Failed to load inventory data. Please try again."})
		return resp, nil
	}
	if catErr != nil {
		resp.Notices = append(resp.Notices, dto.Notice{Level: dto.NoticeWarning, Message: "Categories could not be loaded; products are shown as Uncategorized."})
	}
	if itemErr != nil {
		resp.Notices = append(resp.Notices, dto.Notice{Level: dto.NoticeWarning, Message: "Stock levels could not be loaded; quantities are shown as 0."})
	}

	categoryNames := make(map[int64]string, len(cats))
	for _, c := range cats {
		categoryNames[c.ID] = c.Name
	}
	byProduct := make(map[int64][]entity.StockItem)
	for _, it := range items {
		byProduct[it.ProductID] = append(byProduct[it.ProductID], it)
	}

	switch {
	case prodErr == nil:
		for _, p := range prods {
			resp.Rows = append(resp.Rows, uc.buildRow(p, byProduct[p.ID], categoryNames))
		}
	case len(items) > 0:
		resp.Notices = append(resp.Notices, dto.Notice{Level: dto.NoticeWarning, Message: "Products could not be loaded; rows are built from stock items only."})
		ids := make([]int64, 0, len(byProduct))
		for id := range byProduct {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		for _, id := range ids {
			p := entity.Product{ID: id, Name: fmt.Sprintf("Product #%d", id)}
			resp.Rows = append(resp.Rows, uc.buildRow(p, byProduct[id], categoryNames))
		}
	default:
		resp.Notices = append(resp.Notices, dto.Notice{Level: dto.NoticeError, Message: "Products could not be loaded."})
	}

	resp.Stats.TotalProducts = len(resp.Rows)
	for _, r := range resp.Rows {
		if r.LowStock {
			resp.Stats.LowStockCount++
		}
		resp.Stats.StockValue = resp.Stats.StockValue.Add(r.Value)
	}
	return resp, nil
}

func (uc *StockUseCase) buildRow(p entity.Product, items []entity.StockItem, categoryNames map[int64]string) dto.StockRowDTO {
	row := dto.StockRowDTO{
		ProductID:   p.ID,
		Name:        p.Name,
		SKU:         p.SKU,
		Description: p.Description,
		CategoryID:  p.CategoryID,
		Category:    noCategory,
		Location:    noLocation,
		UnitPrice:   p.UnitPrice,
	}
	if name, ok := categoryNames[p.CategoryID]; ok && name != "" {
		row.Category = name
	}
	for _, it := range items {
		row.Quantity += it.Quantity
	}
	if len(items) > 0 {
		id := items[0].ID
		row.StockItemID = &id
		if items[0].Location != "" {
			row.Location = items[0].Location
		}
	}
	row.Value = inventory.LineValue(row.Quantity, p.UnitPrice)
	row.LowStock = inventory.IsLowStock(row.Quantity, uc.cfg.LowStockThreshold)
	return row
}

func (uc *StockUseCase) onRetry(operation string) retry.OnRetry {
	return func(attempt int, err error) {
		uc.log.Warn().Err(err).Str("operation", operation).Int("attempt", attempt).Msg("reintentando carga")
		if uc.retryObs != nil {
			uc.retryObs.IncRetry(operation)
		}
	}
}

// ── Altas ─────────────────────────────────────────────────────────────────────

// AddStockItem crea un lote. Número de lote y ubicación son obligatorios.
func (uc *StockUseCase) AddStockItem(ctx context.Context, in dto.AddStockItemRequest) (*dto.StockItemResponse, error) {
	if in.ProductID <= 0 {
		return nil, fmt.Errorf("%w: el producto es obligatorio", domain.ErrInvalidInput)
	}
	item, err := buildStockItem(in.ProductID, in.Quantity, in.Location, in.NewLocation, in.BatchNumber, in.ManufacturingDate, in.ExpirationDate)
	if err != nil {
		return nil, err
	}
	created, err := uc.stock.Create(ctx, item)
	if err != nil {
		return nil, err
	}
	uc.publishStock(ctx, created)
	return toStockItemResponse(created), nil
}

// AddProduct crea (opcionalmente) la categoría, el producto y el lote inicial.
// Todo se valida antes de la primera llamada al backend.
func (uc *StockUseCase) AddProduct(ctx context.Context, in dto.AddProductRequest) (*dto.AddProductResponse, error) {
	newCategory := strings.TrimSpace(in.NewCategory)
	product := &entity.Product{
		Name:        strings.TrimSpace(in.Name),
		SKU:         strings.TrimSpace(in.SKU),
		Description: strings.TrimSpace(in.Description),
		CategoryID:  in.CategoryID,
		UnitPrice:   in.UnitPrice,
	}
	if err := validateProduct(product); err != nil {
		return nil, err
	}
	if newCategory == "" && product.CategoryID <= 0 {
		return nil, errCategoryRequired
	}
	if in.Quantity < 0 {
		return nil, fmt.Errorf("%w: la cantidad no puede ser negativa", domain.ErrInvalidInput)
	}
	var item *entity.StockItem
	if in.Quantity > 0 {
		var err error
		item, err = buildStockItem(0, in.Quantity, in.Location, in.NewLocation, in.BatchNumber, in.ManufacturingDate, in.ExpirationDate)
		if err != nil {
			return nil, err
		}
	}

	resp := &dto.AddProductResponse{}
	if newCategory != "" {
		cat, err := uc.categories.Create(ctx, &entity.Category{Name: newCategory})
		if err != nil {
			return nil, err
		}
		product.CategoryID = cat.ID
		c := toCategoryResponse(cat)
		resp.Category = &c
	}
	created, err := uc.products.Create(ctx, product)
	if err != nil {
		return nil, err
	}
	resp.Product = toProductResponse(created)

	if item != nil {
		item.ProductID = created.ID
		stockItem, err := uc.stock.Create(ctx, item)
		if err != nil {
			return nil, fmt.Errorf("producto %d creado pero el lote inicial falló: %w", created.ID, err)
		}
		resp.StockItem = toStockItemResponse(stockItem)
		uc.publishStock(ctx, stockItem)
	}
	return resp, nil
}

func buildStockItem(productID int64, qty int, location, newLocation, batch string, mfg, exp *string) (*entity.StockItem, error) {
	if qty < 0 {
		return nil, fmt.Errorf("%w: la cantidad no puede ser negativa", domain.ErrInvalidInput)
	}
	dates, err := parseStockDates(mfg, exp)
	if err != nil {
		return nil, err
	}
	info := inventory.BatchInfo{
		BatchNumber:       batch,
		Location:          location,
		NewLocation:       newLocation,
		ManufacturingDate: dates.ManufacturingDate,
		ExpirationDate:    dates.ExpirationDate,
	}
	if err := info.Validate(); err != nil {
		return nil, err
	}
	return &entity.StockItem{
		ProductID:         productID,
		Quantity:          qty,
		Location:          inventory.ResolveLocation(location, newLocation),
		BatchNumber:       strings.TrimSpace(batch),
		ManufacturingDate: dates.ManufacturingDate,
		ExpirationDate:    dates.ExpirationDate,
	}, nil
}

// ── Edición ───────────────────────────────────────────────────────────────────

// EditProduct actualiza el producto (SKU intacto) y la cantidad del lote indicado.
// Si el lote pasa de 0 a N la actualización de stock queda pendiente de los datos del lote.
func (uc *StockUseCase) EditProduct(ctx context.Context, productID int64, in dto.EditProductRequest) (*dto.EditProductResponse, error) {
	sess := entity.SessionFromContext(ctx)
	if sess == nil {
		return nil, domain.ErrNoSession
	}
	product, err := uc.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	changed, err := applyProductChanges(product, in.Name, in.SKU, in.Description, in.CategoryID, in.UnitPrice)
	if err != nil {
		return nil, err
	}
	// La cantidad se valida antes de tocar el producto.
	if in.Quantity != nil && *in.Quantity < 0 {
		return nil, fmt.Errorf("%w: la cantidad no puede ser negativa", domain.ErrInvalidInput)
	}
	if changed {
		product.ID = productID
		if product, err = uc.products.Update(ctx, product); err != nil {
			return nil, err
		}
	}
	productResp := toProductResponse(product)
	resp := &dto.EditProductResponse{State: string(inventory.EditStateCommitted), Product: &productResp}

	if in.Quantity == nil {
		return resp, nil
	}
	current, err := uc.currentStockItem(ctx, productID, in.StockItemID)
	if err != nil {
		return nil, err
	}
	change := inventory.QuantityChange{Quantity: *in.Quantity}
	if in.Location != nil {
		change.Location = *in.Location
	}
	updated, state, err := inventory.PlanQuantityEdit(current, change)
	if err != nil {
		return nil, err
	}

	if state == inventory.EditStateAwaitingBatchInfo {
		suggested := strings.TrimSpace(change.Location)
		if suggested == "" {
			suggested = current.Location
		}
		edit := inventory.PendingStockEdit{
			ID:          uuid.New().String(),
			SessionID:   sess.ID,
			ProductID:   productID,
			StockItemID: current.ID,
			Quantity:    *in.Quantity,
			Location:    suggested,
			CreatedAt:   uc.now(),
		}
		uc.storePending(edit)
		resp.State = string(state)
		resp.PendingID = edit.ID
		resp.SuggestedLocation = suggested
		return resp, nil
	}

	if current.ID == 0 {
		// Producto sin lotes y cantidad 0: no hay nada que persistir.
		return resp, nil
	}
	if updated.Quantity != current.Quantity || updated.Location != current.Location {
		saved, err := uc.stock.Update(ctx, &updated)
		if err != nil {
			return nil, err
		}
		updated = *saved
		uc.publishStock(ctx, &updated)
	}
	resp.StockItem = toStockItemResponse(&updated)
	return resp, nil
}

// currentStockItem el lote indicado o, si no se indicó, el primero del producto.
// Un producto sin lotes se trata como cantidad 0.
func (uc *StockUseCase) currentStockItem(ctx context.Context, productID int64, stockItemID *int64) (entity.StockItem, error) {
	if stockItemID != nil {
		item, err := uc.stock.GetByID(ctx, *stockItemID)
		if err != nil {
			return entity.StockItem{}, err
		}
		if item.ProductID != productID {
			return entity.StockItem{}, fmt.Errorf("%w: el lote %d no pertenece al producto %d", domain.ErrInvalidInput, *stockItemID, productID)
		}
		return *item, nil
	}
	items, err := uc.stock.ListByProduct(ctx, productID)
	if err != nil {
		return entity.StockItem{}, err
	}
	if len(items) == 0 {
		return entity.StockItem{ProductID: productID}, nil
	}
	return items[0], nil
}

// SubmitBatchInfo completa una edición pendiente con número de lote, ubicación y fechas.
// Si la validación o el backend fallan la edición sigue pendiente.
func (uc *StockUseCase) SubmitBatchInfo(ctx context.Context, pendingID string, in dto.BatchInfoRequest) (*dto.EditProductResponse, error) {
	// La edición se retira del mapa mientras se procesa: un segundo envío concurrente no la encuentra.
	edit, err := uc.claimPending(ctx, pendingID)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			uc.restorePending(edit)
		}
	}()

	dates, err := parseStockDates(in.ManufacturingDate, in.ExpirationDate)
	if err != nil {
		return nil, err
	}
	info := inventory.BatchInfo{
		BatchNumber:       in.BatchNumber,
		Location:          in.Location,
		NewLocation:       in.NewLocation,
		ManufacturingDate: dates.ManufacturingDate,
		ExpirationDate:    dates.ExpirationDate,
	}

	current := entity.StockItem{ProductID: edit.ProductID}
	if edit.StockItemID > 0 {
		item, err := uc.stock.GetByID(ctx, edit.StockItemID)
		if err != nil {
			return nil, err
		}
		current = *item
	}
	updated, err := edit.Apply(current, info)
	if err != nil {
		return nil, err
	}

	var saved *entity.StockItem
	if updated.ID > 0 {
		saved, err = uc.stock.Update(ctx, &updated)
	} else {
		saved, err = uc.stock.Create(ctx, &updated)
	}
	if err != nil {
		return nil, err
	}
	committed = true

	uc.publishStock(ctx, saved)
	return &dto.EditProductResponse{
		State:     string(inventory.EditStateCommitted),
		StockItem: toStockItemResponse(saved),
	}, nil
}

// CancelBatchInfo descarta una edición pendiente sin enviar nada al backend.
func (uc *StockUseCase) CancelBatchInfo(ctx context.Context, pendingID string) error {
	if _, err := uc.ownedPending(ctx, pendingID); err != nil {
		return err
	}
	uc.mu.Lock()
	delete(uc.pending, pendingID)
	uc.mu.Unlock()
	return nil
}

// DropSessionEdits descarta las ediciones pendientes de una sesión (logout o sesión invalidada).
func (uc *StockUseCase) DropSessionEdits(_ context.Context, sessionID string) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	for id, edit := range uc.pending {
		if edit.SessionID == sessionID {
			delete(uc.pending, id)
		}
	}
}

// PendingCount número de ediciones pendientes (todas las sesiones).
func (uc *StockUseCase) PendingCount() int {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return len(uc.pending)
}

func (uc *StockUseCase) storePending(edit inventory.PendingStockEdit) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	cutoff := edit.CreatedAt.Add(-pendingEditTTL)
	for id, p := range uc.pending {
		if p.CreatedAt.Before(cutoff) {
			delete(uc.pending, id)
		}
	}
	uc.pending[edit.ID] = edit
}

// ownedPending busca la edición; la de otra sesión se reporta como inexistente.
func (uc *StockUseCase) ownedPending(ctx context.Context, pendingID string) (inventory.PendingStockEdit, error) {
	sess := entity.SessionFromContext(ctx)
	if sess == nil {
		return inventory.PendingStockEdit{}, domain.ErrNoSession
	}
	uc.mu.Lock()
	edit, ok := uc.pending[pendingID]
	uc.mu.Unlock()
	if !ok || edit.SessionID != sess.ID || uc.now().Sub(edit.CreatedAt) > pendingEditTTL {
		return inventory.PendingStockEdit{}, fmt.Errorf("%w: edición pendiente %s", domain.ErrNotFound, pendingID)
	}
	return edit, nil
}

// claimPending como ownedPending, pero retira la edición del mapa bajo el mismo lock.
func (uc *StockUseCase) claimPending(ctx context.Context, pendingID string) (inventory.PendingStockEdit, error) {
	sess := entity.SessionFromContext(ctx)
	if sess == nil {
		return inventory.PendingStockEdit{}, domain.ErrNoSession
	}
	uc.mu.Lock()
	defer uc.mu.Unlock()
	edit, ok := uc.pending[pendingID]
	if !ok || edit.SessionID != sess.ID || uc.now().Sub(edit.CreatedAt) > pendingEditTTL {
		return inventory.PendingStockEdit{}, fmt.Errorf("%w: edición pendiente %s", domain.ErrNotFound, pendingID)
	}
	delete(uc.pending, pendingID)
	return edit, nil
}

// restorePending devuelve una edición reclamada cuyo envío falló.
func (uc *StockUseCase) restorePending(edit inventory.PendingStockEdit) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if _, ok := uc.pending[edit.ID]; !ok {
		uc.pending[edit.ID] = edit
	}
}

// ── Baja ──────────────────────────────────────────────────────────────────────

// DeleteProduct borra los lotes del producto y luego el producto.
// Si el borrado del producto falla se devuelve el error (los lotes ya no existen).
func (uc *StockUseCase) DeleteProduct(ctx context.Context, productID int64) error {
	items, err := uc.stock.ListByProduct(ctx, productID)
	if err != nil {
		return err
	}
	hadExpiration := false
	for _, it := range items {
		if err := uc.stock.Delete(ctx, it.ID); err != nil {
			return fmt.Errorf("borrar lote %d: %w", it.ID, err)
		}
		hadExpiration = hadExpiration || it.ExpirationDate != nil
	}
	if err := uc.products.Delete(ctx, productID); err != nil {
		if len(items) > 0 {
			uc.log.Error().Err(err).Int64("product_id", productID).Int("deleted_items", len(items)).
				Msg("lotes borrados pero el producto no")
		}
		return err
	}

	if uc.publisher != nil {
		sessionID := sessionIDFrom(ctx)
		now := uc.now()
		uc.publisher.Publish(ctx, events.StockChanged{SessionID: sessionID, Source: eventSourceEdit, ProductID: productID, Timestamp: now})
		if hadExpiration {
			uc.publisher.Publish(ctx, events.ExpirationDataUpdated{SessionID: sessionID, Source: eventSourceEdit, Timestamp: now})
		}
	}
	return nil
}

// ── Eventos ───────────────────────────────────────────────────────────────────

func (uc *StockUseCase) publishStock(ctx context.Context, item *entity.StockItem) {
	if uc.publisher == nil || item == nil {
		return
	}
	sessionID := sessionIDFrom(ctx)
	now := uc.now()
	uc.publisher.Publish(ctx, events.StockChanged{
		SessionID:   sessionID,
		Source:      eventSourceEdit,
		ProductID:   item.ProductID,
		StockItemID: item.ID,
		Timestamp:   now,
	})
	if item.ExpirationDate != nil {
		uc.publisher.Publish(ctx, events.ExpirationDataUpdated{
			SessionID:      sessionID,
			Source:         eventSourceEdit,
			StockItemID:    item.ID,
			ExpirationDate: item.ExpirationDate,
			Timestamp:      now,
		})
	}
}

func sessionIDFrom(ctx context.Context) string {
	if sess := entity.SessionFromContext(ctx); sess != nil {
		return sess.ID
	}
	return ""
}
