package main

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SelectionView is the read model of the current selection handed to the
// presentation layer.
type SelectionView struct {
	Books       []Book          `json:"books"`
	Count       int             `json:"count"`
	TotalPrice  decimal.Decimal `json:"totalPrice"`
	CanCheckout bool            `json:"canCheckout"`
	MinRequired int             `json:"minRequired"`
}

// StoreServiceProvider exposes the storefront operations to the api handlers.
type StoreServiceProvider interface {
	BrowseCatalog(ctx context.Context, upd FilterUpdate, page *int) (CatalogView, []Book)
	RefreshCatalog(ctx context.Context) error
	Packs(ctx context.Context) ([]Pack, error)
	PackByID(ctx context.Context, id int) (Pack, error)
	Offers(ctx context.Context) ([]Offer, error)
	Select(ctx context.Context, id int) (Book, error)
	Deselect(ctx context.Context, id int)
	ClearSelection(ctx context.Context)
	SelectionView() SelectionView
	SubmitOrder(ctx context.Context, req OrderRequest) (OrderRecord, error)
}

// StoreService composes the catalog engine, the selection registry and the
// upstream client into the storefront behavior.
type StoreService struct {
	logger    *zap.Logger
	config    *Config
	clock     Clocker
	ids       UIDHandler
	api       CatalogAPI
	engine    *CatalogEngine
	selection *SelectionRegistry
	queue     Queuer
}

func NewStoreService(
	logger *zap.Logger,
	config *Config,
	clock Clocker,
	ids UIDHandler,
	api CatalogAPI,
	engine *CatalogEngine,
	selection *SelectionRegistry,
	queue Queuer,
) StoreServiceProvider {
	return &StoreService{
		logger:    logger,
		config:    config,
		clock:     clock,
		ids:       ids,
		api:       api,
		engine:    engine,
		selection: selection,
		queue:     queue,
	}
}

// BrowseCatalog applies the requested filter update, navigates to the
// requested page when one is given, and returns the resulting view. A
// criteria change in server-driven mode triggers a fresh upstream load for
// the reset first page.
func (ss *StoreService) BrowseCatalog(ctx context.Context, upd FilterUpdate, page *int) (CatalogView, []Book) {
	changed := ss.engine.UpdateFilter(upd)
	if changed && ss.engine.View().ServerPaged {
		if err := ss.engine.Load(ctx); err != nil {
			ss.logger.Error("store: failed to reload catalog after filter change", zap.Error(err))
		}
	}
	if page != nil {
		ss.engine.GoToPage(ctx, *page)
	}
	return ss.engine.View(), ss.engine.VisibleBooks()
}

// RefreshCatalog forces a reload of the catalog snapshot from the upstream.
func (ss *StoreService) RefreshCatalog(ctx context.Context) error {
	return ss.engine.Load(ctx)
}

// Packs returns the active packs.
func (ss *StoreService) Packs(ctx context.Context) ([]Pack, error) {
	return ss.api.FetchActivePacks(ctx)
}

// PackByID returns one pack.
func (ss *StoreService) PackByID(ctx context.Context, id int) (Pack, error) {
	return ss.api.FetchPackByID(ctx, id)
}

// Offers returns the current daily offers.
func (ss *StoreService) Offers(ctx context.Context) ([]Offer, error) {
	return ss.api.FetchDailyOffers(ctx)
}

// Select adds a book of the current snapshot to the selection.
func (ss *StoreService) Select(ctx context.Context, id int) (Book, error) {
	book, ok := ss.engine.Book(id)
	if !ok {
		return Book{}, ErrBookNotFound
	}
	ss.selection.Add(ctx, book)
	return book, nil
}

// Deselect removes a book from the selection.
func (ss *StoreService) Deselect(ctx context.Context, id int) {
	ss.selection.Remove(ctx, id)
}

// ClearSelection empties the selection.
func (ss *StoreService) ClearSelection(ctx context.Context) {
	ss.selection.Clear(ctx)
}

// SelectionView returns the current selection read model.
func (ss *StoreService) SelectionView() SelectionView {
	return SelectionView{
		Books:       ss.selection.Books(),
		Count:       ss.selection.Size(),
		TotalPrice:  ss.selection.TotalPrice(),
		CanCheckout: ss.selection.CanCheckout(),
		MinRequired: ss.selection.MinCount(),
	}
}

// SubmitOrder validates a checkout request, submits it upstream and clears
// the selection on success only. Validation failures never reach the
// network and mutate no state; a rejected submission keeps the selection so
// the customer can retry.
func (ss *StoreService) SubmitOrder(ctx context.Context, req OrderRequest) (OrderRecord, error) {
	fromSelection := len(req.Items) == 0
	if fromSelection {
		for _, b := range ss.selection.Books() {
			req.Items = append(req.Items, OrderItem{BookID: b.ID, Quantity: 1})
		}
	}

	if err := ValidateOrderRequest(&req); err != nil {
		return OrderRecord{}, err
	}

	if fromSelection {
		if !ss.selection.CanCheckout() {
			return OrderRecord{}, ErrSelectionTooSmall
		}
	} else if len(req.Items) < ss.selection.MinCount() {
		return OrderRecord{}, ErrSelectionTooSmall
	}

	record, err := ss.api.SubmitOrder(ctx, req)
	if err != nil {
		return OrderRecord{}, err
	}

	total := ss.selection.TotalPrice()
	trace := ArchivedOrder{
		ID:          ss.ids.Generate(OrderIDPrefix),
		OrderNumber: record.OrderNumber,
		Email:       req.Email,
		Items:       req.Items,
		TotalPrice:  total.String(),
		SubmittedAt: ss.clock.Now().UTC().Format(time.RFC3339),
	}
	if err := ss.queue.Push(ctx, ArchiveQueue, trace); err != nil {
		ss.logger.Error("store: failed to push order trace to queue",
			zap.String("qid", ArchiveQueue), zap.Error(err))
	}

	ss.selection.Clear(ctx)
	return record, nil
}
