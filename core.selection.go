package main

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SelectionObserver is invoked synchronously after every selection mutation,
// in registration order, with the new selection size. Dependent views stay
// consistent within the same logical tick.
type SelectionObserver func(count int)

// SelectionRegistry tracks the set of books a customer picked for an order.
// Identifiers are unique, insertion order is preserved, and the total price
// uses exact decimal arithmetic. A single instance lives for the whole
// session; it is injected where needed rather than reached as a global.
type SelectionRegistry struct {
	logger   *zap.Logger
	store    SelectionStore
	minCount int

	mu        sync.Mutex
	order     []int
	books     map[int]Book
	observers []SelectionObserver
}

// NewSelectionRegistry provides a selection registry with the configured
// minimum checkout count. The store may be nil when persistence is off.
func NewSelectionRegistry(logger *zap.Logger, store SelectionStore, minCount int) *SelectionRegistry {
	return &SelectionRegistry{
		logger:   logger,
		store:    store,
		minCount: minCount,
		books:    make(map[int]Book),
	}
}

// Restore loads the persisted selection snapshot, typically at startup.
func (sr *SelectionRegistry) Restore(ctx context.Context) error {
	if sr.store == nil {
		return nil
	}
	books, err := sr.store.Load(ctx)
	if err != nil {
		return err
	}
	sr.mu.Lock()
	sr.order = sr.order[:0]
	sr.books = make(map[int]Book, len(books))
	for _, b := range books {
		if _, ok := sr.books[b.ID]; ok {
			continue
		}
		sr.order = append(sr.order, b.ID)
		sr.books[b.ID] = b
	}
	count := len(sr.order)
	sr.mu.Unlock()
	sr.notify(count)
	return nil
}

// Subscribe registers an observer for selection mutations.
func (sr *SelectionRegistry) Subscribe(obs SelectionObserver) {
	sr.mu.Lock()
	defer sr.mu.Unlock()
	sr.observers = append(sr.observers, obs)
}

// Add appends a book to the selection. Adding an already selected
// identifier is a no-op.
func (sr *SelectionRegistry) Add(ctx context.Context, book Book) {
	sr.mu.Lock()
	if _, ok := sr.books[book.ID]; ok {
		sr.mu.Unlock()
		return
	}
	sr.order = append(sr.order, book.ID)
	sr.books[book.ID] = book
	count := len(sr.order)
	sr.mu.Unlock()

	sr.persist(ctx)
	sr.notify(count)
}

// Remove drops a book from the selection. Removing an absent identifier is
// a no-op, not an error.
func (sr *SelectionRegistry) Remove(ctx context.Context, id int) {
	sr.mu.Lock()
	if _, ok := sr.books[id]; !ok {
		sr.mu.Unlock()
		return
	}
	delete(sr.books, id)
	for i, bid := range sr.order {
		if bid == id {
			sr.order = append(sr.order[:i], sr.order[i+1:]...)
			break
		}
	}
	count := len(sr.order)
	sr.mu.Unlock()

	sr.persist(ctx)
	sr.notify(count)
}

// Clear empties the selection.
func (sr *SelectionRegistry) Clear(ctx context.Context) {
	sr.mu.Lock()
	sr.order = sr.order[:0]
	sr.books = make(map[int]Book)
	sr.mu.Unlock()

	sr.persist(ctx)
	sr.notify(0)
}

// Contains reports whether the given book identifier is selected.
func (sr *SelectionRegistry) Contains(id int) bool {
	sr.mu.Lock()
	defer sr.mu.Unlock()
	_, ok := sr.books[id]
	return ok
}

// Size returns the number of selected books.
func (sr *SelectionRegistry) Size() int {
	sr.mu.Lock()
	defer sr.mu.Unlock()
	return len(sr.order)
}

// Books returns the selected books in insertion order.
func (sr *SelectionRegistry) Books() []Book {
	sr.mu.Lock()
	defer sr.mu.Unlock()
	return sr.snapshot()
}

// TotalPrice sums the selected book prices with exact decimal arithmetic,
// so order totals never drift through float rounding.
func (sr *SelectionRegistry) TotalPrice() decimal.Decimal {
	sr.mu.Lock()
	defer sr.mu.Unlock()
	total := decimal.Zero
	for _, id := range sr.order {
		total = total.Add(sr.books[id].Price)
	}
	return total
}

// CanCheckout reports whether the selection reaches the minimum count
// required to start an order.
func (sr *SelectionRegistry) CanCheckout() bool {
	sr.mu.Lock()
	defer sr.mu.Unlock()
	return len(sr.order) >= sr.minCount && len(sr.order) > 0
}

// MinCount returns the configured checkout threshold.
func (sr *SelectionRegistry) MinCount() int {
	return sr.minCount
}

// snapshot copies the ordered books. Callers must hold the mutex.
func (sr *SelectionRegistry) snapshot() []Book {
	books := make([]Book, 0, len(sr.order))
	for _, id := range sr.order {
		books = append(books, sr.books[id])
	}
	return books
}

// persist saves the snapshot to the backing store. The in-memory state is
// authoritative: a persistence failure is logged and the mutation stands.
func (sr *SelectionRegistry) persist(ctx context.Context) {
	if sr.store == nil {
		return
	}
	sr.mu.Lock()
	books := sr.snapshot()
	sr.mu.Unlock()
	if err := sr.store.Save(ctx, books); err != nil {
		sr.logger.Error("selection: failed to persist snapshot", zap.Error(err))
	}
}

func (sr *SelectionRegistry) notify(count int) {
	sr.mu.Lock()
	observers := append([]SelectionObserver(nil), sr.observers...)
	sr.mu.Unlock()
	for _, obs := range observers {
		obs(count)
	}
}
