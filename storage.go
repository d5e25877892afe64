package main

import "context"

// CatalogAPI groups the upstream bookstore operations this service consumes.
// Every call is a single-shot request: exactly one success or one failure.
type CatalogAPI interface {
	FetchAllBooks(ctx context.Context) ([]Book, error)
	FetchBooksPage(ctx context.Context, page, size int) (BookPage, error)
	FetchBooksByCategory(ctx context.Context, category string) ([]Book, error)
	SearchBooks(ctx context.Context, keyword string) ([]Book, error)
	FetchActivePacks(ctx context.Context) ([]Pack, error)
	FetchPackByID(ctx context.Context, id int) (Pack, error)
	FetchDailyOffers(ctx context.Context) ([]Offer, error)
	SubmitOrder(ctx context.Context, req OrderRequest) (OrderRecord, error)
}

// SelectionStore persists the current selection snapshot so a customer
// session survives a storefront restart.
type SelectionStore interface {
	Save(ctx context.Context, books []Book) error
	Load(ctx context.Context) ([]Book, error)
}

// OrderArchiver keeps a local trace of submitted orders.
type OrderArchiver interface {
	Archive(ctx context.Context, order ArchivedOrder) error
	Archived(ctx context.Context) ([]ArchivedOrder, error)
}

// PreferenceStore persists durable storefront preferences, currently
// only the active display language.
type PreferenceStore interface {
	SaveLanguage(ctx context.Context, code string) error
	LoadLanguage(ctx context.Context) (string, error)
}
