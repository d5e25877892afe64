package main

import (
	"context"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// FilterAll is the category/language value meaning "no restriction".
const FilterAll = "all"

// FilterState is the complete browsing state of the catalog view. It is
// owned by the CatalogEngine and mutated only through UpdateFilter and the
// page navigation methods.
type FilterState struct {
	Query    string
	Category string
	Language string
	MinPrice decimal.NullDecimal
	MaxPrice decimal.NullDecimal
	Page     int
	PageSize int
}

// FilterUpdate carries a partial change of the filter state. Nil fields are
// left untouched; an invalid NullDecimal clears the matching price bound.
type FilterUpdate struct {
	Query    *string
	Category *string
	Language *string
	MinPrice *decimal.NullDecimal
	MaxPrice *decimal.NullDecimal
	PageSize *int
}

// Matches reports whether a book passes every active criterion of the
// filter. All criteria combine with AND semantics. A book without a
// category or language never matches a specific category/language filter
// but always passes when that filter is "all".
func (fs *FilterState) Matches(b Book) bool {
	if q := strings.TrimSpace(fs.Query); q != "" {
		needle := strings.ToLower(q)
		if !strings.Contains(strings.ToLower(b.Title), needle) &&
			!strings.Contains(strings.ToLower(b.Author), needle) &&
			!strings.Contains(strings.ToLower(b.Description), needle) {
			return false
		}
	}

	if fs.Category != "" && fs.Category != FilterAll && b.Category != fs.Category {
		return false
	}

	if fs.Language != "" && fs.Language != FilterAll && b.Language != fs.Language {
		return false
	}

	if fs.MinPrice.Valid && b.Price.LessThan(fs.MinPrice.Decimal) {
		return false
	}

	if fs.MaxPrice.Valid && b.Price.GreaterThan(fs.MaxPrice.Decimal) {
		return false
	}

	return true
}

// CatalogView is a read-only snapshot of the engine state handed to the
// presentation layer next to the visible books.
type CatalogView struct {
	Page        int    `json:"page"`
	PageSize    int    `json:"pageSize"`
	TotalPages  int    `json:"totalPages"`
	TotalBooks  int    `json:"totalBooks"`
	ServerPaged bool   `json:"serverPaged"`
	Loading     bool   `json:"loading"`
	Error       string `json:"error,omitempty"`
}

// CatalogEngine caches the last fetched book collection and derives the
// visible page from the current filter state. Two pagination modes exist:
// client-side slicing over the full snapshot, and server-driven paging where
// the upstream returns one page plus the total count. When a server page
// request fails the engine falls back exactly once to the unpaginated list
// and degrades to client-side paging until the next load.
type CatalogEngine struct {
	logger      *zap.Logger
	api         CatalogAPI
	configPaged bool

	mu          sync.Mutex
	filter      FilterState
	books       []Book // full snapshot, or the current server page
	filtered    []Book
	serverPaged bool
	totalPages  int
	totalBooks  int
	loading     bool
	lastErr     string
	loadSeq     uint64
}

// NewCatalogEngine provides a catalog engine bound to the given upstream client.
func NewCatalogEngine(logger *zap.Logger, api CatalogAPI, paginated bool, pageSize int) *CatalogEngine {
	if pageSize <= 0 {
		pageSize = 12
	}
	return &CatalogEngine{
		logger:      logger,
		api:         api,
		configPaged: paginated,
		filter:      FilterState{PageSize: pageSize},
	}
}

// Load fetches the catalog from the upstream for the current filter state.
// A load supersedes any in-flight one: responses carrying an older sequence
// token are discarded so a stale fetch can never overwrite fresher state.
func (ce *CatalogEngine) Load(ctx context.Context) error {
	ce.mu.Lock()
	ce.loadSeq++
	token := ce.loadSeq
	ce.loading = true
	ce.lastErr = ""
	page, size := ce.filter.Page, ce.filter.PageSize
	paged := ce.configPaged
	ce.mu.Unlock()

	if paged {
		bp, err := ce.api.FetchBooksPage(ctx, page, size)
		if err == nil {
			ce.applyPage(token, bp)
			return nil
		}
		ce.logger.Warn("catalog: paginated fetch failed, degrading to full list", zap.Error(err))
	}

	books, err := ce.api.FetchAllBooks(ctx)
	if err != nil {
		ce.failLoad(token, err)
		return err
	}
	ce.applyBooks(token, books)
	return nil
}

// SetBooks replaces the source collection and recomputes the visible subset.
func (ce *CatalogEngine) SetBooks(books []Book) {
	ce.mu.Lock()
	defer ce.mu.Unlock()
	ce.books = books
	ce.serverPaged = false
	ce.loading = false
	ce.recompute()
}

// UpdateFilter merges the provided fields into the current filter state.
// Any change of a criterion resets the page index to zero; page navigation
// itself never does. It reports whether a criterion actually changed so the
// caller can trigger a reload in server-driven mode.
func (ce *CatalogEngine) UpdateFilter(upd FilterUpdate) bool {
	ce.mu.Lock()
	defer ce.mu.Unlock()

	changed := false
	if upd.Query != nil && *upd.Query != ce.filter.Query {
		ce.filter.Query = *upd.Query
		changed = true
	}
	if upd.Category != nil && *upd.Category != ce.filter.Category {
		ce.filter.Category = *upd.Category
		changed = true
	}
	if upd.Language != nil && *upd.Language != ce.filter.Language {
		ce.filter.Language = *upd.Language
		changed = true
	}
	if upd.MinPrice != nil && !nullDecimalEqual(*upd.MinPrice, ce.filter.MinPrice) {
		ce.filter.MinPrice = *upd.MinPrice
		changed = true
	}
	if upd.MaxPrice != nil && !nullDecimalEqual(*upd.MaxPrice, ce.filter.MaxPrice) {
		ce.filter.MaxPrice = *upd.MaxPrice
		changed = true
	}
	if upd.PageSize != nil && *upd.PageSize > 0 && *upd.PageSize != ce.filter.PageSize {
		ce.filter.PageSize = *upd.PageSize
		changed = true
	}

	if changed {
		ce.filter.Page = 0
	}
	ce.recompute()
	return changed
}

// VisibleBooks returns the filtered page of books in the stable order of the
// underlying fetch.
func (ce *CatalogEngine) VisibleBooks() []Book {
	ce.mu.Lock()
	defer ce.mu.Unlock()

	if ce.serverPaged {
		return append([]Book(nil), ce.filtered...)
	}

	start := ce.filter.Page * ce.filter.PageSize
	if start >= len(ce.filtered) {
		return []Book{}
	}
	end := start + ce.filter.PageSize
	if end > len(ce.filtered) {
		end = len(ce.filtered)
	}
	return append([]Book(nil), ce.filtered[start:end]...)
}

// Book returns a book of the current snapshot by its identifier.
func (ce *CatalogEngine) Book(id int) (Book, bool) {
	ce.mu.Lock()
	defer ce.mu.Unlock()
	for _, b := range ce.books {
		if b.ID == id {
			return b, true
		}
	}
	return Book{}, false
}

// GoToPage moves to the given page index. Out of range requests are
// silently ignored, matching a UI which disables controls at range edges.
// In server-driven mode a page move triggers a fresh upstream load.
func (ce *CatalogEngine) GoToPage(ctx context.Context, n int) {
	ce.mu.Lock()
	if n < 0 || n >= ce.totalPages {
		ce.mu.Unlock()
		return
	}
	ce.filter.Page = n
	paged := ce.serverPaged
	if !paged {
		ce.mu.Unlock()
		return
	}
	ce.mu.Unlock()
	if err := ce.Load(ctx); err != nil {
		ce.logger.Error("catalog: failed to load requested page", zap.Int("page", n), zap.Error(err))
	}
}

// NextPage moves forward one page when possible.
func (ce *CatalogEngine) NextPage(ctx context.Context) {
	ce.mu.Lock()
	n := ce.filter.Page + 1
	ce.mu.Unlock()
	ce.GoToPage(ctx, n)
}

// PreviousPage moves back one page when possible.
func (ce *CatalogEngine) PreviousPage(ctx context.Context) {
	ce.mu.Lock()
	n := ce.filter.Page - 1
	ce.mu.Unlock()
	ce.GoToPage(ctx, n)
}

// Filter returns a copy of the current filter state.
func (ce *CatalogEngine) Filter() FilterState {
	ce.mu.Lock()
	defer ce.mu.Unlock()
	return ce.filter
}

// View returns the current snapshot of the engine state.
func (ce *CatalogEngine) View() CatalogView {
	ce.mu.Lock()
	defer ce.mu.Unlock()
	return CatalogView{
		Page:        ce.filter.Page,
		PageSize:    ce.filter.PageSize,
		TotalPages:  ce.totalPages,
		TotalBooks:  ce.totalBooks,
		ServerPaged: ce.serverPaged,
		Loading:     ce.loading,
		Error:       ce.lastErr,
	}
}

// applyBooks installs a full snapshot, unless a fresher load supersedes it.
func (ce *CatalogEngine) applyBooks(token uint64, books []Book) {
	ce.mu.Lock()
	defer ce.mu.Unlock()
	if token != ce.loadSeq {
		ce.logger.Debug("catalog: discarding stale full load", zap.Uint64("token", token))
		return
	}
	ce.books = books
	ce.serverPaged = false
	ce.loading = false
	ce.lastErr = ""
	ce.recompute()
}

// applyPage installs a server-driven page, unless a fresher load supersedes it.
func (ce *CatalogEngine) applyPage(token uint64, bp BookPage) {
	ce.mu.Lock()
	defer ce.mu.Unlock()
	if token != ce.loadSeq {
		ce.logger.Debug("catalog: discarding stale page load", zap.Uint64("token", token))
		return
	}
	ce.books = bp.Items
	ce.serverPaged = true
	ce.loading = false
	ce.lastErr = ""
	ce.totalPages = bp.TotalPages
	ce.totalBooks = bp.TotalElements
	ce.recompute()
}

func (ce *CatalogEngine) failLoad(token uint64, err error) {
	ce.mu.Lock()
	defer ce.mu.Unlock()
	if token != ce.loadSeq {
		return
	}
	ce.loading = false
	ce.lastErr = err.Error()
}

// recompute rebuilds the filtered subset. Callers must hold the mutex.
// In client-side mode the page counters derive from the filtered length and
// the page index is clamped back into range after a shrink.
func (ce *CatalogEngine) recompute() {
	filtered := make([]Book, 0, len(ce.books))
	for _, b := range ce.books {
		if ce.filter.Matches(b) {
			filtered = append(filtered, b)
		}
	}
	ce.filtered = filtered

	if ce.serverPaged {
		return
	}

	ce.totalBooks = len(filtered)
	ce.totalPages = (len(filtered) + ce.filter.PageSize - 1) / ce.filter.PageSize
	if ce.totalPages > 0 && ce.filter.Page >= ce.totalPages {
		ce.filter.Page = ce.totalPages - 1
	}
	if ce.totalPages == 0 {
		ce.filter.Page = 0
	}
}

func nullDecimalEqual(a, b decimal.NullDecimal) bool {
	if a.Valid != b.Valid {
		return false
	}
	if !a.Valid {
		return true
	}
	return a.Decimal.Equal(b.Decimal)
}
