package main

import (
	"context"
	"time"
)

// This file contains mocks definitions needed to perform unit tests.

type MockCatalogAPI struct {
	FetchAllBooksFunc        func(ctx context.Context) ([]Book, error)
	FetchBooksPageFunc       func(ctx context.Context, page, size int) (BookPage, error)
	FetchBooksByCategoryFunc func(ctx context.Context, category string) ([]Book, error)
	SearchBooksFunc          func(ctx context.Context, keyword string) ([]Book, error)
	FetchActivePacksFunc     func(ctx context.Context) ([]Pack, error)
	FetchPackByIDFunc        func(ctx context.Context, id int) (Pack, error)
	FetchDailyOffersFunc     func(ctx context.Context) ([]Offer, error)
	SubmitOrderFunc          func(ctx context.Context, req OrderRequest) (OrderRecord, error)
}

// FetchAllBooks mocks the behavior of the upstream full list fetch.
func (m *MockCatalogAPI) FetchAllBooks(ctx context.Context) ([]Book, error) {
	return m.FetchAllBooksFunc(ctx)
}

// FetchBooksPage mocks the behavior of the upstream paginated fetch.
func (m *MockCatalogAPI) FetchBooksPage(ctx context.Context, page, size int) (BookPage, error) {
	return m.FetchBooksPageFunc(ctx, page, size)
}

// FetchBooksByCategory mocks the behavior of the upstream category fetch.
func (m *MockCatalogAPI) FetchBooksByCategory(ctx context.Context, category string) ([]Book, error) {
	return m.FetchBooksByCategoryFunc(ctx, category)
}

// SearchBooks mocks the behavior of the upstream keyword search.
func (m *MockCatalogAPI) SearchBooks(ctx context.Context, keyword string) ([]Book, error) {
	return m.SearchBooksFunc(ctx, keyword)
}

// FetchActivePacks mocks the behavior of the upstream packs fetch.
func (m *MockCatalogAPI) FetchActivePacks(ctx context.Context) ([]Pack, error) {
	return m.FetchActivePacksFunc(ctx)
}

// FetchPackByID mocks the behavior of the upstream single pack fetch.
func (m *MockCatalogAPI) FetchPackByID(ctx context.Context, id int) (Pack, error) {
	return m.FetchPackByIDFunc(ctx, id)
}

// FetchDailyOffers mocks the behavior of the upstream offers fetch.
func (m *MockCatalogAPI) FetchDailyOffers(ctx context.Context) ([]Offer, error) {
	return m.FetchDailyOffersFunc(ctx)
}

// SubmitOrder mocks the behavior of the upstream order submission.
func (m *MockCatalogAPI) SubmitOrder(ctx context.Context, req OrderRequest) (OrderRecord, error) {
	return m.SubmitOrderFunc(ctx, req)
}

type MockSelectionStore struct {
	SaveFunc func(ctx context.Context, books []Book) error
	LoadFunc func(ctx context.Context) ([]Book, error)
}

// Save mocks the behavior of persisting the selection snapshot.
func (m *MockSelectionStore) Save(ctx context.Context, books []Book) error {
	return m.SaveFunc(ctx, books)
}

// Load mocks the behavior of restoring the selection snapshot.
func (m *MockSelectionStore) Load(ctx context.Context) ([]Book, error) {
	return m.LoadFunc(ctx)
}

type MockPreferenceStore struct {
	SaveLanguageFunc func(ctx context.Context, code string) error
	LoadLanguageFunc func(ctx context.Context) (string, error)
}

// SaveLanguage mocks the behavior of persisting the language choice.
func (m *MockPreferenceStore) SaveLanguage(ctx context.Context, code string) error {
	return m.SaveLanguageFunc(ctx, code)
}

// LoadLanguage mocks the behavior of loading the persisted language choice.
func (m *MockPreferenceStore) LoadLanguage(ctx context.Context) (string, error) {
	return m.LoadLanguageFunc(ctx)
}

type MockQueuer struct {
	PushFunc func(ctx context.Context, qid string, order ArchivedOrder) error
	PopFunc  func(ctx context.Context, qids ...string) (string, ArchivedOrder, error)
}

// Push mocks the behavior of enqueueing an order trace.
func (m *MockQueuer) Push(ctx context.Context, qid string, order ArchivedOrder) error {
	return m.PushFunc(ctx, qid, order)
}

// Pop mocks the behavior of dequeueing an order trace.
func (m *MockQueuer) Pop(ctx context.Context, qids ...string) (string, ArchivedOrder, error) {
	return m.PopFunc(ctx, qids...)
}

type MockArchiver struct {
	ArchiveFunc  func(ctx context.Context, order ArchivedOrder) error
	ArchivedFunc func(ctx context.Context) ([]ArchivedOrder, error)
}

// Archive mocks the behavior of archiving an order trace.
func (m *MockArchiver) Archive(ctx context.Context, order ArchivedOrder) error {
	return m.ArchiveFunc(ctx, order)
}

// Archived mocks the behavior of listing the archived order traces.
func (m *MockArchiver) Archived(ctx context.Context) ([]ArchivedOrder, error) {
	return m.ArchivedFunc(ctx)
}

// MockClocker implements a fake Clocker.
type MockClocker struct {
	MockNow time.Time
}

// NewMockClocker returns a mocked instance with fixed time.
func NewMockClocker() *MockClocker {
	return &MockClocker{time.Date(2023, 0o7, 0o2, 0o0, 0o0, 0o0, 0o00000000, time.UTC)}
}

// Now returns an already defined time to be used as mock. This
// equals to `Sun, 02 Jul 2023 00:00:00 UTC` in time.RFC1123 format.
// equals to `2023-07-02 00:00:00 +0000 UTC` in String format.
func (mck *MockClocker) Now() time.Time {
	return mck.MockNow
}

// MockUIDHandler implements a fake UIDHandler.
type MockUIDHandler struct {
	MockedUID string
	Valid     bool
}

// NewMockUIDHandler returns a mocked instance with predictable id.
func NewMockUIDHandler(id string, valid bool) *MockUIDHandler {
	return &MockUIDHandler{MockedUID: id, Valid: valid}
}

// Generate constructs a predictable id to be used as mock.
func (muid *MockUIDHandler) Generate(prefix string) string {
	return prefix + ":" + muid.MockedUID
}

// IsValid mocks IsValid behavior by providing configured status.
func (muid *MockUIDHandler) IsValid(_, _ string) bool {
	return muid.Valid
}
