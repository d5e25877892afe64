package main

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestStoreService(t *testing.T, mockAPI *MockCatalogAPI, minSelection int) (*StoreService, *SelectionRegistry, *MockQueuer) {
	t.Helper()
	config := &Config{
		Store: StoreConfig{PageSize: 2, MinSelection: minSelection},
	}
	engine := NewCatalogEngine(zap.NewNop(), mockAPI, false, config.Store.PageSize)
	engine.SetBooks(testCatalogBooks())
	selection := NewSelectionRegistry(zap.NewNop(), nil, minSelection)

	queue := &MockQueuer{
		PushFunc: func(ctx context.Context, qid string, order ArchivedOrder) error { return nil },
	}
	svc := NewStoreService(zap.NewNop(), config, NewMockClocker(), NewMockUIDHandler("fixed", true),
		mockAPI, engine, selection, queue)
	ss, ok := svc.(*StoreService)
	require.True(t, ok)
	return ss, selection, queue
}

func validTestOrderRequest() OrderRequest {
	return OrderRequest{
		FirstName: "Amina",
		LastName:  "Benali",
		Email:     "amina@example.ma",
		Phone:     "0600000000",
		Address:   "12 rue des livres",
	}
}

// TestStoreServiceBrowseCatalog ensures filter updates and page moves flow
// through to the engine view.
func TestStoreServiceBrowseCatalog(t *testing.T) {
	ss, _, _ := newTestStoreService(t, &MockCatalogAPI{}, 1)

	category := "fiction"
	view, books := ss.BrowseCatalog(context.Background(), FilterUpdate{Category: &category}, nil)
	assert.Equal(t, 0, view.Page)
	assert.Equal(t, 2, view.TotalBooks)
	require.Len(t, books, 2)
	assert.Equal(t, 3, books[0].ID)

	page := 5
	view, _ = ss.BrowseCatalog(context.Background(), FilterUpdate{}, &page)
	assert.Equal(t, 0, view.Page)
}

// TestStoreServiceSelect ensures only catalog snapshot books are selectable.
func TestStoreServiceSelect(t *testing.T) {
	ss, selection, _ := newTestStoreService(t, &MockCatalogAPI{}, 1)

	book, err := ss.Select(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "L'Étranger", book.Title)
	assert.True(t, selection.Contains(3))

	_, err = ss.Select(context.Background(), 999)
	assert.ErrorIs(t, err, ErrBookNotFound)
}

// TestStoreServiceSubmitOrderValidation ensures invalid checkout requests
// never reach the upstream and leave the selection untouched.
func TestStoreServiceSubmitOrderValidation(t *testing.T) {
	upstreamCalled := false
	mockAPI := &MockCatalogAPI{
		SubmitOrderFunc: func(ctx context.Context, req OrderRequest) (OrderRecord, error) {
			upstreamCalled = true
			return OrderRecord{}, nil
		},
	}
	ss, selection, _ := newTestStoreService(t, mockAPI, 1)
	_, err := ss.Select(context.Background(), 1)
	require.NoError(t, err)

	t.Run("missing email", func(t *testing.T) {
		req := validTestOrderRequest()
		req.Email = ""
		_, err := ss.SubmitOrder(context.Background(), req)
		assert.EqualError(t, err, "email is required")
		assert.False(t, upstreamCalled)
		assert.Equal(t, 1, selection.Size())
	})

	t.Run("malformed email", func(t *testing.T) {
		req := validTestOrderRequest()
		req.Email = "not-an-email"
		_, err := ss.SubmitOrder(context.Background(), req)
		assert.ErrorIs(t, err, ErrEmailNotValid)
		assert.False(t, upstreamCalled)
		assert.Equal(t, 1, selection.Size())
	})

	t.Run("no items and empty selection", func(t *testing.T) {
		selection.Clear(context.Background())
		_, err := ss.SubmitOrder(context.Background(), validTestOrderRequest())
		assert.ErrorIs(t, err, ErrNoOrderItems)
		assert.False(t, upstreamCalled)
	})
}

// TestStoreServiceSubmitOrderThreshold ensures checkout requires the
// configured minimum selection.
func TestStoreServiceSubmitOrderThreshold(t *testing.T) {
	upstreamCalled := false
	mockAPI := &MockCatalogAPI{
		SubmitOrderFunc: func(ctx context.Context, req OrderRequest) (OrderRecord, error) {
			upstreamCalled = true
			return OrderRecord{OrderNumber: "CMD-1"}, nil
		},
	}
	ss, selection, _ := newTestStoreService(t, mockAPI, 3)

	_, err := ss.Select(context.Background(), 1)
	require.NoError(t, err)
	_, err = ss.Select(context.Background(), 2)
	require.NoError(t, err)

	_, err = ss.SubmitOrder(context.Background(), validTestOrderRequest())
	assert.ErrorIs(t, err, ErrSelectionTooSmall)
	assert.False(t, upstreamCalled)
	assert.Equal(t, 2, selection.Size())

	_, err = ss.Select(context.Background(), 3)
	require.NoError(t, err)
	rec, err := ss.SubmitOrder(context.Background(), validTestOrderRequest())
	require.NoError(t, err)
	assert.Equal(t, "CMD-1", rec.OrderNumber)
	assert.True(t, upstreamCalled)
}

// TestStoreServiceSubmitOrderSuccess ensures a successful submission clears
// the selection and queues one archive trace.
func TestStoreServiceSubmitOrderSuccess(t *testing.T) {
	mockAPI := &MockCatalogAPI{
		SubmitOrderFunc: func(ctx context.Context, req OrderRequest) (OrderRecord, error) {
			assert.Len(t, req.Items, 2)
			return OrderRecord{ID: 9, OrderNumber: "CMD-9", Status: "PENDING"}, nil
		},
	}
	ss, selection, queue := newTestStoreService(t, mockAPI, 1)

	var pushed []ArchivedOrder
	queue.PushFunc = func(ctx context.Context, qid string, order ArchivedOrder) error {
		assert.Equal(t, ArchiveQueue, qid)
		pushed = append(pushed, order)
		return nil
	}

	_, err := ss.Select(context.Background(), 1)
	require.NoError(t, err)
	_, err = ss.Select(context.Background(), 4)
	require.NoError(t, err)

	rec, err := ss.SubmitOrder(context.Background(), validTestOrderRequest())
	require.NoError(t, err)
	assert.Equal(t, "CMD-9", rec.OrderNumber)
	assert.Equal(t, 0, selection.Size())

	require.Len(t, pushed, 1)
	assert.Equal(t, "o:fixed", pushed[0].ID)
	assert.Equal(t, "CMD-9", pushed[0].OrderNumber)
	assert.Equal(t, "amina@example.ma", pushed[0].Email)
	assert.Equal(t, decimal.NewFromInt(95).String(), pushed[0].TotalPrice)
	assert.Equal(t, "2023-07-02T00:00:00Z", pushed[0].SubmittedAt)
}

// TestStoreServiceSubmitOrderUpstreamFailure ensures a rejected submission
// keeps the selection for a retry.
func TestStoreServiceSubmitOrderUpstreamFailure(t *testing.T) {
	mockAPI := &MockCatalogAPI{
		SubmitOrderFunc: func(ctx context.Context, req OrderRequest) (OrderRecord, error) {
			return OrderRecord{}, &UpstreamError{StatusCode: 409, Message: "book 1 is out of stock"}
		},
	}
	ss, selection, queue := newTestStoreService(t, mockAPI, 1)

	pushCount := 0
	queue.PushFunc = func(ctx context.Context, qid string, order ArchivedOrder) error {
		pushCount++
		return nil
	}

	_, err := ss.Select(context.Background(), 1)
	require.NoError(t, err)

	_, err = ss.SubmitOrder(context.Background(), validTestOrderRequest())
	require.Error(t, err)

	var ue *UpstreamError
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, "book 1 is out of stock", ue.Message)
	assert.Equal(t, 1, selection.Size())
	assert.Equal(t, 0, pushCount)
}
