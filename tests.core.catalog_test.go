package main

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testCatalogBooks() []Book {
	return []Book{
		{ID: 1, Title: "Go in Action", Author: "William Kennedy", Description: "Learn Go", Price: decimal.NewFromInt(50), Category: "development", Language: "en", Available: true},
		{ID: 2, Title: "Clean Architecture", Author: "Robert Martin", Description: "Software design", Price: decimal.NewFromInt(80), Category: "development", Language: "en", Available: true},
		{ID: 3, Title: "L'Étranger", Author: "Albert Camus", Description: "Roman", Price: decimal.NewFromInt(30), Category: "fiction", Language: "fr", Available: true},
		{ID: 4, Title: "Dune", Author: "Frank Herbert", Description: "Science fiction epic", Price: decimal.NewFromInt(45), Category: "fiction", Language: "en", Available: true},
		{ID: 5, Title: "The Lean Startup", Author: "Eric Ries", Description: "Business building", Price: decimal.NewFromInt(60), Category: "business", Language: "en", Available: true},
	}
}

// TestFilterMatches ensures every criterion combines with AND semantics.
func TestFilterMatches(t *testing.T) {
	books := testCatalogBooks()

	t.Run("query matches title author and description case-insensitively", func(t *testing.T) {
		fs := FilterState{Query: "go in action"}
		assert.True(t, fs.Matches(books[0]))
		fs = FilterState{Query: "CAMUS"}
		assert.True(t, fs.Matches(books[2]))
		fs = FilterState{Query: "business"}
		assert.True(t, fs.Matches(books[4]))
		fs = FilterState{Query: "nonexistent"}
		assert.False(t, fs.Matches(books[0]))
	})

	t.Run("category all matches everything", func(t *testing.T) {
		fs := FilterState{Category: FilterAll}
		for _, b := range books {
			assert.True(t, fs.Matches(b))
		}
	})

	t.Run("price bounds are inclusive", func(t *testing.T) {
		fs := FilterState{
			MinPrice: decimal.NullDecimal{Decimal: decimal.NewFromInt(50), Valid: true},
		}
		assert.True(t, fs.Matches(books[0]))  // exactly 50
		assert.False(t, fs.Matches(books[3])) // 45
		fs.MaxPrice = decimal.NullDecimal{Decimal: decimal.NewFromInt(60), Valid: true}
		assert.True(t, fs.Matches(books[4]))  // exactly 60
		assert.False(t, fs.Matches(books[1])) // 80
	})

	t.Run("all criteria must pass together", func(t *testing.T) {
		fs := FilterState{
			Query:    "go",
			Category: "development",
			Language: "en",
			MinPrice: decimal.NullDecimal{Decimal: decimal.NewFromInt(40), Valid: true},
		}
		assert.True(t, fs.Matches(books[0]))
		fs.Category = "fiction"
		assert.False(t, fs.Matches(books[0]))
	})
}

// TestCatalogEngineClientPaging covers the client-side slicing mode.
func TestCatalogEngineClientPaging(t *testing.T) {
	engine := NewCatalogEngine(zap.NewNop(), nil, false, 2)
	engine.SetBooks(testCatalogBooks())

	view := engine.View()
	assert.Equal(t, 0, view.Page)
	assert.Equal(t, 3, view.TotalPages)
	assert.Equal(t, 5, view.TotalBooks)
	assert.False(t, view.ServerPaged)

	t.Run("first page holds the first slice in fetch order", func(t *testing.T) {
		visible := engine.VisibleBooks()
		require.Len(t, visible, 2)
		assert.Equal(t, 1, visible[0].ID)
		assert.Equal(t, 2, visible[1].ID)
	})

	t.Run("navigation moves the slice without filtering again", func(t *testing.T) {
		engine.NextPage(context.Background())
		visible := engine.VisibleBooks()
		require.Len(t, visible, 2)
		assert.Equal(t, 3, visible[0].ID)

		engine.GoToPage(context.Background(), 2)
		visible = engine.VisibleBooks()
		require.Len(t, visible, 1)
		assert.Equal(t, 5, visible[0].ID)
	})

	t.Run("out of range navigation is silently ignored", func(t *testing.T) {
		engine.GoToPage(context.Background(), 2)
		engine.NextPage(context.Background())
		assert.Equal(t, 2, engine.View().Page)
		engine.GoToPage(context.Background(), -1)
		assert.Equal(t, 2, engine.View().Page)
		engine.GoToPage(context.Background(), 99)
		assert.Equal(t, 2, engine.View().Page)
	})

	t.Run("criteria change resets the page to zero", func(t *testing.T) {
		engine.GoToPage(context.Background(), 1)
		category := "development"
		changed := engine.UpdateFilter(FilterUpdate{Category: &category})
		assert.True(t, changed)
		view := engine.View()
		assert.Equal(t, 0, view.Page)
		assert.Equal(t, 2, view.TotalBooks)
	})

	t.Run("identical update changes nothing and keeps the page", func(t *testing.T) {
		engine.GoToPage(context.Background(), 0)
		category := "development"
		changed := engine.UpdateFilter(FilterUpdate{Category: &category})
		assert.False(t, changed)
		assert.Equal(t, 0, engine.View().Page)
	})
}

// TestCatalogEngineMinPriceScenario walks the min price bound through
// set, tighten and clear transitions.
func TestCatalogEngineMinPriceScenario(t *testing.T) {
	engine := NewCatalogEngine(zap.NewNop(), nil, false, 10)
	engine.SetBooks(testCatalogBooks())

	min := decimal.NullDecimal{Decimal: decimal.NewFromInt(45), Valid: true}
	engine.UpdateFilter(FilterUpdate{MinPrice: &min})
	assert.Equal(t, 4, engine.View().TotalBooks)

	min = decimal.NullDecimal{Decimal: decimal.NewFromInt(60), Valid: true}
	engine.UpdateFilter(FilterUpdate{MinPrice: &min})
	assert.Equal(t, 2, engine.View().TotalBooks)

	cleared := decimal.NullDecimal{}
	changed := engine.UpdateFilter(FilterUpdate{MinPrice: &cleared})
	assert.True(t, changed)
	assert.Equal(t, 5, engine.View().TotalBooks)
}

// TestCatalogEngineServerPagingFallback ensures a failed page fetch degrades
// exactly once to the full list for that load.
func TestCatalogEngineServerPagingFallback(t *testing.T) {
	pageCalls, fullCalls := 0, 0
	mockAPI := &MockCatalogAPI{
		FetchBooksPageFunc: func(ctx context.Context, page, size int) (BookPage, error) {
			pageCalls++
			return BookPage{}, errors.New("upstream paging broken")
		},
		FetchAllBooksFunc: func(ctx context.Context) ([]Book, error) {
			fullCalls++
			return testCatalogBooks(), nil
		},
	}

	engine := NewCatalogEngine(zap.NewNop(), mockAPI, true, 2)
	err := engine.Load(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 1, pageCalls)
	assert.Equal(t, 1, fullCalls)

	view := engine.View()
	assert.False(t, view.ServerPaged)
	assert.False(t, view.Loading)
	assert.Empty(t, view.Error)
	assert.Equal(t, 5, view.TotalBooks)
}

// TestCatalogEngineServerPaging ensures the server page and totals are used as is.
func TestCatalogEngineServerPaging(t *testing.T) {
	books := testCatalogBooks()
	mockAPI := &MockCatalogAPI{
		FetchBooksPageFunc: func(ctx context.Context, page, size int) (BookPage, error) {
			return BookPage{Items: books[:2], TotalPages: 3, TotalElements: 5}, nil
		},
	}

	engine := NewCatalogEngine(zap.NewNop(), mockAPI, true, 2)
	err := engine.Load(context.Background())
	assert.NoError(t, err)

	view := engine.View()
	assert.True(t, view.ServerPaged)
	assert.Equal(t, 3, view.TotalPages)
	assert.Equal(t, 5, view.TotalBooks)

	visible := engine.VisibleBooks()
	require.Len(t, visible, 2)
	assert.Equal(t, 1, visible[0].ID)
}

// TestCatalogEngineLoadFailure ensures a failed load surfaces as a non-fatal
// error state.
func TestCatalogEngineLoadFailure(t *testing.T) {
	mockAPI := &MockCatalogAPI{
		FetchAllBooksFunc: func(ctx context.Context) ([]Book, error) {
			return nil, errors.New("upstream down")
		},
	}

	engine := NewCatalogEngine(zap.NewNop(), mockAPI, false, 2)
	err := engine.Load(context.Background())
	assert.Error(t, err)

	view := engine.View()
	assert.False(t, view.Loading)
	assert.Equal(t, "upstream down", view.Error)
}

// TestCatalogEngineStaleLoadDiscarded ensures a slow response from an older
// load never overwrites the state installed by a fresher one.
func TestCatalogEngineStaleLoadDiscarded(t *testing.T) {
	books := testCatalogBooks()
	firstStarted := make(chan struct{})
	release := make(chan struct{})
	calls := 0
	var mu sync.Mutex

	mockAPI := &MockCatalogAPI{
		FetchAllBooksFunc: func(ctx context.Context) ([]Book, error) {
			mu.Lock()
			calls++
			first := calls == 1
			mu.Unlock()
			if first {
				close(firstStarted)
				<-release
				return books[:1], nil // stale result
			}
			return books, nil
		},
	}

	engine := NewCatalogEngine(zap.NewNop(), mockAPI, false, 10)

	done := make(chan struct{})
	go func() {
		_ = engine.Load(context.Background())
		close(done)
	}()

	<-firstStarted
	err := engine.Load(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 5, engine.View().TotalBooks)

	close(release)
	<-done
	assert.Equal(t, 5, engine.View().TotalBooks)
}
