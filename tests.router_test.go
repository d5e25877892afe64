package main

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// TestSetupStoreRoutes ensures all expected storefront endpoints are implemented.
func TestSetupStoreRoutes(t *testing.T) {
	testCases := []struct {
		name        string
		request     *http.Request
		implemented bool
	}{
		{
			"index endpoint",
			httptest.NewRequest(http.MethodGet, "/", nil),
			true,
		},
		{
			"status endpoint",
			httptest.NewRequest(http.MethodGet, "/status", nil),
			true,
		},
		{
			"fetch catalog endpoint",
			httptest.NewRequest(http.MethodGet, "/v1/catalog", nil),
			true,
		},
		{
			"fetch catalog endpoint with slash",
			httptest.NewRequest(http.MethodGet, "/v1/catalog/", nil),
			true,
		},
		{
			"refresh catalog endpoint",
			httptest.NewRequest(http.MethodPost, "/v1/catalog/refresh", nil),
			true,
		},
		{
			"fetch packs endpoint",
			httptest.NewRequest(http.MethodGet, "/v1/packs", nil),
			true,
		},
		{
			"fetch single pack endpoint",
			httptest.NewRequest(http.MethodGet, "/v1/packs/5", nil),
			true,
		},
		{
			"fetch offers endpoint",
			httptest.NewRequest(http.MethodGet, "/v1/offers", nil),
			true,
		},
		{
			"fetch selection endpoint",
			httptest.NewRequest(http.MethodGet, "/v1/selection", nil),
			true,
		},
		{
			"select book endpoint",
			httptest.NewRequest(http.MethodPost, "/v1/selection/5", nil),
			true,
		},
		{
			"deselect book endpoint",
			httptest.NewRequest(http.MethodDelete, "/v1/selection/5", nil),
			true,
		},
		{
			"clear selection endpoint",
			httptest.NewRequest(http.MethodDelete, "/v1/selection", nil),
			true,
		},
		{
			"create order endpoint",
			httptest.NewRequest(http.MethodPost, "/v1/orders", nil),
			true,
		},
		{
			"fetch languages endpoint",
			httptest.NewRequest(http.MethodGet, "/v1/i18n/languages", nil),
			true,
		},
		{
			"switch language endpoint",
			httptest.NewRequest(http.MethodPut, "/v1/i18n/language", nil),
			true,
		},
		{
			"translate key endpoint",
			httptest.NewRequest(http.MethodGet, "/v1/i18n/translate?key=home", nil),
			true,
		},
		{
			"format price endpoint",
			httptest.NewRequest(http.MethodGet, "/v1/i18n/price?amount=50", nil),
			true,
		},
		{
			"invalid api endpoint",
			httptest.NewRequest(http.MethodGet, "/v1", nil),
			false,
		},
		{
			"invalid catalog endpoint",
			httptest.NewRequest(http.MethodGet, "/catalog", nil),
			false,
		},
	}

	mockAPI := &MockCatalogAPI{
		FetchAllBooksFunc: func(ctx context.Context) ([]Book, error) {
			return testCatalogBooks(), nil
		},
		FetchActivePacksFunc: func(ctx context.Context) ([]Pack, error) {
			return []Pack{}, nil
		},
		FetchPackByIDFunc: func(ctx context.Context, id int) (Pack, error) {
			return Pack{ID: id}, nil
		},
		FetchDailyOffersFunc: func(ctx context.Context) ([]Offer, error) {
			return []Offer{}, nil
		},
	}
	api, _ := newTestAPIHandler(t, mockAPI, 1)
	router := httprouter.New()
	m := &MiddlewareMap{public: (&Middlewares{}).Chain, ops: (&Middlewares{}).Chain}
	api.SetupStoreRoutes(router, m)

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, tc.request)
			if tc.implemented {
				assert.NotEqual(t, 404, w.Code)
			} else {
				assert.Equal(t, 404, w.Code)
			}
		})
	}
}

// TestSetupOpsRoutes ensures all expected operations endpoints are implemented.
func TestSetupOpsRoutes(t *testing.T) {
	testCases := []struct {
		name        string
		request     *http.Request
		implemented bool
	}{
		{
			"fetch configs endpoint",
			httptest.NewRequest(http.MethodGet, "/ops/configs", nil),
			true,
		},
		{
			"fetch stats endpoint",
			httptest.NewRequest(http.MethodGet, "/ops/stats", nil),
			true,
		},
		{
			"maintenance mode endpoint",
			httptest.NewRequest(http.MethodGet, "/ops/maintenance", nil),
			true,
		},
		{
			"memory stats endpoint",
			httptest.NewRequest(http.MethodGet, "/ops/debug/vars", nil),
			true,
		},
		{
			"invalid ops endpoint",
			httptest.NewRequest(http.MethodGet, "/ops", nil),
			false,
		},
		{
			"unknown ops endpoint",
			httptest.NewRequest(http.MethodGet, "/ops/unknown", nil),
			false,
		},
		{
			"disabled profiler endpoint",
			httptest.NewRequest(http.MethodGet, "/ops/debug/pprof/", nil),
			false,
		},
	}

	config := &Config{ProfilerEnable: false}
	api := NewAPIHandler(zap.NewNop(), config, &Statistics{started: NewMockClocker().Now()}, NewMockClocker(), NewMockUIDHandler("", true), nil, nil)
	router := httprouter.New()
	m := &MiddlewareMap{public: (&Middlewares{}).Chain, ops: (&Middlewares{}).Chain}
	api.SetupOpsRoutes(router, m)

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, tc.request)
			if tc.implemented {
				assert.NotEqual(t, 404, w.Code)
			} else {
				assert.Equal(t, 404, w.Code)
			}
		})
	}
}

// TestSetupRoutes ensures all expected endpoints are implemented.
func TestSetupRoutes(t *testing.T) {
	testCases := []struct {
		name               string
		OpsEndpointsEnable bool
		request            *http.Request
		implemented        bool
	}{
		{
			"ops disable:fetch configs endpoint",
			false,
			httptest.NewRequest(http.MethodGet, "/ops/configs", nil),
			false,
		},
		{
			"ops enable:fetch configs endpoint",
			true,
			httptest.NewRequest(http.MethodGet, "/ops/configs", nil),
			true,
		},
		{
			"ops disable:disabled profiler endpoint",
			false,
			httptest.NewRequest(http.MethodGet, "/ops/debug/pprof/", nil),
			false,
		},
		{
			"ops enable:disabled profiler endpoint",
			true,
			httptest.NewRequest(http.MethodGet, "/ops/debug/pprof/", nil),
			false,
		},
		{
			"ops disable:fetch catalog endpoint",
			false,
			httptest.NewRequest(http.MethodGet, "/v1/catalog", nil),
			true,
		},
		{
			"ops enable:fetch catalog endpoint",
			true,
			httptest.NewRequest(http.MethodGet, "/v1/catalog", nil),
			true,
		},
		{
			"swagger endpoint",
			false,
			httptest.NewRequest(http.MethodGet, "/swagger/", nil),
			true,
		},
		{
			"invalid ops endpoint",
			false,
			httptest.NewRequest(http.MethodGet, "/ops/", nil),
			false,
		},
		{
			"invalid catalog endpoint",
			false,
			httptest.NewRequest(http.MethodGet, "/catalog/", nil),
			false,
		},
	}

	api, _ := newTestAPIHandler(t, &MockCatalogAPI{}, 1)
	m := &MiddlewareMap{public: (&Middlewares{}).Chain, ops: (&Middlewares{}).Chain}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			router := httprouter.New()
			api.config.OpsEndpointsEnable = tc.OpsEndpointsEnable
			api.config.ProfilerEnable = false
			api.SetupRoutes(router, m)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, tc.request)
			if tc.implemented {
				assert.NotEqual(t, 404, w.Code)
			} else {
				assert.Equal(t, 404, w.Code)
			}
		})
	}
}

// TestSetupRoutes_NotFound ensures exact status code and json response body when a user requests an inexistant route.
func TestSetupRoutes_NotFound(t *testing.T) {
	m := &MiddlewareMap{public: (&Middlewares{}).Chain, ops: (&Middlewares{}).Chain}
	api, _ := newTestAPIHandler(t, &MockCatalogAPI{}, 1)
	router := httprouter.New()
	api.SetupRoutes(router, m)
	r := httptest.NewRequest(http.MethodGet, "/x/catalog/", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.Equal(t, "application/json; charset=UTF-8", res.Header.Get("Content-Type"))
	data, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	expected := `{"requestid":"", "status":404, "message":"resource does not exist", "data":{}}`
	assert.JSONEq(t, expected, string(data))
}
