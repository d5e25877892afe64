package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CatalogPayload couples the visible page of books with the engine view.
type CatalogPayload struct {
	View  CatalogView `json:"view"`
	Books []Book      `json:"books"`
}

// Index provides same details like `Status` handler by redirecting the request.
func (api *APIHandler) Index(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	http.Redirect(w, r, "/status", http.StatusSeeOther)
}

// Status provides basics details about the application to the public users.
func (api *APIHandler) Status(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), ContextRequestID)
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	if err := json.NewEncoder(w).Encode(
		map[string]interface{}{
			"requestid": requestID,
			"status":    fmt.Sprintf("up & running since %.0f mins", api.clock.Now().Sub(api.stats.started).Minutes()),
			"message":   "Hello. Maktaba storefront api is available. Enjoy :)",
		},
	); err != nil {
		api.logger.Error("failed to send status response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// GetCatalog applies the filter described by the query parameters and
// returns the visible page of books. Absent parameters clear the matching
// criterion, so the caller always describes its full browsing state.
func (api *APIHandler) GetCatalog(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), ContextRequestID)
	q := r.URL.Query()

	upd := FilterUpdate{
		Query:    stringPtr(q.Get("query")),
		Category: stringPtr(q.Get("category")),
		Language: stringPtr(q.Get("language")),
	}

	minPrice, err := parsePriceBound(q.Get("min_price"))
	if err != nil {
		api.rejectBadRequest(w, requestID, "min_price is not a valid decimal")
		return
	}
	upd.MinPrice = minPrice

	maxPrice, err := parsePriceBound(q.Get("max_price"))
	if err != nil {
		api.rejectBadRequest(w, requestID, "max_price is not a valid decimal")
		return
	}
	upd.MaxPrice = maxPrice

	if raw := q.Get("size"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil || size <= 0 {
			api.rejectBadRequest(w, requestID, "size is not a valid page size")
			return
		}
		upd.PageSize = &size
	}

	var page *int
	if raw := q.Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			api.rejectBadRequest(w, requestID, "page is not a valid index")
			return
		}
		page = &n
	}

	view, books := api.store.BrowseCatalog(r.Context(), upd, page)
	message := "Catalog fetched successfully."
	if view.Error != "" {
		message = "Catalog currently degraded: " + view.Error
	}
	resp := GenericResponse(requestID, http.StatusOK, message, &view.TotalBooks, CatalogPayload{View: view, Books: books})
	if err := WriteResponse(w, resp); err != nil {
		api.logger.Error("failed to send catalog response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// RefreshCatalog forces a reload of the snapshot from the upstream store.
func (api *APIHandler) RefreshCatalog(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), ContextRequestID)
	if err := api.store.RefreshCatalog(r.Context()); err != nil {
		api.logger.Error("failed to refresh catalog", zap.String("request.id", requestID), zap.Error(err))
		errResp := NewAPIError(requestID, http.StatusBadGateway, "failed to refresh the catalog", err.Error())
		if err = WriteErrorResponse(w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	view, books := api.store.BrowseCatalog(r.Context(), FilterUpdate{}, nil)
	resp := GenericResponse(requestID, http.StatusOK, "Catalog refreshed successfully.", &view.TotalBooks, CatalogPayload{View: view, Books: books})
	if err := WriteResponse(w, resp); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// GetPacks serves the active packs, degrading to an empty list when the
// upstream is unreachable.
func (api *APIHandler) GetPacks(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), ContextRequestID)
	packs, err := api.store.Packs(r.Context())
	message := "Packs fetched successfully."
	if err != nil {
		api.logger.Error("failed to get packs", zap.String("request.id", requestID), zap.Error(err))
		packs = []Pack{}
		message = "Packs unavailable at the moment."
	}
	total := len(packs)
	resp := GenericResponse(requestID, http.StatusOK, message, &total, packs)
	if err := WriteResponse(w, resp); err != nil {
		api.logger.Error("failed to send packs response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// GetOnePack serves a single pack by its identifier.
func (api *APIHandler) GetOnePack(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), ContextRequestID)
	id, err := strconv.Atoi(ps.ByName("id"))
	if err != nil {
		api.rejectBadRequest(w, requestID, "pack id provided is not valid")
		return
	}

	pack, err := api.store.PackByID(r.Context(), id)
	if errors.Is(err, ErrPackNotFound) {
		api.logger.Error("pack does not exist", zap.Int("pack.id", id), zap.String("request.id", requestID))
		errResp := NewAPIError(requestID, http.StatusNotFound, "pack does not exist", EmptyData)
		if err = WriteErrorResponse(w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	if err != nil {
		api.logger.Error("failed to get pack", zap.Int("pack.id", id), zap.String("request.id", requestID), zap.Error(err))
		errResp := NewAPIError(requestID, http.StatusBadGateway, "failed to get the pack", EmptyData)
		if err = WriteErrorResponse(w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	resp := GenericResponse(requestID, http.StatusOK, "Pack fetched successfully.", nil, pack)
	if err = WriteResponse(w, resp); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// GetOffers serves the current daily offers, degrading to an empty list
// when the upstream is unreachable.
func (api *APIHandler) GetOffers(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), ContextRequestID)
	offers, err := api.store.Offers(r.Context())
	message := "Offers fetched successfully."
	if err != nil {
		api.logger.Error("failed to get offers", zap.String("request.id", requestID), zap.Error(err))
		offers = []Offer{}
		message = "Offers unavailable at the moment."
	}
	total := len(offers)
	resp := GenericResponse(requestID, http.StatusOK, message, &total, offers)
	if err := WriteResponse(w, resp); err != nil {
		api.logger.Error("failed to send offers response", zap.String("request.id", requestID), zap.Error(err))
	}
}

func (api *APIHandler) rejectBadRequest(w http.ResponseWriter, requestID, message string) {
	errResp := NewAPIError(requestID, http.StatusBadRequest, message, EmptyData)
	if err := WriteErrorResponse(w, errResp); err != nil {
		api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
	}
}

func stringPtr(s string) *string {
	return &s
}

// parsePriceBound turns a query parameter into an optional price bound. An
// empty parameter clears the bound.
func parsePriceBound(raw string) (*decimal.NullDecimal, error) {
	if raw == "" {
		return &decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, err
	}
	return &decimal.NullDecimal{Decimal: d, Valid: true}, nil
}
