package main

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

// GetSelection serves the current selection read model.
func (api *APIHandler) GetSelection(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), ContextRequestID)
	view := api.store.SelectionView()
	resp := GenericResponse(requestID, http.StatusOK, "Selection fetched successfully.", &view.Count, view)
	if err := WriteResponse(w, resp); err != nil {
		api.logger.Error("failed to send selection response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// SelectBook adds a book of the current catalog snapshot to the selection.
// Selecting an already selected book changes nothing.
func (api *APIHandler) SelectBook(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), ContextRequestID)
	id, err := strconv.Atoi(ps.ByName("id"))
	if err != nil {
		api.rejectBadRequest(w, requestID, "book id provided is not valid")
		return
	}

	if _, err := api.store.Select(r.Context(), id); err != nil {
		if errors.Is(err, ErrBookNotFound) {
			api.logger.Error("book does not exist in the catalog", zap.Int("book.id", id), zap.String("request.id", requestID))
			errResp := NewAPIError(requestID, http.StatusNotFound, "book does not exist in the catalog", EmptyData)
			if err = WriteErrorResponse(w, errResp); err != nil {
				api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
			}
			return
		}
		api.logger.Error("failed to select book", zap.Int("book.id", id), zap.String("request.id", requestID), zap.Error(err))
		errResp := NewAPIError(requestID, http.StatusInternalServerError, "failed to select the book", EmptyData)
		if err = WriteErrorResponse(w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}

	view := api.store.SelectionView()
	resp := GenericResponse(requestID, http.StatusOK, "Book added to the selection.", &view.Count, view)
	if err := WriteResponse(w, resp); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// DeselectBook removes a book from the selection. Removing an absent book
// changes nothing.
func (api *APIHandler) DeselectBook(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), ContextRequestID)
	id, err := strconv.Atoi(ps.ByName("id"))
	if err != nil {
		api.rejectBadRequest(w, requestID, "book id provided is not valid")
		return
	}

	api.store.Deselect(r.Context(), id)
	view := api.store.SelectionView()
	resp := GenericResponse(requestID, http.StatusOK, "Book removed from the selection.", &view.Count, view)
	if err := WriteResponse(w, resp); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// ClearSelection empties the whole selection.
func (api *APIHandler) ClearSelection(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), ContextRequestID)
	api.store.ClearSelection(r.Context())
	view := api.store.SelectionView()
	resp := GenericResponse(requestID, http.StatusOK, "Selection cleared.", &view.Count, view)
	if err := WriteResponse(w, resp); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// CreateOrder validates and submits a checkout request. A request with no
// items checks out the current selection. Validation failures are rejected
// before any upstream call and leave the selection untouched.
func (api *APIHandler) CreateOrder(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), ContextRequestID)
	req := OrderRequest{}
	if err := DecodeOrderRequestBody(r, &req); err != nil {
		api.logger.Error("failed to decode order request body", zap.String("request.id", requestID), zap.Error(err))
		api.rejectBadRequest(w, requestID, "order request body is not valid")
		return
	}

	record, err := api.store.SubmitOrder(r.Context(), req)
	if err != nil {
		api.respondOrderFailure(w, requestID, err)
		return
	}

	resp := GenericResponse(requestID, http.StatusCreated, "Order submitted successfully.", nil, record)
	if err := WriteResponse(w, resp); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

func (api *APIHandler) respondOrderFailure(w http.ResponseWriter, requestID string, err error) {
	var mfe missingFieldError
	var ue *UpstreamError
	var errResp *APIError
	switch {
	case errors.As(err, &mfe),
		errors.Is(err, ErrNoOrderItems),
		errors.Is(err, ErrEmailNotValid),
		errors.Is(err, ErrItemQuantity):
		errResp = NewAPIError(requestID, http.StatusBadRequest, err.Error(), EmptyData)
	case errors.Is(err, ErrSelectionTooSmall):
		message := api.i18n.Translate("validation.minimumBooks", map[string]string{
			"count": strconv.Itoa(api.store.SelectionView().MinRequired),
		})
		errResp = NewAPIError(requestID, http.StatusBadRequest, message, EmptyData)
	case errors.As(err, &ue):
		errResp = NewAPIError(requestID, http.StatusBadGateway, ue.Message, EmptyData)
	default:
		errResp = NewAPIError(requestID, http.StatusBadGateway, "failed to submit the order", EmptyData)
	}
	api.logger.Error("failed to submit order", zap.String("request.id", requestID), zap.Error(err))
	if err := WriteErrorResponse(w, errResp); err != nil {
		api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
	}
}
