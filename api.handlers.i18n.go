package main

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// LanguagesPayload describes the localization state of the storefront.
type LanguagesPayload struct {
	Languages []string `json:"languages"`
	Current   string   `json:"current"`
	Direction string   `json:"direction"`
}

// GetLanguages serves the supported languages and the active one with its
// text direction.
func (api *APIHandler) GetLanguages(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), ContextRequestID)
	direction := "ltr"
	if api.i18n.IsRTL() {
		direction = "rtl"
	}
	payload := LanguagesPayload{
		Languages: api.i18n.Languages(),
		Current:   api.i18n.Current(),
		Direction: direction,
	}
	total := len(payload.Languages)
	resp := GenericResponse(requestID, http.StatusOK, "Languages fetched successfully.", &total, payload)
	if err := WriteResponse(w, resp); err != nil {
		api.logger.Error("failed to send languages response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// SetLanguage switches and persists the active language.
func (api *APIHandler) SetLanguage(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), ContextRequestID)
	var body struct {
		Language string `json:"language"`
	}
	if err := json.NewDecoder(io.LimitReader(r.Body, 1024)).Decode(&body); err != nil {
		api.rejectBadRequest(w, requestID, "language request body is not valid")
		return
	}

	if err := api.i18n.SetLanguage(r.Context(), body.Language); err != nil {
		if errors.Is(err, ErrLanguageUnknown) {
			api.rejectBadRequest(w, requestID, "language provided is not supported")
			return
		}
		api.logger.Error("failed to set language", zap.String("language", body.Language), zap.String("request.id", requestID), zap.Error(err))
		errResp := NewAPIError(requestID, http.StatusInternalServerError, "failed to set the language", EmptyData)
		if err = WriteErrorResponse(w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}

	direction := "ltr"
	if api.i18n.IsRTL() {
		direction = "rtl"
	}
	resp := GenericResponse(requestID, http.StatusOK, "Language updated successfully.", nil,
		LanguagesPayload{Languages: api.i18n.Languages(), Current: api.i18n.Current(), Direction: direction})
	if err := WriteResponse(w, resp); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// TranslateKey resolves a dotted translation key. The language defaults to
// the request resolution order when not given explicitly. Any other query
// parameter is passed as a placeholder value.
func (api *APIHandler) TranslateKey(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), ContextRequestID)
	q := r.URL.Query()
	key := q.Get("key")
	if key == "" {
		api.rejectBadRequest(w, requestID, "key parameter is required")
		return
	}

	lang := q.Get("lang")
	if lang == "" {
		lang = api.i18n.RequestLanguage(r.Header.Get("Accept-Language"))
	}

	params := make(map[string]string)
	for name, values := range q {
		if name == "key" || name == "lang" || len(values) == 0 {
			continue
		}
		params[name] = values[0]
	}

	value := api.i18n.TranslateIn(lang, key, params)
	resp := GenericResponse(requestID, http.StatusOK, "Translation resolved successfully.", nil,
		map[string]string{"key": key, "language": lang, "value": value})
	if err := WriteResponse(w, resp); err != nil {
		api.logger.Error("failed to send translation response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// FormatPrice renders an amount with the numeral system and currency unit
// of the requested language.
func (api *APIHandler) FormatPrice(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), ContextRequestID)
	q := r.URL.Query()
	amount, err := decimal.NewFromString(q.Get("amount"))
	if err != nil {
		api.rejectBadRequest(w, requestID, "amount is not a valid decimal")
		return
	}

	lang := q.Get("lang")
	if lang == "" {
		lang = api.i18n.RequestLanguage(r.Header.Get("Accept-Language"))
	}

	resp := GenericResponse(requestID, http.StatusOK, "Price formatted successfully.", nil,
		map[string]string{"language": lang, "value": api.i18n.FormatCurrency(amount, lang)})
	if err := WriteResponse(w, resp); err != nil {
		api.logger.Error("failed to send price response", zap.String("request.id", requestID), zap.Error(err))
	}
}
