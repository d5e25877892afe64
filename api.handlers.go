package main

import (
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Statistics holds app stats for ops.
type Statistics struct {
	version   string
	container bool
	runtime   string
	platform  string
	called    uint64
	started   time.Time
	status    map[int]uint64
	mu        *sync.RWMutex
}

// Maintenance holds app maintenance mode infos.
type Maintenance struct {
	enabled atomic.Bool
	message string
	started time.Time
}

// APIHandler defines the API handler.
type APIHandler struct {
	logger *zap.Logger
	config *Config
	stats  *Statistics
	mode   *Maintenance
	clock  Clocker
	ids    UIDHandler
	store  StoreServiceProvider
	i18n   I18nProvider
}

// NewAPIHandler provides a new instance of APIHandler.
func NewAPIHandler(
	logger *zap.Logger,
	config *Config,
	stats *Statistics,
	clock Clocker,
	ids UIDHandler,
	store StoreServiceProvider,
	i18n I18nProvider,
) *APIHandler {
	m := &Maintenance{}
	m.enabled.Store(false)
	stats.status = make(map[int]uint64)
	stats.mu = &sync.RWMutex{}
	return &APIHandler{
		logger: logger,
		config: config,
		stats:  stats,
		mode:   m,
		clock:  clock,
		ids:    ids,
		store:  store,
		i18n:   i18n,
	}
}

// NotFound replies to requests targeting unknown resources.
func (api *APIHandler) NotFound() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		errResp := NewAPIError(GetValueFromContext(r.Context(), ContextRequestID),
			http.StatusNotFound, "resource does not exist", EmptyData)
		if err := WriteErrorResponse(w, errResp); err != nil {
			api.logger.Error("failed to send not found response", zap.Error(err))
		}
	})
}
