package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

var EmptyData = struct{}{}

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
	logger      *zap.Logger
	config      *Config
	stats       *Statistics
	mode        *Maintenance
	clock       Clocker
	idsHandler  UIDHandler
	bookService BookServiceProvider
	authService AuthServiceProvider
	tokens      TokenHandler
}

// NewAPIHandler provides a new instance of APIHandler.
func NewAPIHandler(logger *zap.Logger, config *Config, stats *Statistics, clock Clocker, ids UIDHandler,
	bs BookServiceProvider, as AuthServiceProvider, tokens TokenHandler,
) *APIHandler {
	m := &Maintenance{}
	m.enabled.Store(false)
	stats.status = make(map[int]uint64)
	stats.mu = &sync.RWMutex{}
	return &APIHandler{
		logger:      logger,
		config:      config,
		stats:       stats,
		mode:        m,
		clock:       clock,
		idsHandler:  ids,
		bookService: bs,
		authService: as,
		tokens:      tokens,
	}
}

// Index provides same details like `Status` handler by redirecting the request.
func (api *APIHandler) Index(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	http.Redirect(w, r, "/status", http.StatusSeeOther)
}

// Status provides basics details about the application to the public users.
func (api *APIHandler) Status(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	if err := json.NewEncoder(w).Encode(
		map[string]interface{}{
			"requestid": requestID,
			"status":    fmt.Sprintf("up & running since %.0f mins", api.clock.Now().Sub(api.stats.started).Minutes()),
			"message":   "Hello. Library catalog api is available. Enjoy :)",
		},
	); err != nil {
		api.logger.Error("failed to send status response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// NotFound returns the handler used for unknown routes.
func (api *APIHandler) NotFound() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=UTF-8")
		w.WriteHeader(http.StatusNotFound)
		if err := json.NewEncoder(w).Encode(
			map[string]string{
				"message": "this endpoint does not exist.",
			},
		); err != nil {
			api.logger.Error("failed to send not found response", zap.Error(err))
		}
	})
}

// failure logs the error and sends the matching error envelope. Every
// handler funnels its failures through this helper so the taxonomy
// (not-found / forbidden / conflict / validation / unauthenticated)
// stays consistent across endpoints.
func (api *APIHandler) failure(w http.ResponseWriter, r *http.Request, requestID, message string, err error) {
	api.logger.Error(message, zap.String("request.id", requestID), zap.Error(err))
	errResp := NewAPIError(requestID, StatusCodeOf(err), fmt.Sprintf("%s: %s", message, err), EmptyData)
	if werr := WriteErrorResponse(r.Context(), w, errResp); werr != nil {
		api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(werr))
	}
}

// badRequest sends a validation error envelope.
func (api *APIHandler) badRequest(w http.ResponseWriter, r *http.Request, requestID, message string, err error) {
	api.logger.Error(message, zap.String("request.id", requestID), zap.Error(err))
	errResp := NewAPIError(requestID, http.StatusBadRequest, fmt.Sprintf("%s: %s", message, err), EmptyData)
	if werr := WriteErrorResponse(r.Context(), w, errResp); werr != nil {
		api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(werr))
	}
}

// success sends the response envelope of a completed request.
func (api *APIHandler) success(w http.ResponseWriter, r *http.Request, requestID string, status int, message string, total *int, data interface{}) {
	resp := GenericResponse(requestID, status, message, total, data)
	if err := WriteResponse(r.Context(), w, resp); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}
