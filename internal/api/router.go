package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mcoot/setgame/internal/api/handler"
	"github.com/mcoot/setgame/internal/api/middleware"
	"github.com/mcoot/setgame/internal/metrics"
	shared "github.com/mcoot/setgame/internal/middleware"
	"github.com/mcoot/setgame/internal/services/session"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger         *slog.Logger
	SessionService *session.Service
	Metrics        *metrics.Metrics
	Gatherer       prometheus.Gatherer // Serves /metrics when set
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	sessionHandler := handler.NewSessionHandler(cfg.SessionService)

	// Create middleware
	authMiddleware := middleware.SessionAuth(cfg.SessionService)
	loggingMiddleware := shared.Logging(cfg.Logger, "api")
	recoveryMiddleware := middleware.Recovery(cfg.Logger, cfg.Metrics)

	if cfg.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(shared.RequestID)
	api.Use(loggingMiddleware)
	if cfg.Metrics != nil {
		api.Use(shared.Metrics(cfg.Metrics))
	}

	// Health check endpoint (no auth)
	api.HandleFunc("/health", sessionHandler.Health).Methods(http.MethodGet)

	api.HandleFunc("/modes", sessionHandler.Modes).Methods(http.MethodGet)
	api.HandleFunc("/sessions", sessionHandler.Create).Methods(http.MethodPost)

	// Session routes (all require the session's token)
	sessions := api.PathPrefix("/sessions/{id}").Subrouter()
	sessions.Use(authMiddleware)
	sessions.HandleFunc("", sessionHandler.Get).Methods(http.MethodGet)
	sessions.HandleFunc("", sessionHandler.Delete).Methods(http.MethodDelete)
	sessions.HandleFunc("/select", sessionHandler.Select).Methods(http.MethodPost)
	sessions.HandleFunc("/hint", sessionHandler.Hint).Methods(http.MethodGet, http.MethodPost)
	sessions.HandleFunc("/mode", sessionHandler.SetMode).Methods(http.MethodPost, http.MethodPut)
	sessions.HandleFunc("/pause", sessionHandler.Pause).Methods(http.MethodPost)
	sessions.HandleFunc("/shuffle", sessionHandler.Shuffle).Methods(http.MethodPost)
	sessions.HandleFunc("/restart", sessionHandler.Restart).Methods(http.MethodPost)

	return r
}
