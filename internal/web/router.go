package web

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/setgame/internal/metrics"
	shared "github.com/mcoot/setgame/internal/middleware"
	"github.com/mcoot/setgame/internal/services/session"
	"github.com/mcoot/setgame/internal/web/handler"
	"github.com/mcoot/setgame/internal/web/middleware"
	"github.com/mcoot/setgame/internal/web/sse"
	"github.com/mcoot/setgame/internal/web/ws"
)

// RouterConfig holds configuration for the web router
type RouterConfig struct {
	Logger         *slog.Logger
	SessionService *session.Service
	HubManager     *sse.HubManager
	WSManager      *ws.Manager
	Metrics        *metrics.Metrics // optional
	StaticDir      string           // served under /static/ when set
}

// NewRouter creates the browser-facing router: HTML pages, htmx fragments
// and the per-session SSE and WebSocket streams
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	r.Use(middleware.Recovery(cfg.Logger, cfg.Metrics))
	r.Use(shared.RequestID)
	r.Use(shared.Logging(cfg.Logger, "web"))
	if cfg.Metrics != nil {
		r.Use(shared.Metrics(cfg.Metrics))
	}

	hubManager := cfg.HubManager
	if hubManager == nil {
		hubManager = sse.NewHubManager(cfg.Logger)
	}
	wsManager := cfg.WSManager
	if wsManager == nil {
		wsManager = ws.NewManager(cfg.Logger)
	}

	homeHandler := handler.NewHomeHandler()
	gameHandler := handler.NewGameHandler(cfg.SessionService, hubManager, wsManager, cfg.Logger)

	if cfg.StaticDir != "" {
		r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticDir))))
	}

	public := r.NewRoute().Subrouter()
	public.Use(middleware.Flash())
	public.HandleFunc("/", homeHandler.Home).Methods(http.MethodGet)
	public.HandleFunc("/sessions", gameHandler.Create).Methods(http.MethodPost)

	// Everything under a session needs its token (cookie, bearer or ?token=)
	game := r.PathPrefix("/sessions/{id}").Subrouter()
	game.Use(middleware.Flash())
	game.Use(middleware.SessionAuth(cfg.SessionService))
	game.HandleFunc("", gameHandler.View).Methods(http.MethodGet)
	game.HandleFunc("/board", gameHandler.Board).Methods(http.MethodGet)
	game.HandleFunc("/select", gameHandler.Select).Methods(http.MethodPost)
	game.HandleFunc("/hint", gameHandler.Hint).Methods(http.MethodPost)
	game.HandleFunc("/mode", gameHandler.Mode).Methods(http.MethodPost)
	game.HandleFunc("/pause", gameHandler.Pause).Methods(http.MethodPost)
	game.HandleFunc("/shuffle", gameHandler.Shuffle).Methods(http.MethodPost)
	game.HandleFunc("/restart", gameHandler.Restart).Methods(http.MethodPost)
	game.HandleFunc("/events", gameHandler.Events).Methods(http.MethodGet)
	game.HandleFunc("/ws", gameHandler.WebSocket).Methods(http.MethodGet)

	return r
}
