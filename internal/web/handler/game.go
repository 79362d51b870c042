package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/a-h/templ"

	"github.com/mcoot/setgame/internal/model"
	"github.com/mcoot/setgame/internal/services/session"
	"github.com/mcoot/setgame/internal/web/middleware"
	"github.com/mcoot/setgame/internal/web/sse"
	"github.com/mcoot/setgame/internal/web/templates/components"
	"github.com/mcoot/setgame/internal/web/templates/layout"
	"github.com/mcoot/setgame/internal/web/templates/pages"
	"github.com/mcoot/setgame/internal/web/ws"
)

// GameHandler handles game pages, actions and live streams
type GameHandler struct {
	sessions   *session.Service
	hubManager *sse.HubManager
	wsManager  *ws.Manager
	logger     *slog.Logger
}

// NewGameHandler creates a new GameHandler
func NewGameHandler(sessions *session.Service, hubManager *sse.HubManager, wsManager *ws.Manager, logger *slog.Logger) *GameHandler {
	return &GameHandler{
		sessions:   sessions,
		hubManager: hubManager,
		wsManager:  wsManager,
		logger:     logger,
	}
}

// Create starts a new game from the home page form
func (h *GameHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		middleware.SetFlash(w, middleware.FlashError, "Invalid form data")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	created, err := h.sessions.Create(r.Context(), model.Mode(r.FormValue("mode")))
	if errors.Is(err, model.ErrUnknownMode) {
		middleware.SetFlash(w, middleware.FlashError, "Unknown timer mode")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if err != nil {
		h.logger.Error("failed to create session", slog.Any("error", err))
		middleware.SetFlash(w, middleware.FlashError, "Could not start a game, please try again")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	middleware.SetSessionCookie(w, created.ID, created.Token)
	http.Redirect(w, r, "/sessions/"+string(created.ID), http.StatusSeeOther)
}

// View renders the game page
func (h *GameHandler) View(w http.ResponseWriter, r *http.Request) {
	id := middleware.GetSessionID(r.Context())

	state, err := h.sessions.State(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	data := pages.GameData{
		PageData: layout.PageData{
			Title: "Game",
			Flash: middleware.GetFlash(r.Context()),
		},
		GameData: components.GameData{SessionID: id, Game: state},
	}
	h.render(w, r, pages.Game(data))
}

// Board renders the game area fragment
func (h *GameHandler) Board(w http.ResponseWriter, r *http.Request) {
	h.renderGame(w, r, nil)
}

// Select toggles a card and re-renders the game area
func (h *GameHandler) Select(w http.ResponseWriter, r *http.Request) {
	id := middleware.GetSessionID(r.Context())

	card, err := model.ParseCardID(model.CardID(r.FormValue("card_id")))
	if err != nil {
		http.Error(w, "Invalid card", http.StatusBadRequest)
		return
	}

	if _, err := h.sessions.Select(r.Context(), id, card.ID()); err != nil {
		h.fail(w, r, err)
		return
	}
	h.renderGame(w, r, nil)
}

// Hint highlights the first triple on the board
func (h *GameHandler) Hint(w http.ResponseWriter, r *http.Request) {
	id := middleware.GetSessionID(r.Context())

	cards, _, err := h.sessions.Hint(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	hint := make([]model.CardID, len(cards))
	for i, c := range cards {
		hint[i] = c.ID()
	}
	h.renderGame(w, r, hint)
}

// Mode switches the timer mode
func (h *GameHandler) Mode(w http.ResponseWriter, r *http.Request) {
	id := middleware.GetSessionID(r.Context())

	mode, err := model.ParseMode(r.FormValue("mode"))
	if err != nil {
		http.Error(w, "Unknown timer mode", http.StatusBadRequest)
		return
	}

	if err := h.sessions.SetMode(r.Context(), id, mode); err != nil {
		h.fail(w, r, err)
		return
	}
	h.renderGame(w, r, nil)
}

// Pause toggles the pause state
func (h *GameHandler) Pause(w http.ResponseWriter, r *http.Request) {
	if _, err := h.sessions.Pause(r.Context(), middleware.GetSessionID(r.Context())); err != nil {
		h.fail(w, r, err)
		return
	}
	h.renderGame(w, r, nil)
}

// Shuffle returns the board to the deck and deals again
func (h *GameHandler) Shuffle(w http.ResponseWriter, r *http.Request) {
	if _, err := h.sessions.Shuffle(r.Context(), middleware.GetSessionID(r.Context())); err != nil {
		h.fail(w, r, err)
		return
	}
	h.renderGame(w, r, nil)
}

// Restart starts a fresh game in the same mode
func (h *GameHandler) Restart(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Restart(r.Context(), middleware.GetSessionID(r.Context())); err != nil {
		h.fail(w, r, err)
		return
	}
	h.renderGame(w, r, nil)
}

// Events streams session events over SSE
func (h *GameHandler) Events(w http.ResponseWriter, r *http.Request) {
	id := middleware.GetSessionID(r.Context())

	state, err := h.sessions.State(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	hub := h.hubManager.GetOrCreateHub(id)
	sse.ServeSSE(w, r, hub, sse.HelloFromSnapshot(id, &state))
}

// WebSocket serves the JSON play channel
func (h *GameHandler) WebSocket(w http.ResponseWriter, r *http.Request) {
	ws.ServeWS(w, r, h.wsManager, h.sessions, middleware.GetSessionID(r.Context()))
}

func (h *GameHandler) renderGame(w http.ResponseWriter, r *http.Request, hint []model.CardID) {
	id := middleware.GetSessionID(r.Context())

	state, err := h.sessions.State(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.render(w, r, components.Game(components.GameData{SessionID: id, Game: state, Hint: hint}))
}

func (h *GameHandler) render(w http.ResponseWriter, r *http.Request, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := c.Render(r.Context(), w); err != nil {
		h.logger.Error("failed to render page", slog.Any("error", err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func (h *GameHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Error("game action failed",
		slog.String("path", r.URL.Path),
		slog.Any("error", err))
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}
