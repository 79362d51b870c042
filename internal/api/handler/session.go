package handler

import (
	"encoding/json"
	"net/http"

	"github.com/mcoot/setgame/internal/api/middleware"
	"github.com/mcoot/setgame/internal/api/request"
	"github.com/mcoot/setgame/internal/api/response"
	"github.com/mcoot/setgame/internal/model"
	"github.com/mcoot/setgame/internal/services/session"
)

// SessionHandler handles game session endpoints
type SessionHandler struct {
	sessions *session.Service
}

// NewSessionHandler creates a new SessionHandler
func NewSessionHandler(sessions *session.Service) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// Health handles GET /api/v1/health
func (h *SessionHandler) Health(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, http.StatusOK, response.Health{Status: "ok", LiveSessions: h.sessions.LiveCount()})
}

// Modes handles GET /api/v1/modes
func (h *SessionHandler) Modes(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, http.StatusOK, response.ModesFromModel())
}

// Create handles POST /api/v1/sessions
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateSessionRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, NewInvalidRequestError("invalid JSON body"))
			return
		}
	}

	created, err := h.sessions.Create(r.Context(), model.Mode(req.Mode))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.Created(w, "/api/v1/sessions/"+string(created.ID), response.CreatedSessionFromService(created))
}

// Get handles GET /api/v1/sessions/{id}
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := middleware.MustGetSessionID(r.Context())

	h.writeSession(w, r, id)
}

// Delete handles DELETE /api/v1/sessions/{id}
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := middleware.MustGetSessionID(r.Context())

	if err := h.sessions.Close(r.Context(), id); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// Select handles POST /api/v1/sessions/{id}/select
func (h *SessionHandler) Select(w http.ResponseWriter, r *http.Request) {
	id := middleware.MustGetSessionID(r.Context())

	var req request.SelectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid JSON body"))
		return
	}

	card, err := model.ParseCardID(model.CardID(req.CardID))
	if err != nil {
		WriteError(w, err)
		return
	}

	res, err := h.sessions.Select(r.Context(), id, card.ID())
	if err != nil {
		WriteError(w, err)
		return
	}

	state, err := h.sessions.State(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SelectionFromModel(res, state))
}

// Hint handles POST /api/v1/sessions/{id}/hint
func (h *SessionHandler) Hint(w http.ResponseWriter, r *http.Request) {
	id := middleware.MustGetSessionID(r.Context())

	cards, found, err := h.sessions.Hint(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.Hint{
		Found: found,
		Cards: response.CardsFromModel(cards),
	})
}

// SetMode handles POST /api/v1/sessions/{id}/mode
func (h *SessionHandler) SetMode(w http.ResponseWriter, r *http.Request) {
	id := middleware.MustGetSessionID(r.Context())

	var req request.ModeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid JSON body"))
		return
	}

	mode, err := model.ParseMode(req.Mode)
	if err != nil {
		WriteError(w, err)
		return
	}

	if err := h.sessions.SetMode(r.Context(), id, mode); err != nil {
		WriteError(w, err)
		return
	}

	h.writeSession(w, r, id)
}

// Pause handles POST /api/v1/sessions/{id}/pause
func (h *SessionHandler) Pause(w http.ResponseWriter, r *http.Request) {
	id := middleware.MustGetSessionID(r.Context())

	paused, err := h.sessions.Pause(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	state, err := h.sessions.State(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.Pause{Paused: paused, Game: response.GameFromModel(state)})
}

// Shuffle handles POST /api/v1/sessions/{id}/shuffle
func (h *SessionHandler) Shuffle(w http.ResponseWriter, r *http.Request) {
	id := middleware.MustGetSessionID(r.Context())

	shuffled, err := h.sessions.Shuffle(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	state, err := h.sessions.State(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.Shuffle{Shuffled: shuffled, Game: response.GameFromModel(state)})
}

// Restart handles POST /api/v1/sessions/{id}/restart
func (h *SessionHandler) Restart(w http.ResponseWriter, r *http.Request) {
	id := middleware.MustGetSessionID(r.Context())

	if err := h.sessions.Restart(r.Context(), id); err != nil {
		WriteError(w, err)
		return
	}

	h.writeSession(w, r, id)
}

func (h *SessionHandler) writeSession(w http.ResponseWriter, r *http.Request, id model.SessionID) {
	state, err := h.sessions.State(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SessionFromModel(id, state))
}
