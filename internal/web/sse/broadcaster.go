package sse

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/mcoot/setgame/internal/model"
)

// Broadcaster forwards session events to the session's SSE hub.
// Each event goes out twice: as JSON under its own type name, and as an
// HTML fragment for htmx when it has a visual counterpart.
type Broadcaster struct {
	hubManager *HubManager
	renderer   *Renderer
	logger     *slog.Logger
}

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(hubManager *HubManager, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		hubManager: hubManager,
		renderer:   NewRenderer(),
		logger:     logger.With(slog.String("component", "sse-broadcaster")),
	}
}

// Publish implements session.Publisher. It never blocks.
func (b *Broadcaster) Publish(event model.Event) {
	hub := b.hubManager.GetHub(event.SessionID)
	if hub == nil {
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		b.logger.Error("sse failed to encode event",
			slog.String("session_id", string(event.SessionID)),
			slog.String("event", string(event.Type)),
			slog.Any("error", err))
		return
	}
	hub.BroadcastEvent(string(event.Type), string(data))

	html, ok, err := b.renderer.RenderEvent(context.Background(), event)
	if err != nil {
		b.logger.Error("sse failed to render event",
			slog.String("session_id", string(event.SessionID)),
			slog.String("event", string(event.Type)),
			slog.Any("error", err))
		return
	}
	if ok {
		hub.BroadcastEvent(FragmentEvent, html)
	}
}

// SessionClosed implements session.SessionCloser: it tells clients the
// session is gone and drops the hub
func (b *Broadcaster) SessionClosed(sessionID model.SessionID) {
	hub := b.hubManager.GetHub(sessionID)
	if hub == nil {
		return
	}

	hub.BroadcastEvent(SessionClosedEvent, `{"status":"closed"}`)
	b.hubManager.RemoveHub(sessionID)
}
