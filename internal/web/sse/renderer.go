package sse

import (
	"bytes"
	"context"

	"github.com/a-h/templ"

	"github.com/mcoot/setgame/internal/model"
	"github.com/mcoot/setgame/internal/web/templates/components"
)

// FragmentEvent is the SSE event name carrying out-of-band HTML swaps
const FragmentEvent = "fragment"

// SessionClosedEvent is the last event sent before a session's streams end
const SessionClosedEvent = "session_closed"

// Renderer converts model events to HTML fragments for SSE
type Renderer struct{}

// NewRenderer creates a new Renderer
func NewRenderer() *Renderer {
	return &Renderer{}
}

// WrapForOOBSwap wraps HTML in a div with hx-swap-oob for out-of-band swaps
func WrapForOOBSwap(id, html string) string {
	return `<div id="` + id + `" hx-swap-oob="true">` + html + `</div>`
}

func (r *Renderer) render(ctx context.Context, c templ.Component) (string, error) {
	var buf bytes.Buffer
	if err := c.Render(ctx, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (r *Renderer) slot(ctx context.Context, id string, c templ.Component) (string, error) {
	html, err := r.render(ctx, c)
	if err != nil {
		return "", err
	}
	return WrapForOOBSwap(id, html), nil
}

// RenderEvent converts a session event to an out-of-band HTML fragment.
// ok is false for events with no visual counterpart.
func (r *Renderer) RenderEvent(ctx context.Context, event model.Event) (html string, ok bool, err error) {
	switch p := event.Payload.(type) {
	case model.BoardChangedPayload:
		html, err = r.slot(ctx, components.BoardID, components.Board(components.BoardData{
			SessionID: event.SessionID,
			Board:     &model.Board{Slots: p.Slots},
		}))
	case model.ScoreChangedPayload:
		html, err = r.slot(ctx, components.ScoreID, components.Score(p.Score))
	case model.RemainingChangedPayload:
		html, err = r.slot(ctx, components.RemainingID, components.Remaining(p.Remaining))
	case model.TimerTickPayload:
		html, err = r.slot(ctx, components.TimerID, components.Timer(p.Remaining))
	case model.NotificationPayload:
		html, err = r.slot(ctx, components.NotificationID, components.Notification(&model.Notification{
			Message: p.Message,
			Valid:   p.Valid,
		}))
	default:
		switch event.Type {
		case model.EventNotificationCleared:
			html, err = r.slot(ctx, components.NotificationID, components.Notification(nil))
		case model.EventGameEnded:
			html, err = r.slot(ctx, components.GameOverID, components.GameOverBanner())
		default:
			return "", false, nil
		}
	}
	if err != nil {
		return "", false, err
	}
	return html, true, nil
}
