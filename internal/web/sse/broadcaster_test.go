package sse

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/mcoot/setgame/internal/model"
	"github.com/mcoot/setgame/internal/testutil"
)

func TestWrapForOOBSwap(t *testing.T) {
	tests := []struct {
		name     string
		id       string
		html     string
		expected string
	}{
		{
			name:     "simple content",
			id:       "score",
			html:     "<span>Score: 3</span>",
			expected: `<div id="score" hx-swap-oob="true"><span>Score: 3</span></div>`,
		},
		{
			name:     "empty content",
			id:       "notification",
			html:     "",
			expected: `<div id="notification" hx-swap-oob="true"></div>`,
		},
		{
			name:     "complex content",
			id:       "board",
			html:     "<div class=\"board\"><button>A</button></div>",
			expected: `<div id="board" hx-swap-oob="true"><div class="board"><button>A</button></div></div>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := WrapForOOBSwap(tt.id, tt.html)
			if result != tt.expected {
				t.Errorf("WrapForOOBSwap(%q, %q)\ngot:  %q\nwant: %q",
					tt.id, tt.html, result, tt.expected)
			}
		})
	}
}

func TestRenderer_RenderEvent(t *testing.T) {
	card := model.Card{Color: model.ColorRed, Shape: model.ShapeOval, Shade: model.ShadeStripe, Number: 2}

	tests := []struct {
		name     string
		event    model.Event
		contains []string
		ok       bool
	}{
		{
			name:     "score",
			event:    model.Event{Type: model.EventScoreChanged, Payload: model.ScoreChangedPayload{Score: 4}},
			contains: []string{`id="score"`, "4"},
			ok:       true,
		},
		{
			name:     "timer",
			event:    model.Event{Type: model.EventTimerTick, Payload: model.TimerTickPayload{Remaining: 87}},
			contains: []string{`id="timer"`, "87"},
			ok:       true,
		},
		{
			name:     "remaining",
			event:    model.Event{Type: model.EventRemainingChanged, Payload: model.RemainingChangedPayload{Remaining: 78}},
			contains: []string{`id="remaining"`, "78"},
			ok:       true,
		},
		{
			name: "board",
			event: model.Event{
				Type:      model.EventBoardChanged,
				SessionID: "session-1",
				Payload:   model.BoardChangedPayload{Slots: []*model.Card{&card, nil, nil}},
			},
			contains: []string{`id="board"`, `data-card-id="red-stripe-oval-2"`, "card-empty", "/sessions/session-1/select"},
			ok:       true,
		},
		{
			name:     "notification is escaped",
			event:    model.Event{Type: model.EventNotification, Payload: model.NotificationPayload{Message: "<b>x</b>", Valid: true}},
			contains: []string{`id="notification"`, "notification-valid", "&lt;b&gt;x&lt;/b&gt;"},
			ok:       true,
		},
		{
			name:     "notification cleared",
			event:    model.Event{Type: model.EventNotificationCleared},
			contains: []string{`<div id="notification" hx-swap-oob="true"></div>`},
			ok:       true,
		},
		{
			name:     "game ended",
			event:    model.Event{Type: model.EventGameEnded},
			contains: []string{`id="game-over"`, "Game over"},
			ok:       true,
		},
		{
			name:  "mode change has no fragment",
			event: model.Event{Type: model.EventModeChanged, Payload: model.ModeChangedPayload{Mode: model.ModeNormal}},
			ok:    false,
		},
	}

	r := NewRenderer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			html, ok, err := r.RenderEvent(context.Background(), tt.event)
			if err != nil {
				t.Fatalf("RenderEvent returned error: %v", err)
			}
			if ok != tt.ok {
				t.Fatalf("RenderEvent ok = %v, want %v", ok, tt.ok)
			}
			for _, want := range tt.contains {
				if !strings.Contains(html, want) {
					t.Errorf("fragment missing %q:\n%s", want, html)
				}
			}
		})
	}
}

func TestBroadcaster_PublishSendsJSONAndFragment(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())
	broadcaster := NewBroadcaster(manager, testutil.NopLogger())

	hub := manager.GetOrCreateHub("session-1")
	client := NewClient(hub, "10.0.0.1:5000")
	hub.Register(client)
	time.Sleep(10 * time.Millisecond)

	broadcaster.Publish(model.Event{
		Type:      model.EventScoreChanged,
		SessionID: "session-1",
		Payload:   model.ScoreChangedPayload{Score: 2},
	})

	var messages []string
	for i := 0; i < 2; i++ {
		select {
		case msg := <-client.send:
			messages = append(messages, string(msg))
		case <-time.After(100 * time.Millisecond):
			t.Fatalf("client received %d messages, want 2", len(messages))
		}
	}

	if !strings.Contains(messages[0], "event: score_changed") || !strings.Contains(messages[0], `"score":2`) {
		t.Errorf("first message is not the JSON event: %s", messages[0])
	}
	if !strings.Contains(messages[1], "event: fragment") || !strings.Contains(messages[1], `hx-swap-oob="true"`) {
		t.Errorf("second message is not the HTML fragment: %s", messages[1])
	}

	manager.RemoveHub("session-1")
}

func TestBroadcaster_PublishWithoutHubIsNoop(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())
	broadcaster := NewBroadcaster(manager, testutil.NopLogger())

	broadcaster.Publish(model.Event{Type: model.EventGameEnded, SessionID: "nobody-listening"})

	if manager.GetHub("nobody-listening") != nil {
		t.Error("Publish should not create hubs")
	}
}

func TestBroadcaster_SessionClosed(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())
	broadcaster := NewBroadcaster(manager, testutil.NopLogger())
	manager.GetOrCreateHub("session-1")

	broadcaster.SessionClosed("session-1")

	if manager.GetHub("session-1") != nil {
		t.Error("hub still exists after session closed")
	}
}
