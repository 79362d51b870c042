package sse

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/setgame/internal/model"
	"github.com/mcoot/setgame/internal/testutil"
)

func TestFormatSSEMessage(t *testing.T) {
	tests := []struct {
		name      string
		eventName string
		data      string
		expected  string
	}{
		{
			name:      "json payload",
			eventName: "timer_tick",
			data:      `{"remaining":89}`,
			expected:  "event: timer_tick\nid: 7\ndata: {\"remaining\":89}\n\n",
		},
		{
			name:      "multi-line fragment",
			eventName: FragmentEvent,
			data:      "<div id=\"score\">\n  <span>3</span>\n</div>",
			expected:  "event: fragment\nid: 7\ndata: <div id=\"score\">\ndata:   <span>3</span>\ndata: </div>\n\n",
		},
		{
			name:      "empty data",
			eventName: "notification_cleared",
			data:      "",
			expected:  "event: notification_cleared\nid: 7\ndata: \n\n",
		},
		{
			name:      "crlf and trailing newline",
			eventName: "test",
			data:      "line1\r\nline2\n",
			expected:  "event: test\nid: 7\ndata: line1\ndata: line2\n\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, string(formatSSEMessage(7, tt.eventName, tt.data)))
		})
	}
}

func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub("session-1", testutil.NopLogger())
	go hub.Run()
	t.Cleanup(hub.Close)
	return hub
}

func registered(t *testing.T, hub *Hub, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return hub.ClientCount() == n }, time.Second, 5*time.Millisecond)
}

func receive(t *testing.T, client *Client) string {
	t.Helper()
	select {
	case msg, ok := <-client.send:
		require.True(t, ok, "client channel closed")
		return string(msg)
	case <-time.After(time.Second):
		t.Fatal("client did not receive message")
		return ""
	}
}

func TestHub_RegisterAndBroadcast(t *testing.T) {
	hub := startHub(t)
	client := NewClient(hub, "10.0.0.1:5000")
	hub.Register(client)
	registered(t, hub, 1)

	hub.BroadcastEvent("score_changed", `{"score":1}`)

	assert.Equal(t, "event: score_changed\nid: 1\ndata: {\"score\":1}\n\n", receive(t, client))
}

func TestHub_EventIDsIncrease(t *testing.T) {
	hub := startHub(t)
	client := NewClient(hub, "10.0.0.1:5000")
	hub.Register(client)
	registered(t, hub, 1)

	hub.BroadcastEvent("a", "1")
	hub.BroadcastEvent("b", "2")

	assert.Contains(t, receive(t, client), "id: 1\n")
	assert.Contains(t, receive(t, client), "id: 2\n")
}

func TestHub_Unregister(t *testing.T) {
	hub := startHub(t)
	client := NewClient(hub, "10.0.0.1:5000")
	hub.Register(client)
	registered(t, hub, 1)

	hub.Unregister(client)
	registered(t, hub, 0)

	_, ok := <-client.send
	assert.False(t, ok)
}

func TestHub_BroadcastToMultipleClients(t *testing.T) {
	hub := startHub(t)
	clients := []*Client{
		NewClient(hub, "10.0.0.1:5000"),
		NewClient(hub, "10.0.0.2:5000"),
		NewClient(hub, "10.0.0.3:5000"),
	}
	for _, c := range clients {
		hub.Register(c)
	}
	registered(t, hub, 3)

	hub.BroadcastEvent("board_changed", "{}")

	for _, c := range clients {
		assert.Contains(t, receive(t, c), "event: board_changed\n")
	}
}

func TestHub_CloseDeliversQueuedEventsThenDisconnects(t *testing.T) {
	hub := NewHub("session-1", testutil.NopLogger())
	go hub.Run()

	client := NewClient(hub, "10.0.0.1:5000")
	hub.Register(client)
	registered(t, hub, 1)

	hub.BroadcastEvent(SessionClosedEvent, `{"status":"closed"}`)
	hub.Close()
	hub.Close()

	var got []string
	for msg := range client.send {
		got = append(got, string(msg))
	}
	require.Len(t, got, 1)
	assert.Contains(t, got[0], "event: session_closed")
}

func TestHub_RegisterAfterCloseClosesClient(t *testing.T) {
	hub := NewHub("session-1", testutil.NopLogger())
	go hub.Run()
	hub.Close()

	client := NewClient(hub, "10.0.0.1:5000")
	hub.Register(client)

	_, ok := <-client.send
	assert.False(t, ok)
}

func TestHubManager_GetOrCreateHub(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())
	t.Cleanup(manager.Close)

	a := manager.GetOrCreateHub("session-a")
	require.NotNil(t, a)
	assert.Same(t, a, manager.GetOrCreateHub("session-a"))
	assert.NotSame(t, a, manager.GetOrCreateHub("session-b"))
	assert.Same(t, a, manager.GetHub("session-a"))
	assert.Nil(t, manager.GetHub("nonexistent"))
}

func TestHubManager_RemoveHub(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())

	manager.GetOrCreateHub("session-a")
	manager.RemoveHub("session-a")

	assert.Nil(t, manager.GetHub("session-a"))
	assert.NotPanics(t, func() { manager.RemoveHub("nonexistent") })
}

func TestHubManager_CleanupEmptyHubs(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())
	t.Cleanup(manager.Close)

	manager.GetOrCreateHub(model.SessionID("empty"))
	active := manager.GetOrCreateHub(model.SessionID("active"))
	active.Register(NewClient(active, "10.0.0.1:5000"))
	registered(t, active, 1)

	// The first sweep only marks the empty hub
	assert.Equal(t, 0, manager.CleanupEmptyHubs())
	assert.NotNil(t, manager.GetHub("empty"))

	assert.Equal(t, 1, manager.CleanupEmptyHubs())
	assert.Nil(t, manager.GetHub("empty"))
	assert.NotNil(t, manager.GetHub("active"))
}

func TestHubManager_CleanupSparesHubFetchedBetweenSweeps(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())
	t.Cleanup(manager.Close)

	hub := manager.GetOrCreateHub("session-a")
	assert.Equal(t, 0, manager.CleanupEmptyHubs())

	// A stream handler fetches the hub and is about to register
	assert.Same(t, hub, manager.GetOrCreateHub("session-a"))
	assert.Equal(t, 0, manager.CleanupEmptyHubs())

	client := NewClient(hub, "10.0.0.1:5000")
	hub.Register(client)
	registered(t, hub, 1)
	assert.Equal(t, 0, manager.CleanupEmptyHubs())
	assert.Same(t, hub, manager.GetHub("session-a"))
}

func TestHubManager_RunJanitor(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())
	manager.GetOrCreateHub("idle")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		manager.RunJanitor(ctx, 5*time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool { return manager.GetHub("idle") == nil }, time.Second, 5*time.Millisecond)
	cancel()
	<-done
}
