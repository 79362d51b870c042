package sse

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/mcoot/setgame/internal/model"
)

const (
	// ConnectedEvent is the first event on every stream
	ConnectedEvent = "connected"

	// Must stay under the server's write timeout
	keepalivePeriod = 15 * time.Second

	sendBufferSize = 256
)

// Hello is the payload of the connected event. It lets a client that joins
// mid-game sync before the next change arrives.
type Hello struct {
	SessionID model.SessionID `json:"session_id"`
	Score     int             `json:"score"`
	Remaining int             `json:"remaining_cards"`
	Timer     int             `json:"timer"`
	Paused    bool            `json:"paused"`
	Ended     bool            `json:"ended"`
}

// HelloFromSnapshot builds the connected payload from a game snapshot
func HelloFromSnapshot(id model.SessionID, g *model.GameSnapshot) Hello {
	return Hello{
		SessionID: id,
		Score:     g.Score,
		Remaining: g.RemainingCards(),
		Timer:     g.Timer.Remaining,
		Paused:    g.Timer.Paused,
		Ended:     g.Ended,
	}
}

// Client is one open event stream
type Client struct {
	hub         *Hub
	remoteAddr  string
	send        chan []byte
	connectedAt time.Time
}

// NewClient creates a client for hub. Register it to start receiving.
func NewClient(hub *Hub, remoteAddr string) *Client {
	return &Client{
		hub:         hub,
		remoteAddr:  remoteAddr,
		send:        make(chan []byte, sendBufferSize),
		connectedAt: time.Now(),
	}
}

// ServeSSE streams hub events to the response until the client goes away
// or the hub closes
func ServeSSE(w http.ResponseWriter, r *http.Request, hub *Hub, hello Hello) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	client := NewClient(hub, r.RemoteAddr)
	hub.Register(client)
	defer hub.Unregister(client)

	data, err := json.Marshal(hello)
	if err != nil {
		return
	}
	// id 0 sits before every hub event
	if _, err := w.Write(formatSSEMessage(0, ConnectedEvent, string(data))); err != nil {
		return
	}
	flusher.Flush()

	ticker := time.NewTicker(keepalivePeriod)
	defer ticker.Stop()

	for {
		select {
		case message, ok := <-client.send:
			if !ok {
				return
			}
			if _, err := w.Write(message); err != nil {
				return
			}
			flusher.Flush()

		case <-ticker.C:
			if _, err := w.Write([]byte(": keepalive\n\n")); err != nil {
				return
			}
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
