package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mcoot/setgame/internal/model"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 4096

	sendBufferSize = 256
)

// Commands is the game surface a client can drive
type Commands interface {
	State(ctx context.Context, id model.SessionID) (model.GameSnapshot, error)
	Select(ctx context.Context, id model.SessionID, cardID model.CardID) (model.SelectionResult, error)
	Hint(ctx context.Context, id model.SessionID) ([]model.Card, bool, error)
	SetMode(ctx context.Context, id model.SessionID, mode model.Mode) error
	Pause(ctx context.Context, id model.SessionID) (bool, error)
	Shuffle(ctx context.Context, id model.SessionID) (bool, error)
	Restart(ctx context.Context, id model.SessionID) error
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Client is a middleman between the websocket connection and the game session.
type Client struct {
	manager   *Manager
	commands  Commands
	conn      *websocket.Conn
	send      chan []byte
	sessionID model.SessionID
	logger    *slog.Logger
}

// ServeWS upgrades the request and runs the client until the connection closes.
// The caller must already have authorized the session.
func ServeWS(w http.ResponseWriter, r *http.Request, m *Manager, commands Commands, sessionID model.SessionID) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written an HTTP error
		m.logger.Warn("ws upgrade failed", slog.Any("error", err))
		return
	}

	c := &Client{
		manager:   m,
		commands:  commands,
		conn:      conn,
		send:      make(chan []byte, sendBufferSize),
		sessionID: sessionID,
		logger:    m.logger.With(slog.String("session_id", string(sessionID))),
	}
	m.register(c)

	go c.writePump()
	c.readPump()
}

// readPump pumps commands from the websocket connection to the game.
func (c *Client) readPump() {
	defer func() {
		c.manager.unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("ws read error", slog.Any("error", err))
			}
			return
		}

		var msg InboundMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			c.reply(ErrorMessage{Type: TypeError, Message: "invalid message format"})
			continue
		}

		c.handle(context.Background(), msg)
	}
}

// writePump pumps messages from the send channel to the websocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The manager closed the channel.
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) handle(ctx context.Context, msg InboundMessage) {
	id := c.sessionID
	result := ResultMessage{Type: TypeResult, Command: msg.Type}
	var err error

	switch msg.Type {
	case CommandState:
		var state model.GameSnapshot
		state, err = c.commands.State(ctx, id)
		result.Game = &state
	case CommandSelect:
		var res model.SelectionResult
		var card model.Card
		if card, err = model.ParseCardID(model.CardID(msg.CardID)); err == nil {
			res, err = c.commands.Select(ctx, id, card.ID())
			result.Selection = &res
		}
	case CommandHint:
		result.Hint, _, err = c.commands.Hint(ctx, id)
	case CommandMode:
		var mode model.Mode
		if mode, err = model.ParseMode(msg.Mode); err == nil {
			err = c.commands.SetMode(ctx, id, mode)
		}
	case CommandPause:
		var paused bool
		paused, err = c.commands.Pause(ctx, id)
		result.Paused = &paused
	case CommandShuffle:
		var shuffled bool
		shuffled, err = c.commands.Shuffle(ctx, id)
		result.Shuffled = &shuffled
	case CommandRestart:
		err = c.commands.Restart(ctx, id)
	default:
		c.reply(ErrorMessage{Type: TypeError, Command: msg.Type, Message: "unknown command: " + msg.Type})
		return
	}

	if err != nil {
		c.reply(ErrorMessage{Type: TypeError, Command: msg.Type, Message: err.Error()})
		return
	}
	c.reply(result)
}

// reply queues a message for this client only
func (c *Client) reply(v any) {
	c.manager.mu.RLock()
	defer c.manager.mu.RUnlock()

	// The channel is closed once the client is unregistered
	if !c.manager.clients[c.sessionID][c] {
		return
	}
	select {
	case c.send <- encode(v):
	default:
		c.logger.Warn("ws reply dropped - client buffer full")
	}
}
