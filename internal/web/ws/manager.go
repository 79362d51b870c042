package ws

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/mcoot/setgame/internal/model"
)

// Manager tracks WebSocket clients per session and fans events out to them
type Manager struct {
	mu      sync.RWMutex
	clients map[model.SessionID]map[*Client]bool
	logger  *slog.Logger
}

// NewManager creates a new Manager
func NewManager(logger *slog.Logger) *Manager {
	return &Manager{
		clients: make(map[model.SessionID]map[*Client]bool),
		logger:  logger.With(slog.String("component", "ws")),
	}
}

func (m *Manager) register(c *Client) {
	m.mu.Lock()
	defer m.mu.Unlock()

	set, ok := m.clients[c.sessionID]
	if !ok {
		set = make(map[*Client]bool)
		m.clients[c.sessionID] = set
	}
	set[c] = true
	m.logger.Info("ws client registered",
		slog.String("session_id", string(c.sessionID)),
		slog.Int("total_clients", len(set)))
}

func (m *Manager) unregister(c *Client) {
	m.mu.Lock()
	defer m.mu.Unlock()

	set, ok := m.clients[c.sessionID]
	if !ok || !set[c] {
		return
	}
	delete(set, c)
	close(c.send)
	if len(set) == 0 {
		delete(m.clients, c.sessionID)
	}
	m.logger.Info("ws client unregistered",
		slog.String("session_id", string(c.sessionID)),
		slog.Int("total_clients", len(set)))
}

// Publish implements session.Publisher. Slow clients lose messages rather
// than stall the game.
func (m *Manager) Publish(event model.Event) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	set := m.clients[event.SessionID]
	if len(set) == 0 {
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		m.logger.Error("ws failed to encode event",
			slog.String("session_id", string(event.SessionID)),
			slog.Any("error", err))
		return
	}

	for c := range set {
		select {
		case c.send <- data:
		default:
			m.logger.Warn("ws message dropped - client buffer full",
				slog.String("session_id", string(event.SessionID)))
		}
	}
}

// SessionClosed implements session.SessionCloser: it disconnects every
// client of the session
func (m *Manager) SessionClosed(id model.SessionID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for c := range m.clients[id] {
		close(c.send)
	}
	delete(m.clients, id)
}

// ClientCount returns the number of clients connected to a session
func (m *Manager) ClientCount(id model.SessionID) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clients[id])
}
