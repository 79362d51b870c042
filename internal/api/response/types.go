package response

import (
	"time"

	"github.com/mcoot/setgame/internal/model"
	"github.com/mcoot/setgame/internal/services/session"
)

// Card represents a card in API responses
type Card struct {
	ID     string `json:"id"`
	Color  string `json:"color"`
	Shape  string `json:"shape"`
	Shade  string `json:"shade"`
	Number int    `json:"number"`
}

// CardFromModel converts a model.Card
func CardFromModel(c model.Card) Card {
	return Card{
		ID:     string(c.ID()),
		Color:  string(c.Color),
		Shape:  string(c.Shape),
		Shade:  string(c.Shade),
		Number: int(c.Number),
	}
}

// CardsFromModel converts a slice of model.Card
func CardsFromModel(cards []model.Card) []Card {
	out := make([]Card, len(cards))
	for i, c := range cards {
		out[i] = CardFromModel(c)
	}
	return out
}

// Board represents the board laid out in rows
// Empty slots are null
type Board struct {
	Rows    [][]*Card `json:"rows"`
	Columns int       `json:"columns"`
	Cards   int       `json:"cards"`
}

// BoardFromModel converts model.Board
func BoardFromModel(b *model.Board) Board {
	rows := b.Rows()
	out := make([][]*Card, len(rows))
	for r, row := range rows {
		out[r] = make([]*Card, len(row))
		for col, c := range row {
			if c != nil {
				card := CardFromModel(*c)
				out[r][col] = &card
			}
		}
	}
	return Board{Rows: out, Columns: b.Columns(), Cards: b.OccupiedCount()}
}

// Timer represents the timer state
type Timer struct {
	Mode      string `json:"mode"`
	State     string `json:"state"`
	Remaining int    `json:"remaining"`
	Increment int    `json:"increment"`
	Paused    bool   `json:"paused"`
}

// TimerFromModel converts model.TimerSnapshot
func TimerFromModel(t model.TimerSnapshot) Timer {
	return Timer{
		Mode:      string(t.Mode),
		State:     string(t.State),
		Remaining: t.Remaining,
		Increment: t.Increment,
		Paused:    t.Paused,
	}
}

// Notification represents the transient result message
type Notification struct {
	Message   string    `json:"message"`
	Valid     bool      `json:"valid"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Game represents the current game state
type Game struct {
	Board          Board           `json:"board"`
	Hand           []string        `json:"hand"`
	Score          int             `json:"score"`
	RemainingCards int             `json:"remaining_cards"`
	DeckSize       int             `json:"deck_size"`
	Ended          bool            `json:"ended"`
	Timer          Timer           `json:"timer"`
	Stats          model.GameStats `json:"stats"`
	Notification   *Notification   `json:"notification,omitempty"`
}

// GameFromModel converts model.GameSnapshot
func GameFromModel(g model.GameSnapshot) Game {
	hand := make([]string, len(g.Hand))
	for i, id := range g.Hand {
		hand[i] = string(id)
	}

	var notification *Notification
	if g.Notification != nil {
		notification = &Notification{
			Message:   g.Notification.Message,
			Valid:     g.Notification.Valid,
			ExpiresAt: g.Notification.ExpiresAt,
		}
	}

	return Game{
		Board:          BoardFromModel(&g.Board),
		Hand:           hand,
		Score:          g.Score,
		RemainingCards: g.RemainingCards(),
		DeckSize:       len(g.Deck),
		Ended:          g.Ended,
		Timer:          TimerFromModel(g.Timer),
		Stats:          g.Stats,
		Notification:   notification,
	}
}

// Session is the response for reading a session
type Session struct {
	ID   string `json:"id"`
	Game Game   `json:"game"`
}

// SessionFromModel builds a Session response
func SessionFromModel(id model.SessionID, g model.GameSnapshot) Session {
	return Session{ID: string(id), Game: GameFromModel(g)}
}

// CreatedSession is the response for creating a session
// The token is only ever returned here
type CreatedSession struct {
	ID    string `json:"id"`
	Token string `json:"token"`
	Game  Game   `json:"game"`
}

// CreatedSessionFromService converts session.Created
func CreatedSessionFromService(c *session.Created) CreatedSession {
	return CreatedSession{
		ID:    string(c.ID),
		Token: c.Token,
		Game:  GameFromModel(c.Game),
	}
}

// Resolution describes a resolved three-card hand
type Resolution struct {
	Valid      bool   `json:"valid"`
	ScoreDelta int    `json:"score_delta"`
	Cards      []Card `json:"cards"`
}

// Selection is the response after toggling a card
type Selection struct {
	Selected   bool        `json:"selected"`
	Ignored    bool        `json:"ignored"`
	HandSize   int         `json:"hand_size"`
	Resolution *Resolution `json:"resolution,omitempty"`
	Game       Game        `json:"game"`
}

// SelectionFromModel converts model.SelectionResult
func SelectionFromModel(res model.SelectionResult, g model.GameSnapshot) Selection {
	var resolution *Resolution
	if res.Resolution != nil {
		resolution = &Resolution{
			Valid:      res.Resolution.Valid,
			ScoreDelta: res.Resolution.ScoreDelta,
			Cards:      CardsFromModel(res.Resolution.Cards),
		}
	}
	return Selection{
		Selected:   res.Selected,
		Ignored:    res.Ignored,
		HandSize:   res.HandSize,
		Resolution: resolution,
		Game:       GameFromModel(g),
	}
}

// Hint is the response for a hint request
type Hint struct {
	Found bool   `json:"found"`
	Cards []Card `json:"cards"`
}

// Pause is the response after toggling pause
type Pause struct {
	Paused bool `json:"paused"`
	Game   Game `json:"game"`
}

// Shuffle is the response after a shuffle
type Shuffle struct {
	Shuffled bool `json:"shuffled"`
	Game     Game `json:"game"`
}

// Mode describes a selectable timer mode
type Mode struct {
	Name      string `json:"name"`
	Initial   int    `json:"initial"`
	Increment int    `json:"increment"`
	AutoStart bool   `json:"auto_start"`
	Default   bool   `json:"default"`
}

// ModesFromModel lists every timer mode
func ModesFromModel() []Mode {
	modes := model.Modes()
	out := make([]Mode, 0, len(modes))
	for _, m := range modes {
		cfg, _ := m.Config()
		out = append(out, Mode{
			Name:      string(m),
			Initial:   cfg.Initial,
			Increment: cfg.Increment,
			AutoStart: cfg.AutoStart,
			Default:   m == model.DefaultMode,
		})
	}
	return out
}

// Health is the health check body
type Health struct {
	Status       string `json:"status"`
	LiveSessions int    `json:"live_sessions"`
}
