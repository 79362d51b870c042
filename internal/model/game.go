package model

import "time"

// TimerState represents the current phase of the countdown
type TimerState string

const (
	TimerIdle    TimerState = "idle"    // Configured but not ticking (Unlimited before a manual start)
	TimerRunning TimerState = "running" // Ticking once per second
	TimerPaused  TimerState = "paused"  // Stopped by the player, remaining time kept
	TimerEnded   TimerState = "ended"   // Reached zero
)

// TimerSnapshot is the serialisable state of a timer
type TimerSnapshot struct {
	Mode      Mode       `json:"mode"`
	State     TimerState `json:"state"`
	Remaining int        `json:"remaining"`
	Initial   int        `json:"initial"`
	Increment int        `json:"increment"`
	Paused    bool       `json:"paused"`
}

// Notification is a transient message shown after a hand resolves
type Notification struct {
	Message   string    `json:"message"`
	Valid     bool      `json:"valid"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Notification display settings
const NotificationDuration = 1500 * time.Millisecond

// GameStats counts player actions over one game
type GameStats struct {
	SetsFound       int `json:"sets_found"`
	InvalidAttempts int `json:"invalid_attempts"`
	HintsUsed       int `json:"hints_used"`
	Shuffles        int `json:"shuffles"`
}

// GameSnapshot is a point-in-time copy of a game, safe to hand to other goroutines
type GameSnapshot struct {
	Deck         []Card        `json:"deck"`
	Board        Board         `json:"board"`
	Hand         []CardID      `json:"hand"`
	Score        int           `json:"score"`
	Ended        bool          `json:"ended"`
	Timer        TimerSnapshot `json:"timer"`
	Stats        GameStats     `json:"stats"`
	Notification *Notification `json:"notification,omitempty"`
}

// RemainingCards returns the number of cards still in play (deck plus board)
func (g *GameSnapshot) RemainingCards() int {
	return len(g.Deck) + g.Board.OccupiedCount()
}

// Resolution is the outcome of a completed three-card hand
type Resolution struct {
	Valid      bool   `json:"valid"`
	ScoreDelta int    `json:"score_delta"`
	Cards      []Card `json:"cards"`
}

// SelectionResult is returned for every selection toggle
type SelectionResult struct {
	HandSize   int         `json:"hand_size"`
	Selected   bool        `json:"selected"`          // true if the card is now in the hand
	Ignored    bool        `json:"ignored,omitempty"` // game ended, paused, or card not on board
	Resolution *Resolution `json:"resolution,omitempty"`
}
