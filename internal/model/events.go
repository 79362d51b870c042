package model

import "time"

// EventType identifies the type of event
type EventType string

const (
	// Board events
	EventBoardChanged     EventType = "board_changed"
	EventScoreChanged     EventType = "score_changed"
	EventRemainingChanged EventType = "remaining_changed"

	// Timer events
	EventTimerTick    EventType = "timer_tick"
	EventTimerEnded   EventType = "timer_ended"
	EventModeChanged  EventType = "mode_changed"
	EventPauseChanged EventType = "pause_changed"

	// Game events
	EventGameEnded           EventType = "game_ended"
	EventNotification        EventType = "notification"
	EventNotificationCleared EventType = "notification_cleared"
)

// Event is the base structure for all events
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	SessionID SessionID `json:"session_id"`
	Payload   any       `json:"payload,omitempty"` // Type-specific data
}

// BoardChangedPayload contains data for board changed events
type BoardChangedPayload struct {
	Slots []*Card `json:"slots"`
}

// ScoreChangedPayload contains data for score changed events
type ScoreChangedPayload struct {
	Score int `json:"score"`
}

// RemainingChangedPayload contains data for remaining count events
type RemainingChangedPayload struct {
	Remaining int `json:"remaining"`
}

// TimerTickPayload contains data for timer tick events
type TimerTickPayload struct {
	Remaining int `json:"remaining"`
}

// ModeChangedPayload contains data for mode changed events
type ModeChangedPayload struct {
	Mode Mode `json:"mode"`
}

// PauseChangedPayload contains data for pause events
type PauseChangedPayload struct {
	Paused bool `json:"paused"`
}

// NotificationPayload contains data for notification events
type NotificationPayload struct {
	Message string `json:"message"`
	Valid   bool   `json:"valid"`
}
