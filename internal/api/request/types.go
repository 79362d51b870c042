package request

// CreateSessionRequest is the request body for creating a session
type CreateSessionRequest struct {
	Mode string `json:"mode,omitempty"`
}

// SelectRequest is the request body for toggling a card
type SelectRequest struct {
	CardID string `json:"card_id"`
}

// ModeRequest is the request body for switching the timer mode
type ModeRequest struct {
	Mode string `json:"mode"`
}
