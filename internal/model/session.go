package model

import "time"

// SessionID uniquely identifies a single-player game session
type SessionID string

// Session is the stored record for one game session
type Session struct {
	ID        SessionID    `json:"id"`
	TokenHash string       `json:"token_hash"` // bcrypt hash of the bearer token
	Game      GameSnapshot `json:"game"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}
