package model

import "errors"

// Common errors used across the application
var (
	// Card errors
	ErrInvalidCard   = errors.New("invalid card")
	ErrInvalidCardID = errors.New("invalid card id")

	// Timer errors
	ErrUnknownMode = errors.New("unknown timer mode")

	// Session errors
	ErrSessionNotFound = errors.New("session not found")
	ErrInvalidToken    = errors.New("invalid session token")
)
