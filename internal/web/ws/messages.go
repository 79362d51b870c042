package ws

import (
	"encoding/json"

	"github.com/mcoot/setgame/internal/model"
)

// Inbound command types
const (
	CommandState   = "state"
	CommandSelect  = "select"
	CommandHint    = "hint"
	CommandMode    = "mode"
	CommandPause   = "pause"
	CommandShuffle = "shuffle"
	CommandRestart = "restart"
)

// Outbound message types, besides the game events themselves
const (
	TypeResult = "result"
	TypeError  = "error"
)

// InboundMessage is a command sent by the client
type InboundMessage struct {
	Type   string `json:"type"`
	CardID string `json:"card_id,omitempty"`
	Mode   string `json:"mode,omitempty"`
}

// ResultMessage answers a command
type ResultMessage struct {
	Type      string                 `json:"type"`
	Command   string                 `json:"command"`
	Selection *model.SelectionResult `json:"selection,omitempty"`
	Hint      []model.Card           `json:"hint,omitempty"`
	Paused    *bool                  `json:"paused,omitempty"`
	Shuffled  *bool                  `json:"shuffled,omitempty"`
	Game      *model.GameSnapshot    `json:"game,omitempty"`
}

// ErrorMessage reports a rejected command
type ErrorMessage struct {
	Type    string `json:"type"`
	Command string `json:"command,omitempty"`
	Message string `json:"message"`
}

func encode(v any) []byte {
	data, _ := json.Marshal(v)
	return data
}
