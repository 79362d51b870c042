package redis

import (
	"fmt"

	"github.com/mcoot/setgame/internal/model"
)

// Key prefix for all game-related data
const keyPrefix = "setgame"

// sessionKey returns the Redis key for a Session
func sessionKey(id model.SessionID) string {
	return fmt.Sprintf("%s:session:%s", keyPrefix, id)
}

// sessionsIndexKey returns the Redis key for the SET of known session ids
func sessionsIndexKey() string {
	return fmt.Sprintf("%s:idx:sessions", keyPrefix)
}
