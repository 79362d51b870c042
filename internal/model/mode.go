package model

import "fmt"

// Mode names a timer configuration
type Mode string

const (
	ModeNormal    Mode = "Normal"
	ModeUnlimited Mode = "Unlimited"
	Mode90Plus10  Mode = "90+10"
	Mode180Plus5  Mode = "180+5"
)

// DefaultMode is the mode a new game starts in
const DefaultMode = ModeNormal

// ModeConfig holds the timer settings for a mode
type ModeConfig struct {
	Initial   int  // Starting seconds
	Increment int  // Seconds added per valid triple
	AutoStart bool // Whether ticking starts as soon as the mode is selected
}

var modeTable = map[Mode]ModeConfig{
	ModeNormal:    {Initial: 90, Increment: 0, AutoStart: true},
	ModeUnlimited: {Initial: 999, Increment: 0, AutoStart: false},
	Mode90Plus10:  {Initial: 90, Increment: 10, AutoStart: true},
	Mode180Plus5:  {Initial: 180, Increment: 5, AutoStart: true},
}

// Config returns the timer settings for the mode
func (m Mode) Config() (ModeConfig, bool) {
	cfg, ok := modeTable[m]
	return cfg, ok
}

// ParseMode validates a mode name
func ParseMode(name string) (Mode, error) {
	m := Mode(name)
	if _, ok := modeTable[m]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, name)
	}
	return m, nil
}

// Modes returns all modes in display order
func Modes() []Mode {
	return []Mode{ModeNormal, ModeUnlimited, Mode90Plus10, Mode180Plus5}
}
