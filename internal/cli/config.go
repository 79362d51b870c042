package cli

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

// Config holds CLI configuration
type Config struct {
	ServerURL string
	SessionID string
	Token     string
	StateFile string
	Output    string
	Verbose   bool
}

// SavedSession is the session written by "new" and read by later commands
type SavedSession struct {
	ID    string `json:"id"`
	Token string `json:"token"`
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		ServerURL: getEnvOrDefault("SETGAME_SERVER", "http://localhost:8080"),
		SessionID: os.Getenv("SETGAME_SESSION"),
		Token:     os.Getenv("SETGAME_TOKEN"),
		StateFile: getEnvOrDefault("SETGAME_STATE_FILE", defaultStateFile()),
		Output:    "text",
		Verbose:   false,
	}
}

// LoadSession fills the session ID and token from the state file when not set
func (c *Config) LoadSession() error {
	if c.SessionID != "" && c.Token != "" {
		return nil
	}

	data, err := os.ReadFile(c.StateFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil // No saved session is fine
		}
		return err
	}

	var saved SavedSession
	if err := json.Unmarshal(data, &saved); err != nil {
		return err
	}
	if c.SessionID == "" {
		c.SessionID = saved.ID
	}
	if c.Token == "" && c.SessionID == saved.ID {
		c.Token = saved.Token
	}
	return nil
}

// SaveSession saves the session to the state file
func (c *Config) SaveSession(id, token string) error {
	c.SessionID = id
	c.Token = token

	dir := filepath.Dir(c.StateFile)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	data, err := json.Marshal(SavedSession{ID: id, Token: token})
	if err != nil {
		return err
	}
	return os.WriteFile(c.StateFile, data, 0600)
}

// ClearSession removes the state file
func (c *Config) ClearSession() error {
	c.SessionID = ""
	c.Token = ""
	if err := os.Remove(c.StateFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// RequireSession returns an error if no session is selected
func (c *Config) RequireSession() error {
	if c.SessionID == "" {
		return errors.New("no session: run 'setgame new' or pass --session")
	}
	return nil
}

func defaultStateFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".setgame/session.json"
	}
	return filepath.Join(home, ".setgame", "session.json")
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
