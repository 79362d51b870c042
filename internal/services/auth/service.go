package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/setgame/internal/dependencies/random"
	"github.com/mcoot/setgame/internal/model"
)

const (
	tokenLength   = 32
	tokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

// Service issues and checks session tokens. Only bcrypt hashes of tokens are
// kept; the plain token is handed to the client once.
type Service struct {
	random random.Random
	cost   int
}

// Config holds configuration for the auth service
type Config struct {
	// Cost is the bcrypt cost for token hashes
	Cost int
}

// DefaultConfig returns default auth configuration
func DefaultConfig() Config {
	return Config{
		Cost: bcrypt.DefaultCost,
	}
}

// New creates a new auth Service
func New(rnd random.Random, cfg Config) *Service {
	if cfg.Cost == 0 {
		cfg.Cost = DefaultConfig().Cost
	}
	return &Service{
		random: rnd,
		cost:   cfg.Cost,
	}
}

// IssueToken generates a new token and its hash
func (s *Service) IssueToken() (token, hash string, err error) {
	token = s.random.String(tokenLength, tokenAlphabet)
	h, err := bcrypt.GenerateFromPassword([]byte(token), s.cost)
	if err != nil {
		return "", "", fmt.Errorf("hash session token: %w", err)
	}
	return token, string(h), nil
}

// VerifyToken checks token against a hash from IssueToken
func (s *Service) VerifyToken(hash, token string) error {
	if token == "" || hash == "" {
		return model.ErrInvalidToken
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(token)); err != nil {
		return model.ErrInvalidToken
	}
	return nil
}
