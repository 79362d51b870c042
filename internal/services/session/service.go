package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/setgame/internal/dependencies/clock"
	"github.com/mcoot/setgame/internal/dependencies/random"
	"github.com/mcoot/setgame/internal/metrics"
	"github.com/mcoot/setgame/internal/model"
	"github.com/mcoot/setgame/internal/services/auth"
	"github.com/mcoot/setgame/internal/services/game"
	"github.com/mcoot/setgame/internal/storage"
)

// Command names, used for metrics and logs
const (
	CommandSelect  = "select"
	CommandHint    = "hint"
	CommandMode    = "mode"
	CommandPause   = "pause"
	CommandShuffle = "shuffle"
	CommandRestart = "restart"
)

// Publisher receives every event emitted by a live session.
// Publish is called with the game's lock held and must not block.
type Publisher interface {
	Publish(event model.Event)
}

// SessionCloser is implemented by publishers that hold per-session
// subscribers and must release them when a session is closed
type SessionCloser interface {
	SessionClosed(id model.SessionID)
}

// Config holds configuration for the session service
type Config struct {
	// PersistEveryTicks saves running games every N timer ticks. 0 disables it.
	PersistEveryTicks int
	// TokenCost is the bcrypt cost for session tokens
	TokenCost int
}

// DefaultConfig returns default session configuration
func DefaultConfig() Config {
	return Config{
		PersistEveryTicks: 10,
		TokenCost:         bcrypt.DefaultCost,
	}
}

// Created is returned once, when a session is created. The token is not stored.
type Created struct {
	ID    model.SessionID    `json:"id"`
	Token string             `json:"token"`
	Game  model.GameSnapshot `json:"game"`
}

type liveSession struct {
	id         model.SessionID
	controller *game.Controller
	tokenHash  string
	createdAt  time.Time

	// saveMu orders writes against removal; once closed, nothing is saved
	saveMu sync.Mutex
	closed bool
}

// retire marks the session closed, waiting for any save in flight
func (l *liveSession) retire() {
	l.saveMu.Lock()
	defer l.saveMu.Unlock()
	l.closed = true
}

// Service owns the live game sessions: it creates and restores controllers,
// checks session tokens and persists snapshots after every command
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	random  random.Random
	metrics *metrics.Metrics
	tokens  *auth.Service
	logger  *slog.Logger
	cfg     Config

	mu   sync.Mutex
	live map[model.SessionID]*liveSession

	pubMu      sync.RWMutex
	publishers []Publisher
}

// New creates a new session Service
func New(store storage.Storage, clk clock.Clock, rnd random.Random, m *metrics.Metrics, cfg Config, logger *slog.Logger) *Service {
	if cfg.TokenCost == 0 {
		cfg.TokenCost = DefaultConfig().TokenCost
	}
	return &Service{
		storage: store,
		clock:   clk,
		random:  rnd,
		metrics: m,
		tokens:  auth.New(rnd, auth.Config{Cost: cfg.TokenCost}),
		logger:  logger,
		cfg:     cfg,
		live:    make(map[model.SessionID]*liveSession),
	}
}

// AddPublisher registers a fan-out target for session events
func (s *Service) AddPublisher(p Publisher) {
	s.pubMu.Lock()
	defer s.pubMu.Unlock()
	s.publishers = append(s.publishers, p)
}

func (s *Service) publish(event model.Event) {
	s.pubMu.RLock()
	defer s.pubMu.RUnlock()
	for _, p := range s.publishers {
		p.Publish(event)
	}
}

// Create starts a new game session. An empty mode selects the default mode.
func (s *Service) Create(ctx context.Context, mode model.Mode) (*Created, error) {
	if mode == "" {
		mode = model.DefaultMode
	}
	if _, ok := mode.Config(); !ok {
		return nil, model.ErrUnknownMode
	}

	id := model.SessionID(s.random.ID())
	token, hash, err := s.tokens.IssueToken()
	if err != nil {
		return nil, err
	}

	l := &liveSession{
		id:        id,
		tokenHash: hash,
		createdAt: s.clock.Now(),
	}
	l.controller = game.NewController(mode, s.clock, s.random, s.observer(id), s.sessionLogger(id))

	s.mu.Lock()
	s.live[id] = l
	s.mu.Unlock()

	if err := s.save(ctx, l); err != nil {
		s.drop(id)
		return nil, err
	}

	s.metrics.SessionsCreated.Inc()
	s.metrics.SessionsActive.Inc()
	s.logger.Info("session created",
		slog.String("session_id", string(id)),
		slog.String("mode", string(mode)),
	)

	return &Created{
		ID:    id,
		Token: token,
		Game:  l.controller.Snapshot(),
	}, nil
}

func (s *Service) sessionLogger(id model.SessionID) *slog.Logger {
	return s.logger.With(slog.String("session_id", string(id)))
}

func (s *Service) observer(id model.SessionID) game.Observer {
	return game.Observers{
		game.NewEventObserver(id, s.clock, s.publish),
		&sessionObserver{service: s, id: id},
	}
}

// get returns the live session, restoring it from storage if needed
func (s *Service) get(ctx context.Context, id model.SessionID) (*liveSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if l, ok := s.live[id]; ok {
		return l, nil
	}

	stored, err := s.storage.GetSession(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrSessionNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("load session %s: %w", id, err)
	}

	l := &liveSession{
		id:        id,
		tokenHash: stored.TokenHash,
		createdAt: stored.CreatedAt,
	}
	l.controller = game.RestoreController(stored.Game, s.clock, s.random, s.observer(id), s.sessionLogger(id))
	s.live[id] = l

	s.metrics.SessionsActive.Inc()
	s.logger.Info("session restored", slog.String("session_id", string(id)))
	return l, nil
}

// Get returns the session's game controller
func (s *Service) Get(ctx context.Context, id model.SessionID) (*game.Controller, error) {
	l, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return l.controller, nil
}

// Authorize checks a bearer token against the session's stored hash
func (s *Service) Authorize(ctx context.Context, id model.SessionID, token string) error {
	if token == "" {
		return model.ErrInvalidToken
	}
	l, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	return s.tokens.VerifyToken(l.tokenHash, token)
}

// State returns the session's current game state
func (s *Service) State(ctx context.Context, id model.SessionID) (model.GameSnapshot, error) {
	l, err := s.get(ctx, id)
	if err != nil {
		return model.GameSnapshot{}, err
	}
	return l.controller.Snapshot(), nil
}

// Select toggles a card in the session's hand
func (s *Service) Select(ctx context.Context, id model.SessionID, cardID model.CardID) (model.SelectionResult, error) {
	l, err := s.get(ctx, id)
	if err != nil {
		return model.SelectionResult{}, err
	}

	res := l.controller.ToggleSelection(cardID)
	s.metrics.Command(CommandSelect)
	if res.Resolution != nil {
		s.metrics.HandResolved(res.Resolution.Valid)
	}
	if res.Ignored {
		return res, nil
	}
	return res, s.save(ctx, l)
}

// Hint returns a valid triple on the board, if play is possible
func (s *Service) Hint(ctx context.Context, id model.SessionID) ([]model.Card, bool, error) {
	l, err := s.get(ctx, id)
	if err != nil {
		return nil, false, err
	}

	cards, ok := l.controller.Hint()
	s.metrics.Command(CommandHint)
	if !ok {
		return nil, false, nil
	}
	return cards, true, s.save(ctx, l)
}

// SetMode switches the timer mode, starting a new game
func (s *Service) SetMode(ctx context.Context, id model.SessionID, mode model.Mode) error {
	l, err := s.get(ctx, id)
	if err != nil {
		return err
	}

	if err := l.controller.SetMode(mode); err != nil {
		return err
	}
	s.metrics.Command(CommandMode)
	return s.save(ctx, l)
}

// Pause toggles the pause state and returns it
func (s *Service) Pause(ctx context.Context, id model.SessionID) (bool, error) {
	l, err := s.get(ctx, id)
	if err != nil {
		return false, err
	}

	paused := l.controller.Pause()
	s.metrics.Command(CommandPause)
	return paused, s.save(ctx, l)
}

// Shuffle returns the board to the deck and redeals. Returns false if ignored.
func (s *Service) Shuffle(ctx context.Context, id model.SessionID) (bool, error) {
	l, err := s.get(ctx, id)
	if err != nil {
		return false, err
	}

	ok := l.controller.Shuffle()
	s.metrics.Command(CommandShuffle)
	if !ok {
		return false, nil
	}
	return true, s.save(ctx, l)
}

// Restart starts a new game in the current mode
func (s *Service) Restart(ctx context.Context, id model.SessionID) error {
	l, err := s.get(ctx, id)
	if err != nil {
		return err
	}

	l.controller.Restart()
	s.metrics.Command(CommandRestart)
	return s.save(ctx, l)
}

// Persist saves the session's current state
func (s *Service) Persist(ctx context.Context, id model.SessionID) error {
	l, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	return s.save(ctx, l)
}

// persistLive saves the session only if it is still held in memory
func (s *Service) persistLive(ctx context.Context, id model.SessionID) error {
	s.mu.Lock()
	l, ok := s.live[id]
	s.mu.Unlock()
	if !ok {
		return nil
	}
	return s.save(ctx, l)
}

func (s *Service) save(ctx context.Context, l *liveSession) error {
	l.saveMu.Lock()
	defer l.saveMu.Unlock()
	if l.closed {
		return nil
	}

	session := &model.Session{
		ID:        l.id,
		TokenHash: l.tokenHash,
		Game:      l.controller.Snapshot(),
		CreatedAt: l.createdAt,
		UpdatedAt: s.clock.Now(),
	}
	if err := s.storage.SaveSession(ctx, session); err != nil {
		return fmt.Errorf("save session %s: %w", l.id, err)
	}
	return nil
}

// drop stops a live session's controller and forgets it. Stored state is kept.
func (s *Service) drop(id model.SessionID) bool {
	s.mu.Lock()
	l, ok := s.live[id]
	delete(s.live, id)
	s.mu.Unlock()

	if !ok {
		return false
	}
	l.retire()
	l.controller.Close()
	return true
}

// Close ends a session: its timer stops and its stored state is deleted
func (s *Service) Close(ctx context.Context, id model.SessionID) error {
	if _, err := s.get(ctx, id); err != nil {
		return err
	}
	if s.drop(id) {
		s.metrics.SessionsActive.Dec()
	}
	if err := s.storage.DeleteSession(ctx, id); err != nil {
		return fmt.Errorf("delete session %s: %w", id, err)
	}

	s.pubMu.RLock()
	for _, p := range s.publishers {
		if c, ok := p.(SessionCloser); ok {
			c.SessionClosed(id)
		}
	}
	s.pubMu.RUnlock()

	s.logger.Info("session closed", slog.String("session_id", string(id)))
	return nil
}

// Shutdown persists and stops every live session. Stored state is kept so the
// sessions can be restored later.
func (s *Service) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	sessions := make([]*liveSession, 0, len(s.live))
	for _, l := range s.live {
		sessions = append(sessions, l)
	}
	s.mu.Unlock()

	var errs []error
	for _, l := range sessions {
		if err := s.save(ctx, l); err != nil {
			errs = append(errs, err)
		}
		if s.drop(l.id) {
			s.metrics.SessionsActive.Dec()
		}
	}

	s.logger.Info("sessions shut down", slog.Int("count", len(sessions)))
	return errors.Join(errs...)
}

// LiveCount returns the number of sessions held in memory
func (s *Service) LiveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.live)
}

// sessionObserver handles the session-level side effects of game changes
type sessionObserver struct {
	game.NopObserver
	service *Service
	id      model.SessionID
	ticks   int // guarded by the game's lock
}

func (o *sessionObserver) GameEnded() {
	o.service.metrics.GamesEnded.Inc()
}

func (o *sessionObserver) TimerTicked(int) {
	every := o.service.cfg.PersistEveryTicks
	if every <= 0 {
		return
	}
	o.ticks++
	if o.ticks%every != 0 {
		return
	}
	// Snapshot needs the game's lock, which the tick holds
	go func() {
		if err := o.service.persistLive(context.Background(), o.id); err != nil {
			o.service.logger.Warn("periodic persist failed",
				slog.String("session_id", string(o.id)),
				slog.Any("error", err),
			)
		}
	}()
}
