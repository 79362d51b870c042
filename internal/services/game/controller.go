package game

import (
	"log/slog"
	"sync"

	"github.com/mcoot/setgame/internal/dependencies/clock"
	"github.com/mcoot/setgame/internal/dependencies/random"
	"github.com/mcoot/setgame/internal/model"
	"github.com/mcoot/setgame/internal/services/deck"
	"github.com/mcoot/setgame/internal/services/rules"
	"github.com/mcoot/setgame/internal/services/timer"
)

// Notification messages
const (
	MessageValid   = "Valid set, added 1 to score!"
	MessageInvalid = "Invalid set, lost 1 point..."
)

// Controller runs a single game: deck, board, hand, score and timer.
// It is the only writer of that state. Player commands and timer ticks are
// serialised on one mutex.
type Controller struct {
	mu sync.Mutex

	clock    clock.Clock
	engine   *deck.Engine
	timer    *timer.Timer
	observer Observer
	logger   *slog.Logger

	hand  Hand
	score int
	ended bool
	stats model.GameStats

	notification      *model.Notification
	stopNotification  func()
	notificationEpoch uint64
	closed            bool
}

// NewController starts a new game in the given mode. Unknown modes fall back to the default.
func NewController(mode model.Mode, clk clock.Clock, rnd random.Random, observer Observer, logger *slog.Logger) *Controller {
	if observer == nil {
		observer = NopObserver{}
	}
	if _, ok := mode.Config(); !ok {
		mode = model.DefaultMode
	}

	c := &Controller{
		clock:    clk,
		engine:   deck.New(rnd, logger),
		observer: observer,
		logger:   logger,
	}
	c.timer = timer.New(clk, &c.mu, c.timerCallbacks(), logger)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.timer.SetMode(mode)
	c.restart()

	c.logger.Info("game created", slog.String("mode", string(mode)))
	return c
}

// RestoreController resumes a game from a snapshot
func RestoreController(snap model.GameSnapshot, clk clock.Clock, rnd random.Random, observer Observer, logger *slog.Logger) *Controller {
	if observer == nil {
		observer = NopObserver{}
	}

	board := snap.Board
	c := &Controller{
		clock:    clk,
		engine:   deck.Restore(rnd, logger, snap.Deck, &board),
		observer: observer,
		logger:   logger,
		score:    snap.Score,
		ended:    snap.Ended,
		stats:    snap.Stats,
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.timer = timer.Restore(clk, &c.mu, c.timerCallbacks(), logger, snap.Timer)
	for _, id := range snap.Hand {
		if _, ok := c.engine.OnBoard(id); ok {
			c.hand.Toggle(id)
		}
	}

	c.logger.Info("game restored",
		slog.String("mode", string(snap.Timer.Mode)),
		slog.Int("score", snap.Score),
		slog.Bool("ended", snap.Ended),
	)
	return c
}

func (c *Controller) timerCallbacks() timer.Callbacks {
	return timer.Callbacks{
		OnTick: c.onTick,
		OnEnd:  c.onTimerEnd,
	}
}

// ToggleSelection adds a board card to the hand or removes it. The third card
// resolves the hand: a valid triple scores +1, replaces the cards and adds the
// mode's time increment; an invalid one scores -1. Input is ignored while the
// game has ended or is paused, and for cards not on the board.
func (c *Controller) ToggleSelection(id model.CardID) model.SelectionResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ended || c.timer.Paused() {
		return model.SelectionResult{HandSize: c.hand.Size(), Ignored: true}
	}
	if _, ok := c.engine.OnBoard(id); !ok {
		return model.SelectionResult{HandSize: c.hand.Size(), Ignored: true}
	}

	selected := c.hand.Toggle(id)
	res := model.SelectionResult{
		HandSize: c.hand.Size(),
		Selected: selected,
	}
	if !c.hand.Full() {
		return res
	}

	ids := c.hand.IDs()
	c.hand.Clear()
	res.HandSize = 0
	res.Resolution = c.resolve(ids)
	return res
}

func (c *Controller) resolve(ids []model.CardID) *model.Resolution {
	cards := make([]model.Card, 0, len(ids))
	for _, id := range ids {
		card, _ := c.engine.OnBoard(id)
		cards = append(cards, card)
	}

	if !rules.IsValidHand(cards) {
		c.score--
		c.stats.InvalidAttempts++
		c.observer.ScoreChanged(c.score)
		c.notify(MessageInvalid, false)
		return &model.Resolution{Valid: false, ScoreDelta: -1, Cards: cards}
	}

	c.score++
	c.stats.SetsFound++
	c.engine.Remove(ids)
	c.timer.IncrementTime()
	dealt := c.engine.Deal(model.NominalBoardSize)

	c.observer.ScoreChanged(c.score)
	c.observer.BoardChanged(c.engine.Board())
	c.observer.RemainingChanged(c.engine.Remaining())
	if c.timer.Increment() > 0 {
		c.observer.TimerTicked(c.timer.Remaining())
	}
	c.notify(MessageValid, true)

	c.logger.Debug("set found",
		slog.Int("score", c.score),
		slog.Int("remaining", c.engine.Remaining()),
	)

	if dealt.GameOver() {
		c.endGame("deck exhausted")
	}
	return &model.Resolution{Valid: true, ScoreDelta: 1, Cards: cards}
}

// Hint returns a valid triple on the board. Nothing is returned while the game
// has ended or is paused.
func (c *Controller) Hint() ([]model.Card, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ended || c.timer.Paused() {
		return nil, false
	}
	cards, ok := c.engine.FindTriple()
	if ok {
		c.stats.HintsUsed++
	}
	return cards, ok
}

// SetMode switches the timer mode and starts a new game
func (c *Controller) SetMode(mode model.Mode) error {
	if _, ok := mode.Config(); !ok {
		return model.ErrUnknownMode
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.timer.SetMode(mode)
	c.observer.ModeChanged(mode)
	c.observer.PauseChanged(false)
	c.restart()

	c.logger.Info("mode changed", slog.String("mode", string(mode)))
	return nil
}

// Pause toggles the timer's pause state and returns it. Ignored once the game has ended.
func (c *Controller) Pause() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ended {
		return c.timer.Paused()
	}
	paused := c.timer.Pause()
	c.observer.PauseChanged(paused)
	return paused
}

// Shuffle returns the board to the deck and deals a fresh board. The hand is cleared.
// Ignored while the game has ended or is paused.
func (c *Controller) Shuffle() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ended || c.timer.Paused() {
		return false
	}

	c.hand.Clear()
	c.stats.Shuffles++
	dealt := c.engine.ReturnBoardToDeck()
	c.observer.BoardChanged(c.engine.Board())
	c.observer.RemainingChanged(c.engine.Remaining())

	if dealt.GameOver() {
		c.endGame("deck exhausted")
	}
	return true
}

// Restart starts a new game in the current mode
func (c *Controller) Restart() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.restart()
	c.logger.Info("game restarted", slog.String("mode", string(c.timer.Mode())))
}

func (c *Controller) restart() {
	c.clearNotification()
	c.engine.Reset()
	c.hand.Clear()
	c.score = 0
	c.ended = false
	c.stats = model.GameStats{}

	c.timer.Restart()
	cfg, _ := c.timer.Mode().Config()
	if cfg.AutoStart && !c.timer.Paused() && !c.timer.Running() {
		c.timer.Start()
	}

	dealt := c.engine.Deal(model.NominalBoardSize)

	c.observer.BoardChanged(c.engine.Board())
	c.observer.ScoreChanged(c.score)
	c.observer.RemainingChanged(c.engine.Remaining())
	c.observer.TimerTicked(c.timer.Remaining())

	if dealt.GameOver() {
		c.endGame("deck exhausted")
	}
}

func (c *Controller) onTick(remaining int) {
	c.observer.TimerTicked(remaining)
}

func (c *Controller) onTimerEnd() {
	c.observer.TimerEnded()
	c.endGame("time up")
}

func (c *Controller) endGame(reason string) {
	if c.ended {
		return
	}
	c.ended = true
	c.hand.Clear()
	c.timer.End()
	c.observer.GameEnded()

	c.logger.Info("game ended",
		slog.String("reason", reason),
		slog.Int("score", c.score),
		slog.Int("sets_found", c.stats.SetsFound),
	)
}

// notify shows a message. While a message is already showing its text is
// replaced but its expiry is kept.
func (c *Controller) notify(message string, valid bool) {
	showing := c.notification != nil
	n := model.Notification{
		Message:   message,
		Valid:     valid,
		ExpiresAt: c.clock.Now().Add(model.NotificationDuration),
	}
	if showing {
		n.ExpiresAt = c.notification.ExpiresAt
	}
	c.notification = &n
	c.observer.Notified(n)

	if showing {
		return
	}
	epoch := c.notificationEpoch
	c.stopNotification = c.clock.After(model.NotificationDuration, func() {
		c.expireNotification(epoch)
	})
}

func (c *Controller) expireNotification(epoch uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if epoch != c.notificationEpoch || c.notification == nil {
		return
	}
	c.notification = nil
	c.stopNotification = nil
	c.notificationEpoch++
	c.observer.NotificationCleared()
}

func (c *Controller) clearNotification() {
	if c.stopNotification != nil {
		c.stopNotification()
		c.stopNotification = nil
	}
	c.notificationEpoch++
	if c.notification != nil {
		c.notification = nil
		c.observer.NotificationCleared()
	}
}

// Close stops the timer and any pending notification expiry
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	c.timer.Stop()
	if c.stopNotification != nil {
		c.stopNotification()
		c.stopNotification = nil
	}
	c.notificationEpoch++
}

// Snapshot returns a copy of the game state
func (c *Controller) Snapshot() model.GameSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := model.GameSnapshot{
		Deck:  c.engine.Deck(),
		Board: *c.engine.Board(),
		Hand:  c.hand.IDs(),
		Score: c.score,
		Ended: c.ended,
		Timer: c.timer.Snapshot(),
		Stats: c.stats,
	}
	if c.notification != nil {
		n := *c.notification
		snap.Notification = &n
	}
	return snap
}

// Ended returns true once the game is over
func (c *Controller) Ended() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ended
}
