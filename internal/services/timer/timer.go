package timer

import (
	"log/slog"
	"sync"
	"time"

	"github.com/mcoot/setgame/internal/dependencies/clock"
	"github.com/mcoot/setgame/internal/model"
)

// TickInterval is the countdown cadence
const TickInterval = time.Second

// Callbacks are invoked from the ticking goroutine with the timer's lock held
type Callbacks struct {
	OnTick func(remaining int)
	OnEnd  func()
}

// Timer is a mode-configurable countdown.
//
// Every method except the scheduled tick expects the caller to hold the Locker
// passed to New; the tick acquires it itself. That lets the owning controller share
// one mutex between player input and ticking.
type Timer struct {
	mu        sync.Locker
	clock     clock.Clock
	callbacks Callbacks
	logger    *slog.Logger

	mode      model.Mode
	initial   int
	increment int
	remaining int
	paused    bool
	ended     bool

	stop       func() // nil while not ticking
	generation uint64
}

// New creates a timer configured for the default mode. It does not start ticking.
func New(clk clock.Clock, mu sync.Locker, callbacks Callbacks, logger *slog.Logger) *Timer {
	t := &Timer{
		mu:        mu,
		clock:     clk,
		callbacks: callbacks,
		logger:    logger,
	}
	t.configure(model.DefaultMode)
	return t
}

// Restore creates a timer from a snapshot, resuming ticking if it was running
func Restore(clk clock.Clock, mu sync.Locker, callbacks Callbacks, logger *slog.Logger, snap model.TimerSnapshot) *Timer {
	t := New(clk, mu, callbacks, logger)
	if _, ok := snap.Mode.Config(); ok {
		t.mode = snap.Mode
	}
	t.initial = snap.Initial
	t.increment = snap.Increment
	t.remaining = snap.Remaining
	t.paused = snap.Paused
	t.ended = snap.State == model.TimerEnded
	if snap.State == model.TimerRunning {
		t.Start()
	}
	return t
}

func (t *Timer) configure(mode model.Mode) bool {
	cfg, ok := mode.Config()
	if !ok {
		return false
	}
	t.mode = mode
	t.initial = cfg.Initial
	t.increment = cfg.Increment
	t.remaining = cfg.Initial
	return true
}

// SetMode stops ticking, applies the mode's settings and, unless the mode is
// Unlimited, starts ticking again from the new initial time.
// Unknown modes only stop the timer.
func (t *Timer) SetMode(mode model.Mode) bool {
	t.Stop()
	if !t.configure(mode) {
		t.logger.Warn("unknown timer mode", slog.String("mode", string(mode)))
		return false
	}
	t.paused = false
	t.ended = false

	cfg, _ := mode.Config()
	if cfg.AutoStart {
		t.Start()
	}
	return true
}

// Start begins ticking from the current remaining time. A running timer is restarted.
func (t *Timer) Start() {
	t.Stop()
	t.ended = false
	gen := t.generation
	t.stop = t.clock.Every(TickInterval, func() {
		t.fire(gen)
	})
}

// Stop halts ticking. Stopping a stopped timer is a no-op.
func (t *Timer) Stop() {
	if t.stop != nil {
		t.stop()
		t.stop = nil
	}
	// Ticks already queued behind the lock belong to the old generation
	t.generation++
}

// End stops ticking and marks the countdown over without invoking OnEnd.
// Used when the game finishes for a reason other than time running out.
func (t *Timer) End() {
	t.Stop()
	t.ended = true
}

// Pause toggles the paused state and returns it. Pausing keeps the remaining
// time; resuming restarts ticking from it.
func (t *Timer) Pause() bool {
	t.paused = !t.paused
	if t.paused {
		t.Stop()
	} else {
		t.Start()
	}
	return t.paused
}

// Restart resets the remaining time to the mode's initial value. Mode, pause state
// and ticking are left alone.
func (t *Timer) Restart() {
	t.remaining = t.initial
	t.ended = false
}

// IncrementTime adds the mode's increment to the remaining time
func (t *Timer) IncrementTime() {
	if t.increment == 0 {
		return
	}
	t.remaining += t.increment
}

func (t *Timer) fire(gen uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if gen != t.generation || t.stop == nil {
		return
	}
	t.tick()
}

func (t *Timer) tick() {
	t.remaining--
	if t.remaining < 0 {
		t.remaining = 0
	}
	if t.callbacks.OnTick != nil {
		t.callbacks.OnTick(t.remaining)
	}
	if t.remaining > 0 {
		return
	}

	t.Stop()
	t.ended = true
	t.logger.Debug("timer ended", slog.String("mode", string(t.mode)))
	if t.callbacks.OnEnd != nil {
		t.callbacks.OnEnd()
	}
}

// Mode returns the current mode
func (t *Timer) Mode() model.Mode {
	return t.mode
}

// Remaining returns the seconds left
func (t *Timer) Remaining() int {
	return t.remaining
}

// Initial returns the mode's starting seconds
func (t *Timer) Initial() int {
	return t.initial
}

// Increment returns the seconds added per valid triple
func (t *Timer) Increment() int {
	return t.increment
}

// Paused returns true while the player has paused the timer
func (t *Timer) Paused() bool {
	return t.paused
}

// Running returns true while ticks are scheduled
func (t *Timer) Running() bool {
	return t.stop != nil
}

// State returns the timer's phase
func (t *Timer) State() model.TimerState {
	switch {
	case t.ended:
		return model.TimerEnded
	case t.paused:
		return model.TimerPaused
	case t.stop != nil:
		return model.TimerRunning
	default:
		return model.TimerIdle
	}
}

// Snapshot captures the timer's state
func (t *Timer) Snapshot() model.TimerSnapshot {
	return model.TimerSnapshot{
		Mode:      t.mode,
		State:     t.State(),
		Remaining: t.remaining,
		Initial:   t.initial,
		Increment: t.increment,
		Paused:    t.paused,
	}
}
