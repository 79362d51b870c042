package game

import (
	"github.com/mcoot/setgame/internal/dependencies/clock"
	"github.com/mcoot/setgame/internal/model"
)

// Observer receives state changes from a Controller.
// Methods are called with the controller's lock held: implementations must not
// block and must not call back into the controller.
type Observer interface {
	BoardChanged(board *model.Board)
	ScoreChanged(score int)
	RemainingChanged(remaining int)
	TimerTicked(remaining int)
	TimerEnded()
	GameEnded()
	Notified(n model.Notification)
	NotificationCleared()
	ModeChanged(mode model.Mode)
	PauseChanged(paused bool)
}

// NopObserver ignores every change. Embed it to implement part of Observer.
type NopObserver struct{}

func (NopObserver) BoardChanged(*model.Board)       {}
func (NopObserver) ScoreChanged(int)                {}
func (NopObserver) RemainingChanged(int)            {}
func (NopObserver) TimerTicked(int)                 {}
func (NopObserver) TimerEnded()                     {}
func (NopObserver) GameEnded()                      {}
func (NopObserver) Notified(model.Notification)     {}
func (NopObserver) NotificationCleared()            {}
func (NopObserver) ModeChanged(model.Mode)          {}
func (NopObserver) PauseChanged(bool)               {}

var _ Observer = NopObserver{}

// EventObserver converts observer calls into model.Event values
type EventObserver struct {
	sessionID model.SessionID
	clock     clock.Clock
	emit      func(model.Event)
}

// NewEventObserver creates an observer that passes each change to emit
func NewEventObserver(sessionID model.SessionID, clk clock.Clock, emit func(model.Event)) *EventObserver {
	return &EventObserver{
		sessionID: sessionID,
		clock:     clk,
		emit:      emit,
	}
}

var _ Observer = (*EventObserver)(nil)

func (o *EventObserver) send(t model.EventType, payload any) {
	o.emit(model.Event{
		Type:      t,
		Timestamp: o.clock.Now(),
		SessionID: o.sessionID,
		Payload:   payload,
	})
}

func (o *EventObserver) BoardChanged(board *model.Board) {
	o.send(model.EventBoardChanged, model.BoardChangedPayload{Slots: board.Clone().Slots})
}

func (o *EventObserver) ScoreChanged(score int) {
	o.send(model.EventScoreChanged, model.ScoreChangedPayload{Score: score})
}

func (o *EventObserver) RemainingChanged(remaining int) {
	o.send(model.EventRemainingChanged, model.RemainingChangedPayload{Remaining: remaining})
}

func (o *EventObserver) TimerTicked(remaining int) {
	o.send(model.EventTimerTick, model.TimerTickPayload{Remaining: remaining})
}

func (o *EventObserver) TimerEnded() {
	o.send(model.EventTimerEnded, nil)
}

func (o *EventObserver) GameEnded() {
	o.send(model.EventGameEnded, nil)
}

func (o *EventObserver) Notified(n model.Notification) {
	o.send(model.EventNotification, model.NotificationPayload{Message: n.Message, Valid: n.Valid})
}

func (o *EventObserver) NotificationCleared() {
	o.send(model.EventNotificationCleared, nil)
}

func (o *EventObserver) ModeChanged(mode model.Mode) {
	o.send(model.EventModeChanged, model.ModeChangedPayload{Mode: mode})
}

func (o *EventObserver) PauseChanged(paused bool) {
	o.send(model.EventPauseChanged, model.PauseChangedPayload{Paused: paused})
}

// Observers fans each change out to several observers in order
type Observers []Observer

var _ Observer = Observers(nil)

func (os Observers) BoardChanged(board *model.Board) {
	for _, o := range os {
		o.BoardChanged(board)
	}
}

func (os Observers) ScoreChanged(score int) {
	for _, o := range os {
		o.ScoreChanged(score)
	}
}

func (os Observers) RemainingChanged(remaining int) {
	for _, o := range os {
		o.RemainingChanged(remaining)
	}
}

func (os Observers) TimerTicked(remaining int) {
	for _, o := range os {
		o.TimerTicked(remaining)
	}
}

func (os Observers) TimerEnded() {
	for _, o := range os {
		o.TimerEnded()
	}
}

func (os Observers) GameEnded() {
	for _, o := range os {
		o.GameEnded()
	}
}

func (os Observers) Notified(n model.Notification) {
	for _, o := range os {
		o.Notified(n)
	}
}

func (os Observers) NotificationCleared() {
	for _, o := range os {
		o.NotificationCleared()
	}
}

func (os Observers) ModeChanged(mode model.Mode) {
	for _, o := range os {
		o.ModeChanged(mode)
	}
}

func (os Observers) PauseChanged(paused bool) {
	for _, o := range os {
		o.PauseChanged(paused)
	}
}
