package game

import (
	"github.com/mcoot/setgame/internal/model"
	"github.com/mcoot/setgame/internal/services/rules"
)

// HandState is the selection phase
type HandState string

const (
	HandIdle        HandState = "idle"
	HandOneSelected HandState = "one_selected"
	HandTwoSelected HandState = "two_selected"
	HandFull        HandState = "full" // Transient: resolved and cleared by the controller
)

// Hand accumulates up to three selected cards
type Hand struct {
	ids []model.CardID
}

// Toggle adds the card, or removes it if already selected. Returns whether the
// card is selected afterwards. A full hand accepts no new cards.
func (h *Hand) Toggle(id model.CardID) bool {
	for i, held := range h.ids {
		if held == id {
			h.ids = append(h.ids[:i], h.ids[i+1:]...)
			return false
		}
	}
	if len(h.ids) >= rules.TripleSize {
		return false
	}
	h.ids = append(h.ids, id)
	return true
}

// Contains returns true if the card is selected
func (h *Hand) Contains(id model.CardID) bool {
	for _, held := range h.ids {
		if held == id {
			return true
		}
	}
	return false
}

// Size returns the number of selected cards
func (h *Hand) Size() int {
	return len(h.ids)
}

// Full returns true once three cards are selected
func (h *Hand) Full() bool {
	return len(h.ids) == rules.TripleSize
}

// IDs returns a copy of the selected card ids in selection order
func (h *Hand) IDs() []model.CardID {
	ids := make([]model.CardID, len(h.ids))
	copy(ids, h.ids)
	return ids
}

// Clear empties the hand
func (h *Hand) Clear() {
	h.ids = nil
}

// State returns the selection phase
func (h *Hand) State() HandState {
	switch len(h.ids) {
	case 0:
		return HandIdle
	case 1:
		return HandOneSelected
	case 2:
		return HandTwoSelected
	default:
		return HandFull
	}
}
