package deck

import (
	"log/slog"

	"github.com/mcoot/setgame/internal/dependencies/random"
	"github.com/mcoot/setgame/internal/model"
	"github.com/mcoot/setgame/internal/services/rules"
)

// DealResult describes what a deal changed
type DealResult struct {
	Dealt     int  // Cards moved from the deck to the board
	Grown     int  // Slots added because the board held no triple
	Exhausted bool // The deck is empty after dealing
	HasTriple bool // The board holds at least one valid triple
}

// GameOver reports whether no further play is possible. An empty deck alone
// does not end the game: play continues while the remaining board still holds
// a triple, so every set in the deck can be found.
func (r DealResult) GameOver() bool {
	return r.Exhausted && !r.HasTriple
}

// Engine owns the deck and the board of a single game.
// It is not safe for concurrent use; the game controller serialises access.
type Engine struct {
	random random.Random
	logger *slog.Logger
	deck   []model.Card
	board  *model.Board
}

// New creates an engine with a full deck and an empty board
func New(random random.Random, logger *slog.Logger) *Engine {
	e := &Engine{
		random: random,
		logger: logger,
	}
	e.Reset()
	return e
}

// Restore creates an engine from a previously captured deck and board
func Restore(random random.Random, logger *slog.Logger, deck []model.Card, board *model.Board) *Engine {
	d := make([]model.Card, len(deck))
	copy(d, deck)
	return &Engine{
		random: random,
		logger: logger,
		deck:   d,
		board:  board.Clone(),
	}
}

// BuildDeck returns all 81 cards
func BuildDeck() []model.Card {
	deck := make([]model.Card, 0, model.DeckSize)
	for _, color := range model.Colors {
		for _, shape := range model.Shapes {
			for _, shade := range model.Shades {
				for _, number := range model.Numbers {
					deck = append(deck, model.Card{Color: color, Shape: shape, Shade: shade, Number: number})
				}
			}
		}
	}
	return deck
}

// Reset replaces the deck with a fresh one and clears the board
func (e *Engine) Reset() {
	e.deck = BuildDeck()
	e.board = model.NewBoard()
}

// Deal fills empty slots up to targetSize with random cards from the deck. While the
// deck still has cards and the board holds no triple, the target grows by three and
// dealing continues. Cards already on the board are never discarded.
func (e *Engine) Deal(targetSize int) DealResult {
	var res DealResult
	for {
		res.Dealt += e.fill(targetSize)
		if _, ok := rules.FindTriple(e.board.Slots); ok {
			res.HasTriple = true
			break
		}
		if len(e.deck) == 0 {
			break
		}
		targetSize += model.BoardGrowth
		res.Grown += model.BoardGrowth
	}
	res.Exhausted = len(e.deck) == 0

	if res.Grown > 0 {
		e.logger.Debug("board grown",
			slog.Int("grown", res.Grown),
			slog.Int("board_size", e.board.Size()),
		)
	}
	return res
}

// fill places cards into empty slots in board order up to targetSize
func (e *Engine) fill(targetSize int) int {
	placed := 0
	for i := 0; i < targetSize && len(e.deck) > 0; i++ {
		if i < len(e.board.Slots) && e.board.Slots[i] != nil {
			continue
		}
		card := e.draw()
		if i < len(e.board.Slots) {
			e.board.Slots[i] = &card
		} else {
			e.board.Slots = append(e.board.Slots, &card)
		}
		placed++
	}
	return placed
}

// draw removes a uniformly random card from the deck
func (e *Engine) draw() model.Card {
	idx := e.random.Intn(len(e.deck))
	card := e.deck[idx]
	e.deck = append(e.deck[:idx], e.deck[idx+1:]...)
	return card
}

// ReturnBoardToDeck moves every board card back into the deck and redeals the
// nominal board
func (e *Engine) ReturnBoardToDeck() DealResult {
	e.deck = append(e.deck, e.board.Cards()...)
	e.board = model.NewBoard()
	return e.Deal(model.NominalBoardSize)
}

// Remove takes the given cards off the board. Scanning from the end, a slot is cut
// out while the board is larger than nominal and blanked otherwise, so a nominal
// board keeps its layout.
func (e *Engine) Remove(ids []model.CardID) int {
	want := make(map[model.CardID]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}

	removed := 0
	slots := e.board.Slots
	for i := len(slots) - 1; i >= 0; i-- {
		c := slots[i]
		if c == nil || !want[c.ID()] {
			continue
		}
		if len(slots) > model.NominalBoardSize {
			slots = append(slots[:i], slots[i+1:]...)
		} else {
			slots[i] = nil
		}
		removed++
	}
	e.board.Slots = slots
	return removed
}

// FindTriple returns the first valid triple on the board in board order
func (e *Engine) FindTriple() ([]model.Card, bool) {
	idx, ok := rules.FindTriple(e.board.Slots)
	if !ok {
		return nil, false
	}
	return []model.Card{*e.board.Slots[idx[0]], *e.board.Slots[idx[1]], *e.board.Slots[idx[2]]}, true
}

// IsOver reports whether the deck is empty and the board holds no triple
func (e *Engine) IsOver() bool {
	if len(e.deck) > 0 {
		return false
	}
	_, ok := rules.FindTriple(e.board.Slots)
	return !ok
}

// Board returns a copy of the board
func (e *Engine) Board() *model.Board {
	return e.board.Clone()
}

// Deck returns a copy of the cards not yet dealt
func (e *Engine) Deck() []model.Card {
	d := make([]model.Card, len(e.deck))
	copy(d, e.deck)
	return d
}

// DeckSize returns the number of cards not yet dealt
func (e *Engine) DeckSize() int {
	return len(e.deck)
}

// Remaining returns the number of cards still in play (deck plus board)
func (e *Engine) Remaining() int {
	return len(e.deck) + e.board.OccupiedCount()
}

// OnBoard returns the card with the given id if it is on the board
func (e *Engine) OnBoard(id model.CardID) (model.Card, bool) {
	idx := e.board.IndexOf(id)
	if idx < 0 {
		return model.Card{}, false
	}
	return *e.board.Slots[idx], true
}
