package model

// Board sizing
const (
	NominalBoardSize = 12 // Cards dealt at the start of a game
	BoardGrowth      = 3  // Slots added when the board holds no triple
	BoardRows        = 3  // Rows used when laying the board out
)

// Board is the ordered set of face-up slots. A nil slot is empty.
type Board struct {
	Slots []*Card `json:"slots"`
}

// NewBoard creates an empty board
func NewBoard() *Board {
	return &Board{}
}

// Size returns the number of slots, occupied or not
func (b *Board) Size() int {
	return len(b.Slots)
}

// Get returns the card at the given slot, or nil if empty or out of range
func (b *Board) Get(idx int) *Card {
	if idx < 0 || idx >= len(b.Slots) {
		return nil
	}
	return b.Slots[idx]
}

// IsEmpty returns true if the slot holds no card
func (b *Board) IsEmpty(idx int) bool {
	return b.Get(idx) == nil
}

// OccupiedCount returns the number of slots holding a card
func (b *Board) OccupiedCount() int {
	count := 0
	for _, c := range b.Slots {
		if c != nil {
			count++
		}
	}
	return count
}

// Cards returns the occupied slots in board order
func (b *Board) Cards() []Card {
	cards := make([]Card, 0, len(b.Slots))
	for _, c := range b.Slots {
		if c != nil {
			cards = append(cards, *c)
		}
	}
	return cards
}

// IndexOf returns the slot holding the card, or -1
func (b *Board) IndexOf(id CardID) int {
	for i, c := range b.Slots {
		if c != nil && c.ID() == id {
			return i
		}
	}
	return -1
}

// Contains returns true if the card is on the board
func (b *Board) Contains(id CardID) bool {
	return b.IndexOf(id) >= 0
}

// Clone returns a copy whose slot slice can be mutated independently
func (b *Board) Clone() *Board {
	slots := make([]*Card, len(b.Slots))
	copy(slots, b.Slots)
	return &Board{Slots: slots}
}

// Columns returns the column count for a three-row layout
func (b *Board) Columns() int {
	return (len(b.Slots) + BoardRows - 1) / BoardRows
}

// Rows lays the slots out row-major into three rows
func (b *Board) Rows() [][]*Card {
	cols := b.Columns()
	rows := make([][]*Card, BoardRows)
	for r := range rows {
		rows[r] = make([]*Card, cols)
		for c := 0; c < cols; c++ {
			rows[r][c] = b.Get(r*cols + c)
		}
	}
	return rows
}
