package rules

import "github.com/mcoot/setgame/internal/model"

// TripleSize is the number of cards in a hand
const TripleSize = 3

// IsValidTriple reports whether three cards form a set: for every attribute the
// three values are either all equal or all distinct
func IsValidTriple(a, b, c model.Card) bool {
	for _, attr := range model.Attributes() {
		va, vb, vc := attr.Value(a), attr.Value(b), attr.Value(c)
		allSame := va == vb && vb == vc
		allDifferent := va != vb && vb != vc && va != vc
		if !allSame && !allDifferent {
			return false
		}
	}
	return true
}

// IsValidHand is IsValidTriple for a slice, false unless it holds exactly three cards
func IsValidHand(cards []model.Card) bool {
	if len(cards) != TripleSize {
		return false
	}
	return IsValidTriple(cards[0], cards[1], cards[2])
}

// FindTriple returns the slot indices of the first valid triple in slot order,
// skipping empty slots
func FindTriple(slots []*model.Card) ([TripleSize]int, bool) {
	n := len(slots)
	for i := 0; i < n-2; i++ {
		if slots[i] == nil {
			continue
		}
		for j := i + 1; j < n-1; j++ {
			if slots[j] == nil {
				continue
			}
			for k := j + 1; k < n; k++ {
				if slots[k] == nil {
					continue
				}
				if IsValidTriple(*slots[i], *slots[j], *slots[k]) {
					return [TripleSize]int{i, j, k}, true
				}
			}
		}
	}
	return [TripleSize]int{}, false
}

// CountTriples returns the number of valid triples among the occupied slots
func CountTriples(slots []*model.Card) int {
	count := 0
	n := len(slots)
	for i := 0; i < n-2; i++ {
		if slots[i] == nil {
			continue
		}
		for j := i + 1; j < n-1; j++ {
			if slots[j] == nil {
				continue
			}
			for k := j + 1; k < n; k++ {
				if slots[k] != nil && IsValidTriple(*slots[i], *slots[j], *slots[k]) {
					count++
				}
			}
		}
	}
	return count
}

// ThirdCard returns the unique card completing a set with a and b
func ThirdCard(a, b model.Card) model.Card {
	return model.Card{
		Color:  complete(model.Colors, a.Color, b.Color),
		Shape:  complete(model.Shapes, a.Shape, b.Shape),
		Shade:  complete(model.Shades, a.Shade, b.Shade),
		Number: complete(model.Numbers, a.Number, b.Number),
	}
}

func complete[T comparable](domain []T, x, y T) T {
	if x == y {
		return x
	}
	for _, v := range domain {
		if v != x && v != y {
			return v
		}
	}
	return x
}
