package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Color is the ink color of a card
type Color string

const (
	ColorGreen Color = "green"
	ColorBlue  Color = "blue"
	ColorRed   Color = "red"
)

// Shape is the symbol printed on a card
type Shape string

const (
	ShapeDiamond  Shape = "diamond"
	ShapeSquiggle Shape = "squiggle"
	ShapeOval     Shape = "oval"
)

// Shade is the fill style of the symbols
type Shade string

const (
	ShadeFill   Shade = "fill"
	ShadeStripe Shade = "stripe"
	ShadeOpen   Shade = "open"
)

// Number is how many symbols appear on a card (1-3)
type Number int

// Value domains, in deck-building order
var (
	Colors  = []Color{ColorGreen, ColorBlue, ColorRed}
	Shapes  = []Shape{ShapeDiamond, ShapeSquiggle, ShapeOval}
	Shades  = []Shade{ShadeFill, ShadeStripe, ShadeOpen}
	Numbers = []Number{1, 2, 3}
)

// DeckSize is the number of distinct cards (3^4)
const DeckSize = 81

// CardID uniquely identifies a card
type CardID string

// Card is an immutable Set card
type Card struct {
	Color  Color  `json:"color"`
	Shape  Shape  `json:"shape"`
	Shade  Shade  `json:"shade"`
	Number Number `json:"number"`
}

// NewCard creates a card, validating each attribute value
func NewCard(color Color, shape Shape, shade Shade, number Number) (Card, error) {
	c := Card{Color: color, Shape: shape, Shade: shade, Number: number}
	if !c.IsValid() {
		return Card{}, fmt.Errorf("%w: %s", ErrInvalidCard, c.ID())
	}
	return c, nil
}

// ID returns the card's identifier: color-shade-shape-number
func (c Card) ID() CardID {
	return CardID(fmt.Sprintf("%s-%s-%s-%d", c.Color, c.Shade, c.Shape, c.Number))
}

// IsValid reports whether every attribute holds a value from its domain
func (c Card) IsValid() bool {
	return contains(Colors, c.Color) &&
		contains(Shapes, c.Shape) &&
		contains(Shades, c.Shade) &&
		contains(Numbers, c.Number)
}

// String implements fmt.Stringer
func (c Card) String() string {
	return string(c.ID())
}

// ParseCardID reverses Card.ID
func ParseCardID(id CardID) (Card, error) {
	parts := strings.Split(string(id), "-")
	if len(parts) != 4 {
		return Card{}, fmt.Errorf("%w: %q", ErrInvalidCardID, id)
	}
	n, err := strconv.Atoi(parts[3])
	if err != nil {
		return Card{}, fmt.Errorf("%w: %q", ErrInvalidCardID, id)
	}
	c := Card{
		Color:  Color(parts[0]),
		Shade:  Shade(parts[1]),
		Shape:  Shape(parts[2]),
		Number: Number(n),
	}
	if !c.IsValid() {
		return Card{}, fmt.Errorf("%w: %q", ErrInvalidCardID, id)
	}
	return c, nil
}

// Attribute names one of the four card properties
type Attribute struct {
	Name  string
	Value func(Card) string
}

// Attributes returns the four card attributes in a fixed order.
// The validity rule iterates this list rather than inspecting struct fields.
func Attributes() []Attribute {
	return []Attribute{
		{Name: "color", Value: func(c Card) string { return string(c.Color) }},
		{Name: "shape", Value: func(c Card) string { return string(c.Shape) }},
		{Name: "shade", Value: func(c Card) string { return string(c.Shade) }},
		{Name: "number", Value: func(c Card) string { return strconv.Itoa(int(c.Number)) }},
	}
}

func contains[T comparable](values []T, v T) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
