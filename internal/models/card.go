// internal/models/card.go
package models

import (
	"encoding/json"
	"fmt"
)

// Kind is the face type of a card.
type Kind string

const (
	KindNumeric  Kind = "numeric"
	KindSkip     Kind = "skip"
	KindReverse  Kind = "reverse"
	KindDrawTwo  Kind = "draw-two"
	KindDrawFour Kind = "draw-four"
	KindWild     Kind = "wild" // a.k.a. color change
)

// Card is an immutable value. Two cards with the same kind, color and number
// are interchangeable, so hands and piles compare by value rather than identity.
type Card struct {
	Kind   Kind
	Color  Color
	Number int
}

func NewNumeric(c Color, n int) Card { return Card{Kind: KindNumeric, Color: c, Number: n} }
func NewSkip(c Color) Card           { return Card{Kind: KindSkip, Color: c} }
func NewReverse(c Color) Card        { return Card{Kind: KindReverse, Color: c} }
func NewDrawTwo(c Color) Card        { return Card{Kind: KindDrawTwo, Color: c} }
func NewWild() Card                  { return Card{Kind: KindWild, Color: ColorNone} }
func NewDrawFour() Card              { return Card{Kind: KindDrawFour, Color: ColorNone} }

// IsWild reports whether the player chooses the color after playing the card.
func (c Card) IsWild() bool {
	return c.Kind == KindWild || c.Kind == KindDrawFour
}

// Points is the scoring value of the card when it is left in a loser's hand.
func (c Card) Points() int {
	switch c.Kind {
	case KindNumeric:
		return c.Number
	case KindSkip, KindReverse, KindDrawTwo:
		return 20
	case KindWild, KindDrawFour:
		return 50
	}
	return 0
}

// Equal compares by value. Number only matters for numeric cards.
func (c Card) Equal(other Card) bool {
	if c.Kind != other.Kind || c.Color != other.Color {
		return false
	}
	return c.Kind != KindNumeric || c.Number == other.Number
}

// ImageName is the asset file clients render for the card.
func (c Card) ImageName() string {
	switch c.Kind {
	case KindNumeric:
		return fmt.Sprintf("%d-%s.png", c.Number, c.Color)
	case KindWild, KindDrawFour:
		return string(c.Kind) + ".png"
	}
	return fmt.Sprintf("%s-%s.png", c.Kind, c.Color)
}

func (c Card) String() string {
	switch c.Kind {
	case KindNumeric:
		return fmt.Sprintf("%s %d", c.Color, c.Number)
	case KindWild, KindDrawFour:
		return string(c.Kind)
	}
	return fmt.Sprintf("%s %s", c.Color, c.Kind)
}

// WireCard is the JSON shape of a card exchanged with clients.
type WireCard struct {
	Kind   string `json:"kind"`
	Color  string `json:"color"`
	Number *int   `json:"number,omitempty"`
}

// ParseCard validates a client supplied card. It is the only path from wire data to a Card.
func ParseCard(w WireCard) (Card, error) {
	color, err := ParseColor(w.Color)
	if err != nil {
		return Card{}, fmt.Errorf("%w: %v", ErrInvalidCard, err)
	}

	switch kind := Kind(w.Kind); kind {
	case KindNumeric:
		if w.Number == nil || *w.Number < 0 || *w.Number > 9 {
			return Card{}, fmt.Errorf("%w: numeric card needs a number between 0 and 9", ErrInvalidCard)
		}
		if !color.Playable() {
			return Card{}, fmt.Errorf("%w: numeric card needs a color", ErrInvalidCard)
		}
		return NewNumeric(color, *w.Number), nil
	case KindSkip, KindReverse, KindDrawTwo:
		if !color.Playable() {
			return Card{}, fmt.Errorf("%w: %s needs a color", ErrInvalidCard, kind)
		}
		return Card{Kind: kind, Color: color}, nil
	case KindWild, KindDrawFour:
		if color != ColorNone {
			return Card{}, fmt.Errorf("%w: %s cannot carry a color", ErrInvalidCard, kind)
		}
		return Card{Kind: kind, Color: ColorNone}, nil
	default:
		return Card{}, fmt.Errorf("%w: unknown kind %q", ErrInvalidCard, w.Kind)
	}
}

// Wire returns the JSON shape of the card.
func (c Card) Wire() WireCard {
	w := WireCard{Kind: string(c.Kind), Color: string(c.Color)}
	if c.Kind == KindNumeric {
		n := c.Number
		w.Number = &n
	}
	return w
}

func (c Card) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Wire())
}

func (c *Card) UnmarshalJSON(data []byte) error {
	var w WireCard
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	parsed, err := ParseCard(w)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
