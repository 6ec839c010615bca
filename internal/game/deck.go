// internal/game/deck.go
package game

import (
	"math/rand"

	"github.com/jason-s-yu/uno/internal/models"
)

// DeckSize is the number of cards in a full deck.
const DeckSize = 108

// Deck is an ordered pile. Cards are drawn from the end of the slice.
// The same type backs both the draw pile and the discard pile.
type Deck struct {
	cards []models.Card
}

func NewDeck() *Deck {
	return &Deck{cards: make([]models.Card, 0, DeckSize)}
}

// Fill appends a full deck in a fixed order: wilds first, then each color's
// zero, pairs of 1-9, and pairs of skip, reverse and draw two.
func (d *Deck) Fill() {
	for i := 0; i < 4; i++ {
		d.cards = append(d.cards, models.NewWild(), models.NewDrawFour())
	}
	for _, c := range models.Colors {
		d.cards = append(d.cards, models.NewNumeric(c, 0))
		for n := 1; n <= 9; n++ {
			d.cards = append(d.cards, models.NewNumeric(c, n), models.NewNumeric(c, n))
		}
		d.cards = append(d.cards,
			models.NewSkip(c), models.NewSkip(c),
			models.NewReverse(c), models.NewReverse(c),
			models.NewDrawTwo(c), models.NewDrawTwo(c),
		)
	}
}

func (d *Deck) Shuffle(r *rand.Rand) {
	r.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

// Draw removes up to n cards from the top. It returns fewer when the pile runs out.
func (d *Deck) Draw(n int) []models.Card {
	if n > len(d.cards) {
		n = len(d.cards)
	}
	if n <= 0 {
		return []models.Card{}
	}
	cut := len(d.cards) - n
	drawn := make([]models.Card, n)
	// top card first
	for i := 0; i < n; i++ {
		drawn[i] = d.cards[len(d.cards)-1-i]
	}
	d.cards = d.cards[:cut]
	return drawn
}

func (d *Deck) DrawOne() (models.Card, bool) {
	drawn := d.Draw(1)
	if len(drawn) == 0 {
		return models.Card{}, false
	}
	return drawn[0], true
}

// PutBack slides a card under the pile so the next draws do not return it.
func (d *Deck) PutBack(c models.Card) {
	d.cards = append([]models.Card{c}, d.cards...)
}

// Push places cards on top of the pile.
func (d *Deck) Push(cards ...models.Card) {
	d.cards = append(d.cards, cards...)
}

// TakeAll empties the pile and returns what it held.
func (d *Deck) TakeAll() []models.Card {
	taken := d.cards
	d.cards = make([]models.Card, 0, DeckSize)
	return taken
}

func (d *Deck) Len() int {
	return len(d.cards)
}

// Cards returns a copy of the pile, bottom first.
func (d *Deck) Cards() []models.Card {
	out := make([]models.Card, len(d.cards))
	copy(out, d.cards)
	return out
}
