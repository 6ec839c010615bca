package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlayerAddCardsResetsUno(t *testing.T) {
	p := NewPlayer(1, "ana")
	p.AddCards(NewNumeric(ColorRed, 1))
	p.SaidUno = true

	p.AddCards(NewNumeric(ColorBlue, 2))
	assert.False(t, p.SaidUno, "holding two cards must clear the uno call")
	assert.Len(t, p.Hand, 2)
}

func TestPlayerRemoveCardFirstMatchOnly(t *testing.T) {
	p := NewPlayer(1, "ana")
	p.AddCards(NewSkip(ColorRed), NewNumeric(ColorRed, 4), NewSkip(ColorRed), NewWild())

	require.True(t, p.RemoveCard(NewSkip(ColorRed)))
	assert.Equal(t, []Card{NewNumeric(ColorRed, 4), NewSkip(ColorRed), NewWild()}, p.Hand)

	assert.False(t, p.RemoveCard(NewSkip(ColorBlue)))
	assert.Len(t, p.Hand, 3)
}

func TestPlayerHandPoints(t *testing.T) {
	p := NewPlayer(1, "ana")
	assert.Equal(t, 0, p.HandPoints())

	p.AddCards(NewNumeric(ColorRed, 7), NewSkip(ColorBlue), NewDrawFour())
	assert.Equal(t, 77, p.HandPoints())
}

func TestPlayerViews(t *testing.T) {
	p := NewPlayer(3, "bo")
	p.AddCards(NewNumeric(ColorGreen, 2))
	p.Score = 40

	data, err := json.Marshal(p.Public())
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":3,"name":"bo","points":40,"ready":false,"saidUno":false,"cardCount":1}`, string(data))

	data, err = json.Marshal(p.Private())
	require.NoError(t, err)
	assert.Contains(t, string(data), `"hand":[{"kind":"numeric","color":"green","number":2}]`)

	p.ClearHand()
	data, err = json.Marshal(p.Private())
	require.NoError(t, err)
	assert.Contains(t, string(data), `"hand":[]`)
}
