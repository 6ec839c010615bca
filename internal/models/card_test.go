package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(n int) *int { return &n }

func TestCardPoints(t *testing.T) {
	scenarios := []struct {
		description string
		card        Card
		expected    int
	}{
		{"numeric_zero", NewNumeric(ColorRed, 0), 0},
		{"numeric_seven", NewNumeric(ColorBlue, 7), 7},
		{"skip", NewSkip(ColorGreen), 20},
		{"reverse", NewReverse(ColorYellow), 20},
		{"draw_two", NewDrawTwo(ColorRed), 20},
		{"wild", NewWild(), 50},
		{"draw_four", NewDrawFour(), 50},
	}

	for _, scenario := range scenarios {
		t.Run(scenario.description, func(t *testing.T) {
			assert.Equal(t, scenario.expected, scenario.card.Points())
		})
	}
}

func TestCardEqual(t *testing.T) {
	assert.True(t, NewNumeric(ColorRed, 5).Equal(NewNumeric(ColorRed, 5)))
	assert.False(t, NewNumeric(ColorRed, 5).Equal(NewNumeric(ColorRed, 6)))
	assert.False(t, NewNumeric(ColorRed, 5).Equal(NewNumeric(ColorBlue, 5)))
	assert.False(t, NewSkip(ColorRed).Equal(NewReverse(ColorRed)))
	assert.True(t, NewWild().Equal(NewWild()))
	assert.True(t, Card{Kind: KindSkip, Color: ColorRed, Number: 3}.Equal(NewSkip(ColorRed)))
}

func TestCardImageName(t *testing.T) {
	assert.Equal(t, "5-red.png", NewNumeric(ColorRed, 5).ImageName())
	assert.Equal(t, "skip-blue.png", NewSkip(ColorBlue).ImageName())
	assert.Equal(t, "draw-two-green.png", NewDrawTwo(ColorGreen).ImageName())
	assert.Equal(t, "wild.png", NewWild().ImageName())
	assert.Equal(t, "draw-four.png", NewDrawFour().ImageName())
}

func TestParseCard(t *testing.T) {
	scenarios := []struct {
		description string
		wire        WireCard
		expected    Card
		valid       bool
	}{
		{"numeric", WireCard{Kind: "numeric", Color: "red", Number: intPtr(5)}, NewNumeric(ColorRed, 5), true},
		{"numeric_zero", WireCard{Kind: "numeric", Color: "yellow", Number: intPtr(0)}, NewNumeric(ColorYellow, 0), true},
		{"numeric_without_number", WireCard{Kind: "numeric", Color: "red"}, Card{}, false},
		{"numeric_out_of_range", WireCard{Kind: "numeric", Color: "red", Number: intPtr(10)}, Card{}, false},
		{"numeric_without_color", WireCard{Kind: "numeric", Color: "none", Number: intPtr(1)}, Card{}, false},
		{"skip", WireCard{Kind: "skip", Color: "blue"}, NewSkip(ColorBlue), true},
		{"reverse_without_color", WireCard{Kind: "reverse", Color: "none"}, Card{}, false},
		{"wild", WireCard{Kind: "wild", Color: "none"}, NewWild(), true},
		{"colored_draw_four", WireCard{Kind: "draw-four", Color: "red"}, Card{}, false},
		{"unknown_kind", WireCard{Kind: "joker", Color: "none"}, Card{}, false},
		{"unknown_color", WireCard{Kind: "skip", Color: "purple"}, Card{}, false},
	}

	for _, scenario := range scenarios {
		t.Run(scenario.description, func(t *testing.T) {
			card, err := ParseCard(scenario.wire)
			if !scenario.valid {
				require.ErrorIs(t, err, ErrInvalidCard)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, scenario.expected, card)
		})
	}
}

func TestCardJSON(t *testing.T) {
	data, err := json.Marshal(NewNumeric(ColorRed, 0))
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"numeric","color":"red","number":0}`, string(data))

	data, err = json.Marshal(NewDrawFour())
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"draw-four","color":"none"}`, string(data))

	var c Card
	require.NoError(t, json.Unmarshal([]byte(`{"kind":"reverse","color":"green"}`), &c))
	assert.Equal(t, NewReverse(ColorGreen), c)

	err = json.Unmarshal([]byte(`{"kind":"wild","color":"green"}`), &c)
	assert.ErrorIs(t, err, ErrInvalidCard)
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("blue")
	require.NoError(t, err)
	assert.Equal(t, ColorBlue, c)
	assert.True(t, c.Playable())
	assert.False(t, ColorNone.Playable())

	_, err = ParseColor("black")
	assert.ErrorIs(t, err, ErrInvalidColor)
}
