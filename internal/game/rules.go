// internal/game/rules.go
package game

import (
	"fmt"

	"github.com/jason-s-yu/uno/internal/models"
)

// HouseRules holds the tunable constants of a game.
type HouseRules struct {
	MinPlayers   int `json:"minPlayers" mapstructure:"min_players"`
	MaxPlayers   int `json:"maxPlayers" mapstructure:"max_players"`
	InitialCards int `json:"initialCards" mapstructure:"initial_cards"`
	WinScore     int `json:"winScore" mapstructure:"win_score"`

	// PenaltyCards is drawn for a false uno call or a missed one.
	PenaltyCards int `json:"penaltyCards" mapstructure:"penalty_cards"`

	// DrawTwoSkips makes the draw two victim lose their turn as well.
	DrawTwoSkips bool `json:"drawTwoSkips" mapstructure:"draw_two_skips"`

	// EnforceLegality rejects plays that do not match the current card or color.
	EnforceLegality bool `json:"enforceLegality" mapstructure:"enforce_legality"`
}

func DefaultHouseRules() HouseRules {
	return HouseRules{
		MinPlayers:      2,
		MaxPlayers:      4,
		InitialCards:    7,
		WinScore:        500,
		PenaltyCards:    2,
		DrawTwoSkips:    true,
		EnforceLegality: true,
	}
}

// Validate checks that a full deck can serve the table.
func (r HouseRules) Validate() error {
	if r.MinPlayers < 2 {
		return fmt.Errorf("minPlayers must be at least 2, got %d", r.MinPlayers)
	}
	if r.MaxPlayers < r.MinPlayers {
		return fmt.Errorf("maxPlayers (%d) must not be below minPlayers (%d)", r.MaxPlayers, r.MinPlayers)
	}
	if r.InitialCards < 1 {
		return fmt.Errorf("initialCards must be positive, got %d", r.InitialCards)
	}
	if r.MaxPlayers*r.InitialCards >= DeckSize {
		return fmt.Errorf("%d players with %d cards each do not fit in a %d card deck", r.MaxPlayers, r.InitialCards, DeckSize)
	}
	if r.WinScore <= 0 {
		return fmt.Errorf("winScore must be positive, got %d", r.WinScore)
	}
	if r.PenaltyCards < 0 {
		return fmt.Errorf("penaltyCards must be non-negative, got %d", r.PenaltyCards)
	}
	return nil
}

// Playable reports whether candidate may be played on top of current while
// currentColor is in effect. Wild cards always match. Cards of the current
// kind match when they are action cards, or numerics of the same number or color.
// Anything else must match the current color.
func Playable(candidate, current models.Card, currentColor models.Color) bool {
	if candidate.IsWild() {
		return true
	}
	if candidate.Kind == current.Kind {
		if candidate.Kind != models.KindNumeric {
			return true
		}
		if candidate.Number == current.Number {
			return true
		}
	}
	return candidate.Color == currentColor
}
