package game

import (
	"errors"
	"fmt"
)

// Rejections returned by game operations. None of them change state.
var (
	ErrGameAlreadyStarted = errors.New("game already started")
	ErrNotHost            = errors.New("only the first player can start the game")
	ErrPlayersNotReady    = errors.New("not every player is ready")
	ErrPlayerNotFound     = errors.New("player not found")
	ErrWrongPhase         = errors.New("action not allowed right now")
	ErrNotYourTurn        = errors.New("it is not your turn")
	ErrCardNotInHand      = errors.New("card is not in your hand")
	ErrIllegalCard        = errors.New("card cannot be played on the current card")
	ErrColorPending       = errors.New("a color must be chosen first")
	ErrNoColorPending     = errors.New("no color choice is pending")
	ErrUnknownIntent      = errors.New("unknown intent")
	ErrUnknownStage       = errors.New("unknown stage")
)

// PlayerCountError reports that the table is outside the allowed size.
type PlayerCountError struct {
	Count   int
	Bound   int
	TooMany bool
}

func (e *PlayerCountError) Error() string {
	if e.TooMany {
		return fmt.Sprintf("too many players: %d, maximum is %d", e.Count, e.Bound)
	}
	return fmt.Sprintf("not enough players: %d, minimum is %d", e.Count, e.Bound)
}
