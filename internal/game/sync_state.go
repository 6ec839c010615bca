// internal/game/sync_state.go
package game

import (
	"github.com/google/uuid"
	"github.com/jason-s-yu/uno/internal/models"
)

// PlayerState is one seat as seen by anyone. Hands are never included.
type PlayerState struct {
	models.PlayerView
	IsCurrentTurn bool `json:"isCurrentTurn"`
}

// State is a public snapshot of the table.
type State struct {
	GameID          uuid.UUID     `json:"gameId"`
	Phase           Phase         `json:"phase"`
	Started         bool          `json:"started"`
	Round           int           `json:"round"`
	CurrentPlayerID *int          `json:"currentPlayerId,omitempty"`
	CurrentCard     *models.Card  `json:"currentCard,omitempty"`
	CurrentColor    models.Color  `json:"currentColor"`
	Direction       Direction     `json:"direction"`
	AwaitingColor   bool          `json:"awaitingColor"`
	DrawPileSize    int           `json:"drawPileSize"`
	DiscardSize     int           `json:"discardSize"`
	WinnerID        *int          `json:"winnerId,omitempty"`
	Players         []PlayerState `json:"players"`
}

// Snapshot generates the public state of the game. Assumes lock is held.
func (g *Game) Snapshot() State {
	st := State{
		GameID:        g.ID,
		Phase:         g.phase,
		Started:       g.started,
		Round:         g.round,
		CurrentColor:  g.currentColor,
		Direction:     g.direction,
		AwaitingColor: g.awaitingColor,
		DrawPileSize:  g.draw.Len(),
		DiscardSize:   g.discard.Len(),
		Players:       make([]PlayerState, 0, g.players.Len()),
	}
	if g.currentCard != nil {
		c := *g.currentCard
		st.CurrentCard = &c
	}
	current := g.CurrentPlayer()
	if current != nil {
		id := current.ID
		st.CurrentPlayerID = &id
	}
	if g.winner != nil {
		id := g.winner.ID
		st.WinnerID = &id
	}

	for _, p := range g.players.All() {
		st.Players = append(st.Players, PlayerState{
			PlayerView:    p.Public(),
			IsCurrentTurn: current != nil && current.ID == p.ID,
		})
	}
	return st
}
