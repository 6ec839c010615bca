package game

import (
	"time"

	"github.com/jason-s-yu/uno/internal/models"
	"github.com/sirupsen/logrus"
)

// endRound scores a round won by the player who emptied their hand. The winner
// collects the hand points of every other player. Reaching the win score ends
// the game; otherwise the next round waits for everyone to be ready again.
// Assumes lock is held.
func (g *Game) endRound(winner *models.Player) {
	points := 0
	scores := make(map[int]int, g.players.Len())
	for _, p := range g.players.All() {
		if p.ID != winner.ID {
			points += p.HandPoints()
		}
	}
	winner.Score += points
	for _, p := range g.players.All() {
		scores[p.ID] = p.Score
	}

	g.winner = winner
	g.awaitingColor = false
	g.colorChosen = false

	res := RoundResult{
		GameID:     g.ID,
		Round:      g.round,
		WinnerID:   winner.ID,
		WinnerName: winner.Name,
		Points:     points,
		Scores:     scores,
		EndedAt:    time.Now(),
	}

	if winner.Score >= g.Rules.WinScore {
		res.GameOver = true
		g.phase = PhaseGameEnd
		g.emitAll(Event{Type: EventEndGame, Player: publicView(winner)})
		g.record(winner.ID, "game_end", map[string]interface{}{"score": winner.Score, "round": res.Round})
	} else {
		g.round++
		g.players.ResetReadiness()
		g.phase = PhaseRoundEnd
		g.emitAll(Event{Type: EventEndRound, Player: publicView(winner), Points: &points})
		g.record(winner.ID, "round_end", map[string]interface{}{"points": points, "round": res.Round})
	}

	g.Log.WithFields(logrus.Fields{
		"round":    res.Round,
		"winner":   winner.ID,
		"points":   points,
		"score":    winner.Score,
		"gameOver": res.GameOver,
	}).Info("round finished")

	if g.OnRoundEnd != nil {
		g.OnRoundEnd(res)
	}
}
