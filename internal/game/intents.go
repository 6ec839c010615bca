package game

import (
	"errors"
	"fmt"

	"github.com/jason-s-yu/uno/internal/models"
	"github.com/sirupsen/logrus"
)

// IntentType names an inbound client message.
type IntentType string

const (
	IntentNewPlayer    IntentType = "new-player"
	IntentUpdatePlayer IntentType = "update-player"
	IntentStart        IntentType = "start"
	IntentStageReady   IntentType = "stage-ready"
	IntentSelectCard   IntentType = "select-card"
	IntentSelectColor  IntentType = "select-color"
	IntentTurnEnded    IntentType = "turn-ended"
	IntentPickFromDeck IntentType = "pick-from-deck"
	IntentSayUno       IntentType = "say-uno"
	IntentDidntSayUno  IntentType = "didnt-say-uno"
	IntentLogOut       IntentType = "log-out"
	IntentRestart      IntentType = "restart"
)

// Intent is a decoded client request. PlayerID is the sender.
type Intent struct {
	Type     IntentType
	PlayerID int
	Name     string
	Stage    int
	Card     models.Card
	Color    models.Color
}

// Handle applies one intent to completion and returns everything it emitted,
// in order. A rejected intent leaves the game untouched and yields an error
// notification addressed to the sender only.
func (g *Game) Handle(in Intent) ([]Envelope, error) {
	err := g.apply(in)
	if err != nil {
		g.Log.WithFields(logrus.Fields{
			"intent": in.Type,
			"player": in.PlayerID,
		}).WithError(err).Warn("intent rejected")

		// the game-already-started event already tells the client why
		if !errors.Is(err, ErrGameAlreadyStarted) {
			g.notify(Only(in.PlayerID), models.Notification{
				Title:    rejectionTitle(in.Type),
				Message:  err.Error(),
				Severity: models.SeverityError,
				Position: models.PositionTopCenter,
			})
		}
	} else {
		g.Log.WithFields(logrus.Fields{"intent": in.Type, "player": in.PlayerID}).Debug("intent applied")
	}
	return g.Flush(), err
}

func (g *Game) apply(in Intent) error {
	switch in.Type {
	case IntentNewPlayer:
		return g.AddPlayer(in.PlayerID, in.Name)
	case IntentUpdatePlayer:
		return g.UpdatePlayer(in.PlayerID, in.Name)
	case IntentStart:
		return g.StartRound(in.PlayerID)
	case IntentStageReady:
		return g.StageReady(in.PlayerID, in.Stage)
	case IntentSelectCard:
		return g.PlayCard(in.PlayerID, in.Card)
	case IntentSelectColor:
		return g.SelectColor(in.PlayerID, in.Color)
	case IntentTurnEnded:
		return g.TurnEnded(in.PlayerID)
	case IntentPickFromDeck:
		return g.PickFromDeck(in.PlayerID)
	case IntentSayUno:
		return g.SayUno(in.PlayerID)
	case IntentDidntSayUno:
		return g.DidntSayUno(in.PlayerID)
	case IntentLogOut:
		return g.LogOut(in.PlayerID)
	case IntentRestart:
		g.Restart()
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownIntent, in.Type)
}

func rejectionTitle(t IntentType) string {
	switch t {
	case IntentStart:
		return "Could not start the game"
	case IntentSelectCard:
		return "Card rejected"
	case IntentNewPlayer, IntentUpdatePlayer:
		return "Could not join"
	}
	return "Action rejected"
}
