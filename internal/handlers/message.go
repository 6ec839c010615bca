// internal/handlers/message.go
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jason-s-yu/uno/internal/game"
	"github.com/jason-s-yu/uno/internal/models"
)

var (
	ErrMissingType = errors.New("message has no type")
	ErrMissingCard = errors.New("select-card requires a card")
)

// ClientMessage is the JSON frame a client sends. Only the fields relevant to
// Type are read.
type ClientMessage struct {
	Type  string           `json:"type"`
	ID    int              `json:"id,omitempty"`
	Name  string           `json:"name,omitempty"`
	Stage int              `json:"stage,omitempty"`
	Card  *models.WireCard `json:"card,omitempty"`
	Color string           `json:"color,omitempty"`
}

// decodeIntent turns a raw frame into a game intent. Cards and colors are
// rebuilt from their wire form; nothing the client sends is used as is.
func decodeIntent(data []byte) (game.Intent, error) {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return game.Intent{}, fmt.Errorf("invalid json: %w", err)
	}
	if msg.Type == "" {
		return game.Intent{}, ErrMissingType
	}

	in := game.Intent{
		Type:     game.IntentType(msg.Type),
		PlayerID: msg.ID,
		Name:     msg.Name,
		Stage:    msg.Stage,
	}

	switch in.Type {
	case game.IntentSelectCard:
		if msg.Card == nil {
			return game.Intent{}, ErrMissingCard
		}
		card, err := models.ParseCard(*msg.Card)
		if err != nil {
			return game.Intent{}, err
		}
		in.Card = card
	case game.IntentSelectColor:
		color, err := models.ParseColor(msg.Color)
		if err != nil {
			return game.Intent{}, err
		}
		in.Color = color
	}
	return in, nil
}
