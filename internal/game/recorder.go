package game

import (
	"time"

	"github.com/google/uuid"
)

// Action is one applied change to the game, in the order it happened.
type Action struct {
	GameID    uuid.UUID
	Index     int
	ActorID   int // 0 for server driven actions such as a reshuffle
	Type      string
	Payload   map[string]interface{}
	Timestamp int64 // epoch millis
}

// Recorder receives every action the game applies. Implementations must not block.
type Recorder interface {
	Record(a Action)
}

// RecorderFunc adapts a plain function to Recorder.
type RecorderFunc func(a Action)

func (f RecorderFunc) Record(a Action) { f(a) }

// RoundResult summarizes a finished round.
type RoundResult struct {
	GameID     uuid.UUID
	Round      int
	WinnerID   int
	WinnerName string
	Points     int
	Scores     map[int]int
	GameOver   bool
	EndedAt    time.Time
}

// OnRoundEndFunc is invoked after a round is scored, with the game lock held.
type OnRoundEndFunc func(res RoundResult)

// record hands an action to the recorder, if any. Assumes lock is held.
func (g *Game) record(actorID int, actionType string, payload map[string]interface{}) {
	g.actionIndex++
	if g.Recorder == nil {
		return
	}
	if payload == nil {
		payload = make(map[string]interface{})
	}
	g.Recorder.Record(Action{
		GameID:    g.ID,
		Index:     g.actionIndex,
		ActorID:   actorID,
		Type:      actionType,
		Payload:   payload,
		Timestamp: time.Now().UnixMilli(),
	})
}
