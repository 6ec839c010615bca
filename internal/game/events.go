// internal/game/events.go
package game

import "github.com/jason-s-yu/uno/internal/models"

// EventType names an outbound message.
type EventType string

const (
	EventPlayers            EventType = "players"
	EventUpdatePlayer       EventType = "update-player"
	EventShowNotification   EventType = "show-notification"
	EventStartGame          EventType = "start-game" // private: own hand plus the opening state
	EventSetCurrentPlayer   EventType = "set-current-player"
	EventSetDirection       EventType = "set-direction"
	EventSetCurrentCard     EventType = "set-current-card"
	EventSetCurrentColor    EventType = "set-current-color"
	EventAddCards           EventType = "add-cards" // private
	EventUpdateCardCount    EventType = "update-card-count"
	EventEndRound           EventType = "end-round"
	EventEndGame            EventType = "end-game"
	EventLoggedOut          EventType = "logged-out"
	EventGameAlreadyStarted EventType = "game-already-started"
	EventRestart            EventType = "restart"
)

// Event is the JSON payload delivered to clients. Only the fields relevant to Type are set.
type Event struct {
	Type EventType `json:"type"`

	Player  *models.PlayerView        `json:"player,omitempty"`
	Self    *models.PrivatePlayerView `json:"self,omitempty"`
	Players []models.PlayerView       `json:"players,omitempty"`

	Card      *models.Card  `json:"card,omitempty"`
	Cards     []models.Card `json:"cards,omitempty"`
	Color     models.Color  `json:"color,omitempty"`
	Direction *Direction    `json:"direction,omitempty"`
	Round     int           `json:"round,omitempty"`
	Points    *int          `json:"points,omitempty"`
	Counts    map[int]int   `json:"counts,omitempty"`
	Reason    string        `json:"reason,omitempty"`

	Notification *models.Notification `json:"notification,omitempty"`
}

// AudienceKind selects which connections receive an envelope.
type AudienceKind int

const (
	ToAll AudienceKind = iota
	ToOne
	ToAllBut
)

type Audience struct {
	Kind     AudienceKind
	PlayerID int
}

func All() Audience              { return Audience{Kind: ToAll} }
func Only(playerID int) Audience { return Audience{Kind: ToOne, PlayerID: playerID} }
func AllBut(playerID int) Audience {
	return Audience{Kind: ToAllBut, PlayerID: playerID}
}

// Includes reports whether a connection bound to playerID should receive the envelope.
func (a Audience) Includes(playerID int) bool {
	switch a.Kind {
	case ToOne:
		return a.PlayerID == playerID
	case ToAllBut:
		return a.PlayerID != playerID
	}
	return true
}

// Envelope pairs an event with its audience. Close asks the transport to drop
// the recipient once the event has been written.
type Envelope struct {
	To    Audience
	Event Event
	Close bool
}

// emit queues an event. Assumes lock is held.
func (g *Game) emit(to Audience, ev Event) {
	g.outbox = append(g.outbox, Envelope{To: to, Event: ev})
}

func (g *Game) emitAll(ev Event) {
	g.emit(All(), ev)
}

func (g *Game) emitTo(playerID int, ev Event) {
	g.emit(Only(playerID), ev)
}

func (g *Game) emitAllBut(playerID int, ev Event) {
	g.emit(AllBut(playerID), ev)
}

func (g *Game) notify(to Audience, n models.Notification) {
	if n.Position == "" {
		n.Position = models.PositionBottomLeft
	}
	g.emit(to, Event{Type: EventShowNotification, Notification: &n})
}

func (g *Game) emitCardCounts() {
	g.emitAll(Event{Type: EventUpdateCardCount, Counts: g.players.CardCounts()})
}

func (g *Game) emitCurrentPlayer(to Audience) {
	view := g.players.At(g.current).Public()
	g.emit(to, Event{Type: EventSetCurrentPlayer, Player: &view})
}

// Flush returns queued envelopes in emission order and empties the queue.
func (g *Game) Flush() []Envelope {
	out := g.outbox
	g.outbox = nil
	return out
}

func publicView(p *models.Player) *models.PlayerView {
	v := p.Public()
	return &v
}

func privateView(p *models.Player) *models.PrivatePlayerView {
	v := p.Private()
	return &v
}
