// internal/room/room.go
package room

import (
	"errors"
	"sync"

	"github.com/jason-s-yu/uno/internal/game"
	"github.com/jason-s-yu/uno/internal/models"
	"github.com/sirupsen/logrus"
)

var (
	ErrNotJoined     = errors.New("join the game before sending moves")
	ErrAlreadyJoined = errors.New("this connection already joined as another player")
)

// Room serializes every intent against the single game table and delivers the
// resulting events before the next intent is looked at.
type Room struct {
	mu   sync.Mutex
	game *game.Game
	hub  *Hub
	log  *logrus.Entry
}

// New opens an empty table. rec and onRoundEnd may be nil.
func New(rules game.HouseRules, logger *logrus.Logger, rec game.Recorder, onRoundEnd game.OnRoundEndFunc) *Room {
	g := game.NewGame(rules)
	log := logger.WithField("game", g.ID)
	g.Log = log
	g.Recorder = rec
	g.OnRoundEnd = onRoundEnd

	return &Room{
		game: g,
		hub:  NewHub(log),
		log:  log,
	}
}

// Join registers a freshly accepted connection. It receives broadcasts but
// cannot act until its new-player intent is accepted.
func (r *Room) Join(c *Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hub.Register(c)
	r.log.WithFields(logrus.Fields{"conn": c.ID, "remote": c.Remote, "connections": r.hub.Len()}).Debug("connection joined")
}

// Dispatch applies one intent from c. Moves are always attributed to the
// player the connection is bound to, whatever id the payload carries.
func (r *Room) Dispatch(c *Conn, in game.Intent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if in.Type == game.IntentNewPlayer {
		if c.bound && c.playerID != in.PlayerID {
			r.reject(c, in.Type, ErrAlreadyJoined)
			return ErrAlreadyJoined
		}
	} else {
		if !c.bound {
			r.reject(c, in.Type, ErrNotJoined)
			return ErrNotJoined
		}
		in.PlayerID = c.playerID
	}

	envs, err := r.game.Handle(in)
	if err == nil && in.Type == game.IntentNewPlayer {
		if old := r.hub.Bind(c, in.PlayerID); old != nil {
			r.log.WithFields(logrus.Fields{"player": in.PlayerID, "conn": old.ID}).Info("player reconnected, closing previous connection")
			r.hub.send(old, encodeEvent(replacedEvent, r.log), true)
		}
	}

	r.hub.Deliver(envs, c, in.PlayerID)

	if err == nil {
		switch in.Type {
		case game.IntentLogOut:
			r.hub.Unbind(c)
		case game.IntentRestart:
			r.hub.UnbindAll()
			r.log = r.game.Log
			r.hub.log = r.log
		}
	}
	return err
}

// Leave is called once a connection's read loop has ended. A dropped
// connection that still owned a seat logs that player out.
func (r *Room) Leave(c *Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()

	playerID, owned := r.hub.Unregister(c)
	fields := logrus.Fields{"conn": c.ID, "remote": c.Remote, "connections": r.hub.Len()}
	if !owned {
		r.log.WithFields(fields).Debug("connection left")
		return
	}

	fields["player"] = playerID
	r.log.WithFields(fields).Info("connection dropped, logging player out")
	envs, err := r.game.Handle(game.Intent{Type: game.IntentLogOut, PlayerID: playerID})
	if err != nil {
		return
	}
	r.hub.Deliver(envs, nil, 0)
}

// State returns a public snapshot of the table.
func (r *Room) State() game.State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.game.Snapshot()
}

// Connections reports how many sockets are open against the room.
func (r *Room) Connections() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.hub.Len()
}

// RejectFrame answers c for a frame that never decoded into an intent.
func (r *Room) RejectFrame(c *Conn, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reject(c, "", err)
}

// reject answers c directly, for requests the game never sees.
func (r *Room) reject(c *Conn, t game.IntentType, err error) {
	r.log.WithFields(logrus.Fields{"conn": c.ID, "intent": t}).WithError(err).Warn("intent rejected")
	r.hub.SendEvent(c, game.Event{
		Type: game.EventShowNotification,
		Notification: &models.Notification{
			Title:    "Action rejected",
			Message:  err.Error(),
			Severity: models.SeverityError,
			Position: models.PositionTopCenter,
		},
	})
}

var replacedEvent = game.Event{
	Type: game.EventShowNotification,
	Notification: &models.Notification{
		Title:    "Disconnected",
		Message:  "You joined from another connection",
		Severity: models.SeverityWarning,
		Position: models.PositionTopCenter,
	},
}
