// internal/room/hub.go
package room

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jason-s-yu/uno/internal/game"
	"github.com/sirupsen/logrus"
)

// OutChanSize is how many messages may queue for a slow client before it is dropped.
const OutChanSize = 64

// Outbound is one message waiting in a connection's queue.
type Outbound struct {
	Data  []byte
	Close bool // close the socket after writing Data
}

// Conn is one connected client. A connection becomes bound to a player id
// once its new-player intent is accepted.
type Conn struct {
	ID      uuid.UUID
	Remote  string
	OutChan chan Outbound
	Cancel  context.CancelFunc

	playerID int
	bound    bool
	closing  bool
}

func NewConn(remote string, cancel context.CancelFunc) *Conn {
	return &Conn{
		ID:      uuid.New(),
		Remote:  remote,
		OutChan: make(chan Outbound, OutChanSize),
		Cancel:  cancel,
	}
}

// Hub tracks the connections of a room and fans events out to them.
// Assumes the room lock is held for every call.
type Hub struct {
	conns    map[uuid.UUID]*Conn
	byPlayer map[int]*Conn
	log      *logrus.Entry
}

func NewHub(log *logrus.Entry) *Hub {
	return &Hub{
		conns:    make(map[uuid.UUID]*Conn),
		byPlayer: make(map[int]*Conn),
		log:      log,
	}
}

func (h *Hub) Register(c *Conn) {
	h.conns[c.ID] = c
}

// Unregister forgets the connection. It reports the player id the connection
// still owned, if any.
func (h *Hub) Unregister(c *Conn) (int, bool) {
	delete(h.conns, c.ID)
	if c.bound && h.byPlayer[c.playerID] == c {
		delete(h.byPlayer, c.playerID)
		return c.playerID, true
	}
	return 0, false
}

// Bind attaches c to a player id and returns the connection it displaced.
func (h *Hub) Bind(c *Conn, playerID int) *Conn {
	old := h.byPlayer[playerID]
	if old == c {
		return nil
	}
	if old != nil {
		old.bound = false
	}
	c.playerID = playerID
	c.bound = true
	h.byPlayer[playerID] = c
	return old
}

func (h *Hub) Unbind(c *Conn) {
	if c.bound && h.byPlayer[c.playerID] == c {
		delete(h.byPlayer, c.playerID)
	}
	c.bound = false
}

// UnbindAll detaches every connection from its player. Connections stay open.
func (h *Hub) UnbindAll() {
	for _, c := range h.byPlayer {
		c.bound = false
	}
	h.byPlayer = make(map[int]*Conn)
}

// BoundTo returns the connection bound to playerID, or nil.
func (h *Hub) BoundTo(playerID int) *Conn {
	return h.byPlayer[playerID]
}

func (h *Hub) Len() int {
	return len(h.conns)
}

// Deliver queues envelopes in order. Broadcasts reach every open connection,
// joined or not. A private envelope for requesterID goes to requester when
// that player id is held by some other connection or by nobody, which is how
// a rejected join still hears back.
func (h *Hub) Deliver(envs []game.Envelope, requester *Conn, requesterID int) {
	for _, env := range envs {
		data := encodeEvent(env.Event, h.log)

		if env.To.Kind == game.ToOne {
			target := h.byPlayer[env.To.PlayerID]
			if requester != nil && env.To.PlayerID == requesterID && target != requester {
				target = requester
			}
			if target != nil {
				h.send(target, data, env.Close)
			}
			continue
		}

		for _, c := range h.conns {
			if c.bound && !env.To.Includes(c.playerID) {
				continue
			}
			h.send(c, data, env.Close)
		}
	}
}

// SendEvent queues a single event for one connection.
func (h *Hub) SendEvent(c *Conn, ev game.Event) {
	h.send(c, encodeEvent(ev, h.log), false)
}

// send never blocks. A client that cannot keep up is disconnected.
func (h *Hub) send(c *Conn, data []byte, closeAfter bool) {
	if c.closing {
		return
	}
	select {
	case c.OutChan <- Outbound{Data: data, Close: closeAfter}:
		if closeAfter {
			c.closing = true
		}
	default:
		h.log.WithFields(logrus.Fields{"conn": c.ID, "remote": c.Remote}).Warn("outbound queue full, dropping connection")
		c.closing = true
		if c.Cancel != nil {
			c.Cancel()
		}
	}
}

// encodeEvent marshals an event, falling back to "{}" so a bad payload never
// takes a connection down.
func encodeEvent(ev game.Event, log *logrus.Entry) []byte {
	data, err := json.Marshal(ev)
	if err != nil {
		log.WithError(err).WithField("type", ev.Type).Warn("failed to marshal event")
		return []byte("{}")
	}
	return data
}
