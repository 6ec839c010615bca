package room

import (
	"encoding/json"
	"io"
	"testing"

	"github.com/jason-s-yu/uno/internal/game"
	"github.com/jason-s-yu/uno/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type received struct {
	Type         game.EventType            `json:"type"`
	Player       *models.PlayerView        `json:"player"`
	Self         *models.PrivatePlayerView `json:"self"`
	Players      []models.PlayerView       `json:"players"`
	Notification *models.Notification      `json:"notification"`
	close        bool
}

func newQuietRoom() *Room {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return New(game.DefaultHouseRules(), logger, nil, nil)
}

// drain empties a connection's queue without blocking.
func drain(t *testing.T, c *Conn) []received {
	t.Helper()
	var out []received
	for {
		select {
		case msg := <-c.OutChan:
			var ev received
			require.NoError(t, json.Unmarshal(msg.Data, &ev))
			ev.close = msg.Close
			out = append(out, ev)
		default:
			return out
		}
	}
}

func types(evs []received) []game.EventType {
	out := make([]game.EventType, 0, len(evs))
	for _, ev := range evs {
		out = append(out, ev.Type)
	}
	return out
}

func connect(r *Room) *Conn {
	c := NewConn("test", nil)
	r.Join(c)
	return c
}

func seat(t *testing.T, r *Room, c *Conn, id int, name string) {
	t.Helper()
	require.NoError(t, r.Dispatch(c, game.Intent{Type: game.IntentNewPlayer, PlayerID: id, Name: name}))
	require.NoError(t, r.Dispatch(c, game.Intent{Type: game.IntentStageReady, Stage: 2}))
}

func TestDispatchRequiresJoin(t *testing.T) {
	r := newQuietRoom()
	c := connect(r)

	err := r.Dispatch(c, game.Intent{Type: game.IntentStart, PlayerID: 1})
	assert.ErrorIs(t, err, ErrNotJoined)

	evs := drain(t, c)
	require.Len(t, evs, 1)
	assert.Equal(t, game.EventShowNotification, evs[0].Type)
	assert.Equal(t, models.SeverityError, evs[0].Notification.Severity)
}

func TestBroadcastReachesUnjoinedConnections(t *testing.T) {
	r := newQuietRoom()
	alice := connect(r)
	watcher := connect(r)

	seat(t, r, alice, 1, "alice")
	evs := drain(t, watcher)
	require.NotEmpty(t, evs)
	assert.Equal(t, game.EventPlayers, evs[0].Type)
	assert.Equal(t, "alice", evs[0].Players[0].Name)
}

func TestMovesAreAttributedToTheBoundPlayer(t *testing.T) {
	r := newQuietRoom()
	alice, bob := connect(r), connect(r)
	seat(t, r, alice, 1, "alice")
	seat(t, r, bob, 2, "bob")

	// alice claims to be bob
	require.NoError(t, r.Dispatch(alice, game.Intent{Type: game.IntentUpdatePlayer, PlayerID: 2, Name: "mallory"}))

	st := r.State()
	require.Len(t, st.Players, 2)
	assert.Equal(t, "mallory", st.Players[0].Name)
	assert.Equal(t, "bob", st.Players[1].Name)
}

func TestBoundConnectionCannotJoinAsAnother(t *testing.T) {
	r := newQuietRoom()
	alice := connect(r)
	seat(t, r, alice, 1, "alice")
	drain(t, alice)

	err := r.Dispatch(alice, game.Intent{Type: game.IntentNewPlayer, PlayerID: 9, Name: "x"})
	assert.ErrorIs(t, err, ErrAlreadyJoined)
	assert.Len(t, r.State().Players, 1)
}

func TestStartDealsPrivately(t *testing.T) {
	r := newQuietRoom()
	alice, bob := connect(r), connect(r)
	seat(t, r, alice, 1, "alice")
	seat(t, r, bob, 2, "bob")
	drain(t, alice)
	drain(t, bob)

	require.NoError(t, r.Dispatch(alice, game.Intent{Type: game.IntentStart}))

	for id, c := range map[int]*Conn{1: alice, 2: bob} {
		evs := drain(t, c)
		require.Len(t, evs, 1, "player %d", id)
		assert.Equal(t, game.EventStartGame, evs[0].Type)
		require.NotNil(t, evs[0].Self)
		assert.Equal(t, id, evs[0].Self.ID)
		assert.Len(t, evs[0].Self.Hand, 7)
	}
	assert.Equal(t, game.PhasePlaying, r.State().Phase)
}

func TestLateJoinerHearsGameAlreadyStarted(t *testing.T) {
	r := newQuietRoom()
	alice, bob := connect(r), connect(r)
	seat(t, r, alice, 1, "alice")
	seat(t, r, bob, 2, "bob")
	require.NoError(t, r.Dispatch(alice, game.Intent{Type: game.IntentStart}))

	late := connect(r)
	err := r.Dispatch(late, game.Intent{Type: game.IntentNewPlayer, PlayerID: 3, Name: "carol"})
	assert.ErrorIs(t, err, game.ErrGameAlreadyStarted)
	assert.Equal(t, []game.EventType{game.EventGameAlreadyStarted}, types(drain(t, late)))

	// still unbound
	err = r.Dispatch(late, game.Intent{Type: game.IntentSayUno})
	assert.ErrorIs(t, err, ErrNotJoined)
}

func TestHijackedJoinIsAnsweredOnTheRequester(t *testing.T) {
	r := newQuietRoom()
	alice, bob := connect(r), connect(r)
	seat(t, r, alice, 1, "alice")
	seat(t, r, bob, 2, "bob")
	require.NoError(t, r.Dispatch(alice, game.Intent{Type: game.IntentStart}))
	drain(t, alice)

	// a new connection reclaiming seat 1 mid game is a reconnect
	again := connect(r)
	require.NoError(t, r.Dispatch(again, game.Intent{Type: game.IntentNewPlayer, PlayerID: 1, Name: "alice"}))

	old := drain(t, alice)
	require.NotEmpty(t, old)
	assert.True(t, old[len(old)-1].close, "previous connection must be closed")

	// the old socket going away does not log alice out
	r.Leave(alice)
	assert.Len(t, r.State().Players, 2)

	require.NoError(t, r.Dispatch(again, game.Intent{Type: game.IntentStageReady, Stage: 3}))
}

func TestReconnectMidRoundResendsHand(t *testing.T) {
	r := newQuietRoom()
	alice, bob := connect(r), connect(r)
	seat(t, r, alice, 1, "alice")
	seat(t, r, bob, 2, "bob")
	require.NoError(t, r.Dispatch(alice, game.Intent{Type: game.IntentStart}))
	drain(t, alice)

	again := connect(r)
	require.NoError(t, r.Dispatch(again, game.Intent{Type: game.IntentNewPlayer, PlayerID: 2, Name: "bob"}))

	evs := drain(t, again)
	var self *models.PrivatePlayerView
	for _, ev := range evs {
		if ev.Type == game.EventStartGame {
			self = ev.Self
		}
	}
	require.NotNil(t, self, "got %v", types(evs))
	assert.Equal(t, 2, self.ID)
	assert.Len(t, self.Hand, 7)
	assert.Contains(t, types(evs), game.EventSetCurrentPlayer)

	for _, ev := range drain(t, alice) {
		assert.NotEqual(t, game.EventStartGame, ev.Type)
	}
}

func TestRestartMovesToANewGame(t *testing.T) {
	r := newQuietRoom()
	alice := connect(r)
	seat(t, r, alice, 1, "alice")
	before := r.State().GameID

	require.NoError(t, r.Dispatch(alice, game.Intent{Type: game.IntentRestart}))
	assert.NotEqual(t, before, r.State().GameID)
	assert.Equal(t, r.State().GameID, r.log.Data["game"])
}

func TestDroppedConnectionLogsOut(t *testing.T) {
	r := newQuietRoom()
	alice, bob, carol := connect(r), connect(r), connect(r)
	seat(t, r, alice, 1, "alice")
	seat(t, r, bob, 2, "bob")
	seat(t, r, carol, 3, "carol")
	drain(t, alice)

	r.Leave(bob)

	evs := drain(t, alice)
	require.NotEmpty(t, evs)
	assert.Equal(t, game.EventLoggedOut, evs[0].Type)
	assert.Equal(t, 2, evs[0].Player.ID)
	assert.Len(t, r.State().Players, 2)
	assert.Equal(t, 2, r.Connections())
}

func TestLogOutClosesTheSender(t *testing.T) {
	r := newQuietRoom()
	alice, bob := connect(r), connect(r)
	seat(t, r, alice, 1, "alice")
	seat(t, r, bob, 2, "bob")
	drain(t, bob)

	require.NoError(t, r.Dispatch(bob, game.Intent{Type: game.IntentLogOut}))

	evs := drain(t, bob)
	require.Len(t, evs, 1, "nothing follows the closing message")
	assert.Equal(t, game.EventLoggedOut, evs[0].Type)
	assert.True(t, evs[0].close)

	// the read loop ending afterwards is not a second log out
	r.Leave(bob)
	assert.Len(t, r.State().Players, 1)
}

func TestRestartUnbindsEveryone(t *testing.T) {
	r := newQuietRoom()
	alice, bob := connect(r), connect(r)
	seat(t, r, alice, 1, "alice")
	seat(t, r, bob, 2, "bob")
	drain(t, alice)
	drain(t, bob)

	require.NoError(t, r.Dispatch(bob, game.Intent{Type: game.IntentRestart}))
	assert.Equal(t, []game.EventType{game.EventRestart}, types(drain(t, alice)))
	assert.Empty(t, r.State().Players)

	assert.ErrorIs(t, r.Dispatch(alice, game.Intent{Type: game.IntentStart}), ErrNotJoined)
	seat(t, r, alice, 1, "alice")
	assert.Len(t, r.State().Players, 1)
}

func TestSlowConnectionIsDropped(t *testing.T) {
	r := newQuietRoom()
	cancelled := false
	slow := NewConn("slow", func() { cancelled = true })
	r.Join(slow)
	alice := connect(r)

	seat(t, r, alice, 1, "alice")
	for i := 0; i < OutChanSize; i++ {
		require.NoError(t, r.Dispatch(alice, game.Intent{Type: game.IntentUpdatePlayer, Name: "alice"}))
	}
	assert.True(t, cancelled)
}
