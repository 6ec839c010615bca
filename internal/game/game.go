// internal/game/game.go
package game

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/uno/internal/models"
	"github.com/sirupsen/logrus"
)

// Phase is the coarse state of the table.
type Phase string

const (
	PhaseLobby    Phase = "lobby"
	PhasePlaying  Phase = "playing"
	PhaseRoundEnd Phase = "round-end"
	PhaseGameEnd  Phase = "game-end"
)

// Game holds the entire state for a single table in memory.
// It is not safe for concurrent use; the owning room serializes every call.
// Operations queue events which the caller collects with Flush.
type Game struct {
	ID    uuid.UUID
	Rules HouseRules

	players *Roster
	draw    *Deck
	discard *Deck

	current      int
	currentCard  *models.Card
	currentColor models.Color
	direction    Direction
	round        int
	started      bool // stays true until restart, blocks late joins
	phase        Phase
	winner       *models.Player

	// A wild was played and its owner has not ended the turn yet.
	awaitingColor bool
	colorChosen   bool

	outbox      []Envelope
	actionIndex int

	Rand *rand.Rand
	Log  *logrus.Entry

	// Recorder receives the action log. If nil, nothing is recorded.
	Recorder Recorder

	// OnRoundEnd is invoked whenever a round is scored, including the final one.
	OnRoundEnd OnRoundEndFunc
}

// NewGame builds an empty lobby.
func NewGame(rules HouseRules) *Game {
	id, _ := uuid.NewRandom()
	g := &Game{
		ID:    id,
		Rules: rules,
		Rand:  rand.New(rand.NewSource(time.Now().UnixNano())),
		Log:   logrus.WithField("game", id),
	}
	g.reset()
	return g
}

// reset returns the table to an empty lobby. Players and scores are discarded.
func (g *Game) reset() {
	g.players = NewRoster()
	g.draw = NewDeck()
	g.discard = NewDeck()
	g.current = 0
	g.currentCard = nil
	g.currentColor = models.ColorNone
	g.direction = Clockwise
	g.round = 1
	g.started = false
	g.phase = PhaseLobby
	g.winner = nil
	g.awaitingColor = false
	g.colorChosen = false
}

func (g *Game) Phase() Phase                 { return g.phase }
func (g *Game) Round() int                   { return g.round }
func (g *Game) Started() bool                { return g.started }
func (g *Game) Direction() Direction         { return g.direction }
func (g *Game) CurrentColor() models.Color   { return g.currentColor }
func (g *Game) AwaitingColor() bool          { return g.awaitingColor }
func (g *Game) Winner() *models.Player       { return g.winner }
func (g *Game) Player(id int) *models.Player { return g.players.Find(id) }
func (g *Game) Players() []*models.Player    { return g.players.All() }
func (g *Game) DrawPileSize() int            { return g.draw.Len() }
func (g *Game) DiscardPileSize() int         { return g.discard.Len() }

// CurrentCard returns false before the first round starts.
func (g *Game) CurrentCard() (models.Card, bool) {
	if g.currentCard == nil {
		return models.Card{}, false
	}
	return *g.currentCard, true
}

// CurrentPlayer returns nil while nobody holds the turn.
func (g *Game) CurrentPlayer() *models.Player {
	if !g.started || g.players.Len() == 0 {
		return nil
	}
	return g.players.At(g.current)
}

// AddPlayer seats a new player in the lobby. A known id is treated as a
// reconnect: the name is updated and, mid round, the player is sent its hand
// and the table state again.
func (g *Game) AddPlayer(id int, name string) error {
	if p := g.players.Find(id); p != nil {
		p.Name = name
		g.Log.WithField("player", id).Debug("player rejoined")
		g.emitAll(Event{Type: EventPlayers, Players: g.players.Views()})
		if g.phase == PhasePlaying {
			g.resync(p)
		}
		return nil
	}
	if g.started {
		g.emitTo(id, Event{Type: EventGameAlreadyStarted})
		return ErrGameAlreadyStarted
	}

	g.players.Add(models.NewPlayer(id, name))
	g.record(id, "join", map[string]interface{}{"name": name})
	g.Log.WithFields(logrus.Fields{"player": id, "name": name}).Info("player joined")
	g.emitAll(Event{Type: EventPlayers, Players: g.players.Views()})
	return nil
}

// UpdatePlayer renames a player.
func (g *Game) UpdatePlayer(id int, name string) error {
	p := g.players.Find(id)
	if p == nil {
		return ErrPlayerNotFound
	}
	p.Name = name
	g.emitAll(Event{Type: EventUpdatePlayer, Player: publicView(p)})
	return nil
}

// StageReady handles the client's animation checkpoints. Stage 2 marks the
// player ready for the next round; stage 3 asks for the turn to be resent.
func (g *Game) StageReady(id int, stage int) error {
	p := g.players.Find(id)
	if p == nil {
		return ErrPlayerNotFound
	}

	switch stage {
	case 2:
		p.Ready = true
		if g.phase == PhaseRoundEnd {
			g.phase = PhaseLobby
		}
		if g.winner != nil {
			g.emitTo(id, Event{Type: EventUpdatePlayer, Player: publicView(g.winner)})
		}
	case 3:
		if g.phase != PhasePlaying {
			return ErrWrongPhase
		}
		g.emitCardCounts()
		g.emitCurrentPlayer(Only(id))
	default:
		return fmt.Errorf("%w: %d", ErrUnknownStage, stage)
	}
	return nil
}

// StartRound deals a new round. Only the first seated player may start, the
// table must be within the allowed size and everyone must be ready.
func (g *Game) StartRound(requester int) error {
	if g.phase != PhaseLobby {
		return ErrWrongPhase
	}
	if g.players.Len() == 0 || g.players.At(0).ID != requester {
		return ErrNotHost
	}
	if n := g.players.Len(); n < g.Rules.MinPlayers {
		return &PlayerCountError{Count: n, Bound: g.Rules.MinPlayers}
	} else if n > g.Rules.MaxPlayers {
		return &PlayerCountError{Count: n, Bound: g.Rules.MaxPlayers, TooMany: true}
	}
	if !g.players.AllReady() {
		return ErrPlayersNotReady
	}

	g.draw = NewDeck()
	g.draw.Fill()
	g.draw.Shuffle(g.Rand)
	g.discard = NewDeck()

	opening := g.drawOpeningCard()
	g.currentCard = &opening
	g.currentColor = opening.Color
	g.current = 0
	g.direction = Clockwise
	g.winner = nil
	g.awaitingColor = false
	g.colorChosen = false
	g.started = true
	g.phase = PhasePlaying

	players := g.players.All()
	for _, p := range players {
		p.ClearHand()
		p.AddCards(g.draw.Draw(g.Rules.InitialCards)...)
	}
	for _, p := range players {
		card := opening
		dir := g.direction
		g.emitTo(p.ID, Event{
			Type:      EventStartGame,
			Self:      privateView(p),
			Card:      &card,
			Color:     g.currentColor,
			Direction: &dir,
			Round:     g.round,
		})
	}

	g.record(requester, "start_round", map[string]interface{}{
		"round":   g.round,
		"card":    opening.String(),
		"players": len(players),
	})
	g.Log.WithFields(logrus.Fields{"round": g.round, "players": len(players), "card": opening.String()}).Info("round started")
	return nil
}

// resync replays the private opening state of the running round to p.
func (g *Game) resync(p *models.Player) {
	card := *g.currentCard
	dir := g.direction
	g.emitTo(p.ID, Event{
		Type:      EventStartGame,
		Self:      privateView(p),
		Card:      &card,
		Color:     g.currentColor,
		Direction: &dir,
		Round:     g.round,
	})
	g.emitTo(p.ID, Event{Type: EventUpdateCardCount, Counts: g.players.CardCounts()})
	g.emitCurrentPlayer(Only(p.ID))
}

// drawOpeningCard pops cards until a numeric one turns up. Action and wild
// cards are slid under the pile so they stay in play. Assumes lock is held.
func (g *Game) drawOpeningCard() models.Card {
	for {
		c, ok := g.draw.DrawOne()
		if !ok {
			panic("game: draw pile holds no numeric card")
		}
		if c.Kind == models.KindNumeric {
			return c
		}
		g.draw.PutBack(c)
	}
}

// drawCards takes n cards from the draw pile. When the pile runs short the
// discard pile is shuffled back in. Fewer than n cards are returned only when
// both piles together cannot cover the request. Assumes lock is held.
func (g *Game) drawCards(n int) []models.Card {
	cards := g.draw.Draw(n)
	if len(cards) == n {
		return cards
	}

	recycled := g.discard.TakeAll()
	g.draw.Push(recycled...)
	g.draw.Shuffle(g.Rand)
	g.Log.WithFields(logrus.Fields{"recycled": len(recycled), "drawSize": g.draw.Len()}).Debug("reshuffled discard pile into draw pile")
	g.record(0, "reshuffle", map[string]interface{}{"newSize": g.draw.Len()})

	cards = append(cards, g.draw.Draw(n-len(cards))...)
	if len(cards) < n {
		g.Log.WithFields(logrus.Fields{"wanted": n, "got": len(cards)}).Warn("not enough cards left to draw")
	}
	return cards
}

// nextPlayer returns the seat that plays after the current one. With
// applySkip, a skip on the table (or a draw two when it skips) jumps a seat.
// It never changes state.
func (g *Game) nextPlayer(applySkip bool) int {
	step := 1
	if applySkip && g.currentCard != nil {
		switch g.currentCard.Kind {
		case models.KindSkip:
			step = 2
		case models.KindDrawTwo:
			if g.Rules.DrawTwoSkips {
				step = 2
			}
		}
	}
	return nextIndex(g.current, g.players.Len(), g.direction, step)
}

// turnOf returns the player when it is their turn in a running round.
func (g *Game) turnOf(playerID int) (*models.Player, error) {
	if g.phase != PhasePlaying {
		return nil, ErrWrongPhase
	}
	p := g.players.Find(playerID)
	if p == nil {
		return nil, ErrPlayerNotFound
	}
	if g.players.At(g.current).ID != playerID {
		return nil, ErrNotYourTurn
	}
	return p, nil
}

// PlayCard puts a card from the current player's hand on the table and
// resolves its effect. Wild cards leave the turn open until SelectColor and
// TurnEnded arrive.
func (g *Game) PlayCard(playerID int, card models.Card) error {
	p, err := g.turnOf(playerID)
	if err != nil {
		return err
	}
	if g.awaitingColor {
		return ErrColorPending
	}
	if !p.HasCard(card) {
		return ErrCardNotInHand
	}
	if g.Rules.EnforceLegality && !Playable(card, *g.currentCard, g.currentColor) {
		return ErrIllegalCard
	}

	g.discard.Push(*g.currentCard)
	played := card
	g.currentCard = &played
	p.RemoveCard(card)

	g.emitAll(Event{Type: EventSetCurrentCard, Card: &played, Player: publicView(p)})
	g.emitTo(p.ID, Event{Type: EventUpdatePlayer, Self: privateView(p)})
	g.emitCardCounts()
	g.record(p.ID, "play_card", map[string]interface{}{"card": played.String(), "remaining": len(p.Hand)})

	if len(p.Hand) == 0 {
		g.endRound(p)
		return nil
	}

	if played.Kind == models.KindDrawTwo || played.Kind == models.KindDrawFour {
		g.applyDrawPenalty(played)
	}

	if played.IsWild() {
		g.awaitingColor = true
		g.colorChosen = false
		return nil
	}

	if g.currentColor != played.Color {
		g.currentColor = played.Color
		g.emitAll(Event{Type: EventSetCurrentColor, Color: g.currentColor, Player: publicView(p)})
	}
	if played.Kind == models.KindReverse {
		g.direction = g.direction.Reverse()
		dir := g.direction
		g.emitAll(Event{Type: EventSetDirection, Direction: &dir})
	}
	g.current = g.nextPlayer(true)
	g.emitCurrentPlayer(All())
	return nil
}

// applyDrawPenalty makes the next player draw for a draw two or draw four.
func (g *Game) applyDrawPenalty(card models.Card) {
	amount := 2
	if card.Kind == models.KindDrawFour {
		amount = 4
	}

	victim := g.players.At(g.nextPlayer(false))
	cards := g.drawCards(amount)
	victim.AddCards(cards...)

	g.emitTo(victim.ID, Event{Type: EventAddCards, Cards: cards})
	g.emitCardCounts()
	g.notify(AllBut(victim.ID), models.Notification{
		Title:    "Someone has new cards",
		Message:  fmt.Sprintf("%s has %d new cards", victim.Name, len(cards)),
		Severity: models.SeverityInfo,
	})
	g.record(victim.ID, "draw_penalty", map[string]interface{}{"count": len(cards), "card": card.String()})
}

// SelectColor sets the color after a wild. The turn stays with the player.
func (g *Game) SelectColor(playerID int, color models.Color) error {
	p, err := g.turnOf(playerID)
	if err != nil {
		return err
	}
	if !g.awaitingColor {
		return ErrNoColorPending
	}
	if !color.Playable() {
		return fmt.Errorf("%w: %q cannot be chosen", models.ErrInvalidColor, color)
	}

	g.currentColor = color
	g.colorChosen = true
	g.emitAll(Event{Type: EventSetCurrentColor, Color: color, Player: publicView(p)})
	g.record(p.ID, "select_color", map[string]interface{}{"color": string(color)})
	return nil
}

// TurnEnded passes the turn on without skipping anyone.
func (g *Game) TurnEnded(playerID int) error {
	p, err := g.turnOf(playerID)
	if err != nil {
		return err
	}
	if g.awaitingColor && !g.colorChosen {
		return ErrColorPending
	}

	g.awaitingColor = false
	g.colorChosen = false
	g.current = g.nextPlayer(false)
	g.emitCurrentPlayer(All())
	g.record(p.ID, "turn_ended", nil)
	return nil
}

// PickFromDeck gives the current player one card from the draw pile.
func (g *Game) PickFromDeck(playerID int) error {
	p, err := g.turnOf(playerID)
	if err != nil {
		return err
	}
	if g.awaitingColor {
		return ErrColorPending
	}

	cards := g.drawCards(1)
	if len(cards) == 0 {
		g.notify(Only(p.ID), models.Notification{
			Title:    "Deck is empty",
			Message:  "There are no cards left to take",
			Severity: models.SeverityInfo,
		})
		return nil
	}
	p.AddCards(cards...)

	g.emitTo(p.ID, Event{Type: EventAddCards, Cards: cards})
	g.emitCardCounts()
	g.notify(AllBut(p.ID), models.Notification{
		Title:    "Card from the deck",
		Message:  fmt.Sprintf("%s took a card from the deck", p.Name),
		Severity: models.SeverityInfo,
	})
	g.record(p.ID, "pick_from_deck", nil)
	return nil
}

// penalize deals the uno penalty to p. Assumes lock is held.
func (g *Game) penalize(p *models.Player, reason string) []models.Card {
	cards := g.drawCards(g.Rules.PenaltyCards)
	p.AddCards(cards...)
	g.emitTo(p.ID, Event{Type: EventAddCards, Cards: cards, Reason: reason})
	g.emitCardCounts()
	g.record(p.ID, "uno_penalty", map[string]interface{}{"count": len(cards), "reason": reason})
	return cards
}

// SayUno records an uno call. Calling it while holding more than one card costs a penalty.
func (g *Game) SayUno(playerID int) error {
	if g.phase != PhasePlaying {
		return ErrWrongPhase
	}
	p := g.players.Find(playerID)
	if p == nil {
		return ErrPlayerNotFound
	}

	n := models.Notification{
		Title:    "UNO!",
		Message:  fmt.Sprintf("%s said UNO", p.Name),
		Severity: models.SeverityWarning,
	}
	if len(p.Hand) > 1 {
		cards := g.penalize(p, "you have more than one card")
		n.Message += fmt.Sprintf(" with more than one card and drew %d as a penalty", len(cards))
	} else {
		p.SaidUno = true
		g.record(p.ID, "say_uno", nil)
	}
	g.notify(AllBut(p.ID), n)
	return nil
}

// DidntSayUno reports a missed uno call. The first player in seat order holding
// one card without having called it draws the penalty. If nobody qualifies the
// reporter draws it instead. At most one player is penalized per report.
func (g *Game) DidntSayUno(reporterID int) error {
	if g.phase != PhasePlaying {
		return ErrWrongPhase
	}
	reporter := g.players.Find(reporterID)
	if reporter == nil {
		return ErrPlayerNotFound
	}

	for _, p := range g.players.All() {
		if len(p.Hand) != 1 || p.SaidUno {
			continue
		}
		cards := g.penalize(p, "you did not say UNO")
		g.notify(AllBut(p.ID), models.Notification{
			Title:    "Someone has new cards",
			Message:  fmt.Sprintf("%s drew %d cards for not saying UNO", p.Name, len(cards)),
			Severity: models.SeverityInfo,
		})
		return nil
	}

	cards := g.penalize(reporter, "nobody forgot to say UNO")
	g.notify(AllBut(reporter.ID), models.Notification{
		Title:    "Someone has new cards",
		Message:  fmt.Sprintf("%s drew %d cards for a false UNO report", reporter.Name, len(cards)),
		Severity: models.SeverityInfo,
	})
	return nil
}

// LogOut removes a player. The departing connection is told and closed. If a
// running game is left with one player, that player wins outright.
func (g *Game) LogOut(playerID int) error {
	p := g.players.Find(playerID)
	if p == nil {
		return ErrPlayerNotFound
	}

	inRound := g.phase == PhasePlaying
	wasCurrent := inRound && g.players.At(g.current).ID == playerID
	var next *models.Player
	if inRound && g.players.Len() > 1 {
		next = g.players.At(g.nextPlayer(false))
	}

	_, seat := g.players.Remove(playerID)
	// the hand goes to the discard pile so no card leaves the game
	if len(p.Hand) > 0 {
		g.discard.Push(p.ClearHand()...)
	}
	loggedOut := Event{Type: EventLoggedOut, Player: publicView(p)}
	g.outbox = append(g.outbox, Envelope{To: Only(playerID), Event: loggedOut, Close: true})
	g.record(playerID, "log_out", nil)
	g.Log.WithFields(logrus.Fields{"player": playerID, "remaining": g.players.Len()}).Info("player logged out")

	remaining := g.players.Len()
	switch {
	case remaining == 0:
		g.reset()
		return nil
	case !g.started || g.phase == PhaseGameEnd:
		g.emitAll(loggedOut)
		g.emitAll(Event{Type: EventPlayers, Players: g.players.Views()})
		if g.current >= remaining {
			g.current = 0
		}
		return nil
	case remaining == 1:
		g.current = 0
		g.awaitingColor = false
		g.colorChosen = false
		g.winner = g.players.At(0)
		g.phase = PhaseGameEnd
		g.emitAll(Event{Type: EventEndGame, Player: publicView(g.winner)})
		g.record(g.winner.ID, "game_end", map[string]interface{}{"reason": "last_player"})
		return nil
	}

	g.emitAll(loggedOut)
	g.emitCardCounts()
	switch {
	case wasCurrent:
		g.current = g.players.Index(next.ID)
		g.awaitingColor = false
		g.colorChosen = false
		g.emitCurrentPlayer(All())
	case seat < g.current:
		g.current--
	}
	if g.current >= remaining {
		g.current = 0
	}
	return nil
}

// Restart throws the table away and opens a fresh lobby under a new game id.
// The restart itself is the last action of the old game.
func (g *Game) Restart() {
	g.reset()
	g.emitAll(Event{Type: EventRestart})
	g.record(0, "restart", nil)

	prev := g.ID
	g.ID = uuid.New()
	g.actionIndex = 0
	g.Log = g.Log.WithField("game", g.ID)
	g.Log.WithField("previous", prev).Info("game restarted")
}

// cardTotal counts every card the game owns. Once a round has started it is always DeckSize.
func (g *Game) cardTotal() int {
	total := g.draw.Len() + g.discard.Len() + g.players.handTotal()
	if g.currentCard != nil {
		total++
	}
	return total
}
