package models

// Player is a seat at the table. ID is chosen by the client and trusted for the session.
type Player struct {
	ID      int
	Name    string
	Hand    []Card
	Score   int
	SaidUno bool
	Ready   bool
}

// PlayerView is the broadcast form of a player.
type PlayerView struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Points    int    `json:"points"`
	Ready     bool   `json:"ready"`
	SaidUno   bool   `json:"saidUno"`
	CardCount int    `json:"cardCount"`
}

// PrivatePlayerView adds the hand and is only ever sent to the owner.
type PrivatePlayerView struct {
	PlayerView
	Hand []Card `json:"hand"`
}

func NewPlayer(id int, name string) *Player {
	return &Player{ID: id, Name: name, Hand: []Card{}}
}

// AddCards appends to the hand. Holding more than one card clears a previous UNO call.
func (p *Player) AddCards(cards ...Card) {
	p.Hand = append(p.Hand, cards...)
	if len(p.Hand) > 1 {
		p.SaidUno = false
	}
}

// RemoveCard drops the first card equal to c, preserving the order of the rest.
func (p *Player) RemoveCard(c Card) bool {
	for i, h := range p.Hand {
		if h.Equal(c) {
			p.Hand = append(p.Hand[:i], p.Hand[i+1:]...)
			return true
		}
	}
	return false
}

func (p *Player) HasCard(c Card) bool {
	for _, h := range p.Hand {
		if h.Equal(c) {
			return true
		}
	}
	return false
}

// HandPoints sums the scoring value of every card in hand.
func (p *Player) HandPoints() int {
	total := 0
	for _, c := range p.Hand {
		total += c.Points()
	}
	return total
}

// ClearHand empties the hand and forgets any UNO call.
func (p *Player) ClearHand() []Card {
	old := p.Hand
	p.Hand = []Card{}
	p.SaidUno = false
	return old
}

// Public is safe to broadcast.
func (p *Player) Public() PlayerView {
	return PlayerView{
		ID:        p.ID,
		Name:      p.Name,
		Points:    p.Score,
		Ready:     p.Ready,
		SaidUno:   p.SaidUno,
		CardCount: len(p.Hand),
	}
}

func (p *Player) Private() PrivatePlayerView {
	hand := make([]Card, len(p.Hand))
	copy(hand, p.Hand)
	return PrivatePlayerView{PlayerView: p.Public(), Hand: hand}
}
