package game

import "github.com/jason-s-yu/uno/internal/models"

// Roster keeps players in seating order, which is also turn order.
type Roster struct {
	players []*models.Player
}

func NewRoster() *Roster {
	return &Roster{players: []*models.Player{}}
}

func (r *Roster) Add(p *models.Player) {
	r.players = append(r.players, p)
}

// Find returns nil when no player has the id.
func (r *Roster) Find(id int) *models.Player {
	if i := r.Index(id); i >= 0 {
		return r.players[i]
	}
	return nil
}

func (r *Roster) Index(id int) int {
	for i, p := range r.players {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// Remove deletes the player and reports the seat it occupied, or -1.
func (r *Roster) Remove(id int) (*models.Player, int) {
	i := r.Index(id)
	if i < 0 {
		return nil, -1
	}
	p := r.players[i]
	r.players = append(r.players[:i], r.players[i+1:]...)
	return p, i
}

func (r *Roster) At(i int) *models.Player {
	return r.players[i]
}

func (r *Roster) Len() int {
	return len(r.players)
}

// All returns the players in seat order. The slice is a copy; the players are not.
func (r *Roster) All() []*models.Player {
	out := make([]*models.Player, len(r.players))
	copy(out, r.players)
	return out
}

func (r *Roster) ResetReadiness() {
	for _, p := range r.players {
		p.Ready = false
	}
}

func (r *Roster) AllReady() bool {
	for _, p := range r.players {
		if !p.Ready {
			return false
		}
	}
	return true
}

// CardCounts maps player id to hand size.
func (r *Roster) CardCounts() map[int]int {
	counts := make(map[int]int, len(r.players))
	for _, p := range r.players {
		counts[p.ID] = len(p.Hand)
	}
	return counts
}

func (r *Roster) Views() []models.PlayerView {
	views := make([]models.PlayerView, 0, len(r.players))
	for _, p := range r.players {
		views = append(views, p.Public())
	}
	return views
}

func (r *Roster) handTotal() int {
	total := 0
	for _, p := range r.players {
		total += len(p.Hand)
	}
	return total
}
