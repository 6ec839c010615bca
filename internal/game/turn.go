package game

import "encoding/json"

// Direction is the step applied to the seat index each turn.
type Direction int

const (
	Clockwise        Direction = 1
	CounterClockwise Direction = -1
)

func (d Direction) Reverse() Direction {
	if d == CounterClockwise {
		return Clockwise
	}
	return CounterClockwise
}

func (d Direction) Clockwise() bool {
	return d != CounterClockwise
}

// MarshalJSON sends the direction as a bool, true meaning clockwise.
func (d Direction) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Clockwise())
}

// nextIndex walks step seats from current in direction dir, wrapping around count seats.
func nextIndex(current, count int, dir Direction, step int) int {
	if count <= 0 {
		panic("game: nextIndex called with no players")
	}
	next := (current + int(dir)*step) % count
	if next < 0 {
		next += count
	}
	return next
}
