package game

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextIndex(t *testing.T) {
	scenarios := []struct {
		description string
		current     int
		count       int
		dir         Direction
		step        int
		expected    int
	}{
		{"clockwise_step", 0, 4, Clockwise, 1, 1},
		{"clockwise_wraps", 3, 4, Clockwise, 1, 0},
		{"counter_clockwise_wraps", 0, 4, CounterClockwise, 1, 3},
		{"skip_clockwise_wraps", 3, 4, Clockwise, 2, 1},
		{"skip_counter_clockwise_wraps", 1, 4, CounterClockwise, 2, 3},
		{"skip_with_two_players_returns_to_self", 0, 2, Clockwise, 2, 0},
		{"skip_with_two_players_counter_clockwise", 1, 2, CounterClockwise, 2, 1},
		{"single_player", 0, 1, Clockwise, 1, 0},
	}

	for _, scenario := range scenarios {
		t.Run(scenario.description, func(t *testing.T) {
			assert.Equal(t, scenario.expected, nextIndex(scenario.current, scenario.count, scenario.dir, scenario.step))
		})
	}
}

func TestNextIndexPanicsWithoutPlayers(t *testing.T) {
	assert.Panics(t, func() { nextIndex(0, 0, Clockwise, 1) })
}

func TestNextPlayerFullCircle(t *testing.T) {
	for n := 2; n <= 4; n++ {
		for _, dir := range []Direction{Clockwise, CounterClockwise} {
			g := startedGame(t, n)
			g.direction = dir
			start := g.current
			for i := 0; i < n; i++ {
				g.current = g.nextPlayer(false)
				if i < n-1 {
					assert.NotEqual(t, start, g.current)
				}
			}
			assert.Equal(t, start, g.current, "players=%d direction=%d", n, dir)
		}
	}
}

func TestDirectionJSON(t *testing.T) {
	data, err := json.Marshal(Clockwise)
	require.NoError(t, err)
	assert.Equal(t, "true", string(data))

	data, err = json.Marshal(CounterClockwise)
	require.NoError(t, err)
	assert.Equal(t, "false", string(data))

	assert.Equal(t, CounterClockwise, Clockwise.Reverse())
	assert.Equal(t, Clockwise, CounterClockwise.Reverse())
}
