// internal/database/schema.go
package database

import (
	"context"
	"fmt"
)

const schema = `
CREATE TABLE IF NOT EXISTS uno_games (
	id          UUID PRIMARY KEY,
	status      TEXT NOT NULL DEFAULT 'in_progress',
	start_time  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	end_time    TIMESTAMPTZ,
	winner_id   INTEGER
);

CREATE TABLE IF NOT EXISTS uno_rounds (
	game_id     UUID NOT NULL REFERENCES uno_games(id) ON DELETE CASCADE,
	round       INTEGER NOT NULL,
	winner_id   INTEGER NOT NULL,
	winner_name TEXT NOT NULL,
	points      INTEGER NOT NULL,
	scores      JSONB NOT NULL,
	ended_at    TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (game_id, round, ended_at)
);

CREATE TABLE IF NOT EXISTS uno_actions (
	game_id        UUID NOT NULL REFERENCES uno_games(id) ON DELETE CASCADE,
	action_index   INTEGER NOT NULL,
	actor_id       INTEGER NOT NULL,
	action_type    TEXT NOT NULL,
	action_payload JSONB NOT NULL,
	created_at     TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (game_id, action_index)
);
`

// Migrate creates the tables the server and historian write to.
func Migrate(ctx context.Context) error {
	if _, err := DB.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
