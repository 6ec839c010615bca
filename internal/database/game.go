// internal/database/game.go
package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jason-s-yu/uno/internal/cache"
	"github.com/jason-s-yu/uno/internal/game"
	"github.com/sirupsen/logrus"
)

const (
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusAbandoned  = "abandoned"
)

// ActionGameEnd is the action type recorded when a game is won.
const ActionGameEnd = "game_end"

// RecordRound persists a scored round, and the final result when the game is over.
func RecordRound(ctx context.Context, res game.RoundResult) error {
	scores, err := json.Marshal(res.Scores)
	if err != nil {
		return fmt.Errorf("marshal scores: %w", err)
	}

	err = pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		upsertGame := `
			INSERT INTO uno_games (id, status)
			VALUES ($1, 'in_progress')
			ON CONFLICT (id) DO NOTHING
		`
		if _, e := tx.Exec(ctx, upsertGame, res.GameID); e != nil {
			return e
		}

		q := `
			INSERT INTO uno_rounds (game_id, round, winner_id, winner_name, points, scores, ended_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`
		if _, e := tx.Exec(ctx, q, res.GameID, res.Round, res.WinnerID, res.WinnerName, res.Points, scores, res.EndedAt); e != nil {
			return e
		}

		if !res.GameOver {
			return nil
		}
		finalize := `
			UPDATE uno_games
			SET status = 'completed', end_time = $2, winner_id = $3
			WHERE id = $1 AND status = 'in_progress'
		`
		_, e := tx.Exec(ctx, finalize, res.GameID, res.EndedAt, res.WinnerID)
		return e
	})
	if err != nil {
		return fmt.Errorf("tx record round: %w", err)
	}
	return nil
}

// RoundRecorder returns a game.OnRoundEndFunc that writes results in the
// background so the caller, which holds the room lock, never waits on the database.
func RoundRecorder(log *logrus.Entry) game.OnRoundEndFunc {
	return func(res game.RoundResult) {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := RecordRound(ctx, res); err != nil {
				log.WithError(err).WithFields(logrus.Fields{"game": res.GameID, "round": res.Round}).Error("failed to record round")
			}
		}()
	}
}

// InsertActions writes a batch of action records in one transaction. Records
// already stored are skipped, so a redelivered batch is harmless.
func InsertActions(ctx context.Context, records []cache.GameActionRecord) error {
	if len(records) == 0 {
		return nil
	}

	return pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, id := range gameIDs(records) {
			batch.Queue(`
				INSERT INTO uno_games (id, status)
				VALUES ($1, 'in_progress')
				ON CONFLICT (id) DO NOTHING
			`, id)
		}
		for _, rec := range records {
			payload, err := json.Marshal(rec.ActionPayload)
			if err != nil {
				return fmt.Errorf("marshal payload of action %d: %w", rec.ActionIndex, err)
			}
			batch.Queue(`
				INSERT INTO uno_actions (game_id, action_index, actor_id, action_type, action_payload, created_at)
				VALUES ($1, $2, $3, $4, $5, $6)
				ON CONFLICT (game_id, action_index) DO NOTHING
			`, rec.GameID, rec.ActionIndex, rec.ActorID, rec.ActionType, payload, time.UnixMilli(rec.Timestamp))

			if rec.ActionType == ActionGameEnd {
				batch.Queue(`
					UPDATE uno_games
					SET status = 'completed', end_time = $2, winner_id = $3
					WHERE id = $1 AND status = 'in_progress'
				`, rec.GameID, time.UnixMilli(rec.Timestamp), rec.ActorID)
			}
		}

		br := tx.SendBatch(ctx, batch)
		for i := 0; i < batch.Len(); i++ {
			if _, err := br.Exec(); err != nil {
				br.Close()
				return fmt.Errorf("batch statement %d: %w", i, err)
			}
		}
		return br.Close()
	})
}

// MarkGameAbandoned flags a game that is still in progress. It reports whether a row changed.
func MarkGameAbandoned(ctx context.Context, gameID uuid.UUID) (bool, error) {
	var changed bool
	err := pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		q := `
			UPDATE uno_games
			SET status = 'abandoned', end_time = NOW()
			WHERE id = $1 AND status = 'in_progress'
		`
		tag, e := tx.Exec(ctx, q, gameID)
		changed = tag.RowsAffected() > 0
		return e
	})
	return changed, err
}

// GameStatus returns the stored status of a game.
func GameStatus(ctx context.Context, gameID uuid.UUID) (string, error) {
	var status string
	err := DB.QueryRow(ctx, `SELECT status FROM uno_games WHERE id = $1`, gameID).Scan(&status)
	return status, err
}

// gameIDs lists the distinct games in a batch, in first-seen order.
func gameIDs(records []cache.GameActionRecord) []uuid.UUID {
	seen := make(map[uuid.UUID]bool)
	var ids []uuid.UUID
	for _, rec := range records {
		if !seen[rec.GameID] {
			seen[rec.GameID] = true
			ids = append(ids, rec.GameID)
		}
	}
	return ids
}
