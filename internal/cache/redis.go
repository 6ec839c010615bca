// internal/cache/redis.go
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/uno/internal/game"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// DefaultQueueName is the Redis list (queue) name for game action logs.
var DefaultQueueName = "uno_actions"

// PendingActions is how many actions may wait for Redis before new ones are dropped.
const PendingActions = 1024

// GameActionRecord holds the minimal info needed by the historian.
type GameActionRecord struct {
	GameID        uuid.UUID              `json:"game_id"`
	ActionIndex   int                    `json:"action_index"`
	ActorID       int                    `json:"actor_id"`
	ActionType    string                 `json:"action_type"`
	ActionPayload map[string]interface{} `json:"action_payload"`
	Timestamp     int64                  `json:"timestamp"`
}

func RecordFromAction(a game.Action) GameActionRecord {
	return GameActionRecord{
		GameID:        a.GameID,
		ActionIndex:   a.Index,
		ActorID:       a.ActorID,
		ActionType:    a.Type,
		ActionPayload: a.Payload,
		Timestamp:     a.Timestamp,
	}
}

// Pusher is the slice of the Redis client the publisher needs.
type Pusher interface {
	RPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
}

// Connect opens a Redis client and checks it answers.
func Connect(ctx context.Context, addr string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}
	return rdb, nil
}

// PublishGameAction serializes the given record to JSON, then pushes it to the Redis queue.
func PublishGameAction(ctx context.Context, rdb Pusher, queueName string, record GameActionRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal GameActionRecord: %w", err)
	}

	if err := rdb.RPush(ctx, queueName, data).Err(); err != nil {
		return fmt.Errorf("failed to RPush to Redis list '%s': %w", queueName, err)
	}
	return nil
}

// ActionPublisher is a game.Recorder that ships actions to Redis from a
// background goroutine, so the game never waits on the network.
type ActionPublisher struct {
	rdb     Pusher
	queue   string
	pending chan GameActionRecord
	log     *logrus.Entry
}

func NewActionPublisher(rdb Pusher, queueName string, log *logrus.Entry) *ActionPublisher {
	return &ActionPublisher{
		rdb:     rdb,
		queue:   queueName,
		pending: make(chan GameActionRecord, PendingActions),
		log:     log,
	}
}

// Record queues an action. When the queue is full the action is dropped.
func (p *ActionPublisher) Record(a game.Action) {
	select {
	case p.pending <- RecordFromAction(a):
	default:
		p.log.WithFields(logrus.Fields{"game": a.GameID, "index": a.Index}).Warn("action queue full, dropping action")
	}
}

// Run pushes queued actions until ctx is done, then flushes what is left.
func (p *ActionPublisher) Run(ctx context.Context) error {
	for {
		select {
		case rec := <-p.pending:
			p.publish(ctx, rec)
		case <-ctx.Done():
			p.drain()
			return nil
		}
	}
}

func (p *ActionPublisher) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	for {
		select {
		case rec := <-p.pending:
			p.publish(ctx, rec)
		default:
			return
		}
	}
}

func (p *ActionPublisher) publish(ctx context.Context, rec GameActionRecord) {
	if err := PublishGameAction(ctx, p.rdb, p.queue, rec); err != nil {
		p.log.WithError(err).WithField("index", rec.ActionIndex).Error("failed to publish action")
	}
}
